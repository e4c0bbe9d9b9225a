package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	jwttoken "moodlog/internal/jwt_token"
	"moodlog/internal/platform/config"
	"moodlog/internal/platform/httpserver"
	"moodlog/internal/platform/metrics"
	httptransport "moodlog/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// serve runs the HTTP server and the notification dispatcher until ctx is
// cancelled or one of them fails.
func serve(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := build(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer a.close()

	jwts := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	router := httptransport.NewRouter(httptransport.Config{
		Logger:         logger,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		Validator:      jwttoken.NewAdapter(jwts),
		Location:       cfg.Location(),
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks:   a.healthChecks,
		Handlers:       a.handlers,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.dispatcher.Run(gctx)
	})
	g.Go(func() error {
		logger.InfoContext(gctx, "starting moodlog", "addr", cfg.Addr, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
