package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	adhcache "moodlog/internal/adherence/cache"
	adhhandler "moodlog/internal/adherence/handler"
	adhmetrics "moodlog/internal/adherence/metrics"
	adhservice "moodlog/internal/adherence/service"
	asghandler "moodlog/internal/assignment/handler"
	asgmetrics "moodlog/internal/assignment/metrics"
	asgservice "moodlog/internal/assignment/service"
	asgstore "moodlog/internal/assignment/store"
	cnhandler "moodlog/internal/clinicalnote/handler"
	cnmetrics "moodlog/internal/clinicalnote/metrics"
	cnservice "moodlog/internal/clinicalnote/service"
	cnstore "moodlog/internal/clinicalnote/store"
	enthandler "moodlog/internal/entry/handler"
	entmetrics "moodlog/internal/entry/metrics"
	entservice "moodlog/internal/entry/service"
	entstore "moodlog/internal/entry/store"
	invhandler "moodlog/internal/invitation/handler"
	invmetrics "moodlog/internal/invitation/metrics"
	invservice "moodlog/internal/invitation/service"
	invstore "moodlog/internal/invitation/store"
	"moodlog/internal/notification"
	"moodlog/internal/platform/config"
	"moodlog/internal/platform/postgres"
	"moodlog/internal/platform/redis"
	reghandler "moodlog/internal/register/handler"
	regmetrics "moodlog/internal/register/metrics"
	regservice "moodlog/internal/register/service"
	regstore "moodlog/internal/register/store"
	"moodlog/internal/register/templates"
	subhandler "moodlog/internal/subject/handler"
	subservice "moodlog/internal/subject/service"
	substore "moodlog/internal/subject/store"
	httptransport "moodlog/internal/transport/http"
	"moodlog/pkg/platform/tx"
)

// assignmentStore is the assignment table as seen by every domain that reads it.
type assignmentStore interface {
	asgservice.Store
	regservice.ActiveAssignmentCounter
	adhservice.Assignments
}

// entryStore is the entry table as seen by every domain that reads it.
type entryStore interface {
	entservice.Store
	asgservice.EntryDates
	adhservice.Entries
	cnservice.Entries
}

type reportCache interface {
	adhservice.Cache
	entservice.ReportInvalidator
}

type stores struct {
	registers   regservice.Store
	assignments assignmentStore
	entries     entryStore
	subjects    subservice.Store
	invitations invservice.Store
	notes       cnservice.Store
	tx          tx.Runner
}

func memoryStores() stores {
	return stores{
		registers:   regstore.NewInMemory(),
		assignments: asgstore.NewInMemory(),
		entries:     entstore.NewInMemory(),
		subjects:    substore.NewInMemory(),
		invitations: invstore.NewInMemory(),
		notes:       cnstore.NewInMemory(),
		tx:          tx.NewInMemory(),
	}
}

func postgresStores(db *sql.DB) stores {
	return stores{
		registers:   regstore.NewPostgres(db),
		assignments: asgstore.NewPostgres(db),
		entries:     entstore.NewPostgres(db),
		subjects:    substore.NewPostgres(db),
		invitations: invstore.NewPostgres(db),
		notes:       cnstore.NewPostgres(db),
		tx:          tx.NewPostgres(db),
	}
}

// app is everything serve needs after wiring.
type app struct {
	handlers     []httptransport.Registrar
	healthChecks map[string]httptransport.HealthCheck
	dispatcher   *notification.Dispatcher
	closers      []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build connects the backing services named in cfg and wires the domains.
// Without a database URL every store is in-memory; without Redis the report
// cache is in-process; without brokers notifications go to the log.
func build(ctx context.Context, cfg config.Server, logger *slog.Logger, reg prometheus.Registerer) (_ *app, err error) {
	a := &app{healthChecks: map[string]httptransport.HealthCheck{}}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	st := memoryStores()
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL, postgres.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}
		a.healthChecks["postgres"] = db.PingContext
		st = postgresStores(db)
		logger.InfoContext(ctx, "using postgres persistence")
	} else {
		logger.WarnContext(ctx, "MOODLOG_DATABASE_URL not set, using in-memory stores")
	}

	var cache reportCache = adhcache.NewInMemory(cfg.Adherence.CacheTTL)
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		a.healthChecks["redis"] = redisClient.Health
		cache = adhcache.NewRedis(redisClient.Client, cfg.Adherence.CacheTTL)
		logger.InfoContext(ctx, "using redis report cache")
	}

	var sink notification.Sink = notification.NewLogSink(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := notification.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, kafkaSink.Close)
		sink = kafkaSink
		logger.InfoContext(ctx, "publishing notifications to kafka", "topic", cfg.Kafka.Topic)
	}
	a.dispatcher = notification.NewDispatcher(sink,
		notification.WithLogger(logger),
		notification.WithMetrics(notification.NewMetrics(reg)),
	)

	catalog, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load template catalog: %w", err)
	}

	subjects, err := subservice.New(st.subjects, subservice.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	registers, err := regservice.New(st.registers, st.assignments, catalog,
		regservice.WithLogger(logger),
		regservice.WithMetrics(regmetrics.New(reg)),
		regservice.WithTx(st.tx),
	)
	if err != nil {
		return nil, err
	}
	assignments, err := asgservice.New(st.assignments, registers, subjects, st.entries,
		asgservice.WithLogger(logger),
		asgservice.WithMetrics(asgmetrics.New(reg)),
		asgservice.WithTx(st.tx),
	)
	if err != nil {
		return nil, err
	}
	entries, err := entservice.New(st.entries, assignments, subjects,
		entservice.WithLogger(logger),
		entservice.WithMetrics(entmetrics.New(reg)),
		entservice.WithPublisher(a.dispatcher),
		entservice.WithReportInvalidator(cache),
	)
	if err != nil {
		return nil, err
	}
	adherence, err := adhservice.New(st.entries, st.assignments, st.registers, subjects,
		adhservice.WithLogger(logger),
		adhservice.WithMetrics(adhmetrics.New(reg)),
		adhservice.WithCache(cache),
		adhservice.WithWindowDays(cfg.Adherence.WindowDays),
	)
	if err != nil {
		return nil, err
	}
	notes, err := cnservice.New(st.notes, st.entries,
		cnservice.WithLogger(logger),
		cnservice.WithMetrics(cnmetrics.New(reg)),
	)
	if err != nil {
		return nil, err
	}
	invitations, err := invservice.New(st.invitations, subjects,
		invservice.WithLogger(logger),
		invservice.WithMetrics(invmetrics.New(reg)),
		invservice.WithTx(st.tx),
		invservice.WithTTL(cfg.Invitation.TTL),
		invservice.WithPublisher(a.dispatcher),
	)
	if err != nil {
		return nil, err
	}

	a.handlers = []httptransport.Registrar{
		reghandler.New(registers, logger),
		asghandler.New(assignments, logger),
		enthandler.New(entries, logger),
		cnhandler.New(notes, logger),
		adhhandler.New(adherence, logger),
		invhandler.New(invitations, logger),
		subhandler.New(subjects, logger),
	}
	return a, nil
}
