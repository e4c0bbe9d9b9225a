package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "moodlog/internal/jwt_token"
	"moodlog/internal/platform/metrics"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
	"moodlog/pkg/testutil"
)

// whoami echoes the identity and calendar the middleware chain attached.
type whoami struct{}

func (whoami) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"user_id":    requestcontext.UserID(ctx).String(),
			"role":       string(requestcontext.Role(ctx)),
			"today":      requestcontext.Today(ctx).String(),
			"request_id": requestcontext.RequestID(ctx),
		})
	})
}

func newTestRouter(t *testing.T, checks map[string]HealthCheck) (http.Handler, *jwttoken.JWTService) {
	t.Helper()
	jwts := jwttoken.NewJWTService("test-key", "moodlog-identity", "moodlog")
	reg := prometheus.NewRegistry()
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	return NewRouter(Config{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
		Validator:    jwttoken.NewAdapter(jwts),
		Location:     loc,
		HealthChecks: checks,
		Handlers:     []Registrar{whoami{}},
	}), jwts
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router, _ := newTestRouter(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("degraded", func(t *testing.T) {
		router, _ := newTestRouter(t, map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	assert.Contains(t, rr.Body.String(), "moodlog_http_requests_total")
}

func TestAuthenticatedRoutes(t *testing.T) {
	router, jwts := newTestRouter(t, nil)

	t.Run("missing token", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/whoami"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("token from another issuer", func(t *testing.T) {
		other := jwttoken.NewJWTService("test-key", "someone-else", "moodlog")
		token, err := other.GenerateAccessToken(uuid.New(), id.RoleSupervisor, time.Hour)
		require.NoError(t, err)
		req := testutil.NewRequest(t, http.MethodGet, "/whoami")
		req.Header.Set("Authorization", "Bearer "+token)
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusUnauthorized)
	})

	t.Run("valid token carries identity and calendar", func(t *testing.T) {
		user := uuid.New()
		token, err := jwts.GenerateAccessToken(user, id.RoleSubject, time.Hour)
		require.NoError(t, err)
		req := testutil.NewRequest(t, http.MethodGet, "/whoami")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Request-ID", "req-42")

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "user_id", user.String())
		testutil.AssertJSONContains(t, rr, "role", string(id.RoleSubject))
		testutil.AssertJSONContains(t, rr, "request_id", "req-42")

		loc, _ := time.LoadLocation("Asia/Singapore")
		testutil.AssertJSONContains(t, rr, "today", id.DateOf(time.Now().In(loc)).String())
	})
}
