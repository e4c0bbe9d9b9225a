package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/adherence"
	"moodlog/internal/adherence/service"
	"moodlog/internal/platform/middleware"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

type Service interface {
	Report(ctx context.Context, caller id.UserID, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, error)
	FieldTrend(ctx context.Context, caller id.UserID, subjectID id.SubjectID, assignmentID id.AssignmentID, fieldID string) (*service.FieldTrend, error)
	Overview(ctx context.Context, supervisor id.SupervisorID, asOf id.Date) (*adherence.Overview, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(id.RoleSupervisor, h.logger))
		r.Get("/subjects/{id}/adherence", h.HandleSubjectReport)
		r.Get("/subjects/{id}/trend", h.HandleSubjectTrend)
		r.Get("/adherence/overview", h.HandleOverview)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(id.RoleSubject, h.logger))
		r.Get("/me/adherence", h.HandleOwnReport)
	})
}

// HandleSubjectReport handles GET /subjects/{id}/adherence?as_of=&window=.
func (h *Handler) HandleSubjectReport(w http.ResponseWriter, r *http.Request) {
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.report(w, r, subjectID)
}

// HandleOwnReport handles GET /me/adherence?as_of=&window=.
func (h *Handler) HandleOwnReport(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := requestcontext.Subject(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}
	h.report(w, r, subjectID)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request, subjectID id.SubjectID) {
	ctx := r.Context()
	asOf, window, err := reportParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.Report(ctx, requestcontext.UserID(ctx), subjectID, asOf, window)
	if err != nil {
		h.writeServiceError(ctx, w, "adherence report failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleSubjectTrend handles GET /subjects/{id}/trend?assignment_id=&field_id=.
func (h *Handler) HandleSubjectTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	assignmentID, err := id.ParseAssignmentID(r.URL.Query().Get("assignment_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fieldID := strings.TrimSpace(r.URL.Query().Get("field_id"))
	if fieldID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "field_id is required"))
		return
	}

	trend, err := h.service.FieldTrend(ctx, requestcontext.UserID(ctx), subjectID, assignmentID, fieldID)
	if err != nil {
		h.writeServiceError(ctx, w, "field trend failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, trend)
}

// HandleOverview handles GET /adherence/overview?as_of=.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}
	asOf, _, err := reportParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	overview, err := h.service.Overview(ctx, supervisor, asOf)
	if err != nil {
		h.writeServiceError(ctx, w, "adherence overview failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}

func reportParams(r *http.Request) (id.Date, int, error) {
	q := r.URL.Query()
	var asOf id.Date
	if raw := q.Get("as_of"); raw != "" {
		parsed, err := id.ParseDate(raw)
		if err != nil {
			return id.Date{}, 0, err
		}
		asOf = parsed
	}
	window := 0
	if raw := q.Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return id.Date{}, 0, dErrors.New(dErrors.CodeBadRequest, "window must be a positive number of days")
		}
		window = n
	}
	return asOf, window, nil
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
