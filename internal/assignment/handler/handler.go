package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/assignment/models"
	"moodlog/internal/assignment/service"
	"moodlog/internal/platform/middleware"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, supervisor id.SupervisorID, in service.CreateInput) ([]*models.Assignment, error)
	Deactivate(ctx context.Context, supervisor id.SupervisorID, assignmentID id.AssignmentID) (*models.Assignment, error)
	Get(ctx context.Context, caller id.UserID, assignmentID id.AssignmentID) (*service.View, error)
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, subjectID id.SubjectID, activeOnly bool) ([]service.View, error)
	ListBySubject(ctx context.Context, subjectID id.SubjectID, activeOnly bool) ([]service.View, error)
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
		r.Get("/assignments", h.HandleListForSupervisor)
		r.Post("/assignments", h.HandleCreate)
		r.Post("/assignments/{id}/deactivate", h.HandleDeactivate)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(id.RoleSubject, h.logger))
		r.Get("/me/assignments", h.HandleListForSubject)
	})
	r.Get("/assignments/{id}", h.HandleGet)
}

// HandleCreate handles POST /assignments.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateAssignmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rows, err := h.service.Create(ctx, supervisor, req.Input())
	if err != nil {
		h.writeServiceError(ctx, w, "assignment create failed", err)
		return
	}
	resp := AssignmentListResponse{Assignments: make([]AssignmentResponse, 0, len(rows))}
	for _, a := range rows {
		resp.Assignments = append(resp.Assignments, FromAssignment(a, nil))
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// HandleDeactivate handles POST /assignments/{id}/deactivate.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}
	assignmentID, err := id.ParseAssignmentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.service.Deactivate(ctx, supervisor, assignmentID)
	if err != nil {
		h.writeServiceError(ctx, w, "assignment deactivate failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAssignment(a, nil))
}

// HandleGet handles GET /assignments/{id} for the supervisor and the subject.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assignmentID, err := id.ParseAssignmentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Get(ctx, requestcontext.UserID(ctx), assignmentID)
	if err != nil {
		h.writeServiceError(ctx, w, "assignment get failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromView(*view))
}

// HandleListForSupervisor handles GET /assignments?subject_id=&active=.
func (h *Handler) HandleListForSupervisor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}

	var subjectID id.SubjectID
	if raw := r.URL.Query().Get("subject_id"); raw != "" {
		parsed, err := id.ParseSubjectID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		subjectID = parsed
	}
	activeOnly, err := activeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	views, err := h.service.ListBySupervisor(ctx, supervisor, subjectID, activeOnly)
	if err != nil {
		h.writeServiceError(ctx, w, "assignment list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromViews(views))
}

// HandleListForSubject handles GET /me/assignments.
func (h *Handler) HandleListForSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := requestcontext.Subject(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}
	activeOnly, err := activeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	views, err := h.service.ListBySubject(ctx, subjectID, activeOnly)
	if err != nil {
		h.writeServiceError(ctx, w, "assignment list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromViews(views))
}

// activeParam reads ?active=, defaulting to active assignments only.
func activeParam(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("active")
	if raw == "" {
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.New(dErrors.CodeBadRequest, "active must be a boolean")
	}
	return v, nil
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
