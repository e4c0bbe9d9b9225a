package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/entry/models"
	"moodlog/internal/entry/service"
	"moodlog/internal/platform/middleware"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, subjectID id.SubjectID, in service.SubmitInput) (*models.Entry, error)
	Update(ctx context.Context, subjectID id.SubjectID, entryID id.EntryID, in service.RevisionInput) (*models.Entry, error)
	Delete(ctx context.Context, subjectID id.SubjectID, entryID id.EntryID) error
	Get(ctx context.Context, caller id.UserID, entryID id.EntryID) (*models.Entry, error)
	ListBySubject(ctx context.Context, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error)
	ListForSupervisor(ctx context.Context, supervisor id.SupervisorID, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error)
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
		r.Use(middleware.RequireRole(id.RoleSubject, h.logger))
		r.Post("/entries", h.HandleSubmit)
		r.Put("/entries/{id}", h.HandleUpdate)
		r.Delete("/entries/{id}", h.HandleDelete)
		r.Get("/me/entries", h.HandleListOwn)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(id.RoleSupervisor, h.logger))
		r.Get("/subjects/{id}/entries", h.HandleListForSubject)
	})
	r.Get("/entries/{id}", h.HandleGet)
}

// HandleSubmit handles POST /entries.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := requestcontext.Subject(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	e, err := h.service.Submit(ctx, subjectID, req.Input())
	if err != nil {
		h.writeServiceError(ctx, w, "entry submit failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromEntry(e))
}

// HandleUpdate handles PUT /entries/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := requestcontext.Subject(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}
	entryID, err := id.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	e, err := h.service.Update(ctx, subjectID, entryID, req.Input())
	if err != nil {
		h.writeServiceError(ctx, w, "entry update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntry(e))
}

// HandleDelete handles DELETE /entries/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := requestcontext.Subject(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}
	entryID, err := id.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, subjectID, entryID); err != nil {
		h.writeServiceError(ctx, w, "entry delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /entries/{id} for the subject and their supervisor.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID, err := id.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.service.Get(ctx, requestcontext.UserID(ctx), entryID)
	if err != nil {
		h.writeServiceError(ctx, w, "entry get failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntry(e))
}

// HandleListOwn handles GET /me/entries?assignment_id=&from=&to=.
func (h *Handler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := requestcontext.Subject(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.ListBySubject(ctx, subjectID, filter)
	if err != nil {
		h.writeServiceError(ctx, w, "entry list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntries(entries))
}

// HandleListForSubject handles GET /subjects/{id}/entries.
func (h *Handler) HandleListForSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.ListForSupervisor(ctx, supervisor, subjectID, filter)
	if err != nil {
		h.writeServiceError(ctx, w, "subject entry list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntries(entries))
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
