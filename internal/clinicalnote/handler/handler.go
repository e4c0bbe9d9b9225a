package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/clinicalnote/models"
	"moodlog/internal/platform/middleware"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, supervisor id.SupervisorID, entryID id.EntryID, text string) (*models.Note, error)
	Update(ctx context.Context, supervisor id.SupervisorID, noteID id.NoteID, text string) (*models.Note, error)
	Delete(ctx context.Context, supervisor id.SupervisorID, noteID id.NoteID) error
	ListForEntry(ctx context.Context, supervisor id.SupervisorID, entryID id.EntryID) ([]*models.Note, error)
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
		r.Get("/entries/{id}/notes", h.HandleList)
		r.Post("/entries/{id}/notes", h.HandleCreate)
		r.Put("/notes/{id}", h.HandleUpdate)
		r.Delete("/notes/{id}", h.HandleDelete)
	})
}

// HandleCreate handles POST /entries/{id}/notes.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, entryID, ok := h.entryScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[NoteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	n, err := h.service.Create(ctx, supervisor, entryID, req.Text)
	if err != nil {
		h.writeServiceError(ctx, w, "clinical note create failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromNote(n))
}

// HandleList handles GET /entries/{id}/notes.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, entryID, ok := h.entryScope(w, r)
	if !ok {
		return
	}

	notes, err := h.service.ListForEntry(ctx, supervisor, entryID)
	if err != nil {
		h.writeServiceError(ctx, w, "clinical note list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromNotes(notes))
}

// HandleUpdate handles PUT /notes/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, noteID, ok := h.noteScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[NoteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	n, err := h.service.Update(ctx, supervisor, noteID, req.Text)
	if err != nil {
		h.writeServiceError(ctx, w, "clinical note update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromNote(n))
}

// HandleDelete handles DELETE /notes/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, noteID, ok := h.noteScope(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, supervisor, noteID); err != nil {
		h.writeServiceError(ctx, w, "clinical note delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) entryScope(w http.ResponseWriter, r *http.Request) (id.SupervisorID, id.EntryID, bool) {
	supervisor, ok := requestcontext.Supervisor(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return id.SupervisorID{}, id.EntryID{}, false
	}
	entryID, err := id.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SupervisorID{}, id.EntryID{}, false
	}
	return supervisor, entryID, true
}

func (h *Handler) noteScope(w http.ResponseWriter, r *http.Request) (id.SupervisorID, id.NoteID, bool) {
	supervisor, ok := requestcontext.Supervisor(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return id.SupervisorID{}, id.NoteID{}, false
	}
	noteID, err := id.ParseNoteID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SupervisorID{}, id.NoteID{}, false
	}
	return supervisor, noteID, true
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
