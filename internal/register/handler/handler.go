package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/platform/middleware"
	"moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	"moodlog/internal/register/templates"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

// Service defines the register operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, owner id.SupervisorID, name, description string, candidate schema.Schema) (*models.Definition, error)
	ReplaceSchema(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID, candidate schema.Schema) (*models.Definition, error)
	Retire(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID) (*models.Definition, error)
	Get(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID) (*models.Definition, error)
	List(ctx context.Context, owner id.SupervisorID, includeRetired bool) ([]*models.Definition, error)
	ListTemplates() []templates.Template
	CopyTemplate(ctx context.Context, owner id.SupervisorID, templateID string) (*models.Definition, error)
}

// Handler wires register and template endpoints to the register service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the supervisor-only register routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(id.RoleSupervisor, h.logger))
		r.Get("/registers", h.HandleList)
		r.Post("/registers", h.HandleCreate)
		r.Get("/registers/{id}", h.HandleGet)
		r.Put("/registers/{id}/schema", h.HandleReplaceSchema)
		r.Delete("/registers/{id}", h.HandleRetire)
		r.Get("/templates", h.HandleListTemplates)
		r.Post("/templates/{id}/copy", h.HandleCopyTemplate)
	})
}

// HandleCreate handles POST /registers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	owner, ok := h.requireSupervisor(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateRegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.service.Create(ctx, owner, req.Name, req.Description, req.Schema())
	if err != nil {
		h.writeServiceError(ctx, w, "register create failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromDefinition(d))
}

// HandleList handles GET /registers. Pass include_retired=true to see retired registers.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireSupervisor(w, r)
	if !ok {
		return
	}

	includeRetired := false
	if raw := r.URL.Query().Get("include_retired"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "include_retired must be a boolean"))
			return
		}
		includeRetired = parsed
	}

	defs, err := h.service.List(ctx, owner, includeRetired)
	if err != nil {
		h.writeServiceError(ctx, w, "register list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDefinitions(defs))
}

// HandleGet handles GET /registers/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireSupervisor(w, r)
	if !ok {
		return
	}
	defID, err := id.ParseDefinitionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	d, err := h.service.Get(ctx, owner, defID)
	if err != nil {
		h.writeServiceError(ctx, w, "register get failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDefinition(d))
}

// HandleReplaceSchema handles PUT /registers/{id}/schema.
func (h *Handler) HandleReplaceSchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	owner, ok := h.requireSupervisor(w, r)
	if !ok {
		return
	}
	defID, err := id.ParseDefinitionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ReplaceSchemaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.service.ReplaceSchema(ctx, owner, defID, req.Schema())
	if err != nil {
		h.writeServiceError(ctx, w, "register schema replace failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDefinition(d))
}

// HandleRetire handles DELETE /registers/{id}.
func (h *Handler) HandleRetire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireSupervisor(w, r)
	if !ok {
		return
	}
	defID, err := id.ParseDefinitionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	d, err := h.service.Retire(ctx, owner, defID)
	if err != nil {
		h.writeServiceError(ctx, w, "register retire failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDefinition(d))
}

// HandleListTemplates handles GET /templates.
func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireSupervisor(w, r); !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTemplates(h.service.ListTemplates()))
}

// HandleCopyTemplate handles POST /templates/{id}/copy.
func (h *Handler) HandleCopyTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireSupervisor(w, r)
	if !ok {
		return
	}

	d, err := h.service.CopyTemplate(ctx, owner, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(ctx, w, "template copy failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromDefinition(d))
}

func (h *Handler) requireSupervisor(w http.ResponseWriter, r *http.Request) (id.SupervisorID, bool) {
	owner, ok := requestcontext.Supervisor(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return id.SupervisorID{}, false
	}
	return owner, true
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
