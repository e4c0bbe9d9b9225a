package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/platform/middleware"
	"moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, supervisor id.SupervisorID) ([]*models.Subject, error)
}

// Handler exposes the supervisor's roster.
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
		r.Get("/subjects", h.HandleList)
	})
}

type SubjectResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SubjectListResponse struct {
	Subjects []SubjectResponse `json:"subjects"`
}

// HandleList handles GET /subjects.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}
	subs, err := h.service.List(ctx, supervisor)
	if err != nil {
		h.logger.ErrorContext(ctx, "roster list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := SubjectListResponse{Subjects: make([]SubjectResponse, 0, len(subs))}
	for _, sub := range subs {
		resp.Subjects = append(resp.Subjects, SubjectResponse{ID: sub.ID.String(), Email: sub.Email, CreatedAt: sub.CreatedAt})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
