package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"moodlog/internal/invitation/models"
	"moodlog/internal/platform/middleware"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/httputil"
	"moodlog/pkg/requestcontext"
)

type Service interface {
	Issue(ctx context.Context, supervisor id.SupervisorID, email string) (*models.Invitation, error)
	Redeem(ctx context.Context, subjectID id.SubjectID, code, email string) (*models.Invitation, error)
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID) ([]*models.Invitation, error)
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
		r.Get("/invitations", h.HandleList)
		r.Post("/invitations", h.HandleIssue)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(id.RoleSubject, h.logger))
		r.Post("/invitations/redeem", h.HandleRedeem)
	})
}

// HandleIssue handles POST /invitations.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[IssueInvitationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inv, err := h.service.Issue(ctx, supervisor, req.Email)
	if err != nil {
		h.writeServiceError(ctx, w, "invitation issue failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromInvitation(inv, requestcontext.Now(ctx)))
}

// HandleList handles GET /invitations.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supervisor, ok := requestcontext.Supervisor(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "supervisor authentication required"))
		return
	}

	invs, err := h.service.ListBySupervisor(ctx, supervisor)
	if err != nil {
		h.writeServiceError(ctx, w, "invitation list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvitations(invs, requestcontext.Now(ctx)))
}

// HandleRedeem handles POST /invitations/redeem.
func (h *Handler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := requestcontext.Subject(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "subject authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RedeemInvitationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inv, err := h.service.Redeem(ctx, subjectID, req.Code, req.Email)
	if err != nil {
		h.writeServiceError(ctx, w, "invitation redeem failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RedeemResponse{
		InvitationID: inv.ID.String(),
		SupervisorID: inv.SupervisorID.String(),
		SubjectID:    inv.SubjectID.String(),
	})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeExhausted) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
