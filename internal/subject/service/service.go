package service

import (
	"context"
	"errors"
	"log/slog"

	"moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	strutil "moodlog/pkg/platform/strings"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

// Store persists the supervisor roster.
type Store interface {
	Create(ctx context.Context, sub *models.Subject) error
	FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error)
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID) ([]*models.Subject, error)
	CountOnRoster(ctx context.Context, supervisor id.SupervisorID, subjectIDs []id.SubjectID) (int, error)
}

// Service answers roster questions for the other domains.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("subject store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enroll adds a subject to a supervisor's roster. It joins the caller's transaction.
func (s *Service) Enroll(ctx context.Context, sub *models.Subject) error {
	if err := s.store.Create(ctx, sub); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "subject is already on a roster")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to enroll subject")
	}
	s.logger.InfoContext(ctx, "subject enrolled",
		"request_id", requestcontext.RequestID(ctx),
		"subject_id", sub.ID,
		"supervisor_id", sub.SupervisorID,
	)
	return nil
}

// RequireOnRoster fails with Forbidden unless every subject belongs to supervisor.
func (s *Service) RequireOnRoster(ctx context.Context, supervisor id.SupervisorID, subjectIDs []id.SubjectID) error {
	unique := strutil.Dedupe(subjectIDs)
	n, err := s.store.CountOnRoster(ctx, supervisor, unique)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check roster")
	}
	if n != len(unique) {
		return dErrors.New(dErrors.CodeForbidden, "subject is not on the supervisor's roster").
			WithReason(dErrors.ReasonNotOwner)
	}
	return nil
}

// SupervisorOf returns the supervisor whose roster holds subjectID.
func (s *Service) SupervisorOf(ctx context.Context, subjectID id.SubjectID) (id.SupervisorID, error) {
	sub, err := s.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.SupervisorID{}, dErrors.New(dErrors.CodeNotFound, "subject not found")
		}
		return id.SupervisorID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
	}
	return sub.SupervisorID, nil
}

// CanView allows the subject themselves and the subject's supervisor.
func (s *Service) CanView(ctx context.Context, caller id.UserID, subjectID id.SubjectID) error {
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if id.UserID(subjectID) == caller {
		return nil
	}
	sub, err := s.store.FindByID(ctx, subjectID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
	}
	if sub == nil || !sub.IsSupervisedBy(id.SupervisorID(caller)) {
		return dErrors.New(dErrors.CodeForbidden, "not permitted to view this subject").
			WithReason(dErrors.ReasonNotOwner)
	}
	return nil
}

// List returns the supervisor's roster in enrollment order.
func (s *Service) List(ctx context.Context, supervisor id.SupervisorID) ([]*models.Subject, error) {
	subs, err := s.store.ListBySupervisor(ctx, supervisor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subjects")
	}
	return subs, nil
}
