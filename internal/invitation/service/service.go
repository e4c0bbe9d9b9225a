package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"moodlog/internal/invitation/metrics"
	"moodlog/internal/invitation/models"
	"moodlog/internal/notification"
	"moodlog/internal/platform/tracing"
	smodels "moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/email"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/platform/tx"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Roster

const (
	DefaultTTL = 7 * 24 * time.Hour

	// maxCodeAttempts bounds generation retries against collisions with unused codes.
	maxCodeAttempts = 10
)

// Store persists invitation codes. Create returns sentinel.ErrConflict when the
// code collides with an unused one; MarkUsed returns it when the row is already used.
type Store interface {
	Create(ctx context.Context, inv *models.Invitation) error
	LockIssuance(ctx context.Context, supervisor id.SupervisorID, email string) error
	FindActiveByEmail(ctx context.Context, supervisor id.SupervisorID, email string, now time.Time) (*models.Invitation, error)
	FindUnusedByCode(ctx context.Context, code string) (*models.Invitation, error)
	MarkUsed(ctx context.Context, invID id.InvitationID, subjectID id.SubjectID, usedAt time.Time) error
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID) ([]*models.Invitation, error)
}

// Roster creates the subject record a redemption produces. It must join the
// caller's transaction.
type Roster interface {
	Enroll(ctx context.Context, sub *smodels.Subject) error
}

type Service struct {
	store     Store
	roster    Roster
	tx        tx.Runner
	ttl       time.Duration
	generate  func() (string, error)
	publisher notification.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithPublisher(p notification.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithTTL sets how long an issued code stays redeemable. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		s.generate = gen
	}
}

func New(store Store, roster Roster, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("invitation store is required")
	}
	if roster == nil {
		return nil, errors.New("roster is required")
	}
	s := &Service{
		store:    store,
		roster:   roster,
		tx:       tx.NewInMemory(),
		ttl:      DefaultTTL,
		generate: models.GenerateCode,
		logger:   slog.Default(),
		tracer:   tracing.Tracer("moodlog/invitation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a fresh code for (supervisor, email). Only one unused, unexpired
// code may exist per pair.
func (s *Service) Issue(ctx context.Context, supervisor id.SupervisorID, rawEmail string) (_ *models.Invitation, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "invitation.Issue",
		attribute.String("supervisor_id", supervisor.String()),
	)
	defer func() { tracing.End(span, err) }()

	addr := email.Normalize(rawEmail)
	if !email.IsPlausible(addr) {
		return nil, dErrors.New(dErrors.CodeValidation, "email is not a valid address").
			WithFields(dErrors.FieldError{Field: "email", Message: "invalid"})
	}

	var issued *models.Invitation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.LockIssuance(txCtx, supervisor, addr); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock issuance")
		}
		now := requestcontext.Now(txCtx)
		_, err := s.store.FindActiveByEmail(txCtx, supervisor, addr, now)
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, "an unused invitation already exists for this email").
				WithReason(dErrors.ReasonDuplicateActiveInvitation)
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing invitations")
		}

		for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
			code, err := s.generate()
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
			}
			inv := models.NewInvitation(id.InvitationID(uuid.New()), supervisor, models.NormalizeCode(code), addr, s.ttl, now)
			err = s.store.Create(txCtx, inv)
			if err == nil {
				issued = inv
				return nil
			}
			if !errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save invitation")
			}
			s.metrics.IncrementCollision()
			s.logger.DebugContext(txCtx, "invitation code collision",
				"request_id", requestcontext.RequestID(txCtx),
				"attempt", attempt,
			)
		}

		s.metrics.IncrementExhausted()
		s.logger.ErrorContext(txCtx, "invitation code space exhausted",
			"request_id", requestcontext.RequestID(txCtx),
			"supervisor_id", supervisor,
			"attempts", maxCodeAttempts,
		)
		return dErrors.New(dErrors.CodeExhausted, "could not allocate an invitation code").
			WithReason(dErrors.ReasonCodeSpaceExhausted)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementIssued()
	s.logger.InfoContext(ctx, "invitation issued",
		"request_id", requestcontext.RequestID(ctx),
		"invitation_id", issued.ID,
		"supervisor_id", supervisor,
		"expires_at", issued.ExpiresAt,
	)
	s.publishIssued(ctx, issued)
	return issued, nil
}

// Redeem consumes a code on behalf of subjectID and enrolls them on the issuing
// supervisor's roster. Both happen in one transaction.
func (s *Service) Redeem(ctx context.Context, subjectID id.SubjectID, rawCode, rawEmail string) (_ *models.Invitation, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "invitation.Redeem",
		attribute.String("subject_id", subjectID.String()),
	)
	defer func() {
		if de, ok := dErrors.As(err); ok && de.Reason != "" {
			s.metrics.IncrementRedeemRejected(string(de.Reason))
		}
		tracing.End(span, err)
	}()

	code := models.NormalizeCode(rawCode)
	addr := email.Normalize(rawEmail)
	if code == "" || addr == "" {
		var fields []dErrors.FieldError
		if code == "" {
			fields = append(fields, dErrors.FieldError{Field: "code", Message: "required"})
		}
		if addr == "" {
			fields = append(fields, dErrors.FieldError{Field: "email", Message: "required"})
		}
		return nil, dErrors.New(dErrors.CodeValidation, "code and email are required").WithFields(fields...)
	}

	var redeemed *models.Invitation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err := s.store.FindUnusedByCode(txCtx, code)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return invalidOrUsed()
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load invitation")
		}
		if inv.Email != addr {
			return invalidOrUsed()
		}
		now := requestcontext.Now(txCtx)
		if inv.IsExpired(now) {
			return dErrors.New(dErrors.CodeConflict, "invitation code has expired").
				WithReason(dErrors.ReasonExpired)
		}

		err = s.roster.Enroll(txCtx, &smodels.Subject{
			ID:           subjectID,
			SupervisorID: inv.SupervisorID,
			Email:        inv.Email,
			InvitationID: inv.ID,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		if err := s.store.MarkUsed(txCtx, inv.ID, subjectID, now); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return invalidOrUsed()
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark invitation used")
		}
		inv.MarkUsed(subjectID, now)
		redeemed = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementRedeemed()
	s.logger.InfoContext(ctx, "invitation redeemed",
		"request_id", requestcontext.RequestID(ctx),
		"invitation_id", redeemed.ID,
		"subject_id", subjectID,
		"supervisor_id", redeemed.SupervisorID,
	)
	return redeemed, nil
}

// ListBySupervisor returns every code the supervisor issued, newest first.
func (s *Service) ListBySupervisor(ctx context.Context, supervisor id.SupervisorID) ([]*models.Invitation, error) {
	out, err := s.store.ListBySupervisor(ctx, supervisor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invitations")
	}
	return out, nil
}

func invalidOrUsed() error {
	return dErrors.New(dErrors.CodeConflict, "invitation code is invalid or already used").
		WithReason(dErrors.ReasonInvalidOrUsedCode)
}

func (s *Service) publishIssued(ctx context.Context, inv *models.Invitation) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, notification.Event{
		Kind:         notification.KindInvitationIssued,
		SupervisorID: inv.SupervisorID.String(),
		Attributes: map[string]string{
			"invitation_id": inv.ID.String(),
			"email":         inv.Email,
			"code":          inv.Code,
			"expires_at":    inv.ExpiresAt.Format(time.RFC3339),
		},
	})
}
