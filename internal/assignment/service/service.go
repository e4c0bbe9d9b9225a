package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"moodlog/internal/assignment/metrics"
	"moodlog/internal/assignment/models"
	"moodlog/internal/platform/tracing"
	regmodels "moodlog/internal/register/models"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	strutil "moodlog/pkg/platform/strings"
	"moodlog/pkg/platform/tx"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Registers,Roster,EntryDates

const maxSubjectsPerCreate = 50

// Store persists assignments. CreateMany is all-or-nothing and returns
// sentinel.ErrConflict when an active (subject, definition) pair already exists.
type Store interface {
	CreateMany(ctx context.Context, rows []*models.Assignment) error
	FindByID(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error)
	Update(ctx context.Context, a *models.Assignment) error
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, activeOnly bool) ([]*models.Assignment, error)
	ListBySubject(ctx context.Context, subjectID id.SubjectID, activeOnly bool) ([]*models.Assignment, error)
	HasActive(ctx context.Context, subjectID id.SubjectID, defID id.DefinitionID) (bool, error)
}

// Registers is the slice of the register service assignment creation needs.
type Registers interface {
	LockForAssignment(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID) (*regmodels.Definition, error)
	CopyTemplate(ctx context.Context, owner id.SupervisorID, templateID string) (*regmodels.Definition, error)
}

type Roster interface {
	RequireOnRoster(ctx context.Context, supervisor id.SupervisorID, subjectIDs []id.SubjectID) error
}

// EntryDates supplies the entry dates behind each assignment's derived status.
type EntryDates interface {
	DatesByAssignment(ctx context.Context, assignmentIDs []id.AssignmentID) (map[id.AssignmentID][]id.Date, error)
}

// CreateInput is a supervisor's request to bind one register to several subjects.
// Exactly one of DefinitionID and TemplateID is set.
type CreateInput struct {
	DefinitionID id.DefinitionID
	TemplateID   string
	SubjectIDs   []id.SubjectID
	Params       models.Params
}

// View pairs an assignment with its derived status.
type View struct {
	Assignment *models.Assignment `json:"assignment"`
	Status     models.Status      `json:"status"`
}

type Service struct {
	store     Store
	registers Registers
	roster    Roster
	entries   EntryDates
	tx        tx.Runner
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

func New(store Store, registers Registers, roster Roster, entries EntryDates, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("assignment store is required")
	}
	if registers == nil {
		return nil, errors.New("register service is required")
	}
	if roster == nil {
		return nil, errors.New("roster is required")
	}
	if entries == nil {
		return nil, errors.New("entry dates source is required")
	}
	s := &Service{
		store:     store,
		registers: registers,
		roster:    roster,
		entries:   entries,
		tx:        tx.NewInMemory(),
		logger:    slog.Default(),
		tracer:    tracing.Tracer("moodlog/assignment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create binds a register, or a fresh copy of a template, to every listed subject.
// Either every row is created or none is.
func (s *Service) Create(ctx context.Context, supervisor id.SupervisorID, in CreateInput) (_ []*models.Assignment, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "assignment.Create",
		attribute.String("supervisor_id", supervisor.String()),
		attribute.Int("subjects", len(in.SubjectIDs)),
	)
	defer func() { tracing.End(span, err) }()

	subjects, err := validateInput(&in)
	if err != nil {
		return nil, err
	}

	var created []*models.Assignment
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roster.RequireOnRoster(txCtx, supervisor, subjects); err != nil {
			return err
		}

		def, err := s.resolveDefinition(txCtx, supervisor, in)
		if err != nil {
			return err
		}

		for _, subjectID := range subjects {
			exists, err := s.store.HasActive(txCtx, subjectID, def.ID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing assignments")
			}
			if exists {
				return duplicateError(subjectID)
			}
		}

		now := requestcontext.Now(txCtx)
		rows := make([]*models.Assignment, 0, len(subjects))
		for _, subjectID := range subjects {
			rows = append(rows, models.NewAssignment(id.AssignmentID(uuid.New()), def.ID, subjectID, supervisor, def.Schema, in.Params, now))
		}
		if err := s.store.CreateMany(txCtx, rows); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return duplicateError(id.SubjectID{})
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create assignments")
		}
		created = rows
		return nil
	})
	if err != nil {
		if dErrors.HasReason(err, dErrors.ReasonDuplicateActiveAssignment) {
			s.metrics.IncrementDuplicate()
		}
		return nil, err
	}

	s.metrics.IncrementCreated(string(in.Params.Cadence), len(created))
	s.logger.InfoContext(ctx, "assignments created",
		"request_id", requestcontext.RequestID(ctx),
		"supervisor_id", supervisor,
		"definition_id", created[0].DefinitionID,
		"count", len(created),
		"cadence", in.Params.Cadence,
	)
	return created, nil
}

func (s *Service) resolveDefinition(ctx context.Context, supervisor id.SupervisorID, in CreateInput) (*regmodels.Definition, error) {
	if in.TemplateID != "" {
		return s.registers.CopyTemplate(ctx, supervisor, in.TemplateID)
	}
	return s.registers.LockForAssignment(ctx, supervisor, in.DefinitionID)
}

func validateInput(in *CreateInput) ([]id.SubjectID, error) {
	hasDef := !in.DefinitionID.IsNil()
	hasTemplate := in.TemplateID != ""
	if hasDef == hasTemplate {
		return nil, dErrors.New(dErrors.CodeValidation, "exactly one of definition_id and template_id is required")
	}
	subjects := strutil.Dedupe(in.SubjectIDs)
	if len(subjects) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one subject is required").
			WithFields(dErrors.FieldError{Field: "subject_ids", Message: "required"})
	}
	if len(subjects) > maxSubjectsPerCreate {
		return nil, dErrors.New(dErrors.CodeValidation, "at most 50 subjects per request").
			WithFields(dErrors.FieldError{Field: "subject_ids", Message: "too many"})
	}
	if in.Params.Cadence == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "cadence is required").
			WithFields(dErrors.FieldError{Field: "cadence", Message: "required"})
	}
	if err := in.Params.Validate(); err != nil {
		return nil, err
	}
	return subjects, nil
}

func duplicateError(subjectID id.SubjectID) error {
	err := dErrors.New(dErrors.CodeConflict, "an active assignment already exists for this subject and register").
		WithReason(dErrors.ReasonDuplicateActiveAssignment)
	if !subjectID.IsNil() {
		err = err.WithFields(dErrors.FieldError{Field: "subject_ids", Message: subjectID.String()})
	}
	return err
}

// Deactivate ends an assignment. Deactivating an inactive assignment is a no-op.
func (s *Service) Deactivate(ctx context.Context, supervisor id.SupervisorID, assignmentID id.AssignmentID) (_ *models.Assignment, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "assignment.Deactivate", attribute.String("assignment_id", assignmentID.String()))
	defer func() { tracing.End(span, err) }()

	var (
		out     *models.Assignment
		changed bool
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.load(txCtx, assignmentID)
		if err != nil {
			return err
		}
		if !a.IsOwnedBy(supervisor) {
			return notOwner()
		}
		if !a.Active {
			out = a
			return nil
		}
		a.ApplyDeactivation(requestcontext.Now(txCtx))
		if err := s.store.Update(txCtx, a); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate assignment")
		}
		out, changed = a, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.IncrementDeactivated()
		s.logger.InfoContext(ctx, "assignment deactivated",
			"request_id", requestcontext.RequestID(ctx),
			"assignment_id", assignmentID,
		)
	}
	return out, nil
}

// Get returns an assignment with status to its supervisor or its subject.
func (s *Service) Get(ctx context.Context, caller id.UserID, assignmentID id.AssignmentID) (*View, error) {
	a, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if id.UserID(a.SupervisorID) != caller && id.UserID(a.SubjectID) != caller {
		return nil, notOwner()
	}
	views, err := s.withStatus(ctx, []*models.Assignment{a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListBySupervisor returns the supervisor's assignments, optionally narrowed to one subject.
func (s *Service) ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, subjectID id.SubjectID, activeOnly bool) ([]View, error) {
	rows, err := s.store.ListBySupervisor(ctx, supervisor, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assignments")
	}
	if !subjectID.IsNil() {
		filtered := rows[:0]
		for _, a := range rows {
			if a.SubjectID == subjectID {
				filtered = append(filtered, a)
			}
		}
		rows = filtered
	}
	return s.withStatus(ctx, rows)
}

// ListBySubject returns the subject's own assignments with status.
func (s *Service) ListBySubject(ctx context.Context, subjectID id.SubjectID, activeOnly bool) ([]View, error) {
	rows, err := s.store.ListBySubject(ctx, subjectID, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assignments")
	}
	return s.withStatus(ctx, rows)
}

// ForSubject loads an assignment for entry submission. Assignments of other
// subjects are reported as missing.
func (s *Service) ForSubject(ctx context.Context, subjectID id.SubjectID, assignmentID id.AssignmentID) (*models.Assignment, error) {
	a, err := s.store.FindByID(ctx, assignmentID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assignment")
	}
	if err != nil || !a.IsAssignedTo(subjectID) {
		return nil, dErrors.New(dErrors.CodeNotFound, "assignment not found").
			WithReason(dErrors.ReasonAssignmentNotFound)
	}
	return a, nil
}

func (s *Service) withStatus(ctx context.Context, rows []*models.Assignment) ([]View, error) {
	ids := make([]id.AssignmentID, len(rows))
	for i, a := range rows {
		ids[i] = a.ID
	}
	dates := map[id.AssignmentID][]id.Date{}
	if len(ids) > 0 {
		var err error
		dates, err = s.entries.DatesByAssignment(ctx, ids)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entry dates")
		}
	}

	today := requestcontext.Today(ctx)
	views := make([]View, len(rows))
	for i, a := range rows {
		views[i] = View{Assignment: a, Status: models.ComputeStatus(a, dates[a.ID], today)}
	}
	return views, nil
}

func (s *Service) load(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error) {
	a, err := s.store.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "assignment not found").
				WithReason(dErrors.ReasonAssignmentNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assignment")
	}
	return a, nil
}

func notOwner() error {
	return dErrors.New(dErrors.CodeForbidden, "assignment belongs to another user").
		WithReason(dErrors.ReasonNotOwner)
}
