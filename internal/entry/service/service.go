package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	amodels "moodlog/internal/assignment/models"
	"moodlog/internal/entry/metrics"
	"moodlog/internal/entry/models"
	"moodlog/internal/notification"
	"moodlog/internal/platform/tracing"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Assignments,Viewer,ReportInvalidator

type Store interface {
	Create(ctx context.Context, e *models.Entry) error
	FindByID(ctx context.Context, entryID id.EntryID) (*models.Entry, error)
	Update(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, entryID id.EntryID) error
	ListBySubject(ctx context.Context, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error)
}

// Assignments resolves the assignment an entry is written against. Missing
// assignments and those of other subjects both come back as AssignmentNotFound.
type Assignments interface {
	ForSubject(ctx context.Context, subjectID id.SubjectID, assignmentID id.AssignmentID) (*amodels.Assignment, error)
}

type Viewer interface {
	CanView(ctx context.Context, caller id.UserID, subjectID id.SubjectID) error
}

// ReportInvalidator drops a subject's cached adherence report.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, subjectID id.SubjectID) error
}

// SubmitInput is a subject's raw submission. A zero EntryDate means today.
type SubmitInput struct {
	AssignmentID id.AssignmentID
	Data         map[string]any
	EntryDate    id.Date
	Notes        string
}

// RevisionInput replaces the answers, date and notes of an entry.
type RevisionInput struct {
	Data      map[string]any
	EntryDate id.Date
	Notes     string
}

type Service struct {
	store       Store
	assignments Assignments
	viewer      Viewer
	publisher   notification.Publisher
	reports     ReportInvalidator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
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

func WithPublisher(p notification.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithReportInvalidator(r ReportInvalidator) Option {
	return func(s *Service) {
		s.reports = r
	}
}

func New(store Store, assignments Assignments, viewer Viewer, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("entry store is required")
	}
	if assignments == nil {
		return nil, errors.New("assignment lookup is required")
	}
	if viewer == nil {
		return nil, errors.New("viewer is required")
	}
	s := &Service{
		store:       store,
		assignments: assignments,
		viewer:      viewer,
		logger:      slog.Default(),
		tracer:      tracing.Tracer("moodlog/entry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit validates a subject's answers against the assignment's pinned schema
// and stores them. Checks run in a fixed order: the assignment must exist and
// belong to the subject, be active, the answers must fit the schema, and the
// date must not be in the future.
func (s *Service) Submit(ctx context.Context, subjectID id.SubjectID, in SubmitInput) (_ *models.Entry, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "entry.Submit",
		attribute.String("subject_id", subjectID.String()),
		attribute.String("assignment_id", in.AssignmentID.String()),
	)
	defer func() {
		s.countRejection(err)
		tracing.End(span, err)
	}()

	a, err := s.assignments.ForSubject(ctx, subjectID, in.AssignmentID)
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, dErrors.New(dErrors.CodeConflict, "assignment is no longer active").
			WithReason(dErrors.ReasonAssignmentInactive)
	}
	answers, day, notes, err := s.check(ctx, a.Schema, in.Data, in.EntryDate, in.Notes)
	if err != nil {
		return nil, err
	}

	pinned := models.Pinned{
		AssignmentID: a.ID,
		SubjectID:    a.SubjectID,
		SupervisorID: a.SupervisorID,
		DefinitionID: a.DefinitionID,
		Schema:       a.Schema,
	}
	e := models.NewEntry(id.EntryID(uuid.New()), pinned, answers, day, notes, requestcontext.Now(ctx))
	if err := s.store.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save entry")
	}

	s.metrics.IncrementSubmitted()
	s.logger.InfoContext(ctx, "entry submitted",
		"request_id", requestcontext.RequestID(ctx),
		"entry_id", e.ID,
		"assignment_id", e.AssignmentID,
		"entry_date", e.EntryDate,
	)
	s.publish(ctx, e)
	s.invalidate(ctx, e.SubjectID)
	return e, nil
}

// Update revises an entry. Only the subject who wrote it may do so, and the
// answers are checked against the schema version the entry was written for.
func (s *Service) Update(ctx context.Context, subjectID id.SubjectID, entryID id.EntryID, in RevisionInput) (_ *models.Entry, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "entry.Update", attribute.String("entry_id", entryID.String()))
	defer func() {
		s.countRejection(err)
		tracing.End(span, err)
	}()

	e, err := s.loadOwned(ctx, subjectID, entryID)
	if err != nil {
		return nil, err
	}
	a, err := s.assignments.ForSubject(ctx, subjectID, e.AssignmentID)
	if err != nil {
		return nil, err
	}
	answers, day, notes, err := s.check(ctx, a.Schema, in.Data, in.EntryDate, in.Notes)
	if err != nil {
		return nil, err
	}

	e.ApplyRevision(answers, day, notes, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, entryNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update entry")
	}

	s.metrics.IncrementUpdated()
	s.logger.InfoContext(ctx, "entry updated",
		"request_id", requestcontext.RequestID(ctx),
		"entry_id", e.ID,
	)
	s.invalidate(ctx, e.SubjectID)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, subjectID id.SubjectID, entryID id.EntryID) (err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "entry.Delete", attribute.String("entry_id", entryID.String()))
	defer func() { tracing.End(span, err) }()

	e, err := s.loadOwned(ctx, subjectID, entryID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, entryID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return entryNotFound()
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete entry")
	}

	s.metrics.IncrementDeleted()
	s.logger.InfoContext(ctx, "entry deleted",
		"request_id", requestcontext.RequestID(ctx),
		"entry_id", entryID,
	)
	s.invalidate(ctx, e.SubjectID)
	return nil
}

// Get returns an entry to its subject or to the assignment's supervisor.
func (s *Service) Get(ctx context.Context, caller id.UserID, entryID id.EntryID) (*models.Entry, error) {
	e, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !e.CanBeViewedBy(caller) {
		return nil, notOwner()
	}
	return e, nil
}

// ListBySubject returns the subject's own entries, newest first.
func (s *Service) ListBySubject(ctx context.Context, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.store.ListBySubject(ctx, subjectID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list entries")
	}
	return entries, nil
}

// ListForSupervisor returns a supervised subject's entries.
func (s *Service) ListForSupervisor(ctx context.Context, supervisor id.SupervisorID, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error) {
	if err := s.viewer.CanView(ctx, id.UserID(supervisor), subjectID); err != nil {
		return nil, err
	}
	return s.ListBySubject(ctx, subjectID, filter)
}

// check decodes answers first, then resolves the date, then normalizes notes.
func (s *Service) check(ctx context.Context, sch schema.Schema, data map[string]any, day id.Date, notes string) (schema.Answers, id.Date, string, error) {
	answers, err := schema.DecodeAnswers(sch, data)
	if err != nil {
		return nil, id.Date{}, "", err
	}
	today := requestcontext.Today(ctx)
	if day.IsZero() {
		day = today
	}
	if day.After(today) {
		return nil, id.Date{}, "", dErrors.New(dErrors.CodeValidation, "entry date is in the future").
			WithReason(dErrors.ReasonFutureDate).
			WithFields(dErrors.FieldError{Field: "entry_date", Message: "must not be after " + today.String()})
	}
	notes, err = models.NormalizeNotes(notes)
	if err != nil {
		return nil, id.Date{}, "", err
	}
	return answers, day, notes, nil
}

func (s *Service) loadOwned(ctx context.Context, subjectID id.SubjectID, entryID id.EntryID) (*models.Entry, error) {
	e, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !e.IsOwnedBy(subjectID) {
		return nil, notOwner()
	}
	return e, nil
}

func (s *Service) load(ctx context.Context, entryID id.EntryID) (*models.Entry, error) {
	e, err := s.store.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, entryNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entry")
	}
	return e, nil
}

func (s *Service) publish(ctx context.Context, e *models.Entry) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, notification.Event{
		Kind:         notification.KindEntrySubmitted,
		SupervisorID: e.SupervisorID.String(),
		SubjectID:    e.SubjectID.String(),
		Attributes: map[string]string{
			"entry_id":      e.ID.String(),
			"assignment_id": e.AssignmentID.String(),
			"definition_id": e.DefinitionID.String(),
			"entry_date":    e.EntryDate.String(),
		},
	})
}

// invalidate is best effort: a stale report expires with its TTL.
func (s *Service) invalidate(ctx context.Context, subjectID id.SubjectID) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Invalidate(ctx, subjectID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate adherence report",
			"request_id", requestcontext.RequestID(ctx),
			"subject_id", subjectID,
			"error", err,
		)
	}
}

func (s *Service) countRejection(err error) {
	if de, ok := dErrors.As(err); ok && de.Reason != "" {
		s.metrics.IncrementRejected(string(de.Reason))
	}
}

func entryNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "entry not found")
}

func notOwner() error {
	return dErrors.New(dErrors.CodeForbidden, "entry belongs to another user").
		WithReason(dErrors.ReasonNotOwner)
}
