package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"moodlog/internal/adherence"
	"moodlog/internal/adherence/metrics"
	amodels "moodlog/internal/assignment/models"
	emodels "moodlog/internal/entry/models"
	"moodlog/internal/platform/tracing"
	rmodels "moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	smodels "moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Entries,Assignments,Registers,Subjects,Cache

// computeTimeout bounds a shared report computation, which outlives the
// request that started it.
const computeTimeout = 10 * time.Second

type Entries interface {
	ListBySubject(ctx context.Context, subjectID id.SubjectID, filter emodels.Filter) ([]*emodels.Entry, error)
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, filter emodels.Filter) ([]*emodels.Entry, error)
}

type Assignments interface {
	ListBySubject(ctx context.Context, subjectID id.SubjectID, activeOnly bool) ([]*amodels.Assignment, error)
	ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, activeOnly bool) ([]*amodels.Assignment, error)
}

type Registers interface {
	ListByOwner(ctx context.Context, owner id.SupervisorID, includeRetired bool) ([]*rmodels.Definition, error)
}

type Subjects interface {
	CanView(ctx context.Context, caller id.UserID, subjectID id.SubjectID) error
	List(ctx context.Context, supervisor id.SupervisorID) ([]*smodels.Subject, error)
}

// Cache stores reports per subject. Set must drop the report when the
// subject's generation moved past the one read before computing it.
type Cache interface {
	Get(ctx context.Context, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, bool, error)
	Generation(ctx context.Context, subjectID id.SubjectID) (uint64, error)
	Set(ctx context.Context, r *adherence.Report, generation uint64) error
	Invalidate(ctx context.Context, subjectID id.SubjectID) error
}

// FieldTrend is the numeric history of one field of one assignment.
// Stats is nil when there are no numeric answers yet.
type FieldTrend struct {
	AssignmentID id.AssignmentID   `json:"assignment_id"`
	FieldID      string            `json:"field_id"`
	Label        string            `json:"label"`
	Points       []adherence.Point `json:"points"`
	Stats        *adherence.Stats  `json:"stats"`
}

type Service struct {
	entries     Entries
	assignments Assignments
	registers   Registers
	subjects    Subjects
	cache       Cache
	windowDays  int
	flight      singleflight.Group
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

// WithCache enables report caching.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithWindowDays sets the consistency window used when a request gives none.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

func New(entries Entries, assignments Assignments, registers Registers, subjects Subjects, opts ...Option) (*Service, error) {
	if entries == nil {
		return nil, errors.New("entry source is required")
	}
	if assignments == nil {
		return nil, errors.New("assignment source is required")
	}
	if registers == nil {
		return nil, errors.New("register source is required")
	}
	if subjects == nil {
		return nil, errors.New("subject roster is required")
	}
	s := &Service{
		entries:     entries,
		assignments: assignments,
		registers:   registers,
		subjects:    subjects,
		windowDays:  adherence.DefaultWindowDays,
		logger:      slog.Default(),
		tracer:      tracing.Tracer("moodlog/adherence"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Report returns the subject's adherence report to the subject or their
// supervisor. A zero asOf means today; a non-positive window uses the default.
// Concurrent requests for the same report share one computation.
func (s *Service) Report(ctx context.Context, caller id.UserID, subjectID id.SubjectID, asOf id.Date, windowDays int) (_ *adherence.Report, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "adherence.Report", attribute.String("subject_id", subjectID.String()))
	defer func() { tracing.End(span, err) }()

	if err := s.subjects.CanView(ctx, caller, subjectID); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = requestcontext.Today(ctx)
	}
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	if windowDays > 366 {
		return nil, dErrors.New(dErrors.CodeValidation, "window must be at most 366 days").
			WithFields(dErrors.FieldError{Field: "window", Message: "too large"})
	}

	if r, ok := s.cached(ctx, subjectID, asOf, windowDays); ok {
		return r, nil
	}

	key := fmt.Sprintf("%s/%s/%d", subjectID, asOf, windowDays)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		return s.compute(ctx, subjectID, asOf, windowDays)
	})
	if err != nil {
		return nil, err
	}
	r := *v.(*adherence.Report)
	return &r, nil
}

func (s *Service) cached(ctx context.Context, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, bool) {
	if s.cache == nil {
		return nil, false
	}
	r, ok, err := s.cache.Get(ctx, subjectID, asOf, windowDays)
	switch {
	case err != nil:
		s.metrics.ObserveLookup("error")
		s.logger.WarnContext(ctx, "adherence cache read failed",
			"request_id", requestcontext.RequestID(ctx),
			"subject_id", subjectID,
			"error", err,
		)
		return nil, false
	case ok:
		s.metrics.ObserveLookup("hit")
		return r, true
	default:
		s.metrics.ObserveLookup("miss")
		return nil, false
	}
}

func (s *Service) compute(ctx context.Context, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, error) {
	start := time.Now()
	generation, cacheable := s.generation(ctx, subjectID)
	entries, err := s.entries.ListBySubject(ctx, subjectID, emodels.Filter{})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entries")
	}
	assignments, err := s.assignments.ListBySubject(ctx, subjectID, true)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assignments")
	}

	r := adherence.BuildReport(subjectID, entries, assignments, asOf, windowDays)
	s.metrics.ObserveReport(time.Since(start).Seconds(), len(entries))

	if cacheable {
		if err := s.cache.Set(ctx, &r, generation); err != nil {
			s.logger.WarnContext(ctx, "adherence cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"subject_id", subjectID,
				"error", err,
			)
		}
	}
	return &r, nil
}

// generation reads the subject's cache generation before any data is loaded.
// A report is only cached when this read succeeds.
func (s *Service) generation(ctx context.Context, subjectID id.SubjectID) (uint64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, subjectID)
	if err != nil {
		s.logger.WarnContext(ctx, "adherence cache generation read failed",
			"request_id", requestcontext.RequestID(ctx),
			"subject_id", subjectID,
			"error", err,
		)
		return 0, false
	}
	return gen, true
}

// FieldTrend returns the chronological numeric answers of a number or scale
// field, with summary statistics.
func (s *Service) FieldTrend(ctx context.Context, caller id.UserID, subjectID id.SubjectID, assignmentID id.AssignmentID, fieldID string) (_ *FieldTrend, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "adherence.FieldTrend",
		attribute.String("subject_id", subjectID.String()),
		attribute.String("field_id", fieldID),
	)
	defer func() { tracing.End(span, err) }()

	if err := s.subjects.CanView(ctx, caller, subjectID); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListBySubject(ctx, subjectID, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assignments")
	}
	idx := slices.IndexFunc(assignments, func(a *amodels.Assignment) bool { return a.ID == assignmentID })
	if idx < 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "assignment not found").
			WithReason(dErrors.ReasonAssignmentNotFound)
	}
	field, ok := assignments[idx].Schema.Field(fieldID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "field not found in the assignment's register")
	}
	if field.Kind != schema.KindNumber && field.Kind != schema.KindBoundedScale {
		return nil, dErrors.New(dErrors.CodeValidation, "field is not numeric").
			WithFields(dErrors.FieldError{Field: "field_id", Message: "must be a number or bounded-scale field"})
	}

	entries, err := s.entries.ListBySubject(ctx, subjectID, emodels.Filter{AssignmentID: assignmentID})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entries")
	}
	points := adherence.NumericSeries(entries, fieldID)
	out := &FieldTrend{AssignmentID: assignmentID, FieldID: fieldID, Label: field.Label, Points: points}
	if st, err := adherence.FieldStats(adherence.Values(points)); err == nil {
		out.Stats = &st
	}
	return out, nil
}

// Overview aggregates the supervisor's whole practice. A zero asOf means today.
func (s *Service) Overview(ctx context.Context, supervisor id.SupervisorID, asOf id.Date) (_ *adherence.Overview, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "adherence.Overview", attribute.String("supervisor_id", supervisor.String()))
	defer func() { tracing.End(span, err) }()

	if asOf.IsZero() {
		asOf = requestcontext.Today(ctx)
	}
	start := time.Now()

	subjects, err := s.subjects.List(ctx, supervisor)
	if err != nil {
		return nil, err
	}
	definitions, err := s.registers.ListByOwner(ctx, supervisor, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registers")
	}
	assignments, err := s.assignments.ListBySupervisor(ctx, supervisor, true)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assignments")
	}
	entries, err := s.entries.ListBySupervisor(ctx, supervisor, emodels.Filter{To: asOf})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entries")
	}

	o := adherence.BuildOverview(supervisor, subjects, definitions, assignments, entries, asOf)
	s.metrics.ObserveOverview(time.Since(start).Seconds(), len(entries))
	return &o, nil
}
