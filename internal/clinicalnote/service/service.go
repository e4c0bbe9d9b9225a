package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"moodlog/internal/clinicalnote/metrics"
	"moodlog/internal/clinicalnote/models"
	emodels "moodlog/internal/entry/models"
	"moodlog/internal/platform/tracing"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Entries

type Store interface {
	Create(ctx context.Context, n *models.Note) error
	FindByID(ctx context.Context, noteID id.NoteID) (*models.Note, error)
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, noteID id.NoteID) error
	ListByEntry(ctx context.Context, entryID id.EntryID) ([]*models.Note, error)
}

// Entries looks up the entry a note is attached to.
type Entries interface {
	FindByID(ctx context.Context, entryID id.EntryID) (*emodels.Entry, error)
}

type Service struct {
	store   Store
	entries Entries
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
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

func New(store Store, entries Entries, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("clinical note store is required")
	}
	if entries == nil {
		return nil, errors.New("entry lookup is required")
	}
	s := &Service{
		store:   store,
		entries: entries,
		logger:  slog.Default(),
		tracer:  tracing.Tracer("moodlog/clinicalnote"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create attaches a note to an entry. Only the supervisor of the assignment
// the entry was written against may annotate it.
func (s *Service) Create(ctx context.Context, supervisor id.SupervisorID, entryID id.EntryID, text string) (_ *models.Note, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "clinicalnote.Create", attribute.String("entry_id", entryID.String()))
	defer func() { tracing.End(span, err) }()

	e, err := s.supervisedEntry(ctx, supervisor, entryID)
	if err != nil {
		return nil, err
	}
	text, err = models.NormalizeText(text)
	if err != nil {
		return nil, err
	}

	n := models.NewNote(id.NoteID(uuid.New()), e.ID, e.SubjectID, supervisor, text, requestcontext.Now(ctx))
	if err := s.store.Create(ctx, n); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save note")
	}

	s.metrics.IncrementChange("created")
	s.logger.InfoContext(ctx, "clinical note created",
		"request_id", requestcontext.RequestID(ctx),
		"note_id", n.ID,
		"entry_id", n.EntryID,
	)
	return n, nil
}

// Update replaces the text of a note the supervisor wrote.
func (s *Service) Update(ctx context.Context, supervisor id.SupervisorID, noteID id.NoteID, text string) (_ *models.Note, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "clinicalnote.Update", attribute.String("note_id", noteID.String()))
	defer func() { tracing.End(span, err) }()

	n, err := s.loadOwned(ctx, supervisor, noteID)
	if err != nil {
		return nil, err
	}
	text, err = models.NormalizeText(text)
	if err != nil {
		return nil, err
	}

	n.Revise(text, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, n); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, noteNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update note")
	}

	s.metrics.IncrementChange("updated")
	s.logger.InfoContext(ctx, "clinical note updated",
		"request_id", requestcontext.RequestID(ctx),
		"note_id", n.ID,
	)
	return n, nil
}

func (s *Service) Delete(ctx context.Context, supervisor id.SupervisorID, noteID id.NoteID) (err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "clinicalnote.Delete", attribute.String("note_id", noteID.String()))
	defer func() { tracing.End(span, err) }()

	if _, err := s.loadOwned(ctx, supervisor, noteID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, noteID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return noteNotFound()
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete note")
	}

	s.metrics.IncrementChange("deleted")
	s.logger.InfoContext(ctx, "clinical note deleted",
		"request_id", requestcontext.RequestID(ctx),
		"note_id", noteID,
	)
	return nil
}

// ListForEntry returns the supervisor's notes on an entry, newest first.
func (s *Service) ListForEntry(ctx context.Context, supervisor id.SupervisorID, entryID id.EntryID) ([]*models.Note, error) {
	if _, err := s.supervisedEntry(ctx, supervisor, entryID); err != nil {
		return nil, err
	}
	notes, err := s.store.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notes")
	}
	out := make([]*models.Note, 0, len(notes))
	for _, n := range notes {
		if n.IsWrittenBy(supervisor) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Service) supervisedEntry(ctx context.Context, supervisor id.SupervisorID, entryID id.EntryID) (*emodels.Entry, error) {
	e, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entry")
	}
	if e.SupervisorID != supervisor {
		return nil, notOwner()
	}
	return e, nil
}

func (s *Service) loadOwned(ctx context.Context, supervisor id.SupervisorID, noteID id.NoteID) (*models.Note, error) {
	n, err := s.store.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, noteNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load note")
	}
	if !n.IsWrittenBy(supervisor) {
		return nil, notOwner()
	}
	return n, nil
}

func noteNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "note not found")
}

func notOwner() error {
	return dErrors.New(dErrors.CodeForbidden, "not the supervising clinician").
		WithReason(dErrors.ReasonNotOwner)
}
