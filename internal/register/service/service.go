package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"moodlog/internal/platform/tracing"
	"moodlog/internal/register/metrics"
	"moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	"moodlog/internal/register/templates"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/platform/tx"
	"moodlog/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,ActiveAssignmentCounter,TemplateCatalog

// Store persists register definitions.
type Store interface {
	Create(ctx context.Context, d *models.Definition) error
	FindByID(ctx context.Context, defID id.DefinitionID) (*models.Definition, error)
	// FindForUpdate loads the definition and holds it until the surrounding transaction ends.
	FindForUpdate(ctx context.Context, defID id.DefinitionID) (*models.Definition, error)
	ListByOwner(ctx context.Context, owner id.SupervisorID, includeRetired bool) ([]*models.Definition, error)
	Update(ctx context.Context, d *models.Definition) error
}

// ActiveAssignmentCounter reports how many active assignments bind a definition.
type ActiveAssignmentCounter interface {
	CountActiveByDefinition(ctx context.Context, defID id.DefinitionID) (int, error)
}

type TemplateCatalog interface {
	List() []templates.Template
	Get(templateID string) (templates.Template, bool)
}

// Service manages supervisor-owned register definitions and the template catalog.
type Service struct {
	store   Store
	counter ActiveAssignmentCounter
	catalog TemplateCatalog
	tx      tx.Runner
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

// WithTx shares a transaction runner with other services so nested calls join one transaction.
func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(store Store, counter ActiveAssignmentCounter, catalog TemplateCatalog, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("register store is required")
	}
	if counter == nil {
		return nil, errors.New("active assignment counter is required")
	}
	if catalog == nil {
		return nil, errors.New("template catalog is required")
	}
	s := &Service{
		store:   store,
		counter: counter,
		catalog: catalog,
		tx:      tx.NewInMemory(),
		logger:  slog.Default(),
		tracer:  tracing.Tracer("moodlog/register"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create validates the schema and stores a new authored definition at version 1.
func (s *Service) Create(ctx context.Context, owner id.SupervisorID, name, description string, candidate schema.Schema) (_ *models.Definition, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "register.Create", attribute.String("owner_id", owner.String()))
	defer func() { tracing.End(span, err) }()

	validated, err := s.validate(candidate)
	if err != nil {
		return nil, err
	}
	d, err := models.NewDefinition(id.DefinitionID(uuid.New()), owner, name, description, validated, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create register")
	}

	s.metrics.IncrementCreated(string(d.Provenance))
	s.logger.InfoContext(ctx, "register created",
		"request_id", requestcontext.RequestID(ctx),
		"definition_id", d.ID,
		"owner_id", owner,
		"fields", len(d.Schema.Fields),
	)
	return d, nil
}

// ReplaceSchema swaps the schema of an authored definition and bumps its version.
// Existing assignments keep the snapshot they were created with.
func (s *Service) ReplaceSchema(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID, candidate schema.Schema) (_ *models.Definition, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "register.ReplaceSchema", attribute.String("definition_id", defID.String()))
	defer func() { tracing.End(span, err) }()

	var updated *models.Definition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		d, err := s.loadOwned(txCtx, owner, defID, true)
		if err != nil {
			return err
		}
		if err := d.CanReplaceSchema(); err != nil {
			return err
		}
		validated, err := s.validate(candidate)
		if err != nil {
			return err
		}
		d.ApplySchema(validated, requestcontext.Now(txCtx))
		if err := s.store.Update(txCtx, d); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update register")
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementSchemaReplaced()
	s.logger.InfoContext(ctx, "register schema replaced",
		"request_id", requestcontext.RequestID(ctx),
		"definition_id", defID,
		"schema_version", updated.Schema.Version,
	)
	return updated, nil
}

// Retire soft-deletes a definition. Retiring an already retired definition is a no-op.
func (s *Service) Retire(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID) (_ *models.Definition, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "register.Retire", attribute.String("definition_id", defID.String()))
	defer func() { tracing.End(span, err) }()

	var (
		retired *models.Definition
		changed bool
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		d, err := s.loadOwned(txCtx, owner, defID, true)
		if err != nil {
			return err
		}
		if d.IsRetired() {
			retired = d
			return nil
		}
		active, err := s.counter.CountActiveByDefinition(txCtx, defID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count assignments")
		}
		if active > 0 {
			return dErrors.New(dErrors.CodeConflict, "register has active assignments").
				WithReason(dErrors.ReasonHasActiveAssignments)
		}
		d.ApplyRetirement(requestcontext.Now(txCtx))
		if err := s.store.Update(txCtx, d); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to retire register")
		}
		retired, changed = d, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.IncrementRetired()
		s.logger.InfoContext(ctx, "register retired",
			"request_id", requestcontext.RequestID(ctx),
			"definition_id", defID,
		)
	}
	return retired, nil
}

// Get returns a definition owned by owner.
func (s *Service) Get(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID) (*models.Definition, error) {
	return s.loadOwned(ctx, owner, defID, false)
}

// List returns the owner's definitions, newest first.
func (s *Service) List(ctx context.Context, owner id.SupervisorID, includeRetired bool) ([]*models.Definition, error) {
	defs, err := s.store.ListByOwner(ctx, owner, includeRetired)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registers")
	}
	return defs, nil
}

func (s *Service) ListTemplates() []templates.Template {
	return s.catalog.List()
}

// CopyTemplate deep-copies a catalog template into a definition owned by owner.
// It joins the caller's transaction when one is open.
func (s *Service) CopyTemplate(ctx context.Context, owner id.SupervisorID, templateID string) (_ *models.Definition, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "register.CopyTemplate", attribute.String("template_id", templateID))
	defer func() { tracing.End(span, err) }()

	tpl, ok := s.catalog.Get(templateID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "template not found")
	}
	d, err := models.NewFromTemplate(id.DefinitionID(uuid.New()), owner, tpl.ID, tpl.Name, tpl.Description, tpl.Schema, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to copy template")
	}

	s.metrics.IncrementCreated(string(d.Provenance))
	s.logger.InfoContext(ctx, "template copied",
		"request_id", requestcontext.RequestID(ctx),
		"definition_id", d.ID,
		"template_id", tpl.ID,
		"owner_id", owner,
	)
	return d, nil
}

// LockForAssignment loads an owned, active definition and holds it for the
// caller's transaction so a concurrent Retire cannot interleave.
func (s *Service) LockForAssignment(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID) (*models.Definition, error) {
	d, err := s.loadOwned(ctx, owner, defID, true)
	if err != nil {
		return nil, err
	}
	if err := d.CanAssign(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) loadOwned(ctx context.Context, owner id.SupervisorID, defID id.DefinitionID, forUpdate bool) (*models.Definition, error) {
	find := s.store.FindByID
	if forUpdate {
		find = s.store.FindForUpdate
	}
	d, err := find(ctx, defID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "register not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load register")
	}
	if !d.IsOwnedBy(owner) {
		return nil, dErrors.New(dErrors.CodeForbidden, "register belongs to another supervisor").
			WithReason(dErrors.ReasonNotOwner)
	}
	return d, nil
}

func (s *Service) validate(candidate schema.Schema) (schema.Schema, error) {
	validated, err := schema.Validate(candidate)
	if err != nil {
		if de, ok := dErrors.As(err); ok {
			s.metrics.IncrementRejected(string(de.Reason))
		}
		return schema.Schema{}, err
	}
	return validated, nil
}
