package models

import (
	"strings"
	"time"

	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

const maxNameLength = 128

// Provenance records where a definition's schema came from.
type Provenance string

const (
	ProvenanceAuthored     Provenance = "authored"
	ProvenanceFromTemplate Provenance = "copied_from_template"
)

// Definition is a supervisor-owned, versioned register.
//
// Invariants:
//   - Name is 1..128 characters after trimming
//   - Schema is a validated, non-empty schema with Version >= 1
//   - Only authored definitions may have their schema replaced
//   - Retirement is a soft delete; a retired definition is never reactivated
type Definition struct {
	ID          id.DefinitionID `json:"id"`
	OwnerID     id.SupervisorID `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      schema.Schema   `json:"schema"`
	Provenance  Provenance      `json:"provenance"`
	TemplateID  string          `json:"template_id,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	RetiredAt   *time.Time      `json:"retired_at,omitempty"`
}

// NewDefinition builds an authored definition. The schema must already be validated.
func NewDefinition(defID id.DefinitionID, owner id.SupervisorID, name, description string, s schema.Schema, now time.Time) (*Definition, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	s = s.Clone()
	s.Version = 1
	return &Definition{
		ID:          defID,
		OwnerID:     owner,
		Name:        name,
		Description: strings.TrimSpace(description),
		Schema:      s,
		Provenance:  ProvenanceAuthored,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewFromTemplate deep-copies a template into a definition owned by owner.
func NewFromTemplate(defID id.DefinitionID, owner id.SupervisorID, templateID, name, description string, s schema.Schema, now time.Time) (*Definition, error) {
	d, err := NewDefinition(defID, owner, name, description, s, now)
	if err != nil {
		return nil, err
	}
	d.Provenance = ProvenanceFromTemplate
	d.TemplateID = templateID
	return d, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "register name is required").
			WithFields(dErrors.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > maxNameLength {
		return "", dErrors.New(dErrors.CodeValidation, "register name must be 128 characters or less").
			WithFields(dErrors.FieldError{Field: "name", Message: "too long"})
	}
	return name, nil
}

func (d *Definition) IsOwnedBy(owner id.SupervisorID) bool {
	return d.OwnerID == owner
}

func (d *Definition) IsRetired() bool {
	return !d.Active
}

// CanReplaceSchema checks that the schema may be swapped in place.
func (d *Definition) CanReplaceSchema() error {
	if d.Provenance != ProvenanceAuthored {
		return dErrors.New(dErrors.CodeForbidden, "template-derived registers cannot be edited").
			WithReason(dErrors.ReasonTemplateDerived)
	}
	if d.IsRetired() {
		return dErrors.New(dErrors.CodeConflict, "register is retired").
			WithReason(dErrors.ReasonDefinitionRetired)
	}
	return nil
}

// ApplySchema installs a validated schema as the next version.
// Call CanReplaceSchema first.
func (d *Definition) ApplySchema(s schema.Schema, now time.Time) {
	next := s.Clone()
	next.Version = d.Schema.Version + 1
	d.Schema = next
	d.UpdatedAt = now
}

// ApplyRetirement soft-deletes the definition. Retiring twice keeps the first timestamp.
func (d *Definition) ApplyRetirement(now time.Time) {
	if d.IsRetired() {
		return
	}
	d.Active = false
	d.RetiredAt = &now
	d.UpdatedAt = now
}

// CanAssign checks that new assignments may bind this definition.
func (d *Definition) CanAssign() error {
	if d.IsRetired() {
		return dErrors.New(dErrors.CodeConflict, "register is retired").
			WithReason(dErrors.ReasonDefinitionRetired)
	}
	return nil
}
