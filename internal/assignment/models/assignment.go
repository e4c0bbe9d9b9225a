package models

import (
	"strings"
	"time"

	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

const maxNotesLength = 2000

// Cadence is how often the subject is expected to fill in the register.
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceAsNeeded Cadence = "as-needed"
)

// ParseCadence accepts the canonical names plus "as_needed", in any case.
func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return CadenceDaily, nil
	case "weekly":
		return CadenceWeekly, nil
	case "as-needed", "as_needed":
		return CadenceAsNeeded, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "cadence must be daily, weekly or as-needed").
		WithFields(dErrors.FieldError{Field: "cadence", Message: "unknown cadence"})
}

// Assignment binds a register to one subject with a pinned schema snapshot.
//
// Invariants:
//   - Schema is a deep copy taken at creation and never follows later edits
//   - EndDate, when set, is on or after StartDate
//   - Deactivation is terminal
type Assignment struct {
	ID            id.AssignmentID `json:"id"`
	DefinitionID  id.DefinitionID `json:"definition_id"`
	SubjectID     id.SubjectID    `json:"subject_id"`
	SupervisorID  id.SupervisorID `json:"supervisor_id"`
	Schema        schema.Schema   `json:"schema"`
	Cadence       Cadence         `json:"cadence"`
	StartDate     id.Date         `json:"start_date"`
	EndDate       id.Date         `json:"end_date"`
	Active        bool            `json:"active"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeactivatedAt *time.Time      `json:"deactivated_at,omitempty"`
}

// Params carries the supervisor-chosen settings shared by every row of one create call.
type Params struct {
	Cadence   Cadence
	StartDate id.Date
	EndDate   id.Date
	Notes     string
}

// Validate checks the window and notes. StartDate is required.
func (p *Params) Validate() error {
	if p.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "start date is required").
			WithFields(dErrors.FieldError{Field: "start_date", Message: "required"})
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "end date must not be before start date").
			WithFields(dErrors.FieldError{Field: "end_date", Message: "before start_date"})
	}
	p.Notes = strings.TrimSpace(p.Notes)
	if len(p.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less").
			WithFields(dErrors.FieldError{Field: "notes", Message: "too long"})
	}
	return nil
}

func NewAssignment(
	assignmentID id.AssignmentID,
	defID id.DefinitionID,
	subjectID id.SubjectID,
	supervisor id.SupervisorID,
	bound schema.Schema,
	p Params,
	now time.Time,
) *Assignment {
	return &Assignment{
		ID:           assignmentID,
		DefinitionID: defID,
		SubjectID:    subjectID,
		SupervisorID: supervisor,
		Schema:       bound.Clone(),
		Cadence:      p.Cadence,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Active:       true,
		Notes:        p.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (a *Assignment) IsOwnedBy(supervisor id.SupervisorID) bool {
	return a.SupervisorID == supervisor
}

func (a *Assignment) IsAssignedTo(subjectID id.SubjectID) bool {
	return a.SubjectID == subjectID
}

// ApplyDeactivation ends the assignment. Deactivating twice keeps the first timestamp.
func (a *Assignment) ApplyDeactivation(now time.Time) {
	if !a.Active {
		return
	}
	a.Active = false
	a.DeactivatedAt = &now
	a.UpdatedAt = now
}

// InWindow reports whether day falls inside [StartDate, EndDate].
func (a *Assignment) InWindow(day id.Date) bool {
	if day.Before(a.StartDate) {
		return false
	}
	return a.EndDate.IsZero() || !day.After(a.EndDate)
}
