package models

import (
	"strings"
	"time"

	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

const maxNotesLength = 2000

// Entry is one dated answer set submitted against an assignment. It pins the
// schema version the answers were decoded against.
type Entry struct {
	ID            id.EntryID      `json:"id"`
	AssignmentID  id.AssignmentID `json:"assignment_id"`
	SubjectID     id.SubjectID    `json:"subject_id"`
	SupervisorID  id.SupervisorID `json:"supervisor_id"`
	DefinitionID  id.DefinitionID `json:"definition_id"`
	SchemaVersion int             `json:"schema_version"`
	Data          schema.Answers  `json:"data"`
	EntryDate     id.Date         `json:"entry_date"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Pinned is the assignment an entry is written against.
type Pinned struct {
	AssignmentID id.AssignmentID
	SubjectID    id.SubjectID
	SupervisorID id.SupervisorID
	DefinitionID id.DefinitionID
	Schema       schema.Schema
}

func NewEntry(entryID id.EntryID, p Pinned, data schema.Answers, day id.Date, notes string, now time.Time) *Entry {
	return &Entry{
		ID:            entryID,
		AssignmentID:  p.AssignmentID,
		SubjectID:     p.SubjectID,
		SupervisorID:  p.SupervisorID,
		DefinitionID:  p.DefinitionID,
		SchemaVersion: p.Schema.Version,
		Data:          data,
		EntryDate:     day,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (e *Entry) IsOwnedBy(subjectID id.SubjectID) bool {
	return e.SubjectID == subjectID
}

// CanBeViewedBy reports whether caller is the entry's subject or supervisor.
func (e *Entry) CanBeViewedBy(caller id.UserID) bool {
	return id.UserID(e.SubjectID) == caller || id.UserID(e.SupervisorID) == caller
}

// ApplyRevision replaces the answers, date and notes of an existing entry.
func (e *Entry) ApplyRevision(data schema.Answers, day id.Date, notes string, now time.Time) {
	e.Data = data
	e.EntryDate = day
	e.Notes = notes
	e.UpdatedAt = now
}

func (e *Entry) Clone() *Entry {
	out := *e
	out.Data = e.Data.Clone()
	return &out
}

// NormalizeNotes trims notes and enforces the length limit.
func NormalizeNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLength {
		return "", dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less").
			WithFields(dErrors.FieldError{Field: "notes", Message: "too long"})
	}
	return notes, nil
}

// Filter narrows a subject's entry history. Zero values match everything;
// From and To are inclusive.
type Filter struct {
	AssignmentID id.AssignmentID
	From         id.Date
	To           id.Date
}

func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return dErrors.New(dErrors.CodeValidation, "to must not be before from").
			WithFields(dErrors.FieldError{Field: "to", Message: "before from"})
	}
	return nil
}

func (f Filter) Matches(e *Entry) bool {
	if !f.AssignmentID.IsNil() && e.AssignmentID != f.AssignmentID {
		return false
	}
	if !f.From.IsZero() && e.EntryDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.EntryDate.After(f.To) {
		return false
	}
	return true
}
