package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

// MaxTextLength is counted in characters, not bytes.
const MaxTextLength = 5000

// Note is a supervisor's private annotation on one of their subjects' entries.
// Subjects never see notes.
type Note struct {
	ID           id.NoteID       `json:"id"`
	EntryID      id.EntryID      `json:"entry_id"`
	SubjectID    id.SubjectID    `json:"subject_id"`
	SupervisorID id.SupervisorID `json:"supervisor_id"`
	Text         string          `json:"text"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewNote expects text that already went through NormalizeText.
func NewNote(noteID id.NoteID, entryID id.EntryID, subjectID id.SubjectID, supervisor id.SupervisorID, text string, now time.Time) *Note {
	return &Note{
		ID:           noteID,
		EntryID:      entryID,
		SubjectID:    subjectID,
		SupervisorID: supervisor,
		Text:         text,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (n *Note) IsWrittenBy(supervisor id.SupervisorID) bool {
	return n.SupervisorID == supervisor
}

func (n *Note) Revise(text string, now time.Time) {
	n.Text = text
	n.UpdatedAt = now
}

func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// NormalizeText trims the note and enforces its length.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", dErrors.New(dErrors.CodeValidation, "note text is required").
			WithFields(dErrors.FieldError{Field: "text", Message: "required"})
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("note must be %d characters or less", MaxTextLength)).
			WithFields(dErrors.FieldError{Field: "text", Message: "too long"})
	}
	return text, nil
}
