package domain

import (
	"github.com/google/uuid"

	dErrors "moodlog/pkg/domain-errors"
)

// Typed identifiers. Each is a distinct type over uuid.UUID so a subject id can
// never be passed where a supervisor id is expected.
type (
	UserID       uuid.UUID
	SupervisorID uuid.UUID
	SubjectID    uuid.UUID
	DefinitionID uuid.UUID
	AssignmentID uuid.UUID
	EntryID      uuid.UUID
	InvitationID uuid.UUID
	NoteID       uuid.UUID
)

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id SupervisorID) String() string { return uuid.UUID(id).String() }
func (id SubjectID) String() string    { return uuid.UUID(id).String() }
func (id DefinitionID) String() string { return uuid.UUID(id).String() }
func (id AssignmentID) String() string { return uuid.UUID(id).String() }
func (id EntryID) String() string      { return uuid.UUID(id).String() }
func (id InvitationID) String() string { return uuid.UUID(id).String() }
func (id NoteID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SupervisorID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DefinitionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AssignmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EntryID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id InvitationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id NoteID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

func (id SupervisorID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id SubjectID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id DefinitionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id AssignmentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id EntryID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id InvitationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id NoteID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }

func (id *SupervisorID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *SubjectID) UnmarshalText(b []byte) error    { return unmarshalID((*uuid.UUID)(id), b) }
func (id *DefinitionID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *AssignmentID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *EntryID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *InvitationID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *NoteID) UnmarshalText(b []byte) error       { return unmarshalID((*uuid.UUID)(id), b) }

func unmarshalID(dst *uuid.UUID, b []byte) error {
	parsed, err := parseUUID(string(b), "id")
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// parseUUID enforces the trust-boundary rule for ids: valid, non-nil UUIDs only.
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

func ParseUserID(s string) (UserID, error) {
	v, err := parseUUID(s, "user id")
	return UserID(v), err
}

func ParseSupervisorID(s string) (SupervisorID, error) {
	v, err := parseUUID(s, "supervisor id")
	return SupervisorID(v), err
}

func ParseSubjectID(s string) (SubjectID, error) {
	v, err := parseUUID(s, "subject id")
	return SubjectID(v), err
}

func ParseDefinitionID(s string) (DefinitionID, error) {
	v, err := parseUUID(s, "definition id")
	return DefinitionID(v), err
}

func ParseAssignmentID(s string) (AssignmentID, error) {
	v, err := parseUUID(s, "assignment id")
	return AssignmentID(v), err
}

func ParseEntryID(s string) (EntryID, error) {
	v, err := parseUUID(s, "entry id")
	return EntryID(v), err
}

func ParseInvitationID(s string) (InvitationID, error) {
	v, err := parseUUID(s, "invitation id")
	return InvitationID(v), err
}

func ParseNoteID(s string) (NoteID, error) {
	v, err := parseUUID(s, "note id")
	return NoteID(v), err
}
