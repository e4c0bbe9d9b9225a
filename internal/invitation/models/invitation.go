package models

import (
	"strings"
	"time"

	id "moodlog/pkg/domain"
	strutil "moodlog/pkg/platform/strings"
)

const (
	// CodeAlphabet leaves out I, O, 0 and 1.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 8
)

type Status string

const (
	StatusPending Status = "pending"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// Invitation is a single-use code a supervisor hands to a prospective subject.
type Invitation struct {
	ID           id.InvitationID `json:"id"`
	SupervisorID id.SupervisorID `json:"supervisor_id"`
	Code         string          `json:"code"`
	Email        string          `json:"email"`
	ExpiresAt    time.Time       `json:"expires_at"`
	UsedAt       *time.Time      `json:"used_at,omitempty"`
	SubjectID    id.SubjectID    `json:"subject_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewInvitation expects code and email already normalized.
func NewInvitation(invID id.InvitationID, supervisor id.SupervisorID, code, email string, ttl time.Duration, now time.Time) *Invitation {
	return &Invitation{
		ID:           invID,
		SupervisorID: supervisor,
		Code:         code,
		Email:        email,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}
}

// NormalizeCode removes all whitespace and upper-cases.
func NormalizeCode(code string) string {
	return strings.ToUpper(strutil.StripSpace(code))
}

func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}

// IsExpired reports whether now is past the expiry instant.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsActive is true for an unused, unexpired code.
func (i *Invitation) IsActive(now time.Time) bool {
	return !i.IsUsed() && !i.IsExpired(now)
}

func (i *Invitation) Status(now time.Time) Status {
	switch {
	case i.IsUsed():
		return StatusUsed
	case i.IsExpired(now):
		return StatusExpired
	default:
		return StatusPending
	}
}

func (i *Invitation) MarkUsed(subjectID id.SubjectID, now time.Time) {
	i.UsedAt = &now
	i.SubjectID = subjectID
}
