package models

import (
	"time"

	id "moodlog/pkg/domain"
)

// Subject is a supervisor's roster entry for one subject. A subject belongs to
// exactly one supervisor; the record is created when they redeem an invitation.
type Subject struct {
	ID           id.SubjectID    `json:"id"`
	SupervisorID id.SupervisorID `json:"supervisor_id"`
	Email        string          `json:"email"`
	InvitationID id.InvitationID `json:"invitation_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *Subject) IsSupervisedBy(supervisor id.SupervisorID) bool {
	return s.SupervisorID == supervisor
}
