package handler

import (
	"time"

	"moodlog/internal/invitation/models"
)

type InvitationResponse struct {
	ID        string        `json:"id"`
	Code      string        `json:"code"`
	Email     string        `json:"email"`
	Status    models.Status `json:"status"`
	ExpiresAt time.Time     `json:"expires_at"`
	UsedAt    *time.Time    `json:"used_at,omitempty"`
	SubjectID string        `json:"subject_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	Total       int                  `json:"total"`
}

// RedeemResponse tells the new subject whose roster they joined.
type RedeemResponse struct {
	InvitationID string `json:"invitation_id"`
	SupervisorID string `json:"supervisor_id"`
	SubjectID    string `json:"subject_id"`
}

func FromInvitation(inv *models.Invitation, now time.Time) InvitationResponse {
	resp := InvitationResponse{
		ID:        inv.ID.String(),
		Code:      inv.Code,
		Email:     inv.Email,
		Status:    inv.Status(now),
		ExpiresAt: inv.ExpiresAt,
		UsedAt:    inv.UsedAt,
		CreatedAt: inv.CreatedAt,
	}
	if !inv.SubjectID.IsNil() {
		resp.SubjectID = inv.SubjectID.String()
	}
	return resp
}

func FromInvitations(invs []*models.Invitation, now time.Time) InvitationListResponse {
	out := make([]InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, FromInvitation(inv, now))
	}
	return InvitationListResponse{Invitations: out, Total: len(out)}
}
