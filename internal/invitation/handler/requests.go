package handler

import (
	"strings"

	dErrors "moodlog/pkg/domain-errors"
)

// IssueInvitationRequest is the body of POST /invitations.
type IssueInvitationRequest struct {
	Email string `json:"email"`
}

func (r *IssueInvitationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required").
			WithFields(dErrors.FieldError{Field: "email", Message: "required"})
	}
	return nil
}

// RedeemInvitationRequest is the body of POST /invitations/redeem. Both
// values are matched case- and whitespace-insensitively by the service.
type RedeemInvitationRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

func (r *RedeemInvitationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}
