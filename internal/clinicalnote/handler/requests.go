package handler

import dErrors "moodlog/pkg/domain-errors"

// NoteRequest is the body of POST /entries/{id}/notes and PUT /notes/{id}.
type NoteRequest struct {
	Text string `json:"text"`
}

// Validate implements httputil.Validatable. Length and blank checks belong to
// the service.
func (r *NoteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}
