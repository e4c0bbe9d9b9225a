package handler

import (
	"net/url"
	"strings"

	"moodlog/internal/entry/models"
	"moodlog/internal/entry/service"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

// SubmitEntryRequest is the body of POST /entries. Data is the flat answer
// object keyed by field id; entry_date defaults to today.
type SubmitEntryRequest struct {
	AssignmentID string         `json:"assignment_id"`
	Data         map[string]any `json:"data"`
	EntryDate    id.Date        `json:"entry_date"`
	Notes        string         `json:"notes"`

	parsedAssignment id.AssignmentID
}

// Validate implements httputil.Validatable. Answer contents are checked by
// the service against the assignment's schema.
func (r *SubmitEntryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	assignmentID, err := id.ParseAssignmentID(strings.TrimSpace(r.AssignmentID))
	if err != nil {
		return err
	}
	r.parsedAssignment = assignmentID
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	return nil
}

func (r *SubmitEntryRequest) Input() service.SubmitInput {
	return service.SubmitInput{
		AssignmentID: r.parsedAssignment,
		Data:         r.Data,
		EntryDate:    r.EntryDate,
		Notes:        r.Notes,
	}
}

// UpdateEntryRequest is the body of PUT /entries/{id}.
type UpdateEntryRequest struct {
	Data      map[string]any `json:"data"`
	EntryDate id.Date        `json:"entry_date"`
	Notes     string         `json:"notes"`
}

func (r *UpdateEntryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	return nil
}

func (r *UpdateEntryRequest) Input() service.RevisionInput {
	return service.RevisionInput{Data: r.Data, EntryDate: r.EntryDate, Notes: r.Notes}
}

// parseFilter reads ?assignment_id=&from=&to=.
func parseFilter(q url.Values) (models.Filter, error) {
	var f models.Filter
	if raw := q.Get("assignment_id"); raw != "" {
		assignmentID, err := id.ParseAssignmentID(raw)
		if err != nil {
			return models.Filter{}, err
		}
		f.AssignmentID = assignmentID
	}
	if raw := q.Get("from"); raw != "" {
		from, err := id.ParseDate(raw)
		if err != nil {
			return models.Filter{}, err
		}
		f.From = from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := id.ParseDate(raw)
		if err != nil {
			return models.Filter{}, err
		}
		f.To = to
	}
	return f, nil
}
