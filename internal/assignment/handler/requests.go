package handler

import (
	"strings"

	"moodlog/internal/assignment/models"
	"moodlog/internal/assignment/service"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

// CreateAssignmentRequest is the body of POST /assignments.
type CreateAssignmentRequest struct {
	DefinitionID string   `json:"definition_id"`
	TemplateID   string   `json:"template_id"`
	SubjectIDs   []string `json:"subject_ids"`
	Cadence      string   `json:"cadence"`
	StartDate    id.Date  `json:"start_date"`
	EndDate      id.Date  `json:"end_date"`
	Notes        string   `json:"notes"`

	parsedDefinition id.DefinitionID
	parsedSubjects   []id.SubjectID
	parsedCadence    models.Cadence
}

// Validate implements httputil.Validatable.
func (r *CreateAssignmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.DefinitionID = strings.TrimSpace(r.DefinitionID)
	r.TemplateID = strings.TrimSpace(r.TemplateID)
	if (r.DefinitionID == "") == (r.TemplateID == "") {
		return dErrors.New(dErrors.CodeValidation, "exactly one of definition_id and template_id is required")
	}
	if r.DefinitionID != "" {
		defID, err := id.ParseDefinitionID(r.DefinitionID)
		if err != nil {
			return err
		}
		r.parsedDefinition = defID
	}

	if len(r.SubjectIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "subject_ids is required").
			WithFields(dErrors.FieldError{Field: "subject_ids", Message: "required"})
	}
	r.parsedSubjects = make([]id.SubjectID, 0, len(r.SubjectIDs))
	for _, raw := range r.SubjectIDs {
		subjectID, err := id.ParseSubjectID(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		r.parsedSubjects = append(r.parsedSubjects, subjectID)
	}

	cadence, err := models.ParseCadence(r.Cadence)
	if err != nil {
		return err
	}
	r.parsedCadence = cadence
	return nil
}

func (r *CreateAssignmentRequest) Input() service.CreateInput {
	return service.CreateInput{
		DefinitionID: r.parsedDefinition,
		TemplateID:   r.TemplateID,
		SubjectIDs:   r.parsedSubjects,
		Params: models.Params{
			Cadence:   r.parsedCadence,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Notes:     r.Notes,
		},
	}
}
