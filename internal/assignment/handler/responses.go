package handler

import (
	"time"

	"moodlog/internal/assignment/models"
	"moodlog/internal/assignment/service"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
)

type AssignmentResponse struct {
	ID            string             `json:"id"`
	DefinitionID  string             `json:"definition_id"`
	SubjectID     string             `json:"subject_id"`
	SupervisorID  string             `json:"supervisor_id"`
	SchemaVersion int                `json:"schema_version"`
	Fields        []schema.FieldSpec `json:"fields"`
	Cadence       string             `json:"cadence"`
	StartDate     id.Date            `json:"start_date"`
	EndDate       id.Date            `json:"end_date"`
	Active        bool               `json:"active"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	DeactivatedAt *time.Time         `json:"deactivated_at,omitempty"`
	Status        *models.Status     `json:"status,omitempty"`
}

func FromAssignment(a *models.Assignment, status *models.Status) AssignmentResponse {
	return AssignmentResponse{
		ID:            a.ID.String(),
		DefinitionID:  a.DefinitionID.String(),
		SubjectID:     a.SubjectID.String(),
		SupervisorID:  a.SupervisorID.String(),
		SchemaVersion: a.Schema.Version,
		Fields:        a.Schema.Fields,
		Cadence:       string(a.Cadence),
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		Active:        a.Active,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
		DeactivatedAt: a.DeactivatedAt,
		Status:        status,
	}
}

func FromView(v service.View) AssignmentResponse {
	return FromAssignment(v.Assignment, &v.Status)
}

type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

func FromViews(views []service.View) AssignmentListResponse {
	out := AssignmentListResponse{Assignments: make([]AssignmentResponse, 0, len(views))}
	for _, v := range views {
		out.Assignments = append(out.Assignments, FromView(v))
	}
	return out
}
