package handler

import (
	"time"

	"moodlog/internal/entry/models"
	id "moodlog/pkg/domain"
)

type EntryResponse struct {
	ID            id.EntryID      `json:"id"`
	AssignmentID  id.AssignmentID `json:"assignment_id"`
	SubjectID     id.SubjectID    `json:"subject_id"`
	DefinitionID  id.DefinitionID `json:"definition_id"`
	SchemaVersion int             `json:"schema_version"`
	Data          map[string]any  `json:"data"`
	EntryDate     id.Date         `json:"entry_date"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
}

func FromEntry(e *models.Entry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		AssignmentID:  e.AssignmentID,
		SubjectID:     e.SubjectID,
		DefinitionID:  e.DefinitionID,
		SchemaVersion: e.SchemaVersion,
		Data:          e.Data.Raw(),
		EntryDate:     e.EntryDate,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func FromEntries(entries []*models.Entry) EntryListResponse {
	resp := EntryListResponse{Entries: make([]EntryResponse, 0, len(entries)), Total: len(entries)}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, FromEntry(e))
	}
	return resp
}
