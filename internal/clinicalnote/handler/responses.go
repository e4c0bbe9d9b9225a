package handler

import (
	"time"

	"moodlog/internal/clinicalnote/models"
	id "moodlog/pkg/domain"
)

type NoteResponse struct {
	ID        id.NoteID    `json:"id"`
	EntryID   id.EntryID   `json:"entry_id"`
	SubjectID id.SubjectID `json:"subject_id"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

func FromNote(n *models.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		EntryID:   n.EntryID,
		SubjectID: n.SubjectID,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func FromNotes(notes []*models.Note) NoteListResponse {
	resp := NoteListResponse{Notes: make([]NoteResponse, 0, len(notes)), Total: len(notes)}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, FromNote(n))
	}
	return resp
}
