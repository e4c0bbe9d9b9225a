package handler

import (
	"time"

	"moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	"moodlog/internal/register/templates"
)

// DefinitionResponse is the HTTP view of a register definition.
type DefinitionResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	SchemaVersion int                `json:"schema_version"`
	Fields        []schema.FieldSpec `json:"fields"`
	Provenance    string             `json:"provenance"`
	TemplateID    string             `json:"template_id,omitempty"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	RetiredAt     *time.Time         `json:"retired_at,omitempty"`
}

func FromDefinition(d *models.Definition) *DefinitionResponse {
	return &DefinitionResponse{
		ID:            d.ID.String(),
		Name:          d.Name,
		Description:   d.Description,
		SchemaVersion: d.Schema.Version,
		Fields:        d.Schema.Fields,
		Provenance:    string(d.Provenance),
		TemplateID:    d.TemplateID,
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		RetiredAt:     d.RetiredAt,
	}
}

// DefinitionListResponse wraps a list of definitions.
type DefinitionListResponse struct {
	Registers []*DefinitionResponse `json:"registers"`
	Total     int                   `json:"total"`
}

func FromDefinitions(defs []*models.Definition) *DefinitionListResponse {
	out := make([]*DefinitionResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, FromDefinition(d))
	}
	return &DefinitionListResponse{Registers: out, Total: len(out)}
}

// TemplateResponse is the HTTP view of a catalog template.
type TemplateResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Fields      []schema.FieldSpec `json:"fields"`
}

type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

func FromTemplates(tpls []templates.Template) *TemplateListResponse {
	out := make([]TemplateResponse, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, TemplateResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Fields:      t.Schema.Fields,
		})
	}
	return &TemplateListResponse{Templates: out}
}
