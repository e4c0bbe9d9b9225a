package handler

import (
	"strings"

	"moodlog/internal/register/schema"
	dErrors "moodlog/pkg/domain-errors"
)

const maxFieldsPerRequest = 100

// CreateRegisterRequest is the body of POST /registers.
type CreateRegisterRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Fields      []schema.FieldSpec `json:"fields"`
}

// Validate implements httputil.Validatable. Schema rules are enforced by the service.
func (r *CreateRegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Fields) > maxFieldsPerRequest {
		return dErrors.New(dErrors.CodeValidation, "a register may have at most 100 fields")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required").
			WithFields(dErrors.FieldError{Field: "name", Message: "required"})
	}
	r.Description = strings.TrimSpace(r.Description)
	return nil
}

func (r *CreateRegisterRequest) Schema() schema.Schema {
	return schema.Schema{Fields: r.Fields}
}

// ReplaceSchemaRequest is the body of PUT /registers/{id}/schema.
type ReplaceSchemaRequest struct {
	Fields []schema.FieldSpec `json:"fields"`
}

func (r *ReplaceSchemaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Fields) > maxFieldsPerRequest {
		return dErrors.New(dErrors.CodeValidation, "a register may have at most 100 fields")
	}
	return nil
}

func (r *ReplaceSchemaRequest) Schema() schema.Schema {
	return schema.Schema{Fields: r.Fields}
}
