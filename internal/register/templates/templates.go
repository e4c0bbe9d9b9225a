// Package templates serves the read-only register template catalog embedded in the binary.
package templates

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"moodlog/internal/register/schema"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Template is a read-only catalog entry. Templates are never assigned directly;
// they are deep-copied into an owned definition first.
type Template struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Schema      schema.Schema `json:"schema"`
}

type catalogFile struct {
	Templates []struct {
		ID          string             `yaml:"id"`
		Name        string             `yaml:"name"`
		Description string             `yaml:"description"`
		Fields      []schema.FieldSpec `yaml:"fields"`
	} `yaml:"templates"`
}

// Catalog holds validated templates in catalog order.
type Catalog struct {
	templates []Template
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Parse builds a catalog from YAML, validating every template schema.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	c := &Catalog{}
	seen := map[string]struct{}{}
	for _, t := range file.Templates {
		tplID := strings.TrimSpace(t.ID)
		if tplID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if _, dup := seen[tplID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", tplID)
		}
		seen[tplID] = struct{}{}

		s, err := schema.Validate(schema.Schema{Version: 1, Fields: t.Fields})
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", tplID, err)
		}
		c.templates = append(c.templates, Template{
			ID:          tplID,
			Name:        strings.TrimSpace(t.Name),
			Description: strings.TrimSpace(t.Description),
			Schema:      s,
		})
	}
	return c, nil
}

// List returns deep copies of all templates.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.clone()
	}
	return out
}

// Get returns a deep copy of the template with the given id.
func (c *Catalog) Get(templateID string) (Template, bool) {
	i := slices.IndexFunc(c.templates, func(t Template) bool { return t.ID == templateID })
	if i < 0 {
		return Template{}, false
	}
	return c.templates[i].clone(), true
}

func (t Template) clone() Template {
	t.Schema = t.Schema.Clone()
	return t
}
