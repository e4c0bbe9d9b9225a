// Package schema holds the field type registry, the register schema validator and
// the typed answers decoded from entry submissions.
package schema

// FieldSpec is one question of a register.
type FieldSpec struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Label       string   `json:"label" yaml:"label"`
	Required    bool     `json:"required" yaml:"required"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Schema is the ordered field list of a register plus its version.
type Schema struct {
	Version int         `json:"version"`
	Fields  []FieldSpec `json:"fields"`
}

// Field finds a field by id.
func (s Schema) Field(id string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Clone deep-copies the schema so the copy shares no slices or bounds.
func (s Schema) Clone() Schema {
	out := Schema{Version: s.Version}
	if s.Fields != nil {
		out.Fields = make([]FieldSpec, len(s.Fields))
		for i, f := range s.Fields {
			out.Fields[i] = f.clone()
		}
	}
	return out
}

func (f FieldSpec) clone() FieldSpec {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	out.Min = copyFloat(f.Min)
	out.Max = copyFloat(f.Max)
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v; handy for literal schemas.
func Float(v float64) *float64 {
	return &v
}
