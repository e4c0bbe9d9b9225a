package schema

import (
	"fmt"
	"math"
	"strings"

	dErrors "moodlog/pkg/domain-errors"
	pstrings "moodlog/pkg/platform/strings"
)

const (
	maxFields      = 100
	maxIDLength    = 64
	maxLabelLength = 500
	maxOptions     = 50
)

// Validate checks a candidate schema and returns its normalized form. Every
// violation is reported, each pointing at the offending field id. The result
// is a fixed point: Validate(Validate(s)) equals Validate(s).
func Validate(candidate Schema) (Schema, error) {
	if len(candidate.Fields) == 0 {
		return Schema{}, dErrors.New(dErrors.CodeValidation, "schema must contain at least one field").
			WithReason(dErrors.ReasonEmptySchema)
	}

	var problems []dErrors.FieldError
	report := func(field, format string, args ...any) {
		problems = append(problems, dErrors.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(candidate.Fields) > maxFields {
		report("", "schema has %d fields, at most %d allowed", len(candidate.Fields), maxFields)
	}

	out := Schema{Version: candidate.Version, Fields: make([]FieldSpec, 0, len(candidate.Fields))}
	seen := make(map[string]struct{}, len(candidate.Fields))

	for i, raw := range candidate.Fields {
		f := raw.clone()
		f.ID = strings.TrimSpace(f.ID)
		f.Label = strings.TrimSpace(f.Label)
		f.Placeholder = strings.TrimSpace(f.Placeholder)

		ref := f.ID
		if ref == "" {
			ref = fmt.Sprintf("fields[%d]", i)
			report(ref, "id is required")
		} else if len(f.ID) > maxIDLength {
			report(ref, "id must be at most %d characters", maxIDLength)
		} else if _, dup := seen[f.ID]; dup {
			report(ref, "duplicate field id")
		} else {
			seen[f.ID] = struct{}{}
		}

		if f.Label == "" {
			report(ref, "label is required")
		} else if len(f.Label) > maxLabelLength {
			report(ref, "label must be at most %d characters", maxLabelLength)
		}

		kind, ok := ParseKind(string(f.Kind))
		if !ok {
			report(ref, "unknown kind %q", f.Kind)
			out.Fields = append(out.Fields, f)
			continue
		}
		f.Kind = kind
		contract := registry[kind]

		f.Options = pstrings.TrimNonBlank(f.Options)
		switch contract.Options {
		case Required:
			switch {
			case len(f.Options) == 0:
				report(ref, "%s requires at least one option", kind)
			case len(f.Options) > maxOptions:
				report(ref, "at most %d options allowed", maxOptions)
			default:
				if dup, found := pstrings.FirstDuplicate(f.Options); found {
					report(ref, "duplicate option %q", dup)
				}
			}
		case Forbidden:
			if len(f.Options) > 0 {
				report(ref, "%s does not take options", kind)
			}
			f.Options = nil
		}

		switch contract.Bounds {
		case Required:
			if f.Min == nil && f.Max == nil && contract.DefaultBounds != nil {
				f.Min = Float(contract.DefaultBounds[0])
				f.Max = Float(contract.DefaultBounds[1])
			}
			switch {
			case f.Min == nil || f.Max == nil:
				report(ref, "%s requires both min and max", kind)
			case !finite(f.Min) || !finite(f.Max):
				report(ref, "min and max must be finite numbers")
			case *f.Min >= *f.Max:
				report(ref, "min must be less than max")
			}
		case Optional:
			switch {
			case !finite(f.Min) || !finite(f.Max):
				report(ref, "min and max must be finite numbers")
			case f.Min != nil && f.Max != nil && *f.Min > *f.Max:
				report(ref, "min must not exceed max")
			}
		case Forbidden:
			if f.Min != nil || f.Max != nil {
				report(ref, "%s does not take min or max", kind)
			}
		}

		out.Fields = append(out.Fields, f)
	}

	if len(problems) > 0 {
		return Schema{}, dErrors.New(dErrors.CodeValidation, "schema is invalid").
			WithReason(dErrors.ReasonInvalidSchema).
			WithFields(problems...)
	}
	return out, nil
}

// finite reports whether an optional bound is absent or a real number.
func finite(bound *float64) bool {
	return bound == nil || !(math.IsNaN(*bound) || math.IsInf(*bound, 0))
}
