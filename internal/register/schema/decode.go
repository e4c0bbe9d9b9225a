package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
)

// DecodeAnswers converts an untyped answer set into typed answers against s.
// It is the only place raw submission values are inspected. Unknown keys,
// missing or blank required answers, and values of the wrong shape are all
// reported together as SchemaMismatch.
func DecodeAnswers(s Schema, raw map[string]any) (Answers, error) {
	var problems []dErrors.FieldError
	report := func(field, msg string) {
		problems = append(problems, dErrors.FieldError{Field: field, Message: msg})
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := s.Field(k); !ok {
			report(k, "field is not part of the register schema")
		}
	}

	out := make(Answers, len(s.Fields))
	for _, f := range s.Fields {
		value, present := raw[f.ID]
		if !present || isBlank(value) {
			if f.Required {
				report(f.ID, "answer is required")
			} else if present {
				out[f.ID] = nil
			}
			continue
		}

		contract, ok := registry[f.Kind]
		if !ok {
			report(f.ID, fmt.Sprintf("field has unknown kind %q", f.Kind))
			continue
		}
		answer, problem := contract.decode(f, value)
		if problem != "" {
			report(f.ID, problem)
			continue
		}
		out[f.ID] = answer
	}

	if len(problems) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "answers do not match the register schema").
			WithReason(dErrors.ReasonSchemaMismatch).
			WithFields(problems...)
	}
	return out, nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

func decodeText(_ FieldSpec, raw any) (Answer, string) {
	s, ok := raw.(string)
	if !ok {
		return nil, "expected a string"
	}
	return Text{Value: s}, ""
}

func decodeNumber(f FieldSpec, raw any) (Answer, string) {
	n, ok := toFloat(raw)
	if !ok {
		return nil, "expected a number"
	}
	if f.Min != nil && n < *f.Min {
		return nil, fmt.Sprintf("must be at least %g", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, fmt.Sprintf("must be at most %g", *f.Max)
	}
	return Number{Value: n}, ""
}

func decodeScale(f FieldSpec, raw any) (Answer, string) {
	n, ok := toFloat(raw)
	if !ok {
		return nil, "expected a number"
	}
	if n != math.Trunc(n) {
		return nil, "expected a whole number"
	}
	if (f.Min != nil && n < *f.Min) || (f.Max != nil && n > *f.Max) {
		return nil, fmt.Sprintf("must be between %g and %g", deref(f.Min), deref(f.Max))
	}
	return Scale{Value: n}, ""
}

func decodeChoice(f FieldSpec, raw any) (Answer, string) {
	s, ok := raw.(string)
	if !ok {
		return nil, "expected one of the options"
	}
	if !slices.Contains(f.Options, s) {
		return nil, fmt.Sprintf("%q is not one of the options", s)
	}
	return Choice{Value: s}, ""
}

func decodeMultiChoice(f FieldSpec, raw any) (Answer, string) {
	var values []string
	switch t := raw.(type) {
	case []string:
		values = append(values, t...)
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, "expected an array of strings"
			}
			values = append(values, s)
		}
	default:
		return nil, "expected an array of strings"
	}

	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !slices.Contains(f.Options, v) {
			return nil, fmt.Sprintf("%q is not one of the options", v)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Sprintf("%q selected more than once", v)
		}
		seen[v] = struct{}{}
	}
	return MultiChoice{Values: values}, ""
}

func decodeDate(_ FieldSpec, raw any) (Answer, string) {
	s, ok := raw.(string)
	if !ok {
		return nil, "expected a date string YYYY-MM-DD"
	}
	d, err := id.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return nil, "expected a date string YYYY-MM-DD"
	}
	return DateAnswer{Value: d}, ""
}

func decodeTime(_ FieldSpec, raw any) (Answer, string) {
	s, ok := raw.(string)
	if !ok {
		return nil, "expected a time string HH:MM"
	}
	t, ok := parseClock(strings.TrimSpace(s))
	if !ok {
		return nil, "expected a time string HH:MM"
	}
	return t, ""
}

func toFloat(raw any) (float64, bool) {
	var n float64
	switch t := raw.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
