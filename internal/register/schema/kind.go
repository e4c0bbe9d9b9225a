package schema

import (
	"slices"
	"strings"
)

// Kind is the answer type of a field.
type Kind string

const (
	KindShortText    Kind = "short-text"
	KindLongText     Kind = "long-text"
	KindNumber       Kind = "number"
	KindSingleSelect Kind = "single-select"
	KindMultiSelect  Kind = "multi-select"
	KindBoundedScale Kind = "bounded-scale"
	KindDate         Kind = "date"
	KindTime         Kind = "time"
)

// legacyKinds maps the names stored by earlier clients onto canonical kinds.
var legacyKinds = map[string]Kind{
	"text":        KindShortText,
	"textarea":    KindLongText,
	"select":      KindSingleSelect,
	"multiselect": KindMultiSelect,
	"scale":       KindBoundedScale,
}

// ParseKind accepts canonical and legacy names, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := legacyKinds[name]; ok {
		return k, true
	}
	k := Kind(name)
	_, ok := registry[k]
	return k, ok
}

// Rule says whether a FieldSpec attribute must, may, or must not be present.
type Rule int

const (
	Forbidden Rule = iota
	Optional
	Required
)

// Contract is the validation and rendering contract of one kind.
type Contract struct {
	Kind    Kind
	Options Rule
	Bounds  Rule
	// DefaultBounds applies when both bounds are omitted and Bounds is Required.
	DefaultBounds *[2]float64
	// Shape describes the persisted answer value for clients rendering the field.
	Shape  string
	decode func(f FieldSpec, raw any) (Answer, string)
}

var registry = map[Kind]Contract{
	KindShortText:    {Kind: KindShortText, Options: Forbidden, Bounds: Forbidden, Shape: "string", decode: decodeText},
	KindLongText:     {Kind: KindLongText, Options: Forbidden, Bounds: Forbidden, Shape: "string", decode: decodeText},
	KindNumber:       {Kind: KindNumber, Options: Forbidden, Bounds: Optional, Shape: "number", decode: decodeNumber},
	KindSingleSelect: {Kind: KindSingleSelect, Options: Required, Bounds: Forbidden, Shape: "string from options", decode: decodeChoice},
	KindMultiSelect:  {Kind: KindMultiSelect, Options: Required, Bounds: Forbidden, Shape: "array of strings from options", decode: decodeMultiChoice},
	KindBoundedScale: {Kind: KindBoundedScale, Options: Forbidden, Bounds: Required, DefaultBounds: &[2]float64{0, 10}, Shape: "whole number within bounds", decode: decodeScale},
	KindDate:         {Kind: KindDate, Options: Forbidden, Bounds: Forbidden, Shape: "string YYYY-MM-DD", decode: decodeDate},
	KindTime:         {Kind: KindTime, Options: Forbidden, Bounds: Forbidden, Shape: "string HH:MM", decode: decodeTime},
}

// Lookup returns the contract for a canonical kind.
func Lookup(k Kind) (Contract, bool) {
	c, ok := registry[k]
	return c, ok
}

// Kinds lists canonical kinds in a stable order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// IsSelect reports whether the kind draws answers from Options.
func (k Kind) IsSelect() bool {
	return k == KindSingleSelect || k == KindMultiSelect
}

// IsNumeric reports whether answers of this kind feed numeric analytics.
func (k Kind) IsNumeric() bool {
	return k == KindNumber || k == KindBoundedScale
}
