package schema

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "moodlog/pkg/domain-errors"
)

func fieldMessages(t *testing.T, err error) map[string][]string {
	t.Helper()
	de, ok := dErrors.As(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	out := map[string][]string{}
	for _, f := range de.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func TestValidateRejectsEmptySchema(t *testing.T) {
	_, err := Validate(Schema{})
	require.Error(t, err)
	assert.True(t, dErrors.HasReason(err, dErrors.ReasonEmptySchema))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	candidate := Schema{Fields: []FieldSpec{
		{ID: "mood", Kind: KindBoundedScale, Label: "Mood", Min: Float(5), Max: Float(5)},
		{ID: "mood", Kind: KindShortText, Label: "Again"},
		{ID: "feeling", Kind: KindSingleSelect, Label: "Feeling", Options: []string{" ", ""}},
		{ID: "tags", Kind: KindMultiSelect, Label: "Tags", Options: []string{"a", "b", " a "}},
		{ID: "hours", Kind: KindNumber, Label: "Hours", Min: Float(8), Max: Float(2)},
		{ID: "note", Kind: KindShortText, Label: "Note", Options: []string{"x"}},
		{ID: "when", Kind: KindDate, Label: "When", Max: Float(1)},
		{ID: "odd", Kind: "slider", Label: "Odd"},
		{ID: "  ", Kind: KindShortText, Label: "No id"},
		{ID: "nolabel", Kind: KindShortText, Label: "   "},
		{ID: "half", Kind: KindBoundedScale, Label: "Half", Min: Float(1)},
	}}

	_, err := Validate(candidate)
	require.Error(t, err)
	assert.True(t, dErrors.HasReason(err, dErrors.ReasonInvalidSchema))

	msgs := fieldMessages(t, err)
	assert.Contains(t, msgs["mood"], "min must be less than max")
	assert.Contains(t, msgs["mood"], "duplicate field id")
	assert.Contains(t, msgs["feeling"], "single-select requires at least one option")
	assert.Contains(t, msgs["tags"], `duplicate option "a"`)
	assert.Contains(t, msgs["hours"], "min must not exceed max")
	assert.Contains(t, msgs["note"], "short-text does not take options")
	assert.Contains(t, msgs["when"], "date does not take min or max")
	assert.Contains(t, msgs["odd"], `unknown kind "slider"`)
	assert.Contains(t, msgs["fields[8]"], "id is required")
	assert.Contains(t, msgs["nolabel"], "label is required")
	assert.Contains(t, msgs["half"], "bounded-scale requires both min and max")
}

func TestValidateRejectsNonFiniteBounds(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name  string
		field FieldSpec
	}{
		{name: "scale NaN min", field: FieldSpec{Kind: KindBoundedScale, Min: Float(nan), Max: Float(10)}},
		{name: "scale NaN max", field: FieldSpec{Kind: KindBoundedScale, Min: Float(0), Max: Float(nan)}},
		{name: "scale infinite max", field: FieldSpec{Kind: KindBoundedScale, Min: Float(0), Max: Float(inf)}},
		{name: "scale negative infinite min", field: FieldSpec{Kind: KindBoundedScale, Min: Float(-inf), Max: Float(10)}},
		{name: "number NaN min alone", field: FieldSpec{Kind: KindNumber, Min: Float(nan)}},
		{name: "number infinite max alone", field: FieldSpec{Kind: KindNumber, Max: Float(inf)}},
		{name: "number NaN against a real max", field: FieldSpec{Kind: KindNumber, Min: Float(nan), Max: Float(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.field
			f.ID, f.Label = "x", "X"
			_, err := Validate(Schema{Fields: []FieldSpec{f}})
			require.Error(t, err)
			assert.True(t, dErrors.HasReason(err, dErrors.ReasonInvalidSchema))
			assert.Contains(t, fieldMessages(t, err)["x"], "min and max must be finite numbers")
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	candidate := Schema{Version: 3, Fields: []FieldSpec{
		{ID: " mood ", Kind: "scale", Label: "  How are you?  ", Required: true},
		{ID: "feeling", Kind: "select", Label: "Feeling", Options: []string{" Calm ", "", "Anxious", "  "}},
		{ID: "notes", Kind: "textarea", Label: "Notes", Placeholder: "  anything else  "},
		{ID: "sleep", Kind: KindNumber, Label: "Sleep", Min: Float(0)},
	}}

	got, err := Validate(candidate)
	require.NoError(t, err)

	want := Schema{Version: 3, Fields: []FieldSpec{
		{ID: "mood", Kind: KindBoundedScale, Label: "How are you?", Required: true, Min: Float(0), Max: Float(10)},
		{ID: "feeling", Kind: KindSingleSelect, Label: "Feeling", Options: []string{"Calm", "Anxious"}},
		{ID: "notes", Kind: KindLongText, Label: "Notes", Placeholder: "anything else"},
		{ID: "sleep", Kind: KindNumber, Label: "Sleep", Min: Float(0)},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized schema mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	candidates := []Schema{
		{Fields: []FieldSpec{{ID: "a", Kind: "text", Label: " A "}}},
		{Fields: []FieldSpec{
			{ID: "s", Kind: KindBoundedScale, Label: "S"},
			{ID: "m", Kind: "multiselect", Label: "M", Options: []string{"x", " ", "y "}},
			{ID: "n", Kind: KindNumber, Label: "N", Min: Float(-1), Max: Float(1)},
			{ID: "t", Kind: KindTime, Label: "T"},
		}},
	}
	for _, c := range candidates {
		once, err := Validate(c)
		require.NoError(t, err)
		twice, err := Validate(once)
		require.NoError(t, err)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("validate is not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestValidateDoesNotAliasInput(t *testing.T) {
	candidate := Schema{Fields: []FieldSpec{
		{ID: "f", Kind: KindSingleSelect, Label: "F", Options: []string{"a", "b"}},
	}}
	got, err := Validate(candidate)
	require.NoError(t, err)
	got.Fields[0].Options[0] = "changed"
	assert.Equal(t, "a", candidate.Fields[0].Options[0])
}

func TestRegistryContracts(t *testing.T) {
	assert.Len(t, Kinds(), 8)
	for _, k := range Kinds() {
		c, ok := Lookup(k)
		require.True(t, ok)
		assert.Equal(t, k, c.Kind)
		assert.NotEmpty(t, c.Shape)
		assert.Equal(t, k.IsSelect(), c.Options == Required, k)
	}

	scale, _ := Lookup(KindBoundedScale)
	assert.Equal(t, Required, scale.Bounds)
	num, _ := Lookup(KindNumber)
	assert.Equal(t, Optional, num.Bounds)

	k, ok := ParseKind(" MultiSelect ")
	assert.True(t, ok)
	assert.Equal(t, KindMultiSelect, k)
	_, ok = ParseKind("checkbox")
	assert.False(t, ok)
}
