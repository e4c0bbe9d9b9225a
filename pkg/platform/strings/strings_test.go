package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimNonBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  foo  ", "bar  ", "  baz"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "drops blanks but keeps duplicates",
			input:    []string{"foo", "", "  ", "foo"},
			expected: []string{"foo", "foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrimNonBlank(tt.input))
		})
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, Dedupe([]int{3, 1, 3, 2, 1}))
	assert.Empty(t, Dedupe[string](nil))
}

func TestFirstDuplicate(t *testing.T) {
	dup, ok := FirstDuplicate([]string{"a", "b", "a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", dup)

	_, ok = FirstDuplicate([]string{"a", "b"})
	assert.False(t, ok)
}

func TestStripSpace(t *testing.T) {
	assert.Equal(t, "ABCD2345", StripSpace(" ABCD 2345\t\n"))
}
