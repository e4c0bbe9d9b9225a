package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ana@clinic.example", Normalize("  Ana@Clinic.Example \n"))
}

func TestIsPlausible(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last+tag@clinic.example"} {
		assert.True(t, IsPlausible(ok), ok)
	}
	for _, bad := range []string{"", "no-at.example", "@b.co", "a@b", "a@b.", "a@@b.co", "a b@c.co"} {
		assert.False(t, IsPlausible(bad), bad)
	}
}
