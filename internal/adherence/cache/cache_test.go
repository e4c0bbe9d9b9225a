package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodlog/internal/adherence"
	id "moodlog/pkg/domain"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemory(time.Minute)
	c.now = func() time.Time { return now }

	subject := id.SubjectID(uuid.New())
	asOf := id.NewDate(2024, 1, 1)
	report := &adherence.Report{SubjectID: subject, AsOf: asOf, WindowDays: 30, CurrentStreak: 3}
	require.NoError(t, c.Set(ctx, report, 0))

	t.Run("hit for the same as-of and window", func(t *testing.T) {
		got, ok, err := c.Get(ctx, subject, asOf, 30)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 3, got.CurrentStreak)
	})

	t.Run("miss for another window", func(t *testing.T) {
		_, ok, err := c.Get(ctx, subject, asOf, 7)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entries miss", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		_, ok, _ := c.Get(ctx, subject, asOf, 30)
		assert.False(t, ok)
		now = now.Add(-2 * time.Minute)
	})

	t.Run("invalidate drops every report of the subject", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, &adherence.Report{SubjectID: subject, AsOf: asOf, WindowDays: 7}, 0))
		require.NoError(t, c.Invalidate(ctx, subject))
		for _, window := range []int{7, 30} {
			_, ok, _ := c.Get(ctx, subject, asOf, window)
			assert.False(t, ok)
		}
	})

	t.Run("report computed before an invalidation is not stored", func(t *testing.T) {
		gen, err := c.Generation(ctx, subject)
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(ctx, subject))

		require.NoError(t, c.Set(ctx, &adherence.Report{SubjectID: subject, AsOf: asOf, WindowDays: 30}, gen))
		_, ok, _ := c.Get(ctx, subject, asOf, 30)
		assert.False(t, ok)

		current, err := c.Generation(ctx, subject)
		require.NoError(t, err)
		assert.Equal(t, gen+1, current)
		require.NoError(t, c.Set(ctx, &adherence.Report{SubjectID: subject, AsOf: asOf, WindowDays: 30}, current))
		_, ok, _ = c.Get(ctx, subject, asOf, 30)
		assert.True(t, ok)
	})
}
