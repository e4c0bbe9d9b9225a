package adherence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amodels "moodlog/internal/assignment/models"
	"moodlog/internal/entry/models"
	id "moodlog/pkg/domain"
)

func TestBuildReport(t *testing.T) {
	subject := id.SubjectID(uuid.New())
	daily := &amodels.Assignment{ID: id.AssignmentID(uuid.New()), DefinitionID: id.DefinitionID(uuid.New()), Cadence: amodels.CadenceDaily}
	weekly := &amodels.Assignment{ID: id.AssignmentID(uuid.New()), DefinitionID: id.DefinitionID(uuid.New()), Cadence: amodels.CadenceWeekly}
	asNeeded := &amodels.Assignment{ID: id.AssignmentID(uuid.New()), DefinitionID: id.DefinitionID(uuid.New()), Cadence: amodels.CadenceAsNeeded}

	entry := func(a *amodels.Assignment, d id.Date) *models.Entry {
		return &models.Entry{ID: id.EntryID(uuid.New()), AssignmentID: a.ID, DefinitionID: a.DefinitionID, SubjectID: subject, EntryDate: d}
	}
	asOf := id.NewDate(2024, time.February, 3)
	entries := []*models.Entry{
		entry(daily, id.NewDate(2024, 2, 3)),
		entry(daily, id.NewDate(2024, 2, 2)),
		entry(daily, id.NewDate(2024, 2, 1)),
		entry(daily, id.NewDate(2024, 1, 31)),
		entry(weekly, id.NewDate(2024, 1, 30)),
		entry(weekly, id.NewDate(2024, 1, 25)),
		entry(weekly, id.NewDate(2023, 12, 1)),
		entry(daily, id.NewDate(2024, 2, 4)), // after asOf
	}

	r := BuildReport(subject, entries, []*amodels.Assignment{daily, weekly, asNeeded}, asOf, 0)

	assert.Equal(t, DefaultWindowDays, r.WindowDays)
	assert.Equal(t, 7, r.TotalEntries)
	assert.Equal(t, 3, r.EntriesThisMonth)
	// the weekly entry on Jan 30 extends the overall run
	assert.Equal(t, 5, r.CurrentStreak)
	assert.Equal(t, 5, r.BestStreak)
	// Jan 5 .. Feb 3 holds six distinct days
	assert.Equal(t, 20, r.Consistency)
	// six entries in the last 28 days
	assert.Equal(t, 1.5, r.AveragePerWeek)
	assert.Equal(t, 2, r.DistinctRegisters)

	require.Len(t, r.Assignments, 3)
	assert.Equal(t, AssignmentStreak{
		AssignmentID: daily.ID, DefinitionID: daily.DefinitionID, Cadence: amodels.CadenceDaily,
		Streak: 4, StreakUnit: "days", EntryCount: 4, LastEntryDate: id.NewDate(2024, 2, 3),
	}, r.Assignments[0])
	assert.Equal(t, 2, r.Assignments[1].Streak)
	assert.Equal(t, "weeks", r.Assignments[1].StreakUnit)
	assert.Equal(t, 0, r.Assignments[2].Streak)
	assert.Empty(t, r.Assignments[2].StreakUnit)
	assert.True(t, r.Assignments[2].LastEntryDate.IsZero())
}
