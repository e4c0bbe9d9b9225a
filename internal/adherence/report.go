package adherence

import (
	"math"

	amodels "moodlog/internal/assignment/models"
	"moodlog/internal/entry/models"
	id "moodlog/pkg/domain"
)

// Report is a subject's adherence summary as of one calendar day.
type Report struct {
	SubjectID         id.SubjectID       `json:"subject_id"`
	AsOf              id.Date            `json:"as_of"`
	WindowDays        int                `json:"window_days"`
	CurrentStreak     int                `json:"current_streak"`
	BestStreak        int                `json:"best_streak"`
	Consistency       int                `json:"consistency"`
	TotalEntries      int                `json:"total_entries"`
	EntriesThisMonth  int                `json:"entries_this_month"`
	AveragePerWeek    float64            `json:"average_per_week"`
	DistinctRegisters int                `json:"distinct_registers"`
	Assignments       []AssignmentStreak `json:"assignments"`
}

// AssignmentStreak is the cadence-aware streak of one active assignment:
// consecutive days for daily, consecutive weeks for weekly, none for as-needed.
type AssignmentStreak struct {
	AssignmentID  id.AssignmentID `json:"assignment_id"`
	DefinitionID  id.DefinitionID `json:"definition_id"`
	Cadence       amodels.Cadence `json:"cadence"`
	Streak        int             `json:"streak"`
	StreakUnit    string          `json:"streak_unit,omitempty"`
	EntryCount    int             `json:"entry_count"`
	LastEntryDate id.Date         `json:"last_entry_date"`
}

// BuildReport computes the full report from one pass over the subject's
// entries. Entries dated after asOf are ignored.
func BuildReport(subjectID id.SubjectID, entries []*models.Entry, assignments []*amodels.Assignment, asOf id.Date, windowDays int) Report {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	var (
		all        []id.Date
		thisMonth  int
		lastFour   int
		registers  = make(map[id.DefinitionID]struct{})
		byAssigned = make(map[id.AssignmentID][]id.Date)
		fourWeeks  = asOf.AddDays(-27)
	)
	for _, e := range entries {
		if e.EntryDate.After(asOf) {
			continue
		}
		all = append(all, e.EntryDate)
		registers[e.DefinitionID] = struct{}{}
		byAssigned[e.AssignmentID] = append(byAssigned[e.AssignmentID], e.EntryDate)
		if e.EntryDate.Year() == asOf.Year() && e.EntryDate.Month() == asOf.Month() {
			thisMonth++
		}
		if !e.EntryDate.Before(fourWeeks) {
			lastFour++
		}
	}

	r := Report{
		SubjectID:         subjectID,
		AsOf:              asOf,
		WindowDays:        windowDays,
		CurrentStreak:     CurrentStreak(all, asOf),
		BestStreak:        BestStreak(all),
		Consistency:       Consistency(all, asOf, windowDays),
		TotalEntries:      len(all),
		EntriesThisMonth:  thisMonth,
		AveragePerWeek:    math.Round(float64(lastFour)/4*10) / 10,
		DistinctRegisters: len(registers),
		Assignments:       make([]AssignmentStreak, 0, len(assignments)),
	}
	for _, a := range assignments {
		dates := byAssigned[a.ID]
		as := AssignmentStreak{
			AssignmentID: a.ID,
			DefinitionID: a.DefinitionID,
			Cadence:      a.Cadence,
			EntryCount:   len(dates),
		}
		for _, d := range dates {
			if d.After(as.LastEntryDate) {
				as.LastEntryDate = d
			}
		}
		switch a.Cadence {
		case amodels.CadenceDaily:
			as.Streak, as.StreakUnit = CurrentStreak(dates, asOf), "days"
		case amodels.CadenceWeekly:
			as.Streak, as.StreakUnit = WeeklyStreak(dates, asOf), "weeks"
		}
		r.Assignments = append(r.Assignments, as)
	}
	return r
}
