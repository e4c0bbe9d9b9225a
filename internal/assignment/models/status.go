package models

import (
	id "moodlog/pkg/domain"
)

// overdueAfterDays is how long a weekly assignment may go without an entry.
const overdueAfterDays = 7

// Status is the derived, never stored, fulfilment state of an assignment.
type Status struct {
	IsDueToday    bool    `json:"is_due_today"`
	IsOverdue     bool    `json:"is_overdue"`
	LastEntryDate id.Date `json:"last_entry_date"`
	EntryCount    int     `json:"entry_count"`
}

// ComputeStatus derives the status from the assignment's entry dates.
// Only active assignments inside their window carry a pending signal:
// daily ones are due until an entry dated today exists; weekly ones are overdue
// once the last entry (or the start date, before any entry) is more than 7 days old.
// As-needed assignments have no pending signal.
func ComputeStatus(a *Assignment, entryDates []id.Date, today id.Date) Status {
	st := Status{EntryCount: len(entryDates)}
	hasToday := false
	for _, d := range entryDates {
		if d == today {
			hasToday = true
		}
		if d.After(st.LastEntryDate) {
			st.LastEntryDate = d
		}
	}

	if !a.Active || !a.InWindow(today) {
		return st
	}
	switch a.Cadence {
	case CadenceDaily:
		st.IsDueToday = !hasToday
	case CadenceWeekly:
		since := a.StartDate
		if !st.LastEntryDate.IsZero() {
			since = st.LastEntryDate
		}
		st.IsOverdue = today.DaysSince(since) > overdueAfterDays
	}
	return st
}
