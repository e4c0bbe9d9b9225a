package adherence

import (
	"cmp"
	"math"
	"slices"

	amodels "moodlog/internal/assignment/models"
	"moodlog/internal/entry/models"
	rmodels "moodlog/internal/register/models"
	smodels "moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
)

// TopSubjectsLimit caps Overview.TopSubjects.
const TopSubjectsLimit = 5

// Overview summarizes a supervisor's whole practice as of one calendar day.
// The week is the seven days ending at AsOf; the month is AsOf's calendar month.
type Overview struct {
	SupervisorID      id.SupervisorID    `json:"supervisor_id"`
	AsOf              id.Date            `json:"as_of"`
	TotalSubjects     int                `json:"total_subjects"`
	ActiveSubjects    int                `json:"active_subjects"`
	TotalEntries      int                `json:"total_entries"`
	EntriesThisWeek   int                `json:"entries_this_week"`
	EntriesThisMonth  int                `json:"entries_this_month"`
	TotalRegisters    int                `json:"total_registers"`
	ActiveAssignments int                `json:"active_assignments"`
	AdherenceRate     int                `json:"adherence_rate"`
	AveragePerSubject int                `json:"average_per_subject"`
	TopSubjects       []SubjectActivity  `json:"top_subjects"`
	Registers         []RegisterActivity `json:"registers"`
}

// SubjectActivity is one row of the most active subjects.
type SubjectActivity struct {
	SubjectID     id.SubjectID `json:"subject_id"`
	Email         string       `json:"email"`
	TotalEntries  int          `json:"total_entries"`
	RecentEntries int          `json:"recent_entries"`
	LastEntryDate id.Date      `json:"last_entry_date"`
}

// RegisterActivity is the usage of one of the supervisor's registers.
type RegisterActivity struct {
	DefinitionID      id.DefinitionID `json:"definition_id"`
	Name              string          `json:"name"`
	ActiveAssignments int             `json:"active_assignments"`
	TotalEntries      int             `json:"total_entries"`
	EntriesThisWeek   int             `json:"entries_this_week"`
}

// BuildOverview aggregates the supervisor's roster, registers, assignments
// and entries. Entries dated after asOf are ignored, as are rows belonging to
// another supervisor. Retired registers are left out of the breakdown.
func BuildOverview(supervisor id.SupervisorID, subjects []*smodels.Subject, definitions []*rmodels.Definition,
	assignments []*amodels.Assignment, entries []*models.Entry, asOf id.Date,
) Overview {
	weekStart := asOf.AddDays(-6)

	o := Overview{
		SupervisorID: supervisor,
		AsOf:         asOf,
		TopSubjects:  make([]SubjectActivity, 0, TopSubjectsLimit),
		Registers:    make([]RegisterActivity, 0, len(definitions)),
	}

	bySubject := make(map[id.SubjectID]*SubjectActivity, len(subjects))
	for _, sub := range subjects {
		if !sub.IsSupervisedBy(supervisor) {
			continue
		}
		o.TotalSubjects++
		bySubject[sub.ID] = &SubjectActivity{SubjectID: sub.ID, Email: sub.Email}
	}

	byRegister := make(map[id.DefinitionID]*RegisterActivity, len(definitions))
	for _, d := range definitions {
		if d.OwnerID != supervisor || !d.Active {
			continue
		}
		byRegister[d.ID] = &RegisterActivity{DefinitionID: d.ID, Name: d.Name}
	}
	o.TotalRegisters = len(byRegister)

	for _, a := range assignments {
		if a.SupervisorID != supervisor || !a.Active {
			continue
		}
		o.ActiveAssignments++
		if r, ok := byRegister[a.DefinitionID]; ok {
			r.ActiveAssignments++
		}
	}

	active := make(map[id.SubjectID]struct{})
	for _, e := range entries {
		if e.SupervisorID != supervisor || e.EntryDate.After(asOf) {
			continue
		}
		recent := !e.EntryDate.Before(weekStart)

		o.TotalEntries++
		if e.EntryDate.Year() == asOf.Year() && e.EntryDate.Month() == asOf.Month() {
			o.EntriesThisMonth++
		}
		if recent {
			o.EntriesThisWeek++
			active[e.SubjectID] = struct{}{}
		}

		if sa, ok := bySubject[e.SubjectID]; ok {
			sa.TotalEntries++
			if recent {
				sa.RecentEntries++
			}
			if sa.LastEntryDate.IsZero() || e.EntryDate.After(sa.LastEntryDate) {
				sa.LastEntryDate = e.EntryDate
			}
		}
		if r, ok := byRegister[e.DefinitionID]; ok {
			r.TotalEntries++
			if recent {
				r.EntriesThisWeek++
			}
		}
	}
	o.ActiveSubjects = len(active)

	if o.ActiveAssignments > 0 {
		o.AdherenceRate = min(int(math.Round(float64(o.EntriesThisWeek)*100/float64(o.ActiveAssignments))), 100)
	}
	if o.TotalSubjects > 0 {
		o.AveragePerSubject = int(math.Round(float64(o.TotalEntries) / float64(o.TotalSubjects)))
	}

	for _, sa := range bySubject {
		if sa.TotalEntries > 0 {
			o.TopSubjects = append(o.TopSubjects, *sa)
		}
	}
	slices.SortFunc(o.TopSubjects, func(a, b SubjectActivity) int {
		return cmp.Or(
			cmp.Compare(b.TotalEntries, a.TotalEntries),
			cmp.Compare(a.SubjectID.String(), b.SubjectID.String()),
		)
	})
	if len(o.TopSubjects) > TopSubjectsLimit {
		o.TopSubjects = o.TopSubjects[:TopSubjectsLimit]
	}

	for _, r := range byRegister {
		o.Registers = append(o.Registers, *r)
	}
	slices.SortFunc(o.Registers, func(a, b RegisterActivity) int {
		return cmp.Or(
			cmp.Compare(b.TotalEntries, a.TotalEntries),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.DefinitionID.String(), b.DefinitionID.String()),
		)
	})
	return o
}
