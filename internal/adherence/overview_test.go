package adherence

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amodels "moodlog/internal/assignment/models"
	"moodlog/internal/entry/models"
	rmodels "moodlog/internal/register/models"
	smodels "moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
)

type practice struct {
	supervisor  id.SupervisorID
	subjects    []*smodels.Subject
	definitions []*rmodels.Definition
	assignments []*amodels.Assignment
	entries     []*models.Entry
}

func newPractice() *practice {
	return &practice{supervisor: id.SupervisorID(uuid.New())}
}

func (p *practice) subject(email string) *smodels.Subject {
	sub := &smodels.Subject{ID: id.SubjectID(uuid.New()), SupervisorID: p.supervisor, Email: email}
	p.subjects = append(p.subjects, sub)
	return sub
}

func (p *practice) register(name string, active bool) *rmodels.Definition {
	d := &rmodels.Definition{ID: id.DefinitionID(uuid.New()), OwnerID: p.supervisor, Name: name, Active: active}
	p.definitions = append(p.definitions, d)
	return d
}

func (p *practice) assign(d *rmodels.Definition, sub *smodels.Subject, active bool) *amodels.Assignment {
	a := &amodels.Assignment{
		ID: id.AssignmentID(uuid.New()), DefinitionID: d.ID, SubjectID: sub.ID, SupervisorID: p.supervisor,
		Cadence: amodels.CadenceDaily, Active: active,
	}
	p.assignments = append(p.assignments, a)
	return a
}

func (p *practice) log(a *amodels.Assignment, days ...id.Date) {
	for _, d := range days {
		p.entries = append(p.entries, &models.Entry{
			ID: id.EntryID(uuid.New()), AssignmentID: a.ID, DefinitionID: a.DefinitionID,
			SubjectID: a.SubjectID, SupervisorID: a.SupervisorID, EntryDate: d,
		})
	}
}

func (p *practice) overview(asOf id.Date) Overview {
	return BuildOverview(p.supervisor, p.subjects, p.definitions, p.assignments, p.entries, asOf)
}

func TestBuildOverview(t *testing.T) {
	asOf := id.NewDate(2024, time.March, 4)

	p := newPractice()
	ada := p.subject("ada@example.com")
	bo := p.subject("bo@example.com")
	p.subject("idle@example.com")
	mood := p.register("Mood", true)
	sleep := p.register("Sleep", true)
	p.register("Old", false)

	adaMood := p.assign(mood, ada, true)
	adaSleep := p.assign(sleep, ada, true)
	boMood := p.assign(mood, bo, true)
	p.assign(sleep, bo, false)

	p.log(adaMood, id.NewDate(2024, 3, 4), id.NewDate(2024, 3, 3), id.NewDate(2024, 2, 27), id.NewDate(2024, 2, 26))
	p.log(adaSleep, id.NewDate(2024, 3, 1))
	p.log(boMood, id.NewDate(2024, 2, 1), id.NewDate(2024, 3, 9))

	o := p.overview(asOf)

	assert.Equal(t, 3, o.TotalSubjects)
	// Feb 26 falls outside the seven days ending Mar 4; Mar 9 is in the future
	assert.Equal(t, 6, o.TotalEntries)
	assert.Equal(t, 4, o.EntriesThisWeek)
	assert.Equal(t, 3, o.EntriesThisMonth)
	assert.Equal(t, 1, o.ActiveSubjects)
	assert.Equal(t, 2, o.TotalRegisters)
	assert.Equal(t, 3, o.ActiveAssignments)
	assert.Equal(t, 100, o.AdherenceRate)
	assert.Equal(t, 2, o.AveragePerSubject)

	require.Len(t, o.TopSubjects, 2)
	assert.Equal(t, SubjectActivity{
		SubjectID: ada.ID, Email: "ada@example.com", TotalEntries: 5, RecentEntries: 4, LastEntryDate: id.NewDate(2024, 3, 4),
	}, o.TopSubjects[0])
	assert.Equal(t, bo.ID, o.TopSubjects[1].SubjectID)
	assert.Equal(t, 0, o.TopSubjects[1].RecentEntries)

	require.Len(t, o.Registers, 2)
	assert.Equal(t, RegisterActivity{
		DefinitionID: mood.ID, Name: "Mood", ActiveAssignments: 2, TotalEntries: 5, EntriesThisWeek: 3,
	}, o.Registers[0])
	assert.Equal(t, RegisterActivity{
		DefinitionID: sleep.ID, Name: "Sleep", ActiveAssignments: 1, TotalEntries: 1, EntriesThisWeek: 1,
	}, o.Registers[1])
}

func TestBuildOverviewRates(t *testing.T) {
	asOf := id.NewDate(2024, time.March, 4)

	tests := []struct {
		name        string
		assignments int
		thisWeek    int
		wantRate    int
	}{
		{name: "no assignments", assignments: 0, thisWeek: 0, wantRate: 0},
		{name: "nothing logged", assignments: 2, thisWeek: 0, wantRate: 0},
		{name: "partial", assignments: 3, thisWeek: 2, wantRate: 67},
		{name: "more entries than assignments is capped", assignments: 1, thisWeek: 5, wantRate: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPractice()
			sub := p.subject("s@example.com")
			def := p.register("Mood", true)
			inactive := p.assign(def, sub, false)
			for range tt.assignments {
				p.assign(def, sub, true)
			}
			for i := range tt.thisWeek {
				p.log(inactive, asOf.AddDays(-i%7))
			}

			o := p.overview(asOf)
			assert.Equal(t, tt.wantRate, o.AdherenceRate)
			assert.Equal(t, tt.assignments, o.ActiveAssignments)
		})
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	o := newPractice().overview(id.NewDate(2024, time.March, 4))
	assert.Zero(t, o.TotalSubjects)
	assert.Zero(t, o.AveragePerSubject)
	assert.NotNil(t, o.TopSubjects)
	assert.Empty(t, o.TopSubjects)
	assert.NotNil(t, o.Registers)
}

func TestBuildOverviewTopSubjects(t *testing.T) {
	asOf := id.NewDate(2024, time.March, 4)
	p := newPractice()
	def := p.register("Mood", true)
	for i := range 7 {
		sub := p.subject(fmt.Sprintf("s%d@example.com", i))
		a := p.assign(def, sub, true)
		for d := range i {
			p.log(a, asOf.AddDays(-d))
		}
	}

	o := p.overview(asOf)
	require.Len(t, o.TopSubjects, TopSubjectsLimit)
	for i, want := range []int{6, 5, 4, 3, 2} {
		assert.Equal(t, want, o.TopSubjects[i].TotalEntries)
	}
}

func TestBuildOverviewIgnoresOtherSupervisors(t *testing.T) {
	asOf := id.NewDate(2024, time.March, 4)
	p := newPractice()
	sub := p.subject("s@example.com")
	def := p.register("Mood", true)
	a := p.assign(def, sub, true)
	p.log(a, asOf)

	stranger := newPractice()
	foreign := stranger.assign(stranger.register("Theirs", true), stranger.subject("x@example.com"), true)
	stranger.log(foreign, asOf)

	o := BuildOverview(p.supervisor,
		append(p.subjects, stranger.subjects...),
		append(p.definitions, stranger.definitions...),
		append(p.assignments, stranger.assignments...),
		append(p.entries, stranger.entries...),
		asOf)

	assert.Equal(t, 1, o.TotalSubjects)
	assert.Equal(t, 1, o.TotalEntries)
	assert.Equal(t, 1, o.TotalRegisters)
	assert.Equal(t, 1, o.ActiveAssignments)
}
