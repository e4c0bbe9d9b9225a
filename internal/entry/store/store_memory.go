package store

import (
	"context"
	"slices"
	"sync"

	"moodlog/internal/entry/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.EntryID]*models.Entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.EntryID]*models.Entry)}
}

func (s *InMemoryStore) Create(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.entries[e.ID] = e.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, entryID id.EntryID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return e.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.entries[e.ID] = e.Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, entryID id.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entryID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, entryID)
	return nil
}

// ListBySubject returns matching entries, newest entry date first.
func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0)
	for _, e := range s.entries {
		if e.SubjectID == subjectID && filter.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

// ListBySupervisor returns matching entries of every subject the supervisor
// oversees, newest entry date first.
func (s *InMemoryStore) ListBySupervisor(_ context.Context, supervisor id.SupervisorID, filter models.Filter) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0)
	for _, e := range s.entries {
		if e.SupervisorID == supervisor && filter.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

// DatesByAssignment returns each assignment's entry dates in ascending order.
// Assignments without entries are absent from the map.
func (s *InMemoryStore) DatesByAssignment(_ context.Context, assignmentIDs []id.AssignmentID) (map[id.AssignmentID][]id.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[id.AssignmentID]struct{}, len(assignmentIDs))
	for _, aid := range assignmentIDs {
		wanted[aid] = struct{}{}
	}
	out := make(map[id.AssignmentID][]id.Date)
	for _, e := range s.entries {
		if _, ok := wanted[e.AssignmentID]; ok {
			out[e.AssignmentID] = append(out[e.AssignmentID], e.EntryDate)
		}
	}
	for aid := range out {
		slices.SortFunc(out[aid], func(a, b id.Date) int { return a.Time().Compare(b.Time()) })
	}
	return out, nil
}

func newestFirst(a, b *models.Entry) int {
	if c := b.EntryDate.Time().Compare(a.EntryDate.Time()); c != 0 {
		return c
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}
