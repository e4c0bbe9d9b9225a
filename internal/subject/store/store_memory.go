package store

import (
	"context"
	"slices"
	"sync"

	"moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	subjects map[id.SubjectID]*models.Subject
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{subjects: make(map[id.SubjectID]*models.Subject)}
}

// Create adds a roster record. A subject already on any roster conflicts.
func (s *InMemoryStore) Create(_ context.Context, sub *models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subjects[sub.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *sub
	s.subjects[sub.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subjects[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *InMemoryStore) ListBySupervisor(_ context.Context, supervisor id.SupervisorID) ([]*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Subject, 0)
	for _, sub := range s.subjects {
		if sub.SupervisorID == supervisor {
			cp := *sub
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *models.Subject) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// CountOnRoster reports how many of subjectIDs belong to supervisor.
func (s *InMemoryStore) CountOnRoster(_ context.Context, supervisor id.SupervisorID, subjectIDs []id.SubjectID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, subjectID := range subjectIDs {
		if sub, ok := s.subjects[subjectID]; ok && sub.SupervisorID == supervisor {
			n++
		}
	}
	return n, nil
}
