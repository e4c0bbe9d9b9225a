package store

import (
	"context"
	"slices"
	"sync"

	"moodlog/internal/assignment/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
)

type activeKey struct {
	subject    id.SubjectID
	definition id.DefinitionID
}

// InMemoryStore keeps assignments in a map and enforces the one-active-per-pair rule
// the way the Postgres partial unique index does.
type InMemoryStore struct {
	mu          sync.RWMutex
	assignments map[id.AssignmentID]*models.Assignment
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{assignments: make(map[id.AssignmentID]*models.Assignment)}
}

// CreateMany inserts all rows or none.
func (s *InMemoryStore) CreateMany(_ context.Context, rows []*models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make(map[activeKey]struct{})
	for _, a := range s.assignments {
		if a.Active {
			active[activeKey{a.SubjectID, a.DefinitionID}] = struct{}{}
		}
	}
	for _, a := range rows {
		if _, exists := s.assignments[a.ID]; exists {
			return sentinel.ErrConflict
		}
		if !a.Active {
			continue
		}
		key := activeKey{a.SubjectID, a.DefinitionID}
		if _, dup := active[key]; dup {
			return sentinel.ErrConflict
		}
		active[key] = struct{}{}
	}
	for _, a := range rows {
		s.assignments[a.ID] = copyAssignment(a)
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, assignmentID id.AssignmentID) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignmentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyAssignment(a), nil
}

func (s *InMemoryStore) Update(_ context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.assignments[a.ID] = copyAssignment(a)
	return nil
}

func (s *InMemoryStore) ListBySupervisor(_ context.Context, supervisor id.SupervisorID, activeOnly bool) ([]*models.Assignment, error) {
	return s.list(func(a *models.Assignment) bool {
		return a.SupervisorID == supervisor && (!activeOnly || a.Active)
	}), nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID id.SubjectID, activeOnly bool) ([]*models.Assignment, error) {
	return s.list(func(a *models.Assignment) bool {
		return a.SubjectID == subjectID && (!activeOnly || a.Active)
	}), nil
}

func (s *InMemoryStore) HasActive(_ context.Context, subjectID id.SubjectID, defID id.DefinitionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.Active && a.SubjectID == subjectID && a.DefinitionID == defID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) CountActiveByDefinition(_ context.Context, defID id.DefinitionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.assignments {
		if a.Active && a.DefinitionID == defID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) list(keep func(*models.Assignment) bool) []*models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Assignment, 0)
	for _, a := range s.assignments {
		if keep(a) {
			out = append(out, copyAssignment(a))
		}
	}
	slices.SortFunc(out, func(a, b *models.Assignment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func copyAssignment(a *models.Assignment) *models.Assignment {
	out := *a
	out.Schema = a.Schema.Clone()
	if a.DeactivatedAt != nil {
		t := *a.DeactivatedAt
		out.DeactivatedAt = &t
	}
	return &out
}
