package store

import (
	"context"
	"slices"
	"sync"

	"moodlog/internal/register/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
)

// InMemoryStore keeps definitions in a map. Returned values are copies.
type InMemoryStore struct {
	mu          sync.RWMutex
	definitions map[id.DefinitionID]*models.Definition
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{definitions: make(map[id.DefinitionID]*models.Definition)}
}

func (s *InMemoryStore) Create(_ context.Context, d *models.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.definitions[d.ID]; exists {
		return sentinel.ErrConflict
	}
	s.definitions[d.ID] = copyDefinition(d)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, defID id.DefinitionID) (*models.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.definitions[defID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyDefinition(d), nil
}

// FindForUpdate is FindByID; callers already hold the in-memory transaction lock.
func (s *InMemoryStore) FindForUpdate(ctx context.Context, defID id.DefinitionID) (*models.Definition, error) {
	return s.FindByID(ctx, defID)
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.SupervisorID, includeRetired bool) ([]*models.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Definition, 0)
	for _, d := range s.definitions {
		if d.OwnerID != owner || (!includeRetired && !d.Active) {
			continue
		}
		out = append(out, copyDefinition(d))
	}
	slices.SortFunc(out, func(a, b *models.Definition) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, d *models.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.definitions[d.ID] = copyDefinition(d)
	return nil
}

func copyDefinition(d *models.Definition) *models.Definition {
	out := *d
	out.Schema = d.Schema.Clone()
	if d.RetiredAt != nil {
		t := *d.RetiredAt
		out.RetiredAt = &t
	}
	return &out
}
