package store

import (
	"context"
	"slices"
	"sync"

	"moodlog/internal/clinicalnote/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	notes map[id.NoteID]*models.Note
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{notes: make(map[id.NoteID]*models.Note)}
}

func (s *InMemoryStore) Create(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.notes[n.ID]; exists {
		return sentinel.ErrConflict
	}
	s.notes[n.ID] = n.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, noteID id.NoteID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[noteID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return n.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[n.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.notes[n.ID] = n.Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, noteID id.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[noteID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}

// ListByEntry returns the entry's notes, newest first.
func (s *InMemoryStore) ListByEntry(_ context.Context, entryID id.EntryID) ([]*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Note, 0)
	for _, n := range s.notes {
		if n.EntryID == entryID {
			out = append(out, n.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.Note) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}
