package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"moodlog/internal/invitation/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Postgres rules: codes are unique among unused rows
// and a code is marked used at most once.
type InMemoryStore struct {
	mu          sync.RWMutex
	invitations map[id.InvitationID]*models.Invitation
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{invitations: make(map[id.InvitationID]*models.Invitation)}
}

func (s *InMemoryStore) Create(_ context.Context, inv *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invitations[inv.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, other := range s.invitations {
		if !other.IsUsed() && other.Code == inv.Code {
			return sentinel.ErrConflict
		}
	}
	s.invitations[inv.ID] = copyInvitation(inv)
	return nil
}

// LockIssuance is a no-op; the in-memory transaction runner already serializes
// every unit of work.
func (s *InMemoryStore) LockIssuance(context.Context, id.SupervisorID, string) error {
	return nil
}

func (s *InMemoryStore) FindActiveByEmail(_ context.Context, supervisor id.SupervisorID, email string, now time.Time) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if inv.SupervisorID == supervisor && inv.Email == email && inv.IsActive(now) {
			return copyInvitation(inv), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindUnusedByCode(_ context.Context, code string) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if !inv.IsUsed() && inv.Code == code {
			return copyInvitation(inv), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// MarkUsed flips an unused row to used. A row that is already used yields ErrConflict.
func (s *InMemoryStore) MarkUsed(_ context.Context, invID id.InvitationID, subjectID id.SubjectID, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[invID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if inv.IsUsed() {
		return sentinel.ErrConflict
	}
	inv.MarkUsed(subjectID, usedAt)
	return nil
}

func (s *InMemoryStore) ListBySupervisor(_ context.Context, supervisor id.SupervisorID) ([]*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Invitation, 0)
	for _, inv := range s.invitations {
		if inv.SupervisorID == supervisor {
			out = append(out, copyInvitation(inv))
		}
	}
	slices.SortFunc(out, func(a, b *models.Invitation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func copyInvitation(inv *models.Invitation) *models.Invitation {
	out := *inv
	if inv.UsedAt != nil {
		t := *inv.UsedAt
		out.UsedAt = &t
	}
	return &out
}
