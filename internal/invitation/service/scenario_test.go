package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodlog/internal/invitation/models"
	"moodlog/internal/invitation/store"
	subservice "moodlog/internal/subject/service"
	substore "moodlog/internal/subject/store"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/tx"
	"moodlog/pkg/requestcontext"
)

type world struct {
	invitations *Service
	subjects    *subservice.Service
	store       *store.InMemoryStore
	supervisor  id.SupervisorID
}

func newWorld(t *testing.T) *world {
	t.Helper()
	runner := tx.NewInMemory()
	subjects, err := subservice.New(substore.NewInMemory())
	require.NoError(t, err)
	st := store.NewInMemory()
	svc, err := New(st, subjects, WithTx(runner))
	require.NoError(t, err)
	return &world{invitations: svc, subjects: subjects, store: st, supervisor: id.SupervisorID(uuid.New())}
}

func at(ts time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), ts)
}

func TestDuplicateIssuance(t *testing.T) {
	w := newWorld(t)
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	first, err := w.invitations.Issue(at(issuedAt), w.supervisor, "ada@example.com")
	require.NoError(t, err)

	_, err = w.invitations.Issue(at(issuedAt.Add(time.Hour)), w.supervisor, " ADA@example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasReason(err, dErrors.ReasonDuplicateActiveInvitation))

	// Another supervisor may invite the same address.
	_, err = w.invitations.Issue(at(issuedAt), id.SupervisorID(uuid.New()), "ada@example.com")
	require.NoError(t, err)

	// Once the first code expires a new one can be issued.
	_, err = w.invitations.Issue(at(first.ExpiresAt.Add(time.Second)), w.supervisor, "ada@example.com")
	require.NoError(t, err)
}

func TestExpiredAndReusedCodes(t *testing.T) {
	w := newWorld(t)
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	stale, err := w.invitations.Issue(at(issuedAt), w.supervisor, "ada@example.com")
	require.NoError(t, err)
	_, err = w.invitations.Redeem(at(stale.ExpiresAt.Add(time.Minute)), id.SubjectID(uuid.New()), stale.Code, "ada@example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasReason(err, dErrors.ReasonExpired))

	fresh, err := w.invitations.Issue(at(issuedAt.Add(10*24*time.Hour)), w.supervisor, "grace@example.com")
	require.NoError(t, err)
	subject := id.SubjectID(uuid.New())
	redeemed, err := w.invitations.Redeem(at(issuedAt.Add(11*24*time.Hour)), subject, fresh.Code, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, subject, redeemed.SubjectID)

	supervisor, err := w.subjects.SupervisorOf(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, w.supervisor, supervisor)

	_, err = w.invitations.Redeem(at(issuedAt.Add(11*24*time.Hour)), id.SubjectID(uuid.New()), fresh.Code, "grace@example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasReason(err, dErrors.ReasonInvalidOrUsedCode))

	listed, err := w.invitations.ListBySupervisor(context.Background(), w.supervisor)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, models.StatusUsed, listed[0].Status(issuedAt.Add(12*24*time.Hour)))
	assert.Equal(t, models.StatusExpired, listed[1].Status(issuedAt.Add(12*24*time.Hour)))
}

func TestConcurrentRedemptionSucceedsOnce(t *testing.T) {
	w := newWorld(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	inv, err := w.invitations.Issue(at(now), w.supervisor, "ada@example.com")
	require.NoError(t, err)

	const racers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.invitations.Redeem(at(now.Add(time.Minute)), id.SubjectID(uuid.New()), inv.Code, "ada@example.com")
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.True(t, dErrors.HasReason(err, dErrors.ReasonInvalidOrUsedCode))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}

func TestRedeemLeavesCodeUnusedWhenAlreadyEnrolled(t *testing.T) {
	w := newWorld(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	subject := id.SubjectID(uuid.New())

	first, err := w.invitations.Issue(at(now), w.supervisor, "ada@example.com")
	require.NoError(t, err)
	_, err = w.invitations.Redeem(at(now), subject, first.Code, "ada@example.com")
	require.NoError(t, err)

	other := id.SupervisorID(uuid.New())
	second, err := w.invitations.Issue(at(now), other, "ada@example.com")
	require.NoError(t, err)
	_, err = w.invitations.Redeem(at(now), subject, second.Code, "ada@example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	// Enrollment failed first, so the second code is still redeemable.
	stillThere, err := w.store.FindUnusedByCode(context.Background(), second.Code)
	require.NoError(t, err)
	assert.False(t, stillThere.IsUsed())
}
