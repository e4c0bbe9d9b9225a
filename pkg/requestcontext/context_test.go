package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "moodlog/pkg/domain"
)

func TestIdentityAccessors(t *testing.T) {
	ctx := context.Background()
	assert.True(t, UserID(ctx).IsNil())
	assert.Equal(t, id.Role(""), Role(ctx))

	userID := id.UserID(uuid.New())
	ctx = WithIdentity(ctx, userID, id.RoleSupervisor)
	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, id.RoleSupervisor, Role(ctx))
}

func TestTodayUsesLocation(t *testing.T) {
	instant := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), instant)
	assert.Equal(t, "2024-05-01", Today(ctx).String())

	tokyo := time.FixedZone("JST", 9*3600)
	ctx = WithLocation(ctx, tokyo)
	assert.Equal(t, "2024-05-02", Today(ctx).String())
}

func TestNowFallsBackToWallClock(t *testing.T) {
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}

func TestRoleScopedCallers(t *testing.T) {
	userID := id.UserID(uuid.New())

	ctx := WithIdentity(context.Background(), userID, id.RoleSupervisor)
	sup, ok := Supervisor(ctx)
	assert.True(t, ok)
	assert.Equal(t, id.SupervisorID(userID), sup)
	_, ok = Subject(ctx)
	assert.False(t, ok)

	ctx = WithIdentity(context.Background(), userID, id.RoleSubject)
	subj, ok := Subject(ctx)
	assert.True(t, ok)
	assert.Equal(t, id.SubjectID(userID), subj)
	_, ok = Supervisor(ctx)
	assert.False(t, ok)

	_, ok = Supervisor(context.Background())
	assert.False(t, ok)
}
