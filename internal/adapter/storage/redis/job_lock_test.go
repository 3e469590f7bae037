package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLock_ExclusiveUntilUnlock(t *testing.T) {
	_, client := newTestClient(t)
	a := NewJobLock(client)
	b := NewJobLock(client)
	ctx := context.Background()

	ok, err := a.TryLock(ctx, "payments", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryLock(ctx, "payments", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second instance must not acquire a held lock")

	ok, err = b.TryLock(ctx, "rebalance", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "locks are per job")

	require.NoError(t, a.Unlock(ctx, "payments"))

	ok, err = b.TryLock(ctx, "payments", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJobLock_ExpiredHolderCannotReleaseNewOwner(t *testing.T) {
	s, client := newTestClient(t)
	a := NewJobLock(client)
	b := NewJobLock(client)
	ctx := context.Background()

	ok, err := a.TryLock(ctx, "payments", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = b.TryLock(ctx, "payments", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, a.Unlock(ctx, "payments"))
	assert.True(t, s.Exists("joblock:payments"), "stale holder released someone else's lock")
}

func TestJobLock_UnlockWithoutHoldingIsNoop(t *testing.T) {
	_, client := newTestClient(t)
	lock := NewJobLock(client)

	assert.NoError(t, lock.Unlock(context.Background(), "payments"))
}
