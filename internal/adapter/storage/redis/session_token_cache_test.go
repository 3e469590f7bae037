package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenCache_MarkAndCheck(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewSessionTokenCache(client)
	ctx := context.Background()

	used, err := cache.IsUsed(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, used, "unseen token")

	require.NoError(t, cache.MarkUsed(ctx, "tok-1", time.Hour))

	used, err = cache.IsUsed(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, used)

	used, err = cache.IsUsed(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, used, "tokens are independent")
}

func TestSessionTokenCache_MarkTwiceIsNotAnError(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewSessionTokenCache(client)
	ctx := context.Background()

	require.NoError(t, cache.MarkUsed(ctx, "tok-1", time.Hour))
	assert.NoError(t, cache.MarkUsed(ctx, "tok-1", time.Hour))
}

func TestSessionTokenCache_MarkerExpires(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewSessionTokenCache(client)
	ctx := context.Background()

	require.NoError(t, cache.MarkUsed(ctx, "tok-1", time.Minute))
	s.FastForward(2 * time.Minute)

	used, err := cache.IsUsed(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestSessionTokenCache_ServerDown(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewSessionTokenCache(client)
	s.Close()

	_, err := cache.IsUsed(context.Background(), "tok-1")
	assert.ErrorContains(t, err, "redis session token check")
}
