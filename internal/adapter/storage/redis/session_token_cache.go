package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SessionTokenCache implements ports.SessionTokenCache using Redis SET NX.
// It only short-circuits replays; the session_tokens table stays authoritative.
type SessionTokenCache struct {
	client *goredis.Client
	prefix string
}

// NewSessionTokenCache creates a new Redis-backed session token cache.
func NewSessionTokenCache(client *goredis.Client) *SessionTokenCache {
	return &SessionTokenCache{
		client: client,
		prefix: "session_token:",
	}
}

// IsUsed reports whether the token has been marked as consumed.
func (c *SessionTokenCache) IsUsed(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("redis session token check: %w", err)
	}
	return n > 0, nil
}

// MarkUsed records the token as consumed. Marking an already-marked token is not an error.
func (c *SessionTokenCache) MarkUsed(ctx context.Context, token string, ttl time.Duration) error {
	err := c.client.SetArgs(ctx, c.prefix+token, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis session token mark: %w", err)
	}
	return nil
}
