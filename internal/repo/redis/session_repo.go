package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked_sessions:"

// SessionRepo tracks revoked JWT session ids. Tokens are stateless, so
// logout works by blacklisting the session id until the token would
// have expired anyway.
type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Revoke(ctx context.Context, sid string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return fmt.Errorf("session id is required")
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, revokedKey(sid), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (r *SessionRepo) IsRevoked(ctx context.Context, sid string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return false, nil
	}

	_, err := r.client.Get(ctx, revokedKey(sid)).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("check revoked session: %w", err)
	}

	return true, nil
}

func revokedKey(sid string) string {
	return revokedPrefix + sid
}
