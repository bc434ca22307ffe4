package auth

import (
	"context"
	"fmt"
	"time"
)

type SessionStore interface {
	Revoke(ctx context.Context, sid string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sid string) (bool, error)
}

// Service turns bearer tokens into identities and handles logout.
// Access tokens are stateless JWTs, so the session store only carries
// the revocation list.
type Service struct {
	jwt      *JWTManager
	sessions SessionStore
	now      func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore) *Service {
	return &Service{
		jwt:      jwtManager,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *Service) ResolveAccessToken(ctx context.Context, raw string) (Identity, error) {
	claims, err := s.jwt.ParseAccessToken(raw)
	if err != nil {
		return Identity{}, err
	}
	if !s.now().Before(claims.ExpiresAt) {
		return Identity{}, ErrUnauthorized
	}

	if s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, claims.SID)
		if err != nil {
			return Identity{}, fmt.Errorf("check session revocation: %w", err)
		}
		if revoked {
			return Identity{}, ErrUnauthorized
		}
	}

	return Identity{
		UserID:    claims.UserID,
		SID:       claims.SID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Logout blacklists the session until its token would have expired on
// its own.
func (s *Service) Logout(ctx context.Context, identity Identity) error {
	if identity.SID == "" {
		return ErrInvalidInput
	}
	if s.sessions == nil {
		return fmt.Errorf("session store is not configured")
	}

	ttl := identity.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.sessions.Revoke(ctx, identity.SID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}
