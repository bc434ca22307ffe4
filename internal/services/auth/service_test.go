package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	redisrepo "github.com/SketchTurnerrr/imago-server/internal/repo/redis"
)

func newTestService(t *testing.T) (*Service, *JWTManager) {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(srv.Close)

	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := NewJWTManager("test-secret", 15*time.Minute)
	return NewService(manager, redisrepo.NewSessionRepo(client)), manager
}

func TestResolveAccessToken(t *testing.T) {
	svc, manager := newTestService(t)
	userID := uuid.NewString()

	token, _, err := manager.GenerateAccessToken(userID, "sid-1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	identity, err := svc.ResolveAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if identity.UserID != userID {
		t.Fatalf("unexpected user id: %s", identity.UserID)
	}
	if identity.SID != "sid-1" {
		t.Fatalf("unexpected sid: %s", identity.SID)
	}
}

func TestResolveAccessTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ResolveAccessToken(context.Background(), raw); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", raw, err)
		}
	}
}

func TestResolveAccessTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newTestService(t)

	other := NewJWTManager("other-secret", 15*time.Minute)
	token, _, err := other.GenerateAccessToken(uuid.NewString(), "sid-1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := svc.ResolveAccessToken(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolveAccessTokenRejectsNonUUIDSubject(t *testing.T) {
	_, manager := newTestService(t)

	if _, _, err := manager.GenerateAccessToken("42", "sid-1"); err == nil {
		t.Fatal("expected error for non-uuid subject")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, manager := newTestService(t)
	userID := uuid.NewString()

	token, _, err := manager.GenerateAccessToken(userID, "sid-logout")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	identity, err := svc.ResolveAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve token before logout: %v", err)
	}

	if err := svc.Logout(context.Background(), identity); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ResolveAccessToken(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestResolveAccessTokenRejectsExpired(t *testing.T) {
	svc, manager := newTestService(t)

	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := manager.GenerateAccessToken(uuid.NewString(), "sid-old")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := svc.ResolveAccessToken(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
