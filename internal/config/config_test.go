package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
env: staging
http:
  addr: ":9090"
postgres:
  dsn: postgres://u:p@db:5432/imago
  migrate: false
s3:
  bucket: imago-test
  url_ttl: 10m
limits:
  likes_per_minute: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Env != "staging" {
		t.Fatalf("unexpected env: %s", cfg.Env)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Postgres.DSN != "postgres://u:p@db:5432/imago" {
		t.Fatalf("unexpected postgres dsn: %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.Migrate {
		t.Fatalf("postgres.migrate override should be false")
	}
	if cfg.S3.Bucket != "imago-test" {
		t.Fatalf("unexpected s3 bucket: %s", cfg.S3.Bucket)
	}
	if cfg.S3.URLTTL.String() != "10m0s" {
		t.Fatalf("unexpected s3 url ttl: %s", cfg.S3.URLTTL.String())
	}
	if cfg.Limits.LikesPerMinute != 5 {
		t.Fatalf("unexpected likes/minute: %d", cfg.Limits.LikesPerMinute)
	}

	if cfg.HTTP.ReadTimeout.String() != "5s" {
		t.Fatalf("http read timeout default should stay 5s, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr default should stay localhost:6379, got %s", cfg.Redis.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level default should stay debug, got %s", cfg.Log.Level)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if !cfg.Postgres.Migrate {
		t.Fatalf("postgres.migrate should default to true")
	}
	if cfg.Postgres.MaxConns != 8 {
		t.Fatalf("unexpected default postgres max conns: %d", cfg.Postgres.MaxConns)
	}
	if cfg.S3.URLTTL.String() != "5m0s" {
		t.Fatalf("unexpected default s3 url ttl: %s", cfg.S3.URLTTL.String())
	}
	if cfg.Limits.LikesPerMinute != 30 {
		t.Fatalf("unexpected default likes/minute: %d", cfg.Limits.LikesPerMinute)
	}
	if cfg.Auth.JWTSecret != "change-me" {
		t.Fatalf("unexpected default jwt secret: %s", cfg.Auth.JWTSecret)
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("POSTGRES_MAX_CONNS", "16")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LIKES_PER_MINUTE", "12")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env override should win, got %s", cfg.HTTP.Addr)
	}
	if cfg.Postgres.MaxConns != 16 {
		t.Fatalf("unexpected postgres max conns: %d", cfg.Postgres.MaxConns)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("unexpected redis db: %d", cfg.Redis.DB)
	}
	if cfg.Limits.LikesPerMinute != 12 {
		t.Fatalf("unexpected likes/minute: %d", cfg.Limits.LikesPerMinute)
	}
}

func TestLoadRejectsBadEnvValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed REDIS_DB")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"POSTGRES_MIGRATE",
		"POSTGRES_MAX_CONNS",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"S3_URL_TTL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"LIKES_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}
}
