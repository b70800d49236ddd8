package config

import (
	"strings"
	"testing"
)

// setRequiredEnv sets the minimum required env vars for a valid config.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "test-jwt-secret-1234567890123456")
	t.Setenv("GITHUB_CLIENT_ID", "test-client-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "test-client-secret")
}

func TestLoad_FullConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_URL", "https://auth.example.com/")
	t.Setenv("DATABASE_DSN", "postgresql://u:p@db:5432/auth?sslmode=disable")
	t.Setenv("GITHUB_SCOPES", "read:user, user:email")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Database.DSN != "postgresql://u:p@db:5432/auth?sslmode=disable" {
		t.Errorf("unexpected DSN: %s", cfg.Database.DSN)
	}
	if cfg.GitHub.ClientID != "test-client-id" {
		t.Errorf("unexpected client id: %s", cfg.GitHub.ClientID)
	}
	if len(cfg.GitHub.Scopes) != 2 || cfg.GitHub.Scopes[1] != "user:email" {
		t.Errorf("unexpected scopes: %v", cfg.GitHub.Scopes)
	}
	// Trailing slash on APP_URL is stripped
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://auth.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected default max open conns 25, got %d", cfg.Database.MaxOpenConns)
	}
	if !strings.Contains(cfg.Database.DSN, "postgresql://") {
		t.Errorf("expected postgres DSN, got %s", cfg.Database.DSN)
	}
	if len(cfg.GitHub.Scopes) != 1 || cfg.GitHub.Scopes[0] != "read:user" {
		t.Errorf("unexpected default scopes: %v", cfg.GitHub.Scopes)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestLoad_InsecureProductionSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "change-this-secret-in-production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for insecure production JWT_SECRET")
	}
}

func TestLoad_MissingGitHubCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GITHUB_CLIENT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing GitHub credentials")
	}
}
