package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "google")
	t.Setenv("AUTH_SESSION_DURATION", "48h")
	t.Setenv("AUTH_MAX_TOKEN_AGE", "30m")
	t.Setenv("AUTH_REVOKE_ON_LOGOUT", "true")
	t.Setenv("GOOGLE_AUTH_PROJECT_ID", "bndy-prod")
	t.Setenv("GOOGLE_AUTH_ADMIN_TOKEN", "admin-token")
	t.Setenv("MOCK_AUTH_UID", "dev-user")
	t.Setenv("MOCK_AUTH_EMAIL", "dev@example.com")
	t.Setenv("MOCK_AUTH_ROLES", "user;admin")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeGoogle,
		Google: GoogleAuthConfig{
			ProjectID:  "bndy-prod",
			AdminToken: "admin-token",
		},
		Mock: MockAuthConfig{
			UID:         "dev-user",
			Email:       "dev@example.com",
			DisplayName: "Dev User",
			Roles:       []string{"user", "admin"},
		},
		SessionDuration: 48 * time.Hour,
		MaxTokenAge:     30 * time.Minute,
		RevokeOnLogout:  true,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "google", expected: AuthModeGoogle},
		{input: "GOOGLE", expected: AuthModeGoogle},
		{input: "mock", expected: AuthModeMock},
		{input: "oauth", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		SessionDuration: 0,
		MaxTokenAge:     -time.Minute,
	}

	cfg.Sanitize()

	if cfg.SessionDuration != 120*time.Hour {
		t.Fatalf("expected session duration default, got %v", cfg.SessionDuration)
	}
	if cfg.MaxTokenAge != time.Hour {
		t.Fatalf("expected max token age default, got %v", cfg.MaxTokenAge)
	}

	cfg = AuthConfig{
		SessionDuration: 2 * time.Hour,
		MaxTokenAge:     10 * time.Minute,
	}
	cfg.Sanitize()

	if cfg.SessionDuration != 2*time.Hour {
		t.Fatalf("expected configured session duration to survive, got %v", cfg.SessionDuration)
	}
	if cfg.MaxTokenAge != 10*time.Minute {
		t.Fatalf("expected configured max token age to survive, got %v", cfg.MaxTokenAge)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Fatalf("expected compression level clamped to 1, got %d", cfg.CompressionLevel)
	}

	cfg = HTTPConfig{CompressionLevel: 42}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Fatalf("expected compression level clamped to 9, got %d", cfg.CompressionLevel)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatal("expected NODE_ENV=development to enable dev mode")
	}
}
