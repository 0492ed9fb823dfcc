package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the identity provider mode for the application.
type AuthMode string

const (
	// AuthModeGoogle uses Google Identity Platform for authentication.
	AuthModeGoogle AuthMode = "google"
	// AuthModeMock uses an in-memory mock provider (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "google", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: google, mock)", v)
	}
}

// GoogleAuthConfig contains Google Identity Platform configuration.
// Used when AUTH_MODE=google.
type GoogleAuthConfig struct {
	// ProjectID is the Google Cloud project backing the identity tenant.
	ProjectID string `env:"PROJECT_ID"`

	// IDTokenJWKSURL and SessionJWKSURL override the default key endpoints.
	// Leave empty outside of tests.
	IDTokenJWKSURL string `env:"ID_TOKEN_JWKS_URL"`
	SessionJWKSURL string `env:"SESSION_JWKS_URL"`

	// AdminBaseURL overrides the identitytoolkit API base URL.
	// Leave empty outside of tests.
	AdminBaseURL string `env:"ADMIN_BASE_URL"`

	// AdminToken is a static bearer token for the admin API. When empty the
	// application default credentials are used instead.
	AdminToken string `env:"ADMIN_TOKEN"`
}

// MockAuthConfig controls the seeded identity for the mock provider.
// Used when AUTH_MODE=mock for development and testing.
type MockAuthConfig struct {
	UID         string   `env:"UID"          envDefault:"dev-user"`
	Email       string   `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string   `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Roles       []string `env:"ROLES"        envDefault:"user;admin"    envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"google"`

	// Google configuration (used when Mode=google).
	Google GoogleAuthConfig `envPrefix:"GOOGLE_AUTH_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`

	// SessionDuration is the minted session credential lifetime, and with it
	// the session cookie Max-Age.
	SessionDuration time.Duration `env:"AUTH_SESSION_DURATION" envDefault:"120h"`

	// MaxTokenAge bounds how stale an ID token's auth_time may be at login.
	MaxTokenAge time.Duration `env:"AUTH_MAX_TOKEN_AGE" envDefault:"1h"`

	// RevokeOnLogout revokes the account's refresh tokens on logout, killing
	// sessions on every device rather than just clearing the local cookie.
	RevokeOnLogout bool `env:"AUTH_REVOKE_ON_LOGOUT" envDefault:"false"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionDuration <= 0 {
		a.SessionDuration = 120 * time.Hour
	}
	if a.MaxTokenAge <= 0 {
		a.MaxTokenAge = time.Hour
	}
}
