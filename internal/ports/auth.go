package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
)

// Sentinel errors returned by IdentityProvider implementations. Adapters
// translate provider-specific failures into this closed set; everything
// inward matches with errors.Is and never inspects provider error text.
var (
	// ErrCredentialExpired means the credential's signature checked out but it is past expiry.
	ErrCredentialExpired = errors.New("credential expired")
	// ErrCredentialRevoked means the credential predates the account's last revocation.
	ErrCredentialRevoked = errors.New("credential revoked")
	// ErrCredentialInvalid covers malformed, unsigned, or wrong-audience credentials.
	ErrCredentialInvalid = errors.New("credential invalid")
	// ErrUserNotFound means the provider has no account for the given uid.
	ErrUserNotFound = errors.New("user not found")
)

// IdentityProvider abstracts the upstream identity service (Google Identity
// Platform in production, an in-memory fake in dev and tests).
type IdentityProvider interface {
	// VerifyIDToken validates a short-lived bearer ID token and returns its claims.
	// Revocation is not checked here.
	VerifyIDToken(ctx context.Context, idToken string) (domainauth.DecodedClaims, error)

	// CreateSessionCredential exchanges a verified ID token for a long-lived
	// session credential with the given lifetime.
	CreateSessionCredential(ctx context.Context, idToken string, ttl time.Duration) (string, error)

	// VerifySessionCredential validates a session credential. When checkRevoked
	// is true the credential's auth_time is compared against the account's
	// revocation watermark and ErrCredentialRevoked is returned if it predates it.
	VerifySessionCredential(ctx context.Context, credential string, checkRevoked bool) (domainauth.DecodedClaims, error)

	// GetUser fetches the provider-side account record.
	GetUser(ctx context.Context, uid string) (domainauth.UserRecord, error)

	// SetCustomClaims replaces the account's custom claims wholesale.
	// Changes propagate to clients only on their next token refresh.
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error

	// RevokeRefreshTokens advances the account's revocation watermark,
	// invalidating outstanding session credentials on revocation-checked paths.
	RevokeRefreshTokens(ctx context.Context, uid string) error
}
