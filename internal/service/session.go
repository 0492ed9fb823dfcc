package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/ports"
)

// ErrReauthRequired is returned by Issue when the presented ID token's
// auth_time is older than the configured bound. The caller must re-run a
// first-factor sign-in rather than silently minting a long session from a
// stale proof of presence.
var ErrReauthRequired = errors.New("recent sign-in required")

const (
	// DefaultMaxTokenAge bounds how stale an ID token's auth_time may be at login.
	// Deliberately generous so cross-subdomain SSO handoffs survive a token refresh.
	DefaultMaxTokenAge = time.Hour
	// DefaultSessionDuration is the minted session credential lifetime.
	DefaultSessionDuration = 5 * 24 * time.Hour
)

// CheckReason explains an unauthenticated session check.
type CheckReason string

const (
	ReasonNoCookie       CheckReason = "no_cookie"
	ReasonSessionExpired CheckReason = "session_expired"
	ReasonSessionRevoked CheckReason = "session_revoked"
	ReasonInvalidSession CheckReason = "invalid_session"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Provider        ports.IdentityProvider
	MaxTokenAge     time.Duration // zero means DefaultMaxTokenAge
	SessionDuration time.Duration // zero means DefaultSessionDuration
}

// SessionService turns short-lived ID tokens into long-lived session
// credentials and answers session checks against them.
type SessionService struct {
	provider        ports.IdentityProvider
	maxTokenAge     time.Duration
	sessionDuration time.Duration

	now func() time.Time // override in tests
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	maxAge := opts.MaxTokenAge
	if maxAge <= 0 {
		maxAge = DefaultMaxTokenAge
	}
	dur := opts.SessionDuration
	if dur <= 0 {
		dur = DefaultSessionDuration
	}
	return &SessionService{
		provider:        opts.Provider,
		maxTokenAge:     maxAge,
		sessionDuration: dur,
		now:             time.Now,
	}
}

// SessionDuration returns the configured credential lifetime; the HTTP layer
// uses it for the cookie Max-Age.
func (s *SessionService) SessionDuration() time.Duration {
	return s.sessionDuration
}

// Issue verifies the ID token, enforces the token-age bound, and exchanges
// the token for a session credential. The verified claims come back alongside
// it so the caller can run post-login bookkeeping without re-verifying.
// Revocation is not checked here; a user logging in right after a password
// change should succeed.
func (s *SessionService) Issue(ctx context.Context, idToken string) (string, domainauth.DecodedClaims, error) {
	claims, err := s.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", domainauth.DecodedClaims{}, fmt.Errorf("verify id token: %w", err)
	}

	if s.now().Sub(claims.AuthTime) > s.maxTokenAge {
		return "", domainauth.DecodedClaims{}, ErrReauthRequired
	}

	credential, err := s.provider.CreateSessionCredential(ctx, idToken, s.sessionDuration)
	if err != nil {
		return "", domainauth.DecodedClaims{}, fmt.Errorf("create session credential: %w", err)
	}
	return credential, claims, nil
}

// CheckResult describes the outcome of a session check.
type CheckResult struct {
	Authenticated bool
	Reason        CheckReason // set only when not authenticated
	Claims        domainauth.DecodedClaims
	User          *domainauth.UserRecord
}

// Check validates a session credential with revocation checking and returns
// the account state. Expected failure modes (missing, expired, revoked,
// malformed credentials) come back as an unauthenticated result with a
// reason, not an error; errors mean something actually broke.
func (s *SessionService) Check(ctx context.Context, credential string) (CheckResult, error) {
	if credential == "" {
		return CheckResult{Reason: ReasonNoCookie}, nil
	}

	claims, err := s.provider.VerifySessionCredential(ctx, credential, true)
	if err != nil {
		if reason, ok := checkReasonFor(err); ok {
			return CheckResult{Reason: reason}, nil
		}
		return CheckResult{}, fmt.Errorf("verify session credential: %w", err)
	}

	user, err := s.provider.GetUser(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return CheckResult{Reason: ReasonInvalidSession}, nil
		}
		return CheckResult{}, fmt.Errorf("get user %s: %w", claims.UID, err)
	}

	return CheckResult{Authenticated: true, Claims: claims, User: &user}, nil
}

// Terminate ends a session. Credentials are stateless, so there is nothing
// to delete server-side; the cookie clear happens at the HTTP layer. The
// method exists so callers that do want revoke-on-logout can opt in.
func (s *SessionService) Terminate(ctx context.Context, credential string, revoke bool) error {
	if !revoke || credential == "" {
		return nil
	}
	claims, err := s.provider.VerifySessionCredential(ctx, credential, false)
	if err != nil {
		// Logout is idempotent; a dead credential is already logged out.
		return nil
	}
	if err := s.provider.RevokeRefreshTokens(ctx, claims.UID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func checkReasonFor(err error) (CheckReason, bool) {
	switch {
	case errors.Is(err, ports.ErrCredentialExpired):
		return ReasonSessionExpired, true
	case errors.Is(err, ports.ErrCredentialRevoked):
		return ReasonSessionRevoked, true
	case errors.Is(err, ports.ErrCredentialInvalid):
		return ReasonInvalidSession, true
	default:
		return "", false
	}
}
