package mockidp

// Package mockidp provides a config-driven in-memory IdentityProvider for
// local development and tests. Credentials are opaque uuids; no cryptography.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/ports"
)

const defaultIDTokenTTL = time.Hour

// SeedUser describes an account to preload into the provider.
type SeedUser struct {
	UID           string
	Email         string
	EmailVerified bool
	DisplayName   string
	PhotoURL      string
	Roles         []domainauth.Role
}

// Config controls the mock provider behavior.
type Config struct {
	Users      []SeedUser
	IDTokenTTL time.Duration // default 1h when zero
}

// issued tracks a minted credential. Claims are snapshotted at mint time so
// claim updates only become visible on the next mint, matching how real
// providers propagate custom claims on token refresh.
type issued struct {
	uid       string
	authTime  time.Time
	issuedAt  time.Time
	expiresAt time.Time
	custom    map[string]any
}

// Provider implements ports.IdentityProvider entirely in memory.
type Provider struct {
	mu         sync.Mutex
	users      map[string]*domainauth.UserRecord
	idTokens   map[string]issued
	sessions   map[string]issued
	idTokenTTL time.Duration

	now func() time.Time // override in tests
}

// NewProvider constructs a mock identity provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	ttl := cfg.IDTokenTTL
	if ttl == 0 {
		ttl = defaultIDTokenTTL
	}
	p := &Provider{
		users:      make(map[string]*domainauth.UserRecord),
		idTokens:   make(map[string]issued),
		sessions:   make(map[string]issued),
		idTokenTTL: ttl,
		now:        time.Now,
	}
	for _, u := range cfg.Users {
		if u.UID == "" {
			return nil, errors.New("mock auth: seed user UID is required")
		}
		if u.Email == "" {
			return nil, fmt.Errorf("mock auth: seed user %s: Email is required", u.UID)
		}
		claims := map[string]any{}
		if len(u.Roles) > 0 {
			claims["roles"] = append([]domainauth.Role(nil), u.Roles...)
		}
		p.users[u.UID] = &domainauth.UserRecord{
			UID:            u.UID,
			Email:          u.Email,
			EmailVerified:  u.EmailVerified,
			DisplayName:    u.DisplayName,
			PhotoURL:       u.PhotoURL,
			CustomClaims:   claims,
			Providers:      []string{"password"},
			CreationTime:   time.Now(),
			LastSignInTime: time.Now(),
		}
	}
	return p, nil
}

// MintIDToken issues a fresh ID token for a seeded user, as if the user had
// just completed a first-factor sign-in. Dev login endpoints and tests call
// this in place of a real token exchange.
func (p *Provider) MintIDToken(uid string) (string, error) {
	return p.MintIDTokenAt(uid, time.Time{})
}

// MintIDTokenAt issues an ID token with an explicit auth_time, letting tests
// exercise token-age gating. A zero authTime means "now".
func (p *Provider) MintIDTokenAt(uid string, authTime time.Time) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[uid]
	if !ok {
		return "", ports.ErrUserNotFound
	}
	now := p.now()
	if authTime.IsZero() {
		authTime = now
	}
	token := uuid.NewString()
	p.idTokens[token] = issued{
		uid:       uid,
		authTime:  authTime,
		issuedAt:  now,
		expiresAt: now.Add(p.idTokenTTL),
		custom:    cloneClaims(user.CustomClaims),
	}
	user.LastSignInTime = now
	return token, nil
}

func (p *Provider) VerifyIDToken(_ context.Context, idToken string) (domainauth.DecodedClaims, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verifyLocked(p.idTokens, idToken, false)
}

func (p *Provider) CreateSessionCredential(
	_ context.Context,
	idToken string,
	ttl time.Duration,
) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	claims, err := p.verifyLocked(p.idTokens, idToken, false)
	if err != nil {
		return "", err
	}
	now := p.now()
	credential := uuid.NewString()
	p.sessions[credential] = issued{
		uid:       claims.UID,
		authTime:  claims.AuthTime,
		issuedAt:  now,
		expiresAt: now.Add(ttl),
		custom:    cloneClaims(claims.Custom),
	}
	return credential, nil
}

func (p *Provider) VerifySessionCredential(
	_ context.Context,
	credential string,
	checkRevoked bool,
) (domainauth.DecodedClaims, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verifyLocked(p.sessions, credential, checkRevoked)
}

func (p *Provider) GetUser(_ context.Context, uid string) (domainauth.UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[uid]
	if !ok {
		return domainauth.UserRecord{}, ports.ErrUserNotFound
	}
	rec := *user
	rec.CustomClaims = cloneClaims(user.CustomClaims)
	rec.Providers = append([]string(nil), user.Providers...)
	return rec, nil
}

func (p *Provider) SetCustomClaims(_ context.Context, uid string, claims map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[uid]
	if !ok {
		return ports.ErrUserNotFound
	}
	user.CustomClaims = cloneClaims(claims)
	return nil
}

func (p *Provider) RevokeRefreshTokens(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[uid]
	if !ok {
		return ports.ErrUserNotFound
	}
	user.ValidSince = p.now()
	return nil
}

// verifyLocked resolves a credential from the given store. Callers hold p.mu.
func (p *Provider) verifyLocked(
	store map[string]issued,
	credential string,
	checkRevoked bool,
) (domainauth.DecodedClaims, error) {
	iss, ok := store[credential]
	if !ok {
		return domainauth.DecodedClaims{}, ports.ErrCredentialInvalid
	}
	if p.now().After(iss.expiresAt) {
		return domainauth.DecodedClaims{}, ports.ErrCredentialExpired
	}
	user, ok := p.users[iss.uid]
	if !ok {
		return domainauth.DecodedClaims{}, ports.ErrUserNotFound
	}
	if checkRevoked && !user.ValidSince.IsZero() && iss.authTime.Before(user.ValidSince) {
		return domainauth.DecodedClaims{}, ports.ErrCredentialRevoked
	}
	return domainauth.DecodedClaims{
		UID:            user.UID,
		Email:          user.Email,
		EmailVerified:  user.EmailVerified,
		AuthTime:       iss.authTime,
		IssuedAt:       iss.issuedAt,
		ExpiresAt:      iss.expiresAt,
		SignInProvider: "password",
		Custom:         cloneClaims(iss.custom),
	}, nil
}

func cloneClaims(claims map[string]any) map[string]any {
	if claims == nil {
		return nil
	}
	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out
}
