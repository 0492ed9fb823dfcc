package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	"github.com/bndy/centrestage/internal/data"
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider  = (*StubIdentityProvider)(nil)
	_ ports.ProfileRepository = (*MemoryProfileStore)(nil)
	_ ports.LoginMarker       = (*MemoryLoginMarker)(nil)
)

// StubIdentityProvider is a Func-field test double for ports.IdentityProvider.
// Unset funcs return zero values and no error.
type StubIdentityProvider struct {
	VerifyIDTokenFunc           func(ctx context.Context, idToken string) (domainauth.DecodedClaims, error)
	CreateSessionCredentialFunc func(ctx context.Context, idToken string, ttl time.Duration) (string, error)
	VerifySessionCredentialFunc func(ctx context.Context, credential string, checkRevoked bool) (domainauth.DecodedClaims, error)
	GetUserFunc                 func(ctx context.Context, uid string) (domainauth.UserRecord, error)
	SetCustomClaimsFunc         func(ctx context.Context, uid string, claims map[string]any) error
	RevokeRefreshTokensFunc     func(ctx context.Context, uid string) error
}

func (s *StubIdentityProvider) VerifyIDToken(ctx context.Context, idToken string) (domainauth.DecodedClaims, error) {
	if s.VerifyIDTokenFunc != nil {
		return s.VerifyIDTokenFunc(ctx, idToken)
	}
	return domainauth.DecodedClaims{}, nil
}

func (s *StubIdentityProvider) CreateSessionCredential(
	ctx context.Context,
	idToken string,
	ttl time.Duration,
) (string, error) {
	if s.CreateSessionCredentialFunc != nil {
		return s.CreateSessionCredentialFunc(ctx, idToken, ttl)
	}
	return "stub-session-credential", nil
}

func (s *StubIdentityProvider) VerifySessionCredential(
	ctx context.Context,
	credential string,
	checkRevoked bool,
) (domainauth.DecodedClaims, error) {
	if s.VerifySessionCredentialFunc != nil {
		return s.VerifySessionCredentialFunc(ctx, credential, checkRevoked)
	}
	return domainauth.DecodedClaims{}, nil
}

func (s *StubIdentityProvider) GetUser(ctx context.Context, uid string) (domainauth.UserRecord, error) {
	if s.GetUserFunc != nil {
		return s.GetUserFunc(ctx, uid)
	}
	return domainauth.UserRecord{UID: uid}, nil
}

func (s *StubIdentityProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	if s.SetCustomClaimsFunc != nil {
		return s.SetCustomClaimsFunc(ctx, uid, claims)
	}
	return nil
}

func (s *StubIdentityProvider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if s.RevokeRefreshTokensFunc != nil {
		return s.RevokeRefreshTokensFunc(ctx, uid)
	}
	return nil
}

// MemoryProfileStore is an in-memory ports.ProfileRepository for unit tests.
// It returns the data package sentinels so services exercise the same
// errors.Is paths they hit in production.
type MemoryProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*model.UserProfile
}

// NewMemoryProfileStore creates a new in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]*model.UserProfile)}
}

func (m *MemoryProfileStore) GetByUID(_ context.Context, uid string) (*model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, data.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryProfileStore) Create(
	_ context.Context,
	req model.CreateUserProfileRequest,
) (*model.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.profiles[req.UID]; exists {
		return nil, data.ErrProfileExists
	}
	now := time.Now().UTC()
	p := &model.UserProfile{
		UID:           req.UID,
		Email:         req.Email,
		EmailVerified: req.EmailVerified,
		DisplayName:   req.DisplayName,
		PhotoURL:      req.PhotoURL,
		Roles:         req.Roles,
		SourceApp:     req.SourceApp,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.profiles[req.UID] = p
	cp := *p
	return &cp, nil
}

func (m *MemoryProfileStore) Update(
	_ context.Context,
	uid string,
	req model.UpdateUserProfileRequest,
) (*model.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, data.ErrProfileNotFound
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.DisplayName != nil {
		p.DisplayName = req.DisplayName
	}
	if req.PhotoURL != nil {
		p.PhotoURL = req.PhotoURL
	}
	if req.Roles != nil {
		p.Roles = append([]domainauth.Role(nil), (*req.Roles)...)
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *MemoryProfileStore) TouchLastLogin(
	_ context.Context,
	uid string,
	at time.Time,
	emailVerified bool,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return data.ErrProfileNotFound
	}
	t := at.UTC()
	p.LastLoginAt = &t
	p.EmailVerified = emailVerified
	return nil
}

// MemoryLoginMarker is an in-memory ports.LoginMarker for unit tests.
type MemoryLoginMarker struct {
	mu     sync.Mutex
	marked map[string]time.Time

	// Now is overridable for window-expiry tests.
	Now func() time.Time
}

// NewMemoryLoginMarker creates a new in-memory login marker.
func NewMemoryLoginMarker() *MemoryLoginMarker {
	return &MemoryLoginMarker{marked: make(map[string]time.Time), Now: time.Now}
}

func (m *MemoryLoginMarker) FirstLogin(_ context.Context, uid string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	if until, ok := m.marked[uid]; ok && now.Before(until) {
		return false, nil
	}
	m.marked[uid] = now.Add(ttl)
	return true, nil
}
