package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bndy/centrestage/internal/data"
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/ports"
)

// ClaimsServiceOptions groups dependencies for ClaimsService.
type ClaimsServiceOptions struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileRepository
	Logger   *slog.Logger
}

// ClaimsService pushes platform role state into provider custom claims.
// The profile store is the source of truth for roles; provider claims are a
// cache of it that clients receive on their next token refresh.
type ClaimsService struct {
	provider ports.IdentityProvider
	profiles ports.ProfileRepository
	logger   *slog.Logger

	now func() time.Time // override in tests
}

// NewClaimsService constructs a new ClaimsService.
func NewClaimsService(opts ClaimsServiceOptions) *ClaimsService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaimsService{
		provider: opts.Provider,
		profiles: opts.Profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncRoles writes the profile's roles into the provider's custom claims.
// The merge is last-writer-wins per key: existing claim keys other than
// roles and updated_at are preserved. A missing profile is logged and
// skipped; there is nothing to sync yet.
func (s *ClaimsService) SyncRoles(ctx context.Context, uid string) error {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			s.logger.ErrorContext(ctx, "cannot sync roles: no profile for user", "uid", uid)
			return nil
		}
		return fmt.Errorf("get profile %s: %w", uid, err)
	}

	user, err := s.provider.GetUser(ctx, uid)
	if err != nil {
		return fmt.Errorf("get provider account %s: %w", uid, err)
	}

	merged := make(map[string]any, len(user.CustomClaims)+2)
	for k, v := range user.CustomClaims {
		merged[k] = v
	}
	roles := make([]string, 0, len(profile.Roles))
	for _, r := range profile.Roles {
		roles = append(roles, string(r))
	}
	merged["roles"] = roles
	merged["updated_at"] = s.now().UTC().Unix()

	if err := s.provider.SetCustomClaims(ctx, uid, merged); err != nil {
		return fmt.Errorf("set custom claims %s: %w", uid, err)
	}
	s.logger.InfoContext(ctx, "synced roles to provider claims", "uid", uid, "roles", roles)
	return nil
}

// AddRole grants a role and syncs claims. Adding a role the profile already
// has is a no-op.
func (s *ClaimsService) AddRole(ctx context.Context, uid string, role domainauth.Role) error {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("get profile %s: %w", uid, err)
	}
	if profile.HasRole(role) {
		return nil
	}

	roles := append(append([]domainauth.Role(nil), profile.Roles...), role)
	if _, err := s.profiles.Update(ctx, uid, model.UpdateUserProfileRequest{Roles: &roles}); err != nil {
		return fmt.Errorf("update profile roles %s: %w", uid, err)
	}
	return s.SyncRoles(ctx, uid)
}

// RemoveRole revokes a role and syncs claims. Removing a role the profile
// does not have is a no-op.
func (s *ClaimsService) RemoveRole(ctx context.Context, uid string, role domainauth.Role) error {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("get profile %s: %w", uid, err)
	}
	if !profile.HasRole(role) {
		return nil
	}

	roles := make([]domainauth.Role, 0, len(profile.Roles)-1)
	for _, r := range profile.Roles {
		if r != role {
			roles = append(roles, r)
		}
	}
	if _, err := s.profiles.Update(ctx, uid, model.UpdateUserProfileRequest{Roles: &roles}); err != nil {
		return fmt.Errorf("update profile roles %s: %w", uid, err)
	}
	return s.SyncRoles(ctx, uid)
}
