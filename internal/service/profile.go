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

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Profiles        ports.ProfileRepository
	Marker          ports.LoginMarker
	SessionDuration time.Duration // login-marker window; zero means DefaultSessionDuration
	Logger          *slog.Logger
}

// ProfileService maintains platform-side user profiles alongside the
// provider's account records.
type ProfileService struct {
	profiles ports.ProfileRepository
	marker   ports.LoginMarker
	window   time.Duration
	logger   *slog.Logger

	now func() time.Time // override in tests
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	window := opts.SessionDuration
	if window <= 0 {
		window = DefaultSessionDuration
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	marker := opts.Marker
	if marker == nil {
		marker = alwaysFirstMarker{}
	}
	return &ProfileService{
		profiles: opts.Profiles,
		marker:   marker,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// alwaysFirstMarker stands in when no Redis-backed marker is configured;
// every login check then refreshes last_login_at.
type alwaysFirstMarker struct{}

func (alwaysFirstMarker) FirstLogin(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

// EnsureProfile returns the profile for the authenticated user, creating it
// on first sight with role defaults derived from the source app.
func (s *ProfileService) EnsureProfile(
	ctx context.Context,
	claims domainauth.DecodedClaims,
	user *domainauth.UserRecord,
	source domainauth.SourceApp,
) (*model.UserProfile, error) {
	profile, err := s.profiles.GetByUID(ctx, claims.UID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, data.ErrProfileNotFound) {
		return nil, fmt.Errorf("get profile %s: %w", claims.UID, err)
	}

	req := model.CreateUserProfileRequest{
		UID:           claims.UID,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		SourceApp:     source,
	}
	if user != nil {
		if user.DisplayName != "" {
			req.DisplayName = &user.DisplayName
		}
		if user.PhotoURL != "" {
			req.PhotoURL = &user.PhotoURL
		}
	}

	profile, err = s.profiles.Create(ctx, req)
	if err != nil {
		// Two racing first-logins both miss the lookup; the loser re-reads.
		if errors.Is(err, data.ErrProfileExists) {
			return s.profiles.GetByUID(ctx, claims.UID)
		}
		return nil, fmt.Errorf("create profile %s: %w", claims.UID, err)
	}
	s.logger.InfoContext(ctx, "created user profile",
		"uid", profile.UID, "source_app", string(profile.SourceApp), "roles", profile.Roles)
	return profile, nil
}

// RecordLogin writes last_login_at and the current email-verified state at
// most once per logical session. The marker window matches the session
// lifetime so a long-lived session does not rewrite the row on every check.
func (s *ProfileService) RecordLogin(ctx context.Context, uid string, emailVerified bool) error {
	first, err := s.marker.FirstLogin(ctx, uid, s.window)
	if err != nil {
		return fmt.Errorf("login marker %s: %w", uid, err)
	}
	if !first {
		return nil
	}
	if err := s.profiles.TouchLastLogin(ctx, uid, s.now(), emailVerified); err != nil {
		return fmt.Errorf("touch last login %s: %w", uid, err)
	}
	return nil
}
