package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/bndy/centrestage/config"
	"github.com/bndy/centrestage/internal/adapters/googleidp"
	"github.com/bndy/centrestage/internal/adapters/mockidp"
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/ports"
)

// identityToolkitScope authorizes the admin API calls (session minting,
// account lookup, claims writes).
const identityToolkitScope = "https://www.googleapis.com/auth/identitytoolkit"

// BuildIdentityProvider creates an identity provider based on the configured
// auth mode.
//
//nolint:ireturn // callers program against the port, not a concrete provider.
func BuildIdentityProvider(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		return buildMockProvider(cfg.Mock, logger)
	case config.AuthModeGoogle:
		return buildGoogleProvider(ctx, cfg.Google)
	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}

func buildMockProvider(cfg config.MockAuthConfig, logger *slog.Logger) (*mockidp.Provider, error) {
	roles := make([]domainauth.Role, 0, len(cfg.Roles))
	for _, r := range cfg.Roles {
		roles = append(roles, domainauth.Role(r))
	}

	prov, err := mockidp.NewProvider(mockidp.Config{
		Users: []mockidp.SeedUser{{
			UID:           cfg.UID,
			Email:         cfg.Email,
			EmailVerified: true,
			DisplayName:   cfg.DisplayName,
			Roles:         roles,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("create mock identity provider: %w", err)
	}

	if logger != nil {
		logger.Warn("mock identity provider enabled; do not use in production",
			"uid", cfg.UID, "email", cfg.Email)
	}
	return prov, nil
}

func buildGoogleProvider(ctx context.Context, cfg config.GoogleAuthConfig) (*googleidp.Provider, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("AuthModeGoogle selected but GOOGLE_AUTH_PROJECT_ID is empty")
	}

	var tokenSource oauth2.TokenSource
	if cfg.AdminToken != "" {
		tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AdminToken})
	} else {
		ts, err := google.DefaultTokenSource(ctx, identityToolkitScope)
		if err != nil {
			return nil, fmt.Errorf("resolve application default credentials: %w", err)
		}
		tokenSource = ts
	}

	prov, err := googleidp.NewProvider(ctx, googleidp.ProviderConfig{
		ProjectID:      cfg.ProjectID,
		IDTokenJWKSURL: cfg.IDTokenJWKSURL,
		SessionJWKSURL: cfg.SessionJWKSURL,
		AdminBaseURL:   cfg.AdminBaseURL,
		TokenSource:    tokenSource,
	})
	if err != nil {
		return nil, fmt.Errorf("create google identity provider: %w", err)
	}
	return prov, nil
}
