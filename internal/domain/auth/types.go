package auth

// Package auth contains domain-level types for identity and session handling.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence inside custom claims.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleArtist     Role = "bndy_artist"
	RoleStudio     Role = "bndy_studio"
	RoleLiveGigger Role = "live_giggoer"
)

// SourceApp identifies which bndy application initiated a login.
// Each app seeds a different default role set on first profile creation.
type SourceApp string

const (
	SourceBackstage   SourceApp = "backstage"
	SourceFrontstage  SourceApp = "frontstage"
	SourceCentrestage SourceApp = "centrestage"
)

// DefaultRoles returns the role set assigned to a brand-new profile
// created from the given source app.
func (s SourceApp) DefaultRoles() []Role {
	switch s {
	case SourceBackstage:
		return []Role{RoleUser, RoleArtist, RoleStudio}
	case SourceFrontstage:
		return []Role{RoleUser, RoleLiveGigger}
	default:
		return []Role{RoleUser}
	}
}

// DecodedClaims is the verified payload of an identity credential
// (either a fresh ID token or a long-lived session credential).
// Adapters map provider-specific claim shapes into this struct.
type DecodedClaims struct {
	UID            string
	Email          string
	EmailVerified  bool
	AuthTime       time.Time // when the user last presented first-factor credentials
	IssuedAt       time.Time
	ExpiresAt      time.Time
	SignInProvider string
	Custom         map[string]any // provider custom claims (roles live under "roles")
}

// Roles extracts the role list from the custom claims, tolerating both
// []any (JSON decode shape) and []string.
func (c DecodedClaims) Roles() []Role {
	return rolesFromClaims(c.Custom)
}

// HasRole reports whether the decoded claims carry the given role.
func (c DecodedClaims) HasRole(role Role) bool {
	for _, r := range c.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// UserRecord is the provider-side account record for a user.
type UserRecord struct {
	UID            string
	Email          string
	EmailVerified  bool
	DisplayName    string
	PhotoURL       string
	Disabled       bool
	CustomClaims   map[string]any
	Providers      []string
	CreationTime   time.Time
	LastSignInTime time.Time
	// ValidSince marks when refresh tokens were last revoked; credentials
	// whose auth_time predates it are considered revoked.
	ValidSince time.Time
}

// rolesFromClaims pulls "roles" out of a custom-claims map.
func rolesFromClaims(claims map[string]any) []Role {
	if claims == nil {
		return nil
	}
	switch v := claims["roles"].(type) {
	case []Role:
		return v
	case []string:
		out := make([]Role, 0, len(v))
		for _, s := range v {
			out = append(out, Role(s))
		}
		return out
	case []any:
		out := make([]Role, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, Role(s))
			}
		}
		return out
	default:
		return nil
	}
}
