package httpx

import (
	"context"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
)

// Principal is the authenticated identity attached to a request context by
// the session middleware.
type Principal struct {
	Claims domainauth.DecodedClaims
	User   *domainauth.UserRecord
}

// HasRole reports whether the principal's custom claims carry the role.
func (p *Principal) HasRole(role domainauth.Role) bool {
	return p != nil && p.Claims.HasRole(role)
}

// principalKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type principalKey struct{}

// SetPrincipalInContext returns a child context that carries the given principal.
// If principal is nil, the original ctx is returned unchanged.
func SetPrincipalInContext(ctx context.Context, principal *Principal) context.Context {
	if principal == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext returns the principal from context and a boolean indicating presence.
func GetPrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok && p != nil {
		return p, true
	}
	return nil, false
}

// IsGuest reports whether the current request context is unauthenticated.
func IsGuest(ctx context.Context) bool {
	_, ok := GetPrincipalFromContext(ctx)
	return !ok
}
