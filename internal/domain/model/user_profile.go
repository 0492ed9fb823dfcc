//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bndy/centrestage/internal/domain/auth"
)

const (
	maxDisplayNameLen = 255
	maxEmailLen       = 320
)

// UserProfile is the platform-side record for an authenticated user.
// The identity provider remains the source of truth for credentials;
// this row carries the bndy-specific state (roles, source app, login times).
type UserProfile struct {
	UID           string         `json:"uid"                    db:"uid"`
	Email         string         `json:"email"                  db:"email"`
	EmailVerified bool           `json:"email_verified"         db:"email_verified"`
	DisplayName   *string        `json:"display_name,omitempty" db:"display_name"`
	PhotoURL      *string        `json:"photo_url,omitempty"    db:"photo_url"`
	Roles         []auth.Role    `json:"roles"                  db:"roles"`
	SourceApp     auth.SourceApp `json:"source_app"             db:"source_app"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"             db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"             db:"updated_at"`
}

// HasRole reports whether the profile carries the given role.
func (p *UserProfile) HasRole(role auth.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CreateUserProfileRequest represents parameters to create a UserProfile.
// Roles default from the source app when empty.
type CreateUserProfileRequest struct {
	UID           string         `json:"uid"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"email_verified"`
	DisplayName   *string        `json:"display_name,omitempty"`
	PhotoURL      *string        `json:"photo_url,omitempty"`
	Roles         []auth.Role    `json:"roles,omitempty"`
	SourceApp     auth.SourceApp `json:"source_app"`
}

// Validate validates CreateUserProfileRequest and applies source-app role defaults.
func (r *CreateUserProfileRequest) Validate() error {
	if strings.TrimSpace(r.UID) == "" {
		return errors.New("uid is required and cannot be empty")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Email) > maxEmailLen {
		return errors.New("email cannot exceed 320 characters")
	}
	if r.DisplayName != nil && utf8.RuneCountInString(*r.DisplayName) > maxDisplayNameLen {
		return errors.New("display_name cannot exceed 255 characters")
	}
	if len(r.Roles) == 0 {
		r.Roles = r.SourceApp.DefaultRoles()
	}
	return nil
}

// UpdateUserProfileRequest represents parameters to update a UserProfile.
type UpdateUserProfileRequest struct {
	Email       *string      `json:"email,omitempty"`
	DisplayName *string      `json:"display_name,omitempty"`
	PhotoURL    *string      `json:"photo_url,omitempty"`
	Roles       *[]auth.Role `json:"roles,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateUserProfileRequest.
func (r *UpdateUserProfileRequest) HasUpdates() bool {
	return r.Email != nil || r.DisplayName != nil || r.PhotoURL != nil || r.Roles != nil
}

// Validate validates UpdateUserProfileRequest, ensuring at least one field is set.
func (r *UpdateUserProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Email != nil {
		e := strings.TrimSpace(*r.Email)
		if e == "" {
			return errors.New("email cannot be empty")
		}
		if utf8.RuneCountInString(e) > maxEmailLen {
			return errors.New("email cannot exceed 320 characters")
		}
	}
	if r.DisplayName != nil && utf8.RuneCountInString(*r.DisplayName) > maxDisplayNameLen {
		return errors.New("display_name cannot exceed 255 characters")
	}
	return nil
}
