//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxArtistNameLen = 255
)

// Artist represents a performing act on the platform.
type Artist struct {
	ID           string    `json:"id"                      db:"id"`
	Name         string    `json:"name"                    db:"name"`
	Genres       []string  `json:"genres"                  db:"genres"`
	Hometown     *string   `json:"hometown,omitempty"      db:"hometown"`
	Bio          *string   `json:"bio,omitempty"           db:"bio"`
	WebsiteURL   *string   `json:"website_url,omitempty"   db:"website_url"`
	FacebookURL  *string   `json:"facebook_url,omitempty"  db:"facebook_url"`
	InstagramURL *string   `json:"instagram_url,omitempty" db:"instagram_url"`
	CreatedAt    time.Time `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"              db:"updated_at"`
}

// ArtistsListOptions controls paging and filtering for listing artists.
// Q matches name via ILIKE substring; Genre matches any element of genres.
type ArtistsListOptions struct {
	Limit  int
	Offset int
	Q      *string
	Genre  *string
}

// CreateArtistRequest represents parameters to create an Artist.
type CreateArtistRequest struct {
	Name         string   `json:"name"`
	Genres       []string `json:"genres,omitempty"`
	Hometown     *string  `json:"hometown,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	WebsiteURL   *string  `json:"website_url,omitempty"`
	FacebookURL  *string  `json:"facebook_url,omitempty"`
	InstagramURL *string  `json:"instagram_url,omitempty"`
}

// Validate validates CreateArtistRequest.
func (r *CreateArtistRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxArtistNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return validateSocialURLs(r.WebsiteURL, r.FacebookURL, r.InstagramURL)
}

// UpdateArtistRequest represents parameters to update an Artist.
type UpdateArtistRequest struct {
	Name         *string   `json:"name,omitempty"`
	Genres       *[]string `json:"genres,omitempty"`
	Hometown     *string   `json:"hometown,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	WebsiteURL   *string   `json:"website_url,omitempty"`
	FacebookURL  *string   `json:"facebook_url,omitempty"`
	InstagramURL *string   `json:"instagram_url,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateArtistRequest.
func (r *UpdateArtistRequest) HasUpdates() bool {
	return r.Name != nil || r.Genres != nil || r.Hometown != nil || r.Bio != nil ||
		r.WebsiteURL != nil || r.FacebookURL != nil || r.InstagramURL != nil
}

// Validate validates UpdateArtistRequest, ensuring at least one field is set.
func (r *UpdateArtistRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxArtistNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	return validateSocialURLs(r.WebsiteURL, r.FacebookURL, r.InstagramURL)
}

// validateSocialURLs checks that provided social links are absolute http(s) URLs.
func validateSocialURLs(urls ...*string) error {
	for _, u := range urls {
		if u == nil || strings.TrimSpace(*u) == "" {
			continue
		}
		parsed, err := url.Parse(*u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return errors.New("social URLs must be absolute http or https URLs")
		}
	}
	return nil
}
