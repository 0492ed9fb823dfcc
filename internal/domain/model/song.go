//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxSongTitleLen = 255
	maxSongDuration = 3600 // seconds; anything longer is almost certainly bad input
)

// Song represents an entry in an artist's repertoire.
type Song struct {
	ID              string    `json:"id"                         db:"id"`
	Title           string    `json:"title"                      db:"title"`
	ArtistName      string    `json:"artist_name"                db:"artist_name"`
	DurationSeconds *int      `json:"duration_seconds,omitempty" db:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"                 db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"                 db:"updated_at"`
}

// SongsListOptions controls paging and filtering for listing songs.
// Q matches title via ILIKE substring; ArtistName matches exactly (ILIKE).
type SongsListOptions struct {
	Limit      int
	Offset     int
	Q          *string
	ArtistName *string
}

// CreateSongRequest represents parameters to create a Song.
type CreateSongRequest struct {
	Title           string `json:"title"`
	ArtistName      string `json:"artist_name"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}

// Validate validates CreateSongRequest.
func (r *CreateSongRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxSongTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.ArtistName) == "" {
		return errors.New("artist_name is required and cannot be empty")
	}
	return validateSongDuration(r.DurationSeconds)
}

// UpdateSongRequest represents parameters to update a Song.
type UpdateSongRequest struct {
	Title           *string `json:"title,omitempty"`
	ArtistName      *string `json:"artist_name,omitempty"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateSongRequest.
func (r *UpdateSongRequest) HasUpdates() bool {
	return r.Title != nil || r.ArtistName != nil || r.DurationSeconds != nil
}

// Validate validates UpdateSongRequest, ensuring at least one field is set.
func (r *UpdateSongRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxSongTitleLen {
			return errors.New("title cannot exceed 255 characters")
		}
	}
	if r.ArtistName != nil && strings.TrimSpace(*r.ArtistName) == "" {
		return errors.New("artist_name cannot be empty")
	}
	return validateSongDuration(r.DurationSeconds)
}

func validateSongDuration(d *int) error {
	if d == nil {
		return nil
	}
	if *d <= 0 || *d > maxSongDuration {
		return errors.New("duration_seconds must be between 1 and 3600")
	}
	return nil
}
