//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxVenueNameLen = 255
)

// VenueFacility flags an amenity a venue offers.
type VenueFacility string

const (
	FacilityStage     VenueFacility = "stage"
	FacilityPA        VenueFacility = "pa"
	FacilityLighting  VenueFacility = "lighting"
	FacilityParking   VenueFacility = "parking"
	FacilityBackline  VenueFacility = "backline"
	FacilityGreenRoom VenueFacility = "green_room"
)

// Venue represents a live-music venue.
type Venue struct {
	ID            string          `json:"id"                        db:"id"`
	Name          string          `json:"name"                      db:"name"`
	Address       string          `json:"address"                   db:"address"`
	Postcode      *string         `json:"postcode,omitempty"        db:"postcode"`
	Latitude      *float64        `json:"latitude,omitempty"        db:"latitude"`
	Longitude     *float64        `json:"longitude,omitempty"       db:"longitude"`
	Phone         *string         `json:"phone,omitempty"           db:"phone"`
	GooglePlaceID *string         `json:"google_place_id,omitempty" db:"google_place_id"`
	Validated     bool            `json:"validated"                 db:"validated"`
	Facilities    []VenueFacility `json:"facilities"                db:"facilities"`
	CreatedAt     time.Time       `json:"created_at"                db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"                db:"updated_at"`
}

// VenuesListOptions controls paging and filtering for listing venues.
// Q matches name via ILIKE substring; Validated matches exactly.
type VenuesListOptions struct {
	Limit     int
	Offset    int
	Q         *string
	Validated *bool
}

// CreateVenueRequest represents parameters to create a Venue.
type CreateVenueRequest struct {
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Postcode      *string         `json:"postcode,omitempty"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	GooglePlaceID *string         `json:"google_place_id,omitempty"`
	Validated     *bool           `json:"validated,omitempty"`
	Facilities    []VenueFacility `json:"facilities,omitempty"`
}

// Validate validates CreateVenueRequest.
func (r *CreateVenueRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxVenueNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Address) == "" {
		return errors.New("address is required and cannot be empty")
	}
	return validateCoordinates(r.Latitude, r.Longitude)
}

// UpdateVenueRequest represents parameters to update a Venue.
type UpdateVenueRequest struct {
	Name          *string          `json:"name,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Postcode      *string          `json:"postcode,omitempty"`
	Latitude      *float64         `json:"latitude,omitempty"`
	Longitude     *float64         `json:"longitude,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	GooglePlaceID *string          `json:"google_place_id,omitempty"`
	Validated     *bool            `json:"validated,omitempty"`
	Facilities    *[]VenueFacility `json:"facilities,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateVenueRequest.
func (r *UpdateVenueRequest) HasUpdates() bool {
	return r.Name != nil || r.Address != nil || r.Postcode != nil ||
		r.Latitude != nil || r.Longitude != nil || r.Phone != nil ||
		r.GooglePlaceID != nil || r.Validated != nil || r.Facilities != nil
}

// Validate validates UpdateVenueRequest, ensuring at least one field is set and values are sane.
func (r *UpdateVenueRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxVenueNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.Address != nil && strings.TrimSpace(*r.Address) == "" {
		return errors.New("address cannot be empty")
	}
	return validateCoordinates(r.Latitude, r.Longitude)
}

// validateCoordinates checks latitude/longitude ranges when set. Setting one
// without the other is rejected to keep geo queries consistent.
func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return errors.New("latitude and longitude must be provided together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}
