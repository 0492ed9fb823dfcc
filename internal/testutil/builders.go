// Package testutil provides testing utilities and helpers for the centrestage services.
package testutil

import (
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/domain/model"
)

// ProfileRequestBuilder provides a fluent interface for building CreateUserProfileRequest objects for testing.
type ProfileRequestBuilder struct {
	req model.CreateUserProfileRequest
}

// NewProfileRequest creates a new ProfileRequestBuilder with sensible defaults.
func NewProfileRequest(uid string) *ProfileRequestBuilder {
	return &ProfileRequestBuilder{
		req: model.CreateUserProfileRequest{
			UID:       uid,
			Email:     uid + "@example.com",
			SourceApp: domainauth.SourceBackstage,
		},
	}
}

// WithEmail sets the profile email.
func (b *ProfileRequestBuilder) WithEmail(email string) *ProfileRequestBuilder {
	b.req.Email = email
	return b
}

// WithDisplayName sets the display name.
func (b *ProfileRequestBuilder) WithDisplayName(name string) *ProfileRequestBuilder {
	b.req.DisplayName = &name
	return b
}

// WithPhotoURL sets the photo URL.
func (b *ProfileRequestBuilder) WithPhotoURL(url string) *ProfileRequestBuilder {
	b.req.PhotoURL = &url
	return b
}

// WithSourceApp sets the originating application.
func (b *ProfileRequestBuilder) WithSourceApp(app domainauth.SourceApp) *ProfileRequestBuilder {
	b.req.SourceApp = app
	return b
}

// WithRoles sets explicit roles, overriding the source-app defaults.
func (b *ProfileRequestBuilder) WithRoles(roles ...domainauth.Role) *ProfileRequestBuilder {
	b.req.Roles = roles
	return b
}

// Build returns the constructed CreateUserProfileRequest.
func (b *ProfileRequestBuilder) Build() model.CreateUserProfileRequest {
	return b.req
}

// VenueRequestBuilder provides a fluent interface for building CreateVenueRequest objects for testing.
type VenueRequestBuilder struct {
	req *model.CreateVenueRequest
}

// NewVenueRequest creates a new VenueRequestBuilder with sensible defaults.
func NewVenueRequest(name string) *VenueRequestBuilder {
	return &VenueRequestBuilder{
		req: &model.CreateVenueRequest{
			Name:    name,
			Address: "1 Test Street",
		},
	}
}

// WithAddress sets the venue address.
func (b *VenueRequestBuilder) WithAddress(address string) *VenueRequestBuilder {
	b.req.Address = address
	return b
}

// WithLocation sets the venue coordinates.
func (b *VenueRequestBuilder) WithLocation(lat, lng float64) *VenueRequestBuilder {
	b.req.Latitude = &lat
	b.req.Longitude = &lng
	return b
}

// WithFacilities sets the venue facilities.
func (b *VenueRequestBuilder) WithFacilities(facilities ...model.VenueFacility) *VenueRequestBuilder {
	b.req.Facilities = facilities
	return b
}

// Build returns the constructed CreateVenueRequest.
func (b *VenueRequestBuilder) Build() *model.CreateVenueRequest {
	return b.req
}

// ArtistRequestBuilder provides a fluent interface for building CreateArtistRequest objects for testing.
type ArtistRequestBuilder struct {
	req *model.CreateArtistRequest
}

// NewArtistRequest creates a new ArtistRequestBuilder with sensible defaults.
func NewArtistRequest(name string) *ArtistRequestBuilder {
	return &ArtistRequestBuilder{
		req: &model.CreateArtistRequest{Name: name},
	}
}

// WithGenres sets the artist genres.
func (b *ArtistRequestBuilder) WithGenres(genres ...string) *ArtistRequestBuilder {
	b.req.Genres = genres
	return b
}

// WithBio sets the artist bio.
func (b *ArtistRequestBuilder) WithBio(bio string) *ArtistRequestBuilder {
	b.req.Bio = &bio
	return b
}

// Build returns the constructed CreateArtistRequest.
func (b *ArtistRequestBuilder) Build() *model.CreateArtistRequest {
	return b.req
}

// SongRequest creates a song create request for the given artist.
func SongRequest(title, artistName string) *model.CreateSongRequest {
	return &model.CreateSongRequest{
		Title:      title,
		ArtistName: artistName,
	}
}
