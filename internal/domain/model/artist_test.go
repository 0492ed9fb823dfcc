package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateArtistRequestValidate(t *testing.T) {
	req := CreateArtistRequest{Name: "Merrym'n", Genres: []string{"folk"}}
	assert.NoError(t, req.Validate())

	req = CreateArtistRequest{Name: ""}
	assert.Error(t, req.Validate())

	req = CreateArtistRequest{Name: "Bad Link", WebsiteURL: strPtr("not-a-url")}
	assert.Error(t, req.Validate())

	req = CreateArtistRequest{Name: "Good Link", WebsiteURL: strPtr("https://merrymn.co.uk")}
	assert.NoError(t, req.Validate())
}

func TestUpdateArtistRequestValidate(t *testing.T) {
	req := UpdateArtistRequest{}
	assert.Error(t, req.Validate())

	req = UpdateArtistRequest{Hometown: strPtr("Stoke-on-Trent")}
	assert.NoError(t, req.Validate())

	req = UpdateArtistRequest{InstagramURL: strPtr("ftp://nope")}
	assert.Error(t, req.Validate())
}
