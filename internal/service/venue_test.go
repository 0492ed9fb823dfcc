package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/service"
)

type fakeVenueRepo struct {
	service.VenueRepository
	gotOpts model.VenuesListOptions
}

func (f *fakeVenueRepo) List(_ context.Context, opts model.VenuesListOptions) ([]*model.Venue, error) {
	f.gotOpts = opts
	return nil, nil
}

func TestVenueServiceListNormalizesPaging(t *testing.T) {
	repo := &fakeVenueRepo{}
	svc := service.NewVenueService(service.VenueServiceOptions{Venues: repo})

	q := "cavern"
	_, err := svc.List(context.Background(), model.VenuesListOptions{Limit: 0, Offset: -3, Q: &q})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.gotOpts.Limit)
	assert.Equal(t, 0, repo.gotOpts.Offset)
	require.NotNil(t, repo.gotOpts.Q)
	assert.Equal(t, "cavern", *repo.gotOpts.Q)

	_, err = svc.List(context.Background(), model.VenuesListOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.gotOpts.Limit)
	assert.Equal(t, 20, repo.gotOpts.Offset)
}
