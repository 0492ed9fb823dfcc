package service

import (
	"context"

	"github.com/bndy/centrestage/internal/domain/model"
)

// VenueRepository is the data dependency of VenueService.
type VenueRepository interface {
	Create(ctx context.Context, req *model.CreateVenueRequest) (*model.Venue, error)
	GetByID(ctx context.Context, id string) (*model.Venue, error)
	List(ctx context.Context, opts model.VenuesListOptions) ([]*model.Venue, error)
	Update(ctx context.Context, id string, req model.UpdateVenueRequest) (*model.Venue, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// VenueServiceOptions groups dependencies for VenueService.
type VenueServiceOptions struct {
	Venues VenueRepository
}

// VenueService exposes venue CRUD to the HTTP layer.
type VenueService struct {
	venues VenueRepository
}

// NewVenueService constructs a new VenueService.
func NewVenueService(opts VenueServiceOptions) *VenueService {
	return &VenueService{venues: opts.Venues}
}

func (s *VenueService) Create(ctx context.Context, req *model.CreateVenueRequest) (*model.Venue, error) {
	return s.venues.Create(ctx, req)
}

func (s *VenueService) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	return s.venues.GetByID(ctx, id)
}

func (s *VenueService) List(ctx context.Context, opts model.VenuesListOptions) ([]*model.Venue, error) {
	return s.venues.List(ctx, normalizeVenueListOptions(opts))
}

func (s *VenueService) Update(ctx context.Context, id string, req model.UpdateVenueRequest) (*model.Venue, error) {
	return s.venues.Update(ctx, id, req)
}

func (s *VenueService) Delete(ctx context.Context, id string) (bool, error) {
	return s.venues.Delete(ctx, id)
}

func normalizeVenueListOptions(opts model.VenuesListOptions) model.VenuesListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
