package service

import (
	"context"

	"github.com/bndy/centrestage/internal/domain/model"
)

// ArtistRepository is the data dependency of ArtistService.
type ArtistRepository interface {
	Create(ctx context.Context, req *model.CreateArtistRequest) (*model.Artist, error)
	GetByID(ctx context.Context, id string) (*model.Artist, error)
	List(ctx context.Context, opts model.ArtistsListOptions) ([]*model.Artist, error)
	Update(ctx context.Context, id string, req model.UpdateArtistRequest) (*model.Artist, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ArtistServiceOptions groups dependencies for ArtistService.
type ArtistServiceOptions struct {
	Artists ArtistRepository
}

// ArtistService exposes artist CRUD to the HTTP layer.
type ArtistService struct {
	artists ArtistRepository
}

// NewArtistService constructs a new ArtistService.
func NewArtistService(opts ArtistServiceOptions) *ArtistService {
	return &ArtistService{artists: opts.Artists}
}

func (s *ArtistService) Create(ctx context.Context, req *model.CreateArtistRequest) (*model.Artist, error) {
	return s.artists.Create(ctx, req)
}

func (s *ArtistService) GetByID(ctx context.Context, id string) (*model.Artist, error) {
	return s.artists.GetByID(ctx, id)
}

func (s *ArtistService) List(ctx context.Context, opts model.ArtistsListOptions) ([]*model.Artist, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.artists.List(ctx, opts)
}

func (s *ArtistService) Update(ctx context.Context, id string, req model.UpdateArtistRequest) (*model.Artist, error) {
	return s.artists.Update(ctx, id, req)
}

func (s *ArtistService) Delete(ctx context.Context, id string) (bool, error) {
	return s.artists.Delete(ctx, id)
}
