package service

import (
	"context"

	"github.com/bndy/centrestage/internal/domain/model"
)

// SongRepository is the data dependency of SongService.
type SongRepository interface {
	Create(ctx context.Context, req *model.CreateSongRequest) (*model.Song, error)
	GetByID(ctx context.Context, id string) (*model.Song, error)
	List(ctx context.Context, opts model.SongsListOptions) ([]*model.Song, error)
	Update(ctx context.Context, id string, req model.UpdateSongRequest) (*model.Song, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SongServiceOptions groups dependencies for SongService.
type SongServiceOptions struct {
	Songs SongRepository
}

// SongService exposes song CRUD to the HTTP layer.
type SongService struct {
	songs SongRepository
}

// NewSongService constructs a new SongService.
func NewSongService(opts SongServiceOptions) *SongService {
	return &SongService{songs: opts.Songs}
}

func (s *SongService) Create(ctx context.Context, req *model.CreateSongRequest) (*model.Song, error) {
	return s.songs.Create(ctx, req)
}

func (s *SongService) GetByID(ctx context.Context, id string) (*model.Song, error) {
	return s.songs.GetByID(ctx, id)
}

func (s *SongService) List(ctx context.Context, opts model.SongsListOptions) ([]*model.Song, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.songs.List(ctx, opts)
}

func (s *SongService) Update(ctx context.Context, id string, req model.UpdateSongRequest) (*model.Song, error) {
	return s.songs.Update(ctx, id, req)
}

func (s *SongService) Delete(ctx context.Context, id string) (bool, error) {
	return s.songs.Delete(ctx, id)
}
