package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bndy/centrestage/internal/data"
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/domain/model"
)

type seedOptions struct {
	Timeout  time.Duration
	AdminUID string
}

func parseSeedFlags(args []string) (seedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := seedOptions{
		Timeout: time.Minute,
	}

	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Maximum duration to wait for seeding to complete")
	fs.StringVar(&opts.AdminUID, "admin-uid", "", "Provider UID to seed as an admin profile (optional)")

	if err := fs.Parse(args); err != nil {
		return seedOptions{}, err
	}

	if opts.Timeout <= 0 {
		return seedOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		seeder := &seeder{cmdCtx: cmdCtx, db: db}
		if seedErr := seeder.run(ctx, opts); seedErr != nil {
			return fmt.Errorf("seed database: %w", seedErr)
		}
		cmdCtx.Logger.Info("seed data loaded")
		return nil
	})
}

type seeder struct {
	cmdCtx *commandContext
	db     *sql.DB
}

func (s *seeder) run(ctx context.Context, opts seedOptions) error {
	if err := s.seedVenues(ctx); err != nil {
		return err
	}
	if err := s.seedArtistsAndSongs(ctx); err != nil {
		return err
	}
	if opts.AdminUID != "" {
		return s.seedAdminProfile(ctx, opts.AdminUID)
	}
	return nil
}

// seedVenues loads a handful of recognizable venues. Existing names are
// skipped so the command stays safe to re-run.
func (s *seeder) seedVenues(ctx context.Context) error {
	repo := data.NewVenueRepo(s.db)
	venues := sampleVenues()

	for i := range venues {
		created, err := repo.Create(ctx, &venues[i])
		switch {
		case errors.Is(err, data.ErrVenueNameExists):
			s.cmdCtx.Logger.Debug("venue already seeded", "name", venues[i].Name)
		case err != nil:
			return fmt.Errorf("create venue %q: %w", venues[i].Name, err)
		default:
			s.cmdCtx.Logger.Info("seeded venue", "id", created.ID, "name", created.Name)
		}
	}
	return nil
}

func (s *seeder) seedArtistsAndSongs(ctx context.Context) error {
	artistRepo := data.NewArtistRepo(s.db)
	songRepo := data.NewSongRepo(s.db)

	for _, entry := range sampleArtists() {
		created, err := artistRepo.Create(ctx, &entry.artist)
		switch {
		case errors.Is(err, data.ErrArtistNameExists):
			s.cmdCtx.Logger.Debug("artist already seeded", "name", entry.artist.Name)
		case err != nil:
			return fmt.Errorf("create artist %q: %w", entry.artist.Name, err)
		default:
			s.cmdCtx.Logger.Info("seeded artist", "id", created.ID, "name", created.Name)
		}

		for _, title := range entry.songs {
			req := &model.CreateSongRequest{Title: title, ArtistName: entry.artist.Name}
			if _, songErr := songRepo.Create(ctx, req); songErr != nil {
				if errors.Is(songErr, data.ErrSongExists) {
					continue
				}
				return fmt.Errorf("create song %q for %q: %w", title, entry.artist.Name, songErr)
			}
		}
	}
	return nil
}

func (s *seeder) seedAdminProfile(ctx context.Context, uid string) error {
	repo := data.NewProfileRepo(s.db)

	_, err := repo.Create(ctx, model.CreateUserProfileRequest{
		UID:       uid,
		Email:     uid + "@seed.local",
		Roles:     []domainauth.Role{domainauth.RoleUser, domainauth.RoleAdmin},
		SourceApp: domainauth.SourceCentrestage,
	})
	if errors.Is(err, data.ErrProfileExists) {
		s.cmdCtx.Logger.Debug("admin profile already seeded", "uid", uid)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin profile %q: %w", uid, err)
	}
	s.cmdCtx.Logger.Info("seeded admin profile", "uid", uid)
	return nil
}

func sampleVenues() []model.CreateVenueRequest {
	liverpoolLat, liverpoolLng := 53.4061, -2.9870
	camdenLat, camdenLng := 51.5390, -0.1426
	validated := true

	return []model.CreateVenueRequest{
		{
			Name:       "The Cavern Club",
			Address:    "10 Mathew Street, Liverpool",
			Latitude:   &liverpoolLat,
			Longitude:  &liverpoolLng,
			Validated:  &validated,
			Facilities: []model.VenueFacility{model.FacilityStage, model.FacilityPA, model.FacilityLighting},
		},
		{
			Name:       "The Dublin Castle",
			Address:    "94 Parkway, Camden, London",
			Latitude:   &camdenLat,
			Longitude:  &camdenLng,
			Facilities: []model.VenueFacility{model.FacilityStage, model.FacilityPA},
		},
		{
			Name:    "The Half Moon",
			Address: "93 Lower Richmond Road, Putney, London",
		},
	}
}

type seedArtist struct {
	artist model.CreateArtistRequest
	songs  []string
}

func sampleArtists() []seedArtist {
	indieBio := "Four-piece indie act gigging across the north west."
	bluesBio := "Blues trio with a weekly residency."

	return []seedArtist{
		{
			artist: model.CreateArtistRequest{
				Name:   "The Midnight Pilots",
				Genres: []string{"indie", "rock"},
				Bio:    &indieBio,
			},
			songs: []string{"Terminal Lights", "Runway Nine"},
		},
		{
			artist: model.CreateArtistRequest{
				Name:   "Delta Mercy",
				Genres: []string{"blues"},
				Bio:    &bluesBio,
			},
			songs: []string{"Cold Water Morning"},
		},
	}
}
