package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bndy/centrestage/internal/data/database"
	"github.com/bndy/centrestage/internal/data/pgxutil"
	"github.com/bndy/centrestage/internal/domain/model"
)

var (
	// ErrSongNotFound is returned when a song is not found.
	ErrSongNotFound = errors.New("song not found")
	// ErrSongExists is returned when attempting to create a duplicate title/artist pair.
	ErrSongExists = errors.New("song already exists for this artist")
)

// SongRepo provides database operations for songs.
type SongRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSongRepo creates a new SongRepo with real time provider.
func NewSongRepo(db *sql.DB) *SongRepo {
	return &SongRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const songColumnList = `id, title, artist_name, duration_seconds, created_at, updated_at`

const songGetByIDQuery = `
	SELECT ` + songColumnList + `
	FROM songs
	WHERE id = $1`

func songColumns() []string {
	return []string{"id", "title", "artist_name", "duration_seconds", "created_at", "updated_at"}
}

// Create inserts a new song.
func (r *SongRepo) Create(ctx context.Context, req *model.CreateSongRequest) (*model.Song, error) {
	if req == nil {
		return nil, errors.New("create song request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Song
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO songs (
				title, artist_name, duration_seconds, created_at
			) VALUES (
				$1, $2, $3, $4
			) RETURNING `+songColumnList,
			strings.TrimSpace(req.Title),
			strings.TrimSpace(req.ArtistName),
			req.DurationSeconds,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Song])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a song by ID.
func (r *SongRepo) GetByID(ctx context.Context, id string) (*model.Song, error) {
	var out model.Song
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, songGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Song])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song by ID: %w", err)
	}
	return &out, nil
}

// List retrieves songs with optional filters.
func (r *SongRepo) List(ctx context.Context, opts model.SongsListOptions) ([]*model.Song, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(songColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("title", sortDirAsc),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.ArtistName != nil && strings.TrimSpace(*opts.ArtistName) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("artist_name", database.ILike, strings.TrimSpace(*opts.ArtistName)),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("songs", queryOpts...))

	var rowsOut []model.Song
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Song])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	res := make([]*model.Song, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a song.
func (r *SongRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateSongRequest,
) (*model.Song, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	var out model.Song
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		args = append(args, id)
		query := "UPDATE songs SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + songColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Song])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

func (r *SongRepo) buildUpdateClause(req model.UpdateSongRequest) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.ArtistName != nil {
		setParts = append(setParts, fmt.Sprintf("artist_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.ArtistName))
	}
	if req.DurationSeconds != nil {
		setParts = append(setParts, fmt.Sprintf("duration_seconds = $%d", nextIdx()))
		args = append(args, *req.DurationSeconds)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes a song by ID.
func (r *SongRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete song: %w", err)
	}
	return rows > 0, nil
}

func (r *SongRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrSongNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSongExists
	}
	return err
}
