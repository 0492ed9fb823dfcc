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
	// ErrArtistNotFound is returned when an artist is not found.
	ErrArtistNotFound = errors.New("artist not found")
	// ErrArtistNameExists is returned when attempting to create/update an artist with a duplicate name.
	ErrArtistNameExists = errors.New("artist name already exists")
)

// ArtistRepo provides database operations for artists.
type ArtistRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewArtistRepo creates a new ArtistRepo with real time provider.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const artistColumnList = `id, name, genres, hometown, bio, website_url, facebook_url, instagram_url, created_at, updated_at`

const artistGetByIDQuery = `
	SELECT ` + artistColumnList + `
	FROM artists
	WHERE id = $1`

func artistColumns() []string {
	return []string{
		"id", "name", "genres", "hometown", "bio",
		"website_url", "facebook_url", "instagram_url",
		"created_at", "updated_at",
	}
}

// Create inserts a new artist.
func (r *ArtistRepo) Create(ctx context.Context, req *model.CreateArtistRequest) (*model.Artist, error) {
	if req == nil {
		return nil, errors.New("create artist request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	genres := req.Genres
	if genres == nil {
		genres = []string{}
	}

	var out model.Artist
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO artists (
				name, genres, hometown, bio, website_url, facebook_url, instagram_url, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			) RETURNING `+artistColumnList,
			strings.TrimSpace(req.Name),
			genres,
			req.Hometown,
			req.Bio,
			req.WebsiteURL,
			req.FacebookURL,
			req.InstagramURL,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Artist])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an artist by ID.
func (r *ArtistRepo) GetByID(ctx context.Context, id string) (*model.Artist, error) {
	var out model.Artist
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, artistGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Artist])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist by ID: %w", err)
	}
	return &out, nil
}

// List retrieves artists with optional filters.
func (r *ArtistRepo) List(ctx context.Context, opts model.ArtistsListOptions) ([]*model.Artist, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(artistColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("name", sortDirAsc),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Genre != nil && strings.TrimSpace(*opts.Genre) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("$1 = ANY(genres)", strings.TrimSpace(*opts.Genre)),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("artists", queryOpts...))

	var rowsOut []model.Artist
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Artist])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}

	res := make([]*model.Artist, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of an artist.
func (r *ArtistRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateArtistRequest,
) (*model.Artist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	var out model.Artist
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		args = append(args, id)
		query := "UPDATE artists SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + artistColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Artist])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

func (r *ArtistRepo) buildUpdateClause(req model.UpdateArtistRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Genres != nil {
		setParts = append(setParts, fmt.Sprintf("genres = $%d", nextIdx()))
		args = append(args, *req.Genres)
	}
	if req.Hometown != nil {
		setParts = append(setParts, fmt.Sprintf("hometown = $%d", nextIdx()))
		args = append(args, *req.Hometown)
	}
	if req.Bio != nil {
		setParts = append(setParts, fmt.Sprintf("bio = $%d", nextIdx()))
		args = append(args, *req.Bio)
	}
	if req.WebsiteURL != nil {
		setParts = append(setParts, fmt.Sprintf("website_url = $%d", nextIdx()))
		args = append(args, *req.WebsiteURL)
	}
	if req.FacebookURL != nil {
		setParts = append(setParts, fmt.Sprintf("facebook_url = $%d", nextIdx()))
		args = append(args, *req.FacebookURL)
	}
	if req.InstagramURL != nil {
		setParts = append(setParts, fmt.Sprintf("instagram_url = $%d", nextIdx()))
		args = append(args, *req.InstagramURL)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes an artist by ID.
func (r *ArtistRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM artists WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete artist: %w", err)
	}
	return rows > 0, nil
}

func (r *ArtistRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrArtistNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrArtistNameExists
	}
	return err
}
