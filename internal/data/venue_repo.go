package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bndy/centrestage/internal/data/database"
	"github.com/bndy/centrestage/internal/data/pgxutil"
	"github.com/bndy/centrestage/internal/domain/model"
)

var (
	// ErrVenueNotFound is returned when a venue is not found.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrVenueNameExists is returned when attempting to create/update a venue with a duplicate name.
	ErrVenueNameExists = errors.New("venue name already exists")
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"

	defaultListLimit = 50
)

// VenueRepo provides database operations for venues.
type VenueRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewVenueRepo creates a new VenueRepo with real time provider.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// venueRow mirrors the venues table. Facilities are stored as TEXT[].
type venueRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Address       string    `db:"address"`
	Postcode      *string   `db:"postcode"`
	Latitude      *float64  `db:"latitude"`
	Longitude     *float64  `db:"longitude"`
	Phone         *string   `db:"phone"`
	GooglePlaceID *string   `db:"google_place_id"`
	Validated     bool      `db:"validated"`
	Facilities    []string  `db:"facilities"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row venueRow) toModel() *model.Venue {
	facilities := make([]model.VenueFacility, 0, len(row.Facilities))
	for _, f := range row.Facilities {
		facilities = append(facilities, model.VenueFacility(f))
	}
	return &model.Venue{
		ID:            row.ID,
		Name:          row.Name,
		Address:       row.Address,
		Postcode:      row.Postcode,
		Latitude:      row.Latitude,
		Longitude:     row.Longitude,
		Phone:         row.Phone,
		GooglePlaceID: row.GooglePlaceID,
		Validated:     row.Validated,
		Facilities:    facilities,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func facilitiesToStrings(facilities []model.VenueFacility) []string {
	out := make([]string, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, string(f))
	}
	return out
}

const venueColumnList = `id, name, address, postcode, latitude, longitude, phone, google_place_id, validated, facilities, created_at, updated_at`

const venueGetByIDQuery = `
	SELECT ` + venueColumnList + `
	FROM venues
	WHERE id = $1`

// venueColumns returns the standard column list for dynamic venue queries.
func venueColumns() []string {
	return []string{
		"id", "name", "address", "postcode", "latitude", "longitude",
		"phone", "google_place_id", "validated", "facilities",
		"created_at", "updated_at",
	}
}

// Create inserts a new venue.
func (r *VenueRepo) Create(ctx context.Context, req *model.CreateVenueRequest) (*model.Venue, error) {
	if req == nil {
		return nil, errors.New("create venue request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	validated := false
	if req.Validated != nil {
		validated = *req.Validated
	}

	var row venueRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO venues (
				name, address, postcode, latitude, longitude, phone, google_place_id, validated, facilities, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			) RETURNING `+venueColumnList,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Address),
			req.Postcode,
			req.Latitude,
			req.Longitude,
			req.Phone,
			req.GooglePlaceID,
			validated,
			facilitiesToStrings(req.Facilities),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[venueRow])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return row.toModel(), nil
}

// GetByID retrieves a venue by ID.
func (r *VenueRepo) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	var row venueRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, venueGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[venueRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue by ID: %w", err)
	}
	return row.toModel(), nil
}

// List retrieves venues with optional filters.
func (r *VenueRepo) List(ctx context.Context, opts model.VenuesListOptions) ([]*model.Venue, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(venueColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("name", sortDirAsc),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Validated != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("validated", database.Equal, *opts.Validated),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("venues", queryOpts...))

	var rowsOut []venueRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[venueRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	res := make([]*model.Venue, len(rowsOut))
	for i := range rowsOut {
		res[i] = rowsOut[i].toModel()
	}
	return res, nil
}

// Update updates fields of a venue.
func (r *VenueRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateVenueRequest,
) (*model.Venue, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	var row venueRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		args = append(args, id)
		query := "UPDATE venues SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + venueColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		row, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[venueRow])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return row.toModel(), nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a venue.
func (r *VenueRepo) buildUpdateClause(req model.UpdateVenueRequest) (string, []any) {
	setParts := make([]string, 0, 9)
	args := make([]any, 0, 10)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Address != nil {
		setParts = append(setParts, fmt.Sprintf("address = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Address))
	}
	if req.Postcode != nil {
		setParts = append(setParts, fmt.Sprintf("postcode = $%d", nextIdx()))
		args = append(args, *req.Postcode)
	}
	if req.Latitude != nil {
		setParts = append(setParts, fmt.Sprintf("latitude = $%d", nextIdx()))
		args = append(args, *req.Latitude)
	}
	if req.Longitude != nil {
		setParts = append(setParts, fmt.Sprintf("longitude = $%d", nextIdx()))
		args = append(args, *req.Longitude)
	}
	if req.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", nextIdx()))
		args = append(args, *req.Phone)
	}
	if req.GooglePlaceID != nil {
		if strings.TrimSpace(*req.GooglePlaceID) == "" {
			setParts = append(setParts, "google_place_id = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("google_place_id = $%d", nextIdx()))
			args = append(args, *req.GooglePlaceID)
		}
	}
	if req.Validated != nil {
		setParts = append(setParts, fmt.Sprintf("validated = $%d", nextIdx()))
		args = append(args, *req.Validated)
	}
	if req.Facilities != nil {
		setParts = append(setParts, fmt.Sprintf("facilities = $%d", nextIdx()))
		args = append(args, facilitiesToStrings(*req.Facilities))
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes a venue by ID.
func (r *VenueRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete venue: %w", err)
	}
	return rows > 0, nil
}

func (r *VenueRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrVenueNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrVenueNameExists
	}
	return err
}
