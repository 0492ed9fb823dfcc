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

	"github.com/bndy/centrestage/internal/data/pgxutil"
	"github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/domain/model"
)

var (
	// ErrProfileNotFound is returned when a user profile is not found.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrProfileExists is returned when creating a profile for a uid that already has one.
	ErrProfileExists = errors.New("user profile already exists")
)

// ProfileRepo provides database operations for user profiles.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProfileRepoWithTimeProvider creates a new ProfileRepo with a custom time provider (useful for tests).
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// profileRow mirrors the user_profiles table. Roles are stored as TEXT[] and
// converted to domain roles at the boundary.
type profileRow struct {
	UID           string     `db:"uid"`
	Email         string     `db:"email"`
	EmailVerified bool       `db:"email_verified"`
	DisplayName   *string    `db:"display_name"`
	PhotoURL      *string    `db:"photo_url"`
	Roles         []string   `db:"roles"`
	SourceApp     string     `db:"source_app"`
	LastLoginAt   *time.Time `db:"last_login_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (row profileRow) toModel() *model.UserProfile {
	roles := make([]auth.Role, 0, len(row.Roles))
	for _, r := range row.Roles {
		roles = append(roles, auth.Role(r))
	}
	return &model.UserProfile{
		UID:           row.UID,
		Email:         row.Email,
		EmailVerified: row.EmailVerified,
		DisplayName:   row.DisplayName,
		PhotoURL:      row.PhotoURL,
		Roles:         roles,
		SourceApp:     auth.SourceApp(row.SourceApp),
		LastLoginAt:   row.LastLoginAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func rolesToStrings(roles []auth.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

const profileColumns = `uid, email, email_verified, display_name, photo_url, roles, source_app, last_login_at, created_at, updated_at`

const profileGetByUIDQuery = `
	SELECT ` + profileColumns + `
	FROM user_profiles
	WHERE uid = $1`

// GetByUID retrieves a profile by provider uid.
func (r *ProfileRepo) GetByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, ErrUIDRequired
	}
	var row profileRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, profileGetByUIDQuery, uid)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by uid: %w", err)
	}
	return row.toModel(), nil
}

// Create inserts a new profile. Role defaults from the source app are applied
// by request validation.
func (r *ProfileRepo) Create(
	ctx context.Context,
	req model.CreateUserProfileRequest,
) (*model.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var row profileRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO user_profiles (
				uid, email, email_verified, display_name, photo_url, roles, source_app, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			) RETURNING `+profileColumns,
			strings.TrimSpace(req.UID),
			strings.TrimSpace(req.Email),
			req.EmailVerified,
			req.DisplayName,
			req.PhotoURL,
			rolesToStrings(req.Roles),
			string(req.SourceApp),
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return row.toModel(), nil
}

// Update updates fields of a profile.
func (r *ProfileRepo) Update(
	ctx context.Context,
	uid string,
	req model.UpdateUserProfileRequest,
) (*model.UserProfile, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, ErrUIDRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	var row profileRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		args = append(args, uid)
		query := "UPDATE user_profiles SET " + setClause +
			" WHERE uid = $" + strconv.Itoa(len(args)) +
			" RETURNING " + profileColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		row, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return row.toModel(), nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a profile.
func (r *ProfileRepo) buildUpdateClause(req model.UpdateUserProfileRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Email))
	}
	if req.DisplayName != nil {
		setParts = append(setParts, fmt.Sprintf("display_name = $%d", nextIdx()))
		args = append(args, *req.DisplayName)
	}
	if req.PhotoURL != nil {
		setParts = append(setParts, fmt.Sprintf("photo_url = $%d", nextIdx()))
		args = append(args, *req.PhotoURL)
	}
	if req.Roles != nil {
		setParts = append(setParts, fmt.Sprintf("roles = $%d", nextIdx()))
		args = append(args, rolesToStrings(*req.Roles))
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// TouchLastLogin records a login and the verification state carried by the
// token, without bumping updated_at; that timestamp tracks profile edits.
func (r *ProfileRepo) TouchLastLogin(ctx context.Context, uid string, at time.Time, emailVerified bool) error {
	if strings.TrimSpace(uid) == "" {
		return ErrUIDRequired
	}
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE user_profiles SET last_login_at = $1, email_verified = $2 WHERE uid = $3`,
			at.UTC(), emailVerified, uid)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrProfileExists
	}
	return err
}
