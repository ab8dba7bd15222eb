// Package repo contains all database access logic for the trip collaboration
// service. Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
//
// Every state transition is a single statement (or a single short
// transaction holding the trip row) keyed by trip id, so concurrent actors
// mutating the same trip can never produce lost updates.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelconnect/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// tripColumns is the canonical column list scanned by scanTrip.
const tripColumns = `id, owner_id, name, description, trip_type, start_date,
	end_date, visibility, share_token, cover_image, created_at, updated_at`

// TripRepo defines the persistence operations for the trips table.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip row by its UUID primary key.
	// Sub-entities are not loaded. Returns domain.ErrNotFound if no trip
	// with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// Access resolves one user against one trip in a single query: the
	// user's role plus the trip attributes authorization needs. Pass
	// uuid.Nil for anonymous callers. Returns domain.ErrNotFound if the
	// trip does not exist.
	Access(ctx context.Context, tripID, userID uuid.UUID) (domain.TripAccess, error)

	// Update applies a partial patch inside one transaction holding the
	// trip row lock, so the merged date invariant (start <= end) is checked
	// against current state and a failure persists nothing.
	// Returns domain.ErrNotFound if the trip does not exist and
	// domain.ErrValidation if the patched dates would be inverted.
	Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)

	// Delete removes a trip by ID. Embedded itinerary/checklist rows and
	// membership rows go with it via ON DELETE CASCADE.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListForUser returns trips where the user is owner or member, most
	// recently updated first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// ListRequested returns trips where the user has a pending join
	// request, most recently requested first.
	ListRequested(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// FilterPublic returns one page of public trips matching the filter and
	// the total match count.
	FilterPublic(ctx context.Context, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, name, description, trip_type, start_date, end_date, visibility, cover_image)
		VALUES (@owner_id, @name, @description, @trip_type, @start_date, @end_date, @visibility, @cover_image)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":    trip.OwnerID,
		"name":        trip.Name,
		"description": trip.Description,
		"trip_type":   trip.TripType,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate, // nil becomes NULL
		"visibility":  trip.Visibility,
		"cover_image": trip.CoverImage,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// Access resolves the user's role on the trip in one query.
func (r *pgTripRepo) Access(ctx context.Context, tripID, userID uuid.UUID) (domain.TripAccess, error) {
	const q = `
		SELECT t.id, t.owner_id, t.visibility,
		       EXISTS (SELECT 1 FROM trip_members m
		               WHERE m.trip_id = t.id AND m.user_id = @user_id) AS is_member,
		       EXISTS (SELECT 1 FROM trip_join_requests p
		               WHERE p.trip_id = t.id AND p.user_id = @user_id) AS is_pending
		FROM trips t
		WHERE t.id = @trip_id`

	var (
		a         domain.TripAccess
		id, owner pgtype.UUID
		isMember  bool
		isPending bool
	)
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	err := row.Scan(&id, &owner, &a.Visibility, &isMember, &isPending)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripAccess{}, fmt.Errorf("repo.TripRepo.Access: %w", domain.ErrNotFound)
		}
		return domain.TripAccess{}, fmt.Errorf("repo.TripRepo.Access: %w", err)
	}

	a.TripID = uuid.UUID(id.Bytes)
	a.OwnerID = uuid.UUID(owner.Bytes)
	switch {
	case a.OwnerID == userID && userID != uuid.Nil:
		a.Role = domain.RoleOwner
	case isMember:
		a.Role = domain.RoleMember
	case isPending:
		a.Role = domain.RolePending
	default:
		a.Role = domain.RoleNone
	}
	return a, nil
}

// Update merges the patch into the current row under a row lock and writes
// the result back. The select-validate-write runs inside one transaction so
// a validation failure leaves the stored trip untouched.
func (r *pgTripRepo) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const sel = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`
	current, err := scanTrip(tx.QueryRow(ctx, sel, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}

	merged := applyTripPatch(current, patch)
	if merged.EndDate != nil && merged.EndDate.Before(merged.StartDate) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w: end_date must not be before start_date", domain.ErrValidation)
	}

	const upd = `
		UPDATE trips
		SET name        = @name,
		    description = @description,
		    trip_type   = @trip_type,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    visibility  = @visibility,
		    cover_image = @cover_image,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          id,
		"name":        merged.Name,
		"description": merged.Description,
		"trip_type":   merged.TripType,
		"start_date":  merged.StartDate,
		"end_date":    merged.EndDate,
		"visibility":  merged.Visibility,
		"cover_image": merged.CoverImage,
	}

	result, err := scanTrip(tx.QueryRow(ctx, upd, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: commit: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListForUser returns trips owned or joined by the user, most recently
// updated first.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @user_id
		   OR id IN (SELECT trip_id FROM trip_members WHERE user_id = @user_id)
		ORDER BY updated_at DESC`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	return trips, nil
}

// ListRequested returns trips with a pending join request from the user.
func (r *pgTripRepo) ListRequested(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id IN (SELECT trip_id FROM trip_join_requests WHERE user_id = @user_id)
		ORDER BY updated_at DESC`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListRequested: %w", err)
	}
	return trips, nil
}

// FilterPublic returns one page of public trips plus the total match count.
// The free-text query matches name or description case-insensitively.
func (r *pgTripRepo) FilterPublic(ctx context.Context, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const where = `
		visibility = 'public'
		AND (@q = '' OR name ILIKE '%' || @q || '%' OR description ILIKE '%' || @q || '%')
		AND (@trip_type = '' OR trip_type = @trip_type)`

	args := pgx.NamedArgs{
		"q":         filter.Query,
		"trip_type": filter.TripType,
		"limit":     p.Limit,
		"offset":    p.Offset(),
	}

	var total int64
	countRow := r.db.QueryRow(ctx, `SELECT count(*) FROM trips WHERE `+where, args)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.FilterPublic: count: %w", err)
	}

	q := `SELECT ` + tripColumns + ` FROM trips WHERE ` + where + `
		ORDER BY updated_at DESC
		LIMIT @limit OFFSET @offset`

	trips, err := r.queryTrips(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.FilterPublic: %w", err)
	}
	return trips, total, nil
}

// queryTrips runs a multi-row trip query and scans all results.
// Always returns a non-nil slice on success.
func (r *pgTripRepo) queryTrips(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// applyTripPatch merges non-nil patch fields onto the current trip values.
func applyTripPatch(t domain.Trip, patch domain.TripPatch) domain.Trip {
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.TripType != nil {
		t.TripType = *patch.TripType
	}
	if patch.StartDate != nil {
		t.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		ed := *patch.EndDate
		t.EndDate = &ed
	}
	if patch.Visibility != nil {
		t.Visibility = *patch.Visibility
	}
	if patch.CoverImage != nil {
		t.CoverImage = *patch.CoverImage
	}
	return t
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, and nullable column conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id, owner  pgtype.UUID
		startDate  pgtype.Date
		endDate    pgtype.Date
		shareToken pgtype.Text
	)

	err := s.Scan(&id, &owner, &t.Name, &t.Description, &t.TripType, &startDate,
		&endDate, &t.Visibility, &shareToken, &t.CoverImage, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = startDate.Time
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}
	if shareToken.Valid {
		tok := shareToken.String
		t.ShareToken = &tok
	}

	return t, nil
}
