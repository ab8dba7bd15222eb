package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelconnect/backend/internal/domain"
)

// ItineraryRepo defines the persistence operations for itinerary items.
// All write and single-read operations are scoped by tripID so an item ID
// from one trip can never address an item on another.
type ItineraryRepo interface {
	// Add appends a new item with a fresh id and returns the persisted record.
	Add(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// Update applies a partial patch to one item as a single statement.
	// Returns domain.ErrNotFound if the item does not exist under that trip.
	Update(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error)

	// Delete removes one item. Returns domain.ErrNotFound if the item does
	// not exist under that trip — a missing item is an error, not a silent
	// success.
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error

	// ListByTrip returns all items for a trip in insertion order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error)
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, trip_id, day, title, location, notes, created_at, updated_at`

// Add inserts a new itinerary item row and returns the persisted record.
func (r *pgItineraryRepo) Add(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		INSERT INTO itinerary_items (trip_id, day, title, location, notes)
		VALUES (@trip_id, @day, @title, @location, @notes)
		RETURNING ` + itineraryColumns

	args := pgx.NamedArgs{
		"trip_id":  item.TripID,
		"day":      item.Day,
		"title":    item.Title,
		"location": item.Location,
		"notes":    item.Notes,
	}

	result, err := scanItineraryItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Add: %w", err)
	}
	return result, nil
}

// Update patches one item in a single statement. COALESCE keeps columns
// whose patch field is NULL, so the read-merge-write happens inside the
// database and concurrent patches to different fields both survive.
func (r *pgItineraryRepo) Update(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error) {
	const q = `
		UPDATE itinerary_items
		SET day        = COALESCE(@day, day),
		    title      = COALESCE(@title, title),
		    location   = COALESCE(@location, location),
		    notes      = COALESCE(@notes, notes),
		    updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + itineraryColumns

	args := pgx.NamedArgs{
		"id":       itemID,
		"trip_id":  tripID,
		"day":      patch.Day,
		"title":    patch.Title,
		"location": patch.Location,
		"notes":    patch.Notes,
	}

	result, err := scanItineraryItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes one item scoped by trip.
func (r *pgItineraryRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM itinerary_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByTrip returns all items for a trip in insertion order.
// Always returns a non-nil slice on success.
func (r *pgItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itinerary_items
		WHERE trip_id = @trip_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	items := []domain.ItineraryItem{}
	for rows.Next() {
		item, err := scanItineraryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: rows: %w", err)
	}
	return items, nil
}

// scanItineraryItem maps a single database row into a domain.ItineraryItem.
func scanItineraryItem(s scanner) (domain.ItineraryItem, error) {
	var (
		item       domain.ItineraryItem
		id, tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &item.Day, &item.Title, &item.Location,
		&item.Notes, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, domain.ErrNotFound
		}
		return domain.ItineraryItem{}, err
	}
	item.ID = uuid.UUID(id.Bytes)
	item.TripID = uuid.UUID(tripID.Bytes)
	return item, nil
}
