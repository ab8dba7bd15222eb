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

// ChecklistRepo defines the persistence operations for checklist items.
// As with itinerary items, everything is scoped by tripID.
type ChecklistRepo interface {
	// Add appends a new unchecked item and returns the persisted record.
	Add(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error)

	// Toggle flips is_done in a single statement (is_done = NOT is_done),
	// so two concurrent toggles cancel out instead of collapsing into one.
	// Returns domain.ErrNotFound if the item does not exist under that trip.
	Toggle(ctx context.Context, tripID, itemID uuid.UUID) (domain.ChecklistItem, error)

	// Delete removes one item. Returns domain.ErrNotFound if the item does
	// not exist under that trip.
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error

	// ListByTrip returns all items for a trip in insertion order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)
}

// pgChecklistRepo is the Postgres implementation of ChecklistRepo.
type pgChecklistRepo struct {
	db db
}

// NewChecklistRepo constructs a ChecklistRepo backed by the provided db connection.
func NewChecklistRepo(db db) ChecklistRepo {
	return &pgChecklistRepo{db: db}
}

const checklistColumns = `id, trip_id, item, is_done, created_at, updated_at`

// Add inserts a new checklist item row and returns the persisted record.
func (r *pgChecklistRepo) Add(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error) {
	const q = `
		INSERT INTO checklist_items (trip_id, item)
		VALUES (@trip_id, @item)
		RETURNING ` + checklistColumns

	args := pgx.NamedArgs{"trip_id": item.TripID, "item": item.Item}

	result, err := scanChecklistItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ChecklistRepo.Add: %w", err)
	}
	return result, nil
}

// Toggle flips the done flag atomically and returns the new state.
func (r *pgChecklistRepo) Toggle(ctx context.Context, tripID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	const q = `
		UPDATE checklist_items
		SET is_done = NOT is_done, updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + checklistColumns

	result, err := scanChecklistItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID}))
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ChecklistRepo.Toggle: %w", err)
	}
	return result, nil
}

// Delete removes one item scoped by trip.
func (r *pgChecklistRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM checklist_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ChecklistRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ChecklistRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByTrip returns all items for a trip in insertion order.
// Always returns a non-nil slice on success.
func (r *pgChecklistRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	const q = `
		SELECT ` + checklistColumns + `
		FROM checklist_items
		WHERE trip_id = @trip_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	items := []domain.ChecklistItem{}
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ChecklistRepo.ListByTrip: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByTrip: rows: %w", err)
	}
	return items, nil
}

// scanChecklistItem maps a single database row into a domain.ChecklistItem.
func scanChecklistItem(s scanner) (domain.ChecklistItem, error) {
	var (
		item       domain.ChecklistItem
		id, tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &item.Item, &item.IsDone, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChecklistItem{}, domain.ErrNotFound
		}
		return domain.ChecklistItem{}, err
	}
	item.ID = uuid.UUID(id.Bytes)
	item.TripID = uuid.UUID(tripID.Bytes)
	return item, nil
}
