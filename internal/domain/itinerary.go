package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryItem is a planned activity on a trip. Items have identity (ID)
// independent of their position: updates and deletes address an item by ID,
// never by index. Display order is insertion order — items are not re-sorted
// by day, and multiple items may share a day.
type ItineraryItem struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Day       int       `json:"day"` // 1-based day of the trip, always positive
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItineraryItemPatch carries a partial update for an itinerary item.
// Nil fields are left unchanged.
type ItineraryItemPatch struct {
	Day      *int
	Title    *string
	Location *string
	Notes    *string
}

// ChecklistItem is a single entry on a trip's packing/preparation checklist.
// IsDone is flipped via the toggle operation only — there is deliberately no
// "set done" operation, so two concurrent toggles cancel out instead of
// collapsing into one.
type ChecklistItem struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Item      string    `json:"item"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
