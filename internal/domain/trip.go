// Package domain contains the core data types for the Travel Connect trip
// collaboration service. This package has no dependencies beyond uuid and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a trip appears in public discovery.
// Private trips are invisible to non-members; public trips are discoverable
// by anyone but still require membership to mutate.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the two known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Trip is the aggregate root: itinerary items, checklist items, members, and
// pending join requests all belong to exactly one trip. The owner is the user
// who created the trip and is implicitly a member — OwnerID never appears in
// Members or PendingRequests.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TripType    string     `json:"trip_type,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"` // nil when the trip is open-ended
	Visibility  Visibility `json:"visibility"`
	CoverImage  string     `json:"cover_image,omitempty"` // opaque media reference, stored verbatim
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// ShareToken is the current join-by-link credential. It is never
	// serialized with the trip; share links are handed out only by the
	// explicit generate operation.
	ShareToken *string `json:"-"`

	// Sub-entities, populated on full aggregate reads (GetTrip).
	Itinerary       []ItineraryItem `json:"itinerary,omitempty"`
	Checklist       []ChecklistItem `json:"checklist,omitempty"`
	Members         []uuid.UUID     `json:"members,omitempty"`
	PendingRequests []uuid.UUID     `json:"pending_requests,omitempty"`
}

// TripPatch carries a partial update for a trip. Nil fields are left
// unchanged. The zero value is a no-op patch.
type TripPatch struct {
	Name        *string
	Description *string
	TripType    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Visibility  *Visibility
	CoverImage  *string
}

// TripFilter narrows public trip discovery. Query matches name or
// description case-insensitively; TripType matches exactly. Empty fields
// are ignored.
type TripFilter struct {
	Query    string
	TripType string
}
