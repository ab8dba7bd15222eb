// Package service contains the business logic for the trip collaboration
// service. Services validate inputs, enforce the role model, and orchestrate
// repo and media-store calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/media"
	"github.com/travelconnect/backend/internal/repo"
)

// CoverUpload carries an uploaded cover image into trip creation.
type CoverUpload struct {
	Content     io.Reader
	ContentType string
}

// TripService implements business logic for trip lifecycle operations.
// It holds the media store because creating a trip with a cover image
// stores the image first; a store failure aborts the whole creation.
type TripService struct {
	trips      repo.TripRepo
	itinerary  repo.ItineraryRepo
	checklist  repo.ChecklistRepo
	membership repo.MembershipRepo
	media      media.Store
}

// NewTripService constructs a TripService backed by the provided repos and
// media store.
func NewTripService(trips repo.TripRepo, itinerary repo.ItineraryRepo, checklist repo.ChecklistRepo, membership repo.MembershipRepo, media media.Store) *TripService {
	return &TripService{
		trips:      trips,
		itinerary:  itinerary,
		checklist:  checklist,
		membership: membership,
		media:      media,
	}
}

// Create validates and persists a new trip with the actor as owner.
// If a cover upload is supplied, the media store is invoked first and the
// returned reference stored on the trip; a store failure fails the creation
// and no trip is persisted.
func (s *TripService) Create(ctx context.Context, actorID uuid.UUID, trip domain.Trip, cover *CoverUpload) (domain.Trip, error) {
	trip.OwnerID = actorID
	if trip.Visibility == "" {
		trip.Visibility = domain.VisibilityPrivate
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	if cover != nil {
		ref, err := s.media.Put(ctx, cover.Content, cover.ContentType)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: store cover image: %w", domain.ErrDependency, err)
		}
		trip.CoverImage = ref
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// Get returns the full trip aggregate: the trip row plus itinerary,
// checklist, members, and pending requests.
//
// Public trips are readable by anyone (pass uuid.Nil for anonymous actors).
// Private trips are readable by the owner, members, and pending requesters;
// for everyone else the result is domain.ErrNotFound, indistinguishable from
// a trip that does not exist.
func (s *TripService) Get(ctx context.Context, actorID, tripID uuid.UUID) (domain.Trip, error) {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if !access.CanView() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}

	if trip.Itinerary, err = s.itinerary.ListByTrip(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if trip.Checklist, err = s.checklist.ListByTrip(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if trip.Members, err = s.membership.ListMembers(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if trip.PendingRequests, err = s.membership.ListPending(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// Update applies an owner-only partial update. Unspecified fields are left
// unchanged; a date inversion in the merged result rejects the whole patch.
func (s *TripService) Update(ctx context.Context, actorID, tripID uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := authorize(access, domain.OpUpdateTrip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := validateTripPatch(patch); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.trips.Update(ctx, tripID, patch)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// UpdateCover replaces the trip's cover image. Owner-only. The new image is
// stored first and only its reference is patched onto the trip; a media-store
// failure leaves the trip unchanged.
func (s *TripService) UpdateCover(ctx context.Context, actorID, tripID uuid.UUID, cover CoverUpload) (domain.Trip, error) {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateCover: %w", err)
	}
	if err := authorize(access, domain.OpUpdateTrip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateCover: %w", err)
	}

	ref, err := s.media.Put(ctx, cover.Content, cover.ContentType)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateCover: %w: store cover image: %w", domain.ErrDependency, err)
	}

	result, err := s.trips.Update(ctx, tripID, domain.TripPatch{CoverImage: &ref})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateCover: %w", err)
	}
	return result, nil
}

// Delete removes a trip and everything embedded in it. Owner-only.
func (s *TripService) Delete(ctx context.Context, actorID, tripID uuid.UUID) error {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := authorize(access, domain.OpDeleteTrip); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ListForUser returns trips the actor owns or collaborates on, most
// recently updated first. Always returns a non-nil slice.
func (s *TripService) ListForUser(ctx context.Context, actorID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListForUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListRequested returns trips the actor has asked to join and is awaiting a
// decision on. Always returns a non-nil slice.
func (s *TripService) ListRequested(ctx context.Context, actorID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListRequested(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListRequested: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// FilterPublic returns one page of discoverable trips matching the filter
// plus the total match count. Open to anonymous callers.
func (s *TripService) FilterPublic(ctx context.Context, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.FilterPublic(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.FilterPublic: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// authorize checks the access holder's role against the role the operation
// requires. Failures on trips the actor cannot even view are reported as
// domain.ErrNotFound so private trips never leak their existence.
func authorize(access domain.TripAccess, op domain.Operation) error {
	if access.Role.Satisfies(domain.RequiredRole(op)) {
		return nil
	}
	if !access.CanView() {
		return domain.ErrNotFound
	}
	return domain.ErrNotAuthorized
}

// validateTrip enforces creation rules:
//   - Name must be non-empty (whitespace-only names are rejected).
//   - StartDate is required.
//   - EndDate, if set, must not be before StartDate.
//   - Visibility must be public or private.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if trip.EndDate != nil && trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if !trip.Visibility.Valid() {
		return fmt.Errorf("%w: visibility must be public or private", domain.ErrValidation)
	}
	return nil
}

// validateTripPatch enforces per-field rules on the supplied fields only.
// The cross-field date invariant is checked against merged state inside the
// repo transaction, where current values are visible.
func validateTripPatch(patch domain.TripPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if patch.StartDate != nil && patch.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date must not be empty", domain.ErrValidation)
	}
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return fmt.Errorf("%w: visibility must be public or private", domain.ErrValidation)
	}
	return nil
}
