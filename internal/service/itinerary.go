package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/repo"
)

// ItineraryService implements business logic for itinerary item operations.
// It holds the trip repo because every operation first resolves the actor's
// role on the parent trip.
type ItineraryService struct {
	trips repo.TripRepo
	items repo.ItineraryRepo
}

// NewItineraryService constructs an ItineraryService backed by the provided repos.
func NewItineraryService(trips repo.TripRepo, items repo.ItineraryRepo) *ItineraryService {
	return &ItineraryService{trips: trips, items: items}
}

// Add appends a new itinerary item. Actor must be owner or member.
// Multiple items may share a day; order is insertion order.
func (s *ItineraryService) Add(ctx context.Context, actorID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	access, err := s.trips.Access(ctx, item.TripID, actorID)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	if err := authorize(access, domain.OpEditItinerary); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	if err := validateItineraryItem(item); err != nil {
		return domain.ItineraryItem{}, err
	}

	result, err := s.items.Add(ctx, item)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	return result, nil
}

// Update patches one item by id. Actor must be owner or member.
// Returns domain.ErrNotFound if the item is not on this trip's itinerary.
func (s *ItineraryService) Update(ctx context.Context, actorID, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error) {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Update: %w", err)
	}
	if err := authorize(access, domain.OpEditItinerary); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Update: %w", err)
	}
	if err := validateItineraryPatch(patch); err != nil {
		return domain.ItineraryItem{}, err
	}

	result, err := s.items.Update(ctx, tripID, itemID, patch)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Update: %w", err)
	}
	return result, nil
}

// Delete removes one item by id. Actor must be owner or member.
// Returns domain.ErrNotFound if the item is already gone — deleting a
// missing item is an error, never a silent success.
func (s *ItineraryService) Delete(ctx context.Context, actorID, tripID, itemID uuid.UUID) error {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	if err := authorize(access, domain.OpEditItinerary); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}

	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}

// validateItineraryItem enforces creation rules:
//   - Day must be a positive integer.
//   - Title must be non-empty (whitespace-only titles are rejected).
func validateItineraryItem(item domain.ItineraryItem) error {
	if item.Day <= 0 {
		return fmt.Errorf("%w: day must be a positive integer", domain.ErrValidation)
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return nil
}

// validateItineraryPatch enforces the same rules on supplied patch fields.
func validateItineraryPatch(patch domain.ItineraryItemPatch) error {
	if patch.Day != nil && *patch.Day <= 0 {
		return fmt.Errorf("%w: day must be a positive integer", domain.ErrValidation)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	return nil
}
