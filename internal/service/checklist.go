package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/repo"
)

// ChecklistService implements business logic for checklist item operations.
type ChecklistService struct {
	trips repo.TripRepo
	items repo.ChecklistRepo
}

// NewChecklistService constructs a ChecklistService backed by the provided repos.
func NewChecklistService(trips repo.TripRepo, items repo.ChecklistRepo) *ChecklistService {
	return &ChecklistService{trips: trips, items: items}
}

// Add appends a new unchecked item. Actor must be owner or member.
func (s *ChecklistService) Add(ctx context.Context, actorID uuid.UUID, item domain.ChecklistItem) (domain.ChecklistItem, error) {
	access, err := s.trips.Access(ctx, item.TripID, actorID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Add: %w", err)
	}
	if err := authorize(access, domain.OpEditChecklist); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Add: %w", err)
	}
	if strings.TrimSpace(item.Item) == "" {
		return domain.ChecklistItem{}, fmt.Errorf("%w: item text is required", domain.ErrValidation)
	}

	result, err := s.items.Add(ctx, item)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Add: %w", err)
	}
	return result, nil
}

// Toggle flips the item's done flag and returns the new state. The flip is
// toggle semantics, not set semantics — no boolean is accepted, so applying
// it twice always restores the original value.
func (s *ChecklistService) Toggle(ctx context.Context, actorID, tripID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Toggle: %w", err)
	}
	if err := authorize(access, domain.OpEditChecklist); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Toggle: %w", err)
	}

	result, err := s.items.Toggle(ctx, tripID, itemID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Toggle: %w", err)
	}
	return result, nil
}

// Delete removes one item by id. Actor must be owner or member.
// Returns domain.ErrNotFound if the item is not on this trip's checklist.
func (s *ChecklistService) Delete(ctx context.Context, actorID, tripID, itemID uuid.UUID) error {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.ChecklistService.Delete: %w", err)
	}
	if err := authorize(access, domain.OpEditChecklist); err != nil {
		return fmt.Errorf("service.ChecklistService.Delete: %w", err)
	}

	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.ChecklistService.Delete: %w", err)
	}
	return nil
}
