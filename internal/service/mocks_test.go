package service_test

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/media"
	"github.com/travelconnect/backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs; calling an unset one
// panics, which is exactly what you want: it means the service touched a
// dependency the test did not expect it to.
//
// This is idiomatic Go: no mock generation library required for simple cases.

type mockTripRepo struct {
	create        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	access        func(ctx context.Context, tripID, userID uuid.UUID) (domain.TripAccess, error)
	update        func(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	listForUser   func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	listRequested func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	filterPublic  func(ctx context.Context, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Access(ctx context.Context, tripID, userID uuid.UUID) (domain.TripAccess, error) {
	return m.access(ctx, tripID, userID)
}
func (m *mockTripRepo) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, patch)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockTripRepo) ListRequested(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listRequested(ctx, userID)
}
func (m *mockTripRepo) FilterPublic(ctx context.Context, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.filterPublic(ctx, filter, p)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockItineraryRepo struct {
	add        func(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)
	update     func(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error)
	delete     func(ctx context.Context, tripID, itemID uuid.UUID) error
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error)
}

func (m *mockItineraryRepo) Add(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	return m.add(ctx, item)
}
func (m *mockItineraryRepo) Update(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error) {
	return m.update(ctx, tripID, itemID, patch)
}
func (m *mockItineraryRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}
func (m *mockItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error) {
	return m.listByTrip(ctx, tripID)
}

var _ repo.ItineraryRepo = (*mockItineraryRepo)(nil)

type mockChecklistRepo struct {
	add        func(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error)
	toggle     func(ctx context.Context, tripID, itemID uuid.UUID) (domain.ChecklistItem, error)
	delete     func(ctx context.Context, tripID, itemID uuid.UUID) error
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)
}

func (m *mockChecklistRepo) Add(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error) {
	return m.add(ctx, item)
}
func (m *mockChecklistRepo) Toggle(ctx context.Context, tripID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	return m.toggle(ctx, tripID, itemID)
}
func (m *mockChecklistRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}
func (m *mockChecklistRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	return m.listByTrip(ctx, tripID)
}

var _ repo.ChecklistRepo = (*mockChecklistRepo)(nil)

type mockMembershipRepo struct {
	listMembers     func(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)
	listPending     func(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)
	addPending      func(ctx context.Context, tripID, userID uuid.UUID) error
	approve         func(ctx context.Context, tripID, userID uuid.UUID) error
	deny            func(ctx context.Context, tripID, userID uuid.UUID) error
	addMember       func(ctx context.Context, tripID, userID uuid.UUID) error
	removeMember    func(ctx context.Context, tripID, userID uuid.UUID) error
	setShareToken   func(ctx context.Context, tripID uuid.UUID, token string) error
	getByShareToken func(ctx context.Context, token string) (domain.Trip, error)
}

func (m *mockMembershipRepo) ListMembers(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	return m.listMembers(ctx, tripID)
}
func (m *mockMembershipRepo) ListPending(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	return m.listPending(ctx, tripID)
}
func (m *mockMembershipRepo) AddPending(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.addPending(ctx, tripID, userID)
}
func (m *mockMembershipRepo) Approve(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.approve(ctx, tripID, userID)
}
func (m *mockMembershipRepo) Deny(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.deny(ctx, tripID, userID)
}
func (m *mockMembershipRepo) AddMember(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.addMember(ctx, tripID, userID)
}
func (m *mockMembershipRepo) RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.removeMember(ctx, tripID, userID)
}
func (m *mockMembershipRepo) SetShareToken(ctx context.Context, tripID uuid.UUID, token string) error {
	return m.setShareToken(ctx, tripID, token)
}
func (m *mockMembershipRepo) GetByShareToken(ctx context.Context, token string) (domain.Trip, error) {
	return m.getByShareToken(ctx, token)
}

var _ repo.MembershipRepo = (*mockMembershipRepo)(nil)

type mockMediaStore struct {
	put func(ctx context.Context, content io.Reader, contentType string) (string, error)
}

func (m *mockMediaStore) Put(ctx context.Context, content io.Reader, contentType string) (string, error) {
	return m.put(ctx, content, contentType)
}

var _ media.Store = (*mockMediaStore)(nil)

// ---- shared fixtures -------------------------------------------------------

func validTrip() domain.Trip {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		Name:       "Summer in Portugal",
		TripType:   "beach",
		StartDate:  start,
		EndDate:    &end,
		Visibility: domain.VisibilityPrivate,
	}
}

// accessRepo returns a mockTripRepo whose Access always resolves to the given
// role on a private trip. Most authorization tests need nothing else.
func accessRepo(tripID, ownerID uuid.UUID, role domain.Role) *mockTripRepo {
	return &mockTripRepo{
		access: func(_ context.Context, _, _ uuid.UUID) (domain.TripAccess, error) {
			return domain.TripAccess{
				TripID:     tripID,
				OwnerID:    ownerID,
				Visibility: domain.VisibilityPrivate,
				Role:       role,
			}, nil
		},
	}
}

// publicAccessRepo is accessRepo for a public trip.
func publicAccessRepo(tripID, ownerID uuid.UUID, role domain.Role) *mockTripRepo {
	return &mockTripRepo{
		access: func(_ context.Context, _, _ uuid.UUID) (domain.TripAccess, error) {
			return domain.TripAccess{
				TripID:     tripID,
				OwnerID:    ownerID,
				Visibility: domain.VisibilityPublic,
				Role:       role,
			}, nil
		},
	}
}
