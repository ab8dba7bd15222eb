package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/repo"
)

// MembershipService implements the membership state machine for a trip:
// NONE → PENDING → MEMBER via request/approve, NONE|PENDING → MEMBER via
// owner direct-add, plus share-link generation and resolution.
type MembershipService struct {
	trips      repo.TripRepo
	membership repo.MembershipRepo
	baseURL    string
}

// NewMembershipService constructs a MembershipService. baseURL is the public
// origin embedded into generated share links (no trailing slash).
func NewMembershipService(trips repo.TripRepo, membership repo.MembershipRepo, baseURL string) *MembershipService {
	return &MembershipService{trips: trips, membership: membership, baseURL: baseURL}
}

// GenerateShareLink creates or overwrites the trip's share token and returns
// the full join link. Owner-only. Regenerating invalidates any previously
// distributed link — the old token no longer resolves.
func (s *MembershipService) GenerateShareLink(ctx context.Context, actorID, tripID uuid.UUID) (string, error) {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return "", fmt.Errorf("service.MembershipService.GenerateShareLink: %w", err)
	}
	if err := authorize(access, domain.OpGenerateShareLink); err != nil {
		return "", fmt.Errorf("service.MembershipService.GenerateShareLink: %w", err)
	}

	token, err := newShareToken()
	if err != nil {
		return "", fmt.Errorf("service.MembershipService.GenerateShareLink: %w", err)
	}
	if err := s.membership.SetShareToken(ctx, tripID, token); err != nil {
		return "", fmt.Errorf("service.MembershipService.GenerateShareLink: %w", err)
	}
	return s.baseURL + "/share/" + token, nil
}

// ResolveShareToken returns the trip a current share token points to.
// This is a metadata read only — no join happens; joining still goes through
// RequestJoinByToken. Stale tokens return domain.ErrNotFound.
func (s *MembershipService) ResolveShareToken(ctx context.Context, token string) (domain.Trip, error) {
	trip, err := s.membership.GetByShareToken(ctx, token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.MembershipService.ResolveShareToken: %w", err)
	}
	return trip, nil
}

// RequestJoin moves the actor NONE → PENDING on a trip they can see.
// Requesting again while already pending is an idempotent no-op. Members and
// the owner get domain.ErrAlreadyMember. Requests against private trips the
// actor cannot view fail with domain.ErrNotFound — joining those goes
// through a share link.
func (s *MembershipService) RequestJoin(ctx context.Context, actorID, tripID uuid.UUID) error {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.MembershipService.RequestJoin: %w", err)
	}
	if !access.CanView() {
		return fmt.Errorf("service.MembershipService.RequestJoin: %w", domain.ErrNotFound)
	}

	return s.requestJoin(ctx, actorID, access)
}

// RequestJoinByToken is the share-link join entry point: the token is the
// credential, so the trip's visibility does not gate the request.
func (s *MembershipService) RequestJoinByToken(ctx context.Context, actorID uuid.UUID, token string) error {
	trip, err := s.membership.GetByShareToken(ctx, token)
	if err != nil {
		return fmt.Errorf("service.MembershipService.RequestJoinByToken: %w", err)
	}

	access, err := s.trips.Access(ctx, trip.ID, actorID)
	if err != nil {
		return fmt.Errorf("service.MembershipService.RequestJoinByToken: %w", err)
	}
	return s.requestJoin(ctx, actorID, access)
}

// requestJoin applies the NONE → PENDING transition given resolved access.
func (s *MembershipService) requestJoin(ctx context.Context, actorID uuid.UUID, access domain.TripAccess) error {
	switch access.Role {
	case domain.RoleOwner, domain.RoleMember:
		return fmt.Errorf("service.MembershipService.RequestJoin: %w", domain.ErrAlreadyMember)
	case domain.RolePending:
		// Already pending — idempotent no-op.
		return nil
	}

	if err := s.membership.AddPending(ctx, access.TripID, actorID); err != nil {
		return fmt.Errorf("service.MembershipService.RequestJoin: %w", err)
	}
	return nil
}

// HandleJoinRequest lets the owner approve or deny a pending request.
// Approve moves the target PENDING → MEMBER; deny moves PENDING → NONE (the
// target may request again later). Acting on a target that is not pending
// fails with domain.ErrInvalidState.
func (s *MembershipService) HandleJoinRequest(ctx context.Context, actorID, tripID, targetID uuid.UUID, decision domain.Decision) error {
	if !decision.Valid() {
		return fmt.Errorf("%w: decision must be approve or deny", domain.ErrValidation)
	}

	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.MembershipService.HandleJoinRequest: %w", err)
	}
	if err := authorize(access, domain.OpManageMembers); err != nil {
		return fmt.Errorf("service.MembershipService.HandleJoinRequest: %w", err)
	}

	if decision == domain.DecisionApprove {
		err = s.membership.Approve(ctx, tripID, targetID)
	} else {
		err = s.membership.Deny(ctx, tripID, targetID)
	}
	if err != nil {
		return fmt.Errorf("service.MembershipService.HandleJoinRequest: %w", err)
	}
	return nil
}

// AddCollaborator lets the owner add a user directly (NONE|PENDING → MEMBER),
// bypassing the approval flow. Fails with domain.ErrAlreadyMember if the
// target is the owner or already a member.
func (s *MembershipService) AddCollaborator(ctx context.Context, actorID, tripID, targetID uuid.UUID) error {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.MembershipService.AddCollaborator: %w", err)
	}
	if err := authorize(access, domain.OpManageMembers); err != nil {
		return fmt.Errorf("service.MembershipService.AddCollaborator: %w", err)
	}
	if targetID == access.OwnerID {
		// The owner is implicitly a member and must never appear in the
		// members set.
		return fmt.Errorf("service.MembershipService.AddCollaborator: %w", domain.ErrAlreadyMember)
	}

	if err := s.membership.AddMember(ctx, tripID, targetID); err != nil {
		return fmt.Errorf("service.MembershipService.AddCollaborator: %w", err)
	}
	return nil
}

// RemoveCollaborator lets the owner remove a member (MEMBER → NONE).
// The owner cannot be removed; removing a non-member fails with
// domain.ErrInvalidState.
func (s *MembershipService) RemoveCollaborator(ctx context.Context, actorID, tripID, targetID uuid.UUID) error {
	access, err := s.trips.Access(ctx, tripID, actorID)
	if err != nil {
		return fmt.Errorf("service.MembershipService.RemoveCollaborator: %w", err)
	}
	if err := authorize(access, domain.OpManageMembers); err != nil {
		return fmt.Errorf("service.MembershipService.RemoveCollaborator: %w", err)
	}
	if targetID == access.OwnerID {
		return fmt.Errorf("service.MembershipService.RemoveCollaborator: %w: owner cannot be removed", domain.ErrInvalidState)
	}

	if err := s.membership.RemoveMember(ctx, tripID, targetID); err != nil {
		return fmt.Errorf("service.MembershipService.RemoveCollaborator: %w", err)
	}
	return nil
}

// newShareToken returns a fresh opaque credential: 32 hex characters from a
// CSPRNG, long enough that tokens are unguessable and unique in practice.
func newShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
