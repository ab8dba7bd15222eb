package domain

import "github.com/google/uuid"

// Actor is the authenticated principal invoking an operation, resolved by
// the auth middleware from a verified bearer token. The zero UUID never
// identifies a real user; anonymous callers are represented by the absence
// of an Actor in the request context.
type Actor struct {
	ID    uuid.UUID
	Admin bool // admin override, reserved for moderation tooling
}

// Role is an actor's relationship to one trip, from weakest to strongest.
// The ordering is deliberate: a stronger role satisfies any requirement a
// weaker one does, with the single exception that RolePending grants read
// access only and never satisfies RoleMember.
type Role int

const (
	// RoleNone: no relationship to the trip.
	RoleNone Role = iota
	// RolePending: asked to join, not yet approved or denied.
	RolePending
	// RoleMember: approved collaborator; may edit itinerary and checklist.
	RoleMember
	// RoleOwner: creator; sole holder of membership-management and
	// deletion rights.
	RoleOwner
)

// String returns the lowercase name of the role for logging.
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleMember:
		return "member"
	case RolePending:
		return "pending"
	default:
		return "none"
	}
}

// Satisfies reports whether an actor holding role r may perform an operation
// requiring the given role. Owner satisfies member; pending satisfies only
// RoleNone (i.e. operations open to anyone).
func (r Role) Satisfies(required Role) bool {
	return r >= required
}

// Operation names every mutating or access-controlled entry point of the
// service. RequiredRole is the single authority on who may do what; every
// service method consults it instead of inlining role checks.
type Operation string

const (
	OpUpdateTrip        Operation = "update_trip"
	OpDeleteTrip        Operation = "delete_trip"
	OpEditItinerary     Operation = "edit_itinerary"
	OpEditChecklist     Operation = "edit_checklist"
	OpGenerateShareLink Operation = "generate_share_link"
	OpManageMembers     Operation = "manage_members"
	OpRequestJoin       Operation = "request_join"
)

// RequiredRole returns the minimum role an actor must hold on a trip to
// perform op. Unknown operations require RoleOwner, failing closed.
func RequiredRole(op Operation) Role {
	switch op {
	case OpEditItinerary, OpEditChecklist:
		return RoleMember
	case OpRequestJoin:
		return RoleNone
	case OpUpdateTrip, OpDeleteTrip, OpGenerateShareLink, OpManageMembers:
		return RoleOwner
	default:
		return RoleOwner
	}
}

// Decision is an owner's ruling on a pending join request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// Valid reports whether d is one of the two known decisions.
func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionDeny
}

// TripAccess is the result of resolving one actor against one trip: the
// actor's role plus the trip attributes authorization decisions need.
// Repos produce it in a single query so services never do separate
// read-then-check steps against stale state.
type TripAccess struct {
	TripID     uuid.UUID
	OwnerID    uuid.UUID
	Visibility Visibility
	Role       Role
}

// CanView reports whether the access holder may read the trip at all.
// Public trips are readable by anyone; private trips require at least a
// pending relationship.
func (a TripAccess) CanView() bool {
	return a.Visibility == VisibilityPublic || a.Role >= RolePending
}
