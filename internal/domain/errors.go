package domain

import "errors"

// Sentinel errors returned by repo and service functions. Handlers classify
// them with errors.Is and map each kind to an HTTP status; layers in between
// wrap them with fmt.Errorf("...: %w", err) and never swallow them.
var (
	// ErrNotFound means the requested trip or item does not exist — or, for
	// private trips, exists but is hidden from this actor. The two cases are
	// deliberately indistinguishable so callers cannot probe for the
	// existence of private trips. Maps to HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized means the actor is known but lacks the role the
	// operation requires (e.g. a member attempting an owner-only operation
	// on a trip they can see). Maps to HTTP 403.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidState means a membership transition was attempted from a
	// state that does not permit it, such as approving a user who is not
	// pending or removing a user who is not a member. Maps to HTTP 409.
	ErrInvalidState = errors.New("invalid membership state")

	// ErrAlreadyMember means the target of a join or add operation is
	// already a member (the owner counts as a member). Maps to HTTP 409.
	ErrAlreadyMember = errors.New("already a member")

	// ErrAlreadyPending means the target already has an undecided join
	// request where one is not permitted. Maps to HTTP 409.
	ErrAlreadyPending = errors.New("join request already pending")

	// ErrValidation means input failed a business rule (empty required
	// text, end date before start date, non-positive day number).
	// Maps to HTTP 422.
	ErrValidation = errors.New("validation error")

	// ErrDependency means an external collaborator (media store) failed.
	// The failure is propagated as-is; this service does not retry its
	// collaborators. Maps to HTTP 502.
	ErrDependency = errors.New("dependency error")
)
