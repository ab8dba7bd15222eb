package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelconnect/backend/internal/domain"
)

// MembershipRepo defines the persistence operations for the per-trip
// membership state machine (NONE → PENDING → MEMBER) and the share token.
//
// Each transition is one atomic statement, so a transition that races a
// conflicting transition simply affects zero rows and reports the state
// violation instead of corrupting the membership sets. The exclusivity
// rule — a user is never in both trip_members and trip_join_requests —
// holds because the paths into trip_members (Approve, AddMember) clear
// the pending row in the same statement, and the path into
// trip_join_requests (AddPending) refuses to insert for a current member
// in the same statement.
type MembershipRepo interface {
	// ListMembers returns the user ids of accepted collaborators, oldest first.
	// The owner is implicit and never appears here.
	ListMembers(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)

	// ListPending returns the user ids with undecided join requests, oldest first.
	ListPending(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)

	// AddPending records a join request (NONE → PENDING). Idempotent:
	// requesting again while already pending is a no-op, not an error.
	// Inserts nothing for a current member, so a request racing a direct
	// add never leaves the user in both membership sets.
	AddPending(ctx context.Context, tripID, userID uuid.UUID) error

	// Approve moves the user PENDING → MEMBER in one statement.
	// Returns domain.ErrInvalidState if the user is not pending.
	Approve(ctx context.Context, tripID, userID uuid.UUID) error

	// Deny moves the user PENDING → NONE; the user may request again later.
	// Returns domain.ErrInvalidState if the user is not pending.
	Deny(ctx context.Context, tripID, userID uuid.UUID) error

	// AddMember moves the user NONE|PENDING → MEMBER directly, clearing any
	// pending request in the same statement.
	// Returns domain.ErrAlreadyMember if the user is already a member.
	AddMember(ctx context.Context, tripID, userID uuid.UUID) error

	// RemoveMember moves the user MEMBER → NONE.
	// Returns domain.ErrInvalidState if the user is not currently a member.
	RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error

	// SetShareToken overwrites the trip's share token, invalidating any
	// previously distributed link. Returns domain.ErrNotFound if the trip
	// does not exist.
	SetShareToken(ctx context.Context, tripID uuid.UUID, token string) error

	// GetByShareToken resolves the current share token to its trip.
	// Stale tokens (overwritten by a later generation) no longer resolve
	// and return domain.ErrNotFound.
	GetByShareToken(ctx context.Context, token string) (domain.Trip, error)
}

// pgMembershipRepo is the Postgres implementation of MembershipRepo.
type pgMembershipRepo struct {
	db db
}

// NewMembershipRepo constructs a MembershipRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewMembershipRepo(db db) MembershipRepo {
	return &pgMembershipRepo{db: db}
}

// ListMembers returns accepted collaborator ids in join order.
func (r *pgMembershipRepo) ListMembers(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT user_id FROM trip_members WHERE trip_id = @trip_id ORDER BY added_at`

	ids, err := r.queryUserIDs(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.MembershipRepo.ListMembers: %w", err)
	}
	return ids, nil
}

// ListPending returns undecided requester ids in request order.
func (r *pgMembershipRepo) ListPending(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT user_id FROM trip_join_requests WHERE trip_id = @trip_id ORDER BY requested_at`

	ids, err := r.queryUserIDs(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.MembershipRepo.ListPending: %w", err)
	}
	return ids, nil
}

// AddPending records a join request. ON CONFLICT DO NOTHING makes a repeat
// request while already pending a clean no-op. The NOT EXISTS guard lives in
// the statement itself: a caller whose role check raced a concurrent
// AddMember would otherwise insert a pending row for a user who is already
// in trip_members.
func (r *pgMembershipRepo) AddPending(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `
		INSERT INTO trip_join_requests (trip_id, user_id)
		SELECT @trip_id, @user_id
		WHERE NOT EXISTS (
			SELECT 1 FROM trip_members m
			WHERE m.trip_id = @trip_id AND m.user_id = @user_id
		)
		ON CONFLICT (trip_id, user_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MembershipRepo.AddPending: %w", err)
	}
	return nil
}

// Approve moves PENDING → MEMBER as one statement: the CTE deletes the
// pending row and the insert only fires for a row that was actually deleted.
// An approve racing a withdrawal (or a duplicate approve) moves zero rows.
func (r *pgMembershipRepo) Approve(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `
		WITH moved AS (
			DELETE FROM trip_join_requests
			WHERE trip_id = @trip_id AND user_id = @user_id
			RETURNING trip_id, user_id
		)
		INSERT INTO trip_members (trip_id, user_id)
		SELECT trip_id, user_id FROM moved
		ON CONFLICT (trip_id, user_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MembershipRepo.Approve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MembershipRepo.Approve: %w", domain.ErrInvalidState)
	}
	return nil
}

// Deny removes the pending request; the user may request again later.
func (r *pgMembershipRepo) Deny(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM trip_join_requests WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MembershipRepo.Deny: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MembershipRepo.Deny: %w", domain.ErrInvalidState)
	}
	return nil
}

// AddMember adds the user directly, clearing any pending request in the same
// statement. The reported row count is the insert's, so an existing
// membership surfaces as ErrAlreadyMember.
func (r *pgMembershipRepo) AddMember(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `
		WITH cleared AS (
			DELETE FROM trip_join_requests
			WHERE trip_id = @trip_id AND user_id = @user_id
		)
		INSERT INTO trip_members (trip_id, user_id)
		VALUES (@trip_id, @user_id)
		ON CONFLICT (trip_id, user_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MembershipRepo.AddMember: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MembershipRepo.AddMember: %w", domain.ErrAlreadyMember)
	}
	return nil
}

// RemoveMember deletes the membership row.
func (r *pgMembershipRepo) RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM trip_members WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MembershipRepo.RemoveMember: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MembershipRepo.RemoveMember: %w", domain.ErrInvalidState)
	}
	return nil
}

// SetShareToken overwrites the current token; old links stop resolving.
func (r *pgMembershipRepo) SetShareToken(ctx context.Context, tripID uuid.UUID, token string) error {
	const q = `UPDATE trips SET share_token = @token, updated_at = now() WHERE id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "token": token})
	if err != nil {
		return fmt.Errorf("repo.MembershipRepo.SetShareToken: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MembershipRepo.SetShareToken: %w", domain.ErrNotFound)
	}
	return nil
}

// GetByShareToken resolves the current token to its trip row.
func (r *pgMembershipRepo) GetByShareToken(ctx context.Context, token string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE share_token = @token`

	trip, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MembershipRepo.GetByShareToken: %w", err)
	}
	return trip, nil
}

// queryUserIDs runs a single-column user id query and scans all results.
// Always returns a non-nil slice on success.
func (r *pgMembershipRepo) queryUserIDs(ctx context.Context, q string, tripID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return ids, nil
}
