package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/handler"
)

// mockMembershipServicer is a test double for handler.MembershipServicer.
type mockMembershipServicer struct {
	generateShareLink  func(ctx context.Context, actorID, tripID uuid.UUID) (string, error)
	resolveShareToken  func(ctx context.Context, token string) (domain.Trip, error)
	requestJoin        func(ctx context.Context, actorID, tripID uuid.UUID) error
	requestJoinByToken func(ctx context.Context, actorID uuid.UUID, token string) error
	handleJoinRequest  func(ctx context.Context, actorID, tripID, targetID uuid.UUID, decision domain.Decision) error
	addCollaborator    func(ctx context.Context, actorID, tripID, targetID uuid.UUID) error
	removeCollaborator func(ctx context.Context, actorID, tripID, targetID uuid.UUID) error
}

func (m *mockMembershipServicer) GenerateShareLink(ctx context.Context, actorID, tripID uuid.UUID) (string, error) {
	return m.generateShareLink(ctx, actorID, tripID)
}
func (m *mockMembershipServicer) ResolveShareToken(ctx context.Context, token string) (domain.Trip, error) {
	return m.resolveShareToken(ctx, token)
}
func (m *mockMembershipServicer) RequestJoin(ctx context.Context, actorID, tripID uuid.UUID) error {
	return m.requestJoin(ctx, actorID, tripID)
}
func (m *mockMembershipServicer) RequestJoinByToken(ctx context.Context, actorID uuid.UUID, token string) error {
	return m.requestJoinByToken(ctx, actorID, token)
}
func (m *mockMembershipServicer) HandleJoinRequest(ctx context.Context, actorID, tripID, targetID uuid.UUID, decision domain.Decision) error {
	return m.handleJoinRequest(ctx, actorID, tripID, targetID, decision)
}
func (m *mockMembershipServicer) AddCollaborator(ctx context.Context, actorID, tripID, targetID uuid.UUID) error {
	return m.addCollaborator(ctx, actorID, tripID, targetID)
}
func (m *mockMembershipServicer) RemoveCollaborator(ctx context.Context, actorID, tripID, targetID uuid.UUID) error {
	return m.removeCollaborator(ctx, actorID, tripID, targetID)
}

var _ handler.MembershipServicer = (*mockMembershipServicer)(nil)

// ---- POST /trips/{id}/share-link -------------------------------------------

func TestGenerateShareLink_201(t *testing.T) {
	tripID := uuid.New()
	svc := &mockMembershipServicer{
		generateShareLink: func(_ context.Context, actorID, gotTrip uuid.UUID) (string, error) {
			assert.Equal(t, testActor, actorID)
			assert.Equal(t, tripID, gotTrip)
			return "https://travelconnect.example/share/abcd1234", nil
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodPost, "/trips/"+tripID.String()+"/share-link", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ShareLink string `json:"share_link"`
	}
	decodeBody(t, rec.Body, &resp)
	assert.Equal(t, "https://travelconnect.example/share/abcd1234", resp.ShareLink)
}

func TestGenerateShareLink_403_Member(t *testing.T) {
	svc := &mockMembershipServicer{
		generateShareLink: func(_ context.Context, _, _ uuid.UUID) (string, error) {
			return "", domain.ErrNotAuthorized
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/share-link", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---- GET /share/{token} ----------------------------------------------------

func TestResolveShareToken_200_TrimmedMetadata(t *testing.T) {
	trip := tripFixture()
	member := uuid.New()
	trip.Members = []uuid.UUID{member}
	token := "cafebabe"
	svc := &mockMembershipServicer{
		resolveShareToken: func(_ context.Context, gotToken string) (domain.Trip, error) {
			assert.Equal(t, token, gotToken)
			return trip, nil
		},
	}
	router := newAnonymousRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodGet, "/share/"+token, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), trip.Name)
	// The join page gets trip metadata only, never membership details.
	assert.NotContains(t, rec.Body.String(), member.String())
	assert.NotContains(t, rec.Body.String(), trip.OwnerID.String())
}

func TestResolveShareToken_404_Stale(t *testing.T) {
	svc := &mockMembershipServicer{
		resolveShareToken: func(_ context.Context, _ string) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	router := newAnonymousRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodGet, "/share/stale-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- POST /trips/{id}/join and /share/{token}/join -------------------------

func TestRequestJoin_202(t *testing.T) {
	svc := &mockMembershipServicer{
		requestJoin: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/join", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending")
}

func TestRequestJoin_409_AlreadyMember(t *testing.T) {
	svc := &mockMembershipServicer{
		requestJoin: func(_ context.Context, _, _ uuid.UUID) error {
			return fmt.Errorf("join: %w", domain.ErrAlreadyMember)
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/join", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_member")
}

func TestRequestJoinByToken_202(t *testing.T) {
	svc := &mockMembershipServicer{
		requestJoinByToken: func(_ context.Context, actorID uuid.UUID, token string) error {
			assert.Equal(t, testActor, actorID)
			assert.Equal(t, "cafebabe", token)
			return nil
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodPost, "/share/cafebabe/join", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

// ---- POST /trips/{id}/requests/{userID} ------------------------------------

func TestJoinRequestDecision_204_Approve(t *testing.T) {
	target := uuid.New()
	var gotDecision domain.Decision
	svc := &mockMembershipServicer{
		handleJoinRequest: func(_ context.Context, _, _, targetID uuid.UUID, decision domain.Decision) error {
			assert.Equal(t, target, targetID)
			gotDecision = decision
			return nil
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	body := jsonBody(t, map[string]any{"decision": "approve"})
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/requests/"+target.String(), body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.DecisionApprove, gotDecision)
}

func TestJoinRequestDecision_422_BadDecision(t *testing.T) {
	svc := &mockMembershipServicer{
		handleJoinRequest: func(_ context.Context, _, _, _ uuid.UUID, decision domain.Decision) error {
			return fmt.Errorf("%w: decision must be approve or deny", domain.ErrValidation)
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	body := jsonBody(t, map[string]any{"decision": "maybe"})
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/requests/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestJoinRequestDecision_409_NotPending(t *testing.T) {
	svc := &mockMembershipServicer{
		handleJoinRequest: func(_ context.Context, _, _, _ uuid.UUID, _ domain.Decision) error {
			return fmt.Errorf("decide: %w", domain.ErrInvalidState)
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	body := jsonBody(t, map[string]any{"decision": "approve"})
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/requests/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

// ---- collaborators ---------------------------------------------------------

func TestAddCollaborator_204(t *testing.T) {
	svc := &mockMembershipServicer{
		addCollaborator: func(_ context.Context, _, _, _ uuid.UUID) error { return nil },
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/collaborators/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRemoveCollaborator_409_Owner(t *testing.T) {
	svc := &mockMembershipServicer{
		removeCollaborator: func(_ context.Context, _, _, _ uuid.UUID) error {
			return fmt.Errorf("remove: %w: owner cannot be removed", domain.ErrInvalidState)
		},
	}
	router := newRouter(t, handler.NewServer(nil, nil, nil, svc))

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+uuid.NewString()+"/collaborators/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner cannot be removed")
}
