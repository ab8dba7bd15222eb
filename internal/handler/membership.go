package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
)

// decisionRequest is the JSON body for POST /trips/{tripID}/requests/{userID}.
type decisionRequest struct {
	Decision string `json:"decision"` // "approve" or "deny"
}

// shareLinkResponse is returned by POST /trips/{tripID}/share-link.
type shareLinkResponse struct {
	ShareLink string `json:"share_link"`
}

// sharedTripResponse is the trimmed trip metadata returned when resolving a
// share token: enough for a join page, nothing about membership.
type sharedTripResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TripType    string     `json:"trip_type,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
}

// handleGenerateShareLink handles POST /trips/{tripID}/share-link.
// Owner-only. Each call mints a fresh token and invalidates the previous one.
func (s *Server) handleGenerateShareLink(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	link, err := s.membership.GenerateShareLink(r.Context(), actorID(r), tripID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shareLinkResponse{ShareLink: link})
}

// handleResolveShareToken handles GET /share/{token}. Anonymous-capable:
// resolving a link shows trip metadata only, joining still requires
// authentication.
func (s *Server) handleResolveShareToken(w http.ResponseWriter, r *http.Request) {
	trip, err := s.membership.ResolveShareToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sharedTripResponse{
		ID:          trip.ID,
		Name:        trip.Name,
		Description: trip.Description,
		TripType:    trip.TripType,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		CoverImage:  trip.CoverImage,
	})
}

// handleRequestJoin handles POST /trips/{tripID}/join.
// Repeating the request while pending is a no-op 202.
func (s *Server) handleRequestJoin(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	if err := s.membership.RequestJoin(r.Context(), actorID(r), tripID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

// handleRequestJoinByToken handles POST /share/{token}/join.
func (s *Server) handleRequestJoinByToken(w http.ResponseWriter, r *http.Request) {
	err := s.membership.RequestJoinByToken(r.Context(), actorID(r), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

// handleJoinRequestDecision handles POST /trips/{tripID}/requests/{userID}.
// Owner-only approve/deny of a pending join request.
func (s *Server) handleJoinRequestDecision(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	targetID, ok2 := pathUUID(r, "userID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "join request not found"))
		return
	}

	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	err := s.membership.HandleJoinRequest(r.Context(), actorID(r), tripID, targetID, domain.Decision(req.Decision))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddCollaborator handles POST /trips/{tripID}/collaborators/{userID}.
// Owner-only direct add, bypassing the approval flow.
func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	targetID, ok2 := pathUUID(r, "userID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	if err := s.membership.AddCollaborator(r.Context(), actorID(r), tripID, targetID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveCollaborator handles DELETE /trips/{tripID}/collaborators/{userID}.
// Owner-only; the owner themselves cannot be removed.
func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	targetID, ok2 := pathUUID(r, "userID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	if err := s.membership.RemoveCollaborator(r.Context(), actorID(r), tripID, targetID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
