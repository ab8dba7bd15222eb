package handler

import (
	"net/http"

	"github.com/travelconnect/backend/internal/domain"
)

// addChecklistItemRequest is the JSON body for POST /trips/{tripID}/checklist.
// New items always start unchecked; there is no is_done field by design.
type addChecklistItemRequest struct {
	Item string `json:"item"`
}

// handleAddChecklistItem handles POST /trips/{tripID}/checklist.
// Owner or member only.
func (s *Server) handleAddChecklistItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	var req addChecklistItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	created, err := s.checklist.Add(r.Context(), actorID(r), domain.ChecklistItem{
		TripID: tripID,
		Item:   req.Item,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleToggleChecklistItem handles POST /trips/{tripID}/checklist/{itemID}/toggle.
// No body — the operation is a pure flip of the done flag.
func (s *Server) handleToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	itemID, ok2 := pathUUID(r, "itemID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "checklist item not found"))
		return
	}

	toggled, err := s.checklist.Toggle(r.Context(), actorID(r), tripID, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggled)
}

// handleDeleteChecklistItem handles DELETE /trips/{tripID}/checklist/{itemID}.
func (s *Server) handleDeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	itemID, ok2 := pathUUID(r, "itemID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "checklist item not found"))
		return
	}

	if err := s.checklist.Delete(r.Context(), actorID(r), tripID, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
