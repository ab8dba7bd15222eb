package handler

import (
	"net/http"

	"github.com/travelconnect/backend/internal/domain"
)

// addItineraryItemRequest is the JSON body for POST /trips/{tripID}/itinerary.
type addItineraryItemRequest struct {
	Day      int    `json:"day"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// updateItineraryItemRequest is the JSON body for
// PATCH /trips/{tripID}/itinerary/{itemID}. Absent fields are left unchanged.
type updateItineraryItemRequest struct {
	Day      *int    `json:"day"`
	Title    *string `json:"title"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

// handleAddItineraryItem handles POST /trips/{tripID}/itinerary.
// Owner or member only.
func (s *Server) handleAddItineraryItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	var req addItineraryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	item := domain.ItineraryItem{
		TripID:   tripID,
		Day:      req.Day,
		Title:    req.Title,
		Location: req.Location,
		Notes:    req.Notes,
	}

	created, err := s.itinerary.Add(r.Context(), actorID(r), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateItineraryItem handles PATCH /trips/{tripID}/itinerary/{itemID}.
func (s *Server) handleUpdateItineraryItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	itemID, ok2 := pathUUID(r, "itemID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "itinerary item not found"))
		return
	}

	var req updateItineraryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	patch := domain.ItineraryItemPatch{
		Day:      req.Day,
		Title:    req.Title,
		Location: req.Location,
		Notes:    req.Notes,
	}

	updated, err := s.itinerary.Update(r.Context(), actorID(r), tripID, itemID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteItineraryItem handles DELETE /trips/{tripID}/itinerary/{itemID}.
func (s *Server) handleDeleteItineraryItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	itemID, ok2 := pathUUID(r, "itemID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "itinerary item not found"))
		return
	}

	if err := s.itinerary.Delete(r.Context(), actorID(r), tripID, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
