package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/service"
)

// createTripRequest is the JSON body for POST /trips. The same fields are
// accepted as multipart form values when a cover image is uploaded.
type createTripRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TripType    string  `json:"trip_type"`
	StartDate   string  `json:"start_date"` // YYYY-MM-DD
	EndDate     *string `json:"end_date"`
	Visibility  string  `json:"visibility"`
}

// updateTripRequest is the JSON body for PATCH /trips/{tripID}.
// Absent fields are left unchanged.
type updateTripRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TripType    *string `json:"trip_type"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Visibility  *string `json:"visibility"`
}

// pagedTripsResponse wraps a discovery page with its pagination info.
type pagedTripsResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination pagination    `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// handleCreateTrip handles POST /trips.
// Accepts either a JSON body, or multipart/form-data with the same fields
// plus an optional cover_image file part. A media-store failure aborts the
// creation — no trip is persisted without its cover.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var (
		req   createTripRequest
		cover *service.CoverUpload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			badRequest(w, "malformed multipart body")
			return
		}
		req = createTripRequest{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			TripType:    r.FormValue("trip_type"),
			StartDate:   r.FormValue("start_date"),
			Visibility:  r.FormValue("visibility"),
		}
		if v := r.FormValue("end_date"); v != "" {
			req.EndDate = &v
		}
		if file, header, err := r.FormFile("cover_image"); err == nil {
			defer file.Close()
			cover = &service.CoverUpload{
				Content:     file,
				ContentType: header.Header.Get("Content-Type"),
			}
		}
	} else if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	trip, err := requestToTrip(req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), actorID(r), trip, cover)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetTrip handles GET /trips/{tripID}.
// Anonymous callers can read public trips; private trips 404 for outsiders.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	trip, err := s.trips.Get(r.Context(), actorID(r), tripID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// handleUpdateTrip handles PATCH /trips/{tripID}. Owner-only.
func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	var req updateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	patch, err := requestToTripPatch(req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.trips.Update(r.Context(), actorID(r), tripID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleUpdateTripCover handles PUT /trips/{tripID}/cover. Owner-only.
// Takes multipart/form-data with a cover_image file part, the same shape the
// create endpoint accepts, and returns the updated trip.
func (s *Server) handleUpdateTripCover(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		badRequest(w, "malformed multipart body")
		return
	}
	file, header, err := r.FormFile("cover_image")
	if err != nil {
		badRequest(w, "cover_image file part is required")
		return
	}
	defer file.Close()

	updated, err := s.trips.UpdateCover(r.Context(), actorID(r), tripID, service.CoverUpload{
		Content:     file,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTrip handles DELETE /trips/{tripID}. Owner-only.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return
	}

	if err := s.trips.Delete(r.Context(), actorID(r), tripID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListTrips handles GET /trips — trips the actor owns or collaborates
// on, most recently updated first.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListForUser(r.Context(), actorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// handleListRequestedTrips handles GET /trips/requested — trips the actor
// has asked to join.
func (s *Server) handleListRequestedTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListRequested(r.Context(), actorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// handleFilterPublicTrips handles GET /trips/public.
// Supports ?q=, ?type=, ?page=, ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) handleFilterPublicTrips(w http.ResponseWriter, r *http.Request) {
	filter := domain.TripFilter{
		Query:    r.URL.Query().Get("q"),
		TripType: r.URL.Query().Get("type"),
	}
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	trips, total, err := s.trips.FilterPublic(r.Context(), filter, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedTripsResponse{
		Data: trips,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a create request into a domain.Trip.
// Returns an error for unparseable dates; field-level business rules are the
// service's concern.
func requestToTrip(req createTripRequest) (domain.Trip, error) {
	t := domain.Trip{
		Name:        req.Name,
		Description: req.Description,
		TripType:    req.TripType,
		Visibility:  domain.Visibility(req.Visibility),
	}

	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return domain.Trip{}, err
		}
		t.StartDate = start
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return domain.Trip{}, err
		}
		t.EndDate = &end
	}
	return t, nil
}

// requestToTripPatch converts an update request into a domain.TripPatch.
func requestToTripPatch(req updateTripRequest) (domain.TripPatch, error) {
	patch := domain.TripPatch{
		Name:        req.Name,
		Description: req.Description,
		TripType:    req.TripType,
	}

	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return domain.TripPatch{}, err
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return domain.TripPatch{}, err
		}
		patch.EndDate = &end
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		patch.Visibility = &v
	}
	return patch, nil
}

// parseDate parses a YYYY-MM-DD value.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("dates must be in YYYY-MM-DD format")
	}
	return t, nil
}

// queryInt parses an optional integer query parameter, returning nil when
// absent or malformed.
func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
