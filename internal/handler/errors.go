package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/middleware"
)

// errorResponse is the JSON body returned for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are logged
// rather than surfaced — the status line has already been written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError classifies err against the domain sentinels and writes the
// matching status and error body. Unclassified errors are logged and
// reported as an opaque 500 — internals never leak to callers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody("not_found", unwrapMessage(err)))
	case errors.Is(err, domain.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, errBody("not_authorized", unwrapMessage(err)))
	case errors.Is(err, domain.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errBody("invalid_state", unwrapMessage(err)))
	case errors.Is(err, domain.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, errBody("already_member", unwrapMessage(err)))
	case errors.Is(err, domain.ErrAlreadyPending):
		writeJSON(w, http.StatusConflict, errBody("already_pending", unwrapMessage(err)))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errBody("validation_error", unwrapMessage(err)))
	case errors.Is(err, domain.ErrDependency):
		writeJSON(w, http.StatusBadGateway, errBody("dependency_error", "upstream dependency failed"))
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errBody("internal_error", "internal server error"))
	}
}

// badRequest writes a 422 for requests rejected before reaching the service
// layer (missing or malformed body, unparseable fields).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errBody("validation_error", message))
}

func errBody(code, message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error chain, e.g.
// "service.TripService.Update: validation error: name must not be empty"
// → "name must not be empty". Falls back to the full message.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		"validation error: ",
		"invalid membership state: ",
	} {
		if i := strings.LastIndex(msg, sentinel); i >= 0 {
			return msg[i+len(sentinel):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// decodeJSON parses the request body into dst, rejecting unknown fields so
// typos in field names surface as errors instead of silent no-ops.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// actorID returns the authenticated actor's id, or uuid.Nil for anonymous
// requests (only reachable on optional-auth routes).
func actorID(r *http.Request) uuid.UUID {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		return uuid.Nil
	}
	return actor.ID
}
