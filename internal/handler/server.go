// Package handler implements the HTTP handlers for the trip collaboration
// API. All handlers are methods on Server; methods are split into
// domain-specific files (trip.go, itinerary.go, membership.go, ...) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, actorID uuid.UUID, trip domain.Trip, cover *service.CoverUpload) (domain.Trip, error)
	Get(ctx context.Context, actorID, tripID uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, actorID, tripID uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	UpdateCover(ctx context.Context, actorID, tripID uuid.UUID, cover service.CoverUpload) (domain.Trip, error)
	Delete(ctx context.Context, actorID, tripID uuid.UUID) error
	ListForUser(ctx context.Context, actorID uuid.UUID) ([]domain.Trip, error)
	ListRequested(ctx context.Context, actorID uuid.UUID) ([]domain.Trip, error)
	FilterPublic(ctx context.Context, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

// ItineraryServicer defines the business operations the itinerary handlers
// depend on.
type ItineraryServicer interface {
	Add(ctx context.Context, actorID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error)
	Update(ctx context.Context, actorID, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error)
	Delete(ctx context.Context, actorID, tripID, itemID uuid.UUID) error
}

// ChecklistServicer defines the business operations the checklist handlers
// depend on.
type ChecklistServicer interface {
	Add(ctx context.Context, actorID uuid.UUID, item domain.ChecklistItem) (domain.ChecklistItem, error)
	Toggle(ctx context.Context, actorID, tripID, itemID uuid.UUID) (domain.ChecklistItem, error)
	Delete(ctx context.Context, actorID, tripID, itemID uuid.UUID) error
}

// MembershipServicer defines the business operations the membership and
// share-link handlers depend on.
type MembershipServicer interface {
	GenerateShareLink(ctx context.Context, actorID, tripID uuid.UUID) (string, error)
	ResolveShareToken(ctx context.Context, token string) (domain.Trip, error)
	RequestJoin(ctx context.Context, actorID, tripID uuid.UUID) error
	RequestJoinByToken(ctx context.Context, actorID uuid.UUID, token string) error
	HandleJoinRequest(ctx context.Context, actorID, tripID, targetID uuid.UUID, decision domain.Decision) error
	AddCollaborator(ctx context.Context, actorID, tripID, targetID uuid.UUID) error
	RemoveCollaborator(ctx context.Context, actorID, tripID, targetID uuid.UUID) error
}

// Server holds the services behind all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips      TripServicer
	itinerary  ItineraryServicer
	checklist  ChecklistServicer
	membership MembershipServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, itinerary ItineraryServicer, checklist ChecklistServicer, membership MembershipServicer) *Server {
	return &Server{
		trips:      trips,
		itinerary:  itinerary,
		checklist:  checklist,
		membership: membership,
	}
}

// Middleware groups injected by main: requireAuth rejects requests without a
// valid bearer token, optionalAuth resolves one when present, and
// publicLimiter rate-limits the anonymous discovery endpoints.
type RouteMiddleware struct {
	RequireAuth   func(http.Handler) http.Handler
	OptionalAuth  func(http.Handler) http.Handler
	PublicLimiter func(http.Handler) http.Handler
}

// Routes wires every endpoint onto a chi router. Auth policy lives here, in
// one place: anonymous access exists only for health, public discovery,
// public trip reads, and share-token resolution.
func (s *Server) Routes(mw RouteMiddleware) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	// Anonymous-capable reads. Rate limited because they are the only
	// endpoints open to unauthenticated crawling.
	r.Group(func(r chi.Router) {
		r.Use(mw.PublicLimiter)
		r.With(mw.OptionalAuth).Get("/trips/public", s.handleFilterPublicTrips)
		r.With(mw.OptionalAuth).Get("/trips/{tripID}", s.handleGetTrip)
		r.Get("/share/{token}", s.handleResolveShareToken)
	})

	// Everything else requires an authenticated actor.
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)

		r.Post("/trips", s.handleCreateTrip)
		r.Get("/trips", s.handleListTrips)
		r.Get("/trips/requested", s.handleListRequestedTrips)
		r.Patch("/trips/{tripID}", s.handleUpdateTrip)
		r.Put("/trips/{tripID}/cover", s.handleUpdateTripCover)
		r.Delete("/trips/{tripID}", s.handleDeleteTrip)

		r.Post("/trips/{tripID}/itinerary", s.handleAddItineraryItem)
		r.Patch("/trips/{tripID}/itinerary/{itemID}", s.handleUpdateItineraryItem)
		r.Delete("/trips/{tripID}/itinerary/{itemID}", s.handleDeleteItineraryItem)

		r.Post("/trips/{tripID}/checklist", s.handleAddChecklistItem)
		r.Post("/trips/{tripID}/checklist/{itemID}/toggle", s.handleToggleChecklistItem)
		r.Delete("/trips/{tripID}/checklist/{itemID}", s.handleDeleteChecklistItem)

		r.Post("/trips/{tripID}/share-link", s.handleGenerateShareLink)
		r.Post("/trips/{tripID}/join", s.handleRequestJoin)
		r.Post("/share/{token}/join", s.handleRequestJoinByToken)
		r.Post("/trips/{tripID}/requests/{userID}", s.handleJoinRequestDecision)
		r.Post("/trips/{tripID}/collaborators/{userID}", s.handleAddCollaborator)
		r.Delete("/trips/{tripID}/collaborators/{userID}", s.handleRemoveCollaborator)
	})

	return r
}

// handleHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
