package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/travelconnect/backend/internal/domain"
)

// actorContextKey is the private context key under which the authenticated
// actor is stored. Using an unexported struct type prevents collisions with
// keys from other packages.
type actorContextKey struct{}

// Authenticator verifies bearer tokens issued by the identity provider and
// resolves them to a domain.Actor. This service never issues tokens itself.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator constructs an Authenticator verifying HS256 signatures
// with the shared secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Require rejects requests without a valid bearer token with 401.
// On success the actor is available via ActorFrom.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := a.authenticate(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// Optional resolves a bearer token when one is present but lets anonymous
// requests through. A token that is present but invalid is still rejected —
// a caller who identifies themselves must do so correctly.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		actor, ok := a.authenticate(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// authenticate parses and verifies the Authorization header.
func (a *Authenticator) authenticate(r *http.Request) (domain.Actor, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return domain.Actor{}, false
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, false
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Actor{}, false
	}
	id, err := uuid.Parse(sub)
	if err != nil || id == uuid.Nil {
		return domain.Actor{}, false
	}

	admin, _ := claims["admin"].(bool)
	return domain.Actor{ID: id, Admin: admin}, true
}

// WithActor stores the actor in the context. Exported so handler tests can
// simulate an authenticated request without minting a real token.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom returns the authenticated actor for this request, if any.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="travelconnect"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid bearer token"}}`))
}
