package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/middleware"
)

const testSecret = "unit-test-secret"

// signToken mints an HS256 token the way the identity provider would.
func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// actorEcho records the actor the middleware resolved, then returns 200.
func actorEcho(got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := middleware.ActorFrom(r.Context()); ok {
			*got = actor
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator_Require_ValidToken(t *testing.T) {
	userID := uuid.New()
	var got domain.Actor
	h := middleware.NewAuthenticator(testSecret).Require(actorEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": userID.String()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, got.ID)
	assert.False(t, got.Admin)
}

func TestAuthenticator_Require_AdminClaim(t *testing.T) {
	var got domain.Actor
	h := middleware.NewAuthenticator(testSecret).Require(actorEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
		"sub":   uuid.NewString(),
		"admin": true,
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Admin)
}

func TestAuthenticator_Require_MissingHeader(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret).Require(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestAuthenticator_Require_WrongSecret(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret).Require(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "some-other-secret", jwt.MapClaims{"sub": uuid.NewString()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Require_ExpiredToken(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret).Require(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Require_BadSubject(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret).Require(trivialHandler)

	for _, sub := range []string{"", "not-a-uuid", uuid.Nil.String()} {
		req := httptest.NewRequest(http.MethodGet, "/trips", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": sub}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "sub=%q", sub)
	}
}

func TestAuthenticator_Require_UnsignedTokenRejected(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret).Require(trivialHandler)

	// alg=none tokens must never verify, whatever their payload claims.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+unsigned)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Optional_AnonymousPassesThrough(t *testing.T) {
	called := false
	h := middleware.NewAuthenticator(testSecret).Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := middleware.ActorFrom(r.Context())
		assert.False(t, ok, "no actor in context for anonymous requests")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/trips/public", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthenticator_Optional_InvalidTokenStillRejected(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret).Optional(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// A caller who identifies themselves must do so correctly.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Optional_ValidToken(t *testing.T) {
	userID := uuid.New()
	var got domain.Actor
	h := middleware.NewAuthenticator(testSecret).Optional(actorEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/trips/public", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": userID.String()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, got.ID)
}
