package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/travelconnect/backend/internal/domain"
	"github.com/travelconnect/backend/internal/handler"
	"github.com/travelconnect/backend/internal/middleware"
)

// testActor is the authenticated user every test request runs as.
var testActor = uuid.MustParse("6fa459ea-ee8a-3ca4-894e-db77e160355e")

// newRouter wires a Server into its chi routes with stub auth middleware:
// RequireAuth and OptionalAuth both inject testActor, and the public rate
// limiter is a pass-through. Token verification itself is covered by the
// middleware package's own tests.
func newRouter(t *testing.T, srv *handler.Server) http.Handler {
	t.Helper()

	inject := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithActor(r.Context(), domain.Actor{ID: testActor})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	passthrough := func(next http.Handler) http.Handler { return next }

	return srv.Routes(handler.RouteMiddleware{
		RequireAuth:   inject,
		OptionalAuth:  inject,
		PublicLimiter: passthrough,
	})
}

// newAnonymousRouter is newRouter without any actor injection, for exercising
// the anonymous paths of optional-auth routes.
func newAnonymousRouter(t *testing.T, srv *handler.Server) http.Handler {
	t.Helper()

	passthrough := func(next http.Handler) http.Handler { return next }
	return srv.Routes(handler.RouteMiddleware{
		RequireAuth:   passthrough,
		OptionalAuth:  passthrough,
		PublicLimiter: passthrough,
	})
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeBody decodes a JSON response body into dst.
func decodeBody(t *testing.T, body *bytes.Buffer, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(dst))
}
