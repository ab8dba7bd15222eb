// Package media defines the Media Store collaborator contract: given
// uploaded bytes, return a stable opaque reference the trip service persists
// verbatim and never interprets. The production implementation targets S3;
// an in-memory implementation backs development and tests.
package media

import (
	"context"
	"io"
)

// Store persists uploaded media and returns a stable reference for it.
type Store interface {
	// Put stores the content read from r and returns an opaque reference.
	// The reference remains valid for the lifetime of the stored object;
	// callers persist it as-is. A failed Put stores nothing.
	Put(ctx context.Context, r io.Reader, contentType string) (string, error)
}
