// Package store provides read-only access to the origin blob store
// holding the served artifacts. The store is populated out-of-band by
// the feed ingestion pipeline; the gateway only ever reads.
package store

import (
	"context"
	"io"
)

// Object is a stored artifact as read from the origin.
type Object struct {
	// Body is the object content. The caller must close it.
	Body io.ReadCloser
	// ETag is the opaque validator reported by the backend.
	ETag string
	// ContentType is the declared media type, empty if none.
	ContentType string
	// Size is the object size in bytes, -1 when unknown.
	Size int64
}

// Store is a read-only accessor to the origin blob store.
//
// Get returns found=false only when the key genuinely does not exist.
// Transport or backend faults are surfaced as errors, so an outage is
// never mistaken for a missing object.
//
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (*Object, bool, error)
}
