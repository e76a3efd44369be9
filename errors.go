package gateway

import "errors"

// The gateway's whole error surface: unknown route, disallowed table
// file, unreachable origin. Anything else is an internal fault.

// NotFoundError reports that no object exists for the attempted key.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return "not found: " + e.Key
}

// ErrInvalidFile reports a table file outside the allow-list.
var ErrInvalidFile = errors.New("invalid file")

// StoreError wraps a fault from the origin store so it can be told
// apart from a missing key at the response boundary.
type StoreError struct {
	Err error
}

func (e StoreError) Error() string {
	return "store unavailable: " + e.Err.Error()
}

func (e StoreError) Unwrap() error {
	return e.Err
}
