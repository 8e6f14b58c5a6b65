// Package common defines the sentinel errors shared by the storage
// backends, the timeline store and the transports. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// ErrorNotFound is the normal "absent" outcome: unknown user name,
	// user id or empty value. Callers render "no results".
	ErrorNotFound = errors.New("not found")

	// ErrIntegrity marks a dangling reference: a timeline or social-graph
	// entry points at a post or user record that does not exist.
	ErrIntegrity = errors.New("integrity fault")

	// ErrBackendUnavailable wraps connection and transport failures of the
	// key-value store.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrConflict is returned when a user name is already registered and
	// uniqueness is enforced.
	ErrConflict = errors.New("conflict")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrorInternal = errors.New("internal error")
)
