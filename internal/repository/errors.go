// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// lifecycle services to distinguish between different failure scenarios
// without parsing driver errors themselves.
package repository

import "errors"

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint, e.g. a second non-rejected application for the same
// (event, user) pair. The losing side of a racing double submission
// receives this error.
var ErrDuplicate = errors.New("duplicate")

// ErrNotApproved is returned by SetPrimary when the target application is
// not in the approved state. The primary flag is only settable on
// approved rows.
var ErrNotApproved = errors.New("application not approved")

// ErrTxConflict is returned when a transaction loses a serialization race
// (MySQL deadlock, error 1213). Callers may retry such operations once.
var ErrTxConflict = errors.New("transaction conflict")
