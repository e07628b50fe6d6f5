// Package service implements the event and application lifecycle managers.
// Sentinel errors below are the only failures that reach the actor; each
// carries an explicit reason the dispatch layer turns into a user-facing
// denial, distinct from internal diagnostics.
package service

import (
	"errors"
	"fmt"
)

// ErrValidation wraps a malformed event or application payload. The
// conversation engine recovers by re-prompting the offending step.
var ErrValidation = errors.New("validation failed")

// ErrStateConflict signals an illegal event transition, e.g. publishing a
// non-draft event. No partial mutation occurs.
var ErrStateConflict = errors.New("state conflict")

// ErrInvalidTransition signals a moderation action on an application that
// is not in the required state, e.g. approving a rejected row.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrEventNotOpen denies a submission against an event that is not
// published or already closed.
var ErrEventNotOpen = errors.New("event is not open for applications")

// ErrDuplicateApplication denies a second non-rejected application for the
// same (event, user) pair.
var ErrDuplicateApplication = errors.New("an application for this event already exists")

// ErrMissingPhotos denies a submission whose photo count violates the
// event's requirements: zero when photos are required, or more than the
// allowed maximum.
var ErrMissingPhotos = errors.New("photo requirements not met")

// ErrUserBlocked denies any submission from a blocked user.
var ErrUserBlocked = errors.New("user is blocked")

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
