package service

import "errors"

// Sentinel errors returned by the engines. Handlers map them onto HTTP
// statuses; everything else is treated as a store failure (500).
var (
	// ErrValidation rejects an operation before any state change
	// (empty content, self-targeting actions, unknown kinds).
	ErrValidation = errors.New("validation failed")

	// ErrForbidden denies an operation on another user's content or a
	// conversation outside a mutual friendship.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound reports a referenced user, content or message that
	// does not exist (or does not belong to the actor).
	ErrNotFound = errors.New("not found")
)
