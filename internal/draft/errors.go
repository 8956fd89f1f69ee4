package draft

import "errors"

// Error taxonomy for the draft coordinator. Every precondition failure
// is a distinct, user-displayable kind; none are retried internally
// except a single re-attempt after ErrConflict.
var (
	// ErrNotConfigured means no draft record exists or its order is empty.
	ErrNotConfigured = errors.New("draft is not configured")

	// ErrDraftActive rejects configuration changes while picks are open.
	ErrDraftActive = errors.New("draft is currently active")

	// ErrDraftNotActive rejects picks and skips while the draft is closed.
	ErrDraftNotActive = errors.New("draft is not open")

	// ErrNotYourTurn means the picking team is not on the clock.
	ErrNotYourTurn = errors.New("not your turn to draft")

	// ErrChefAlreadyDrafted means the chef appears in an earlier pick.
	ErrChefAlreadyDrafted = errors.New("chef has already been drafted")

	// ErrConflict means the draft record changed between read and write.
	ErrConflict = errors.New("draft record changed concurrently")

	// ErrUnavailable means the store could not be reached; safe to retry.
	ErrUnavailable = errors.New("draft store unavailable")
)
