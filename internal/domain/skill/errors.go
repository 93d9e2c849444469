package skill

import "errors"

// Sentinel kinds for rating-engine errors.
var (
	// ErrInvalidOutcome reports a winner that is neither side of the
	// match. It indicates a caller bug and is never retried.
	ErrInvalidOutcome = errors.New("winner is not a match participant")
)
