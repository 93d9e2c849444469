package service

import "errors"

// Sentinel kinds for settle errors.
var (
	// ErrDuplicateMatch reports a settle resubmitted under an already
	// applied match ID.
	ErrDuplicateMatch = errors.New("match already settled")

	// ErrInactivePlayer reports a settle referencing a deactivated
	// player.
	ErrInactivePlayer = errors.New("player is inactive")

	// ErrDuplicatePlayer reports a player listed more than once in a
	// match.
	ErrDuplicatePlayer = errors.New("player listed more than once")
)
