package team

import "errors"

// Sentinel kinds for team errors.
var (
	// ErrDegenerateTeam reports a team formed from a single player
	// twice. It indicates a caller bug and is never retried.
	ErrDegenerateTeam = errors.New("team members must be different players")
)
