// Package seed generates players and matches against a running ladder
// instance, for load testing and demo data.
package seed

import "time"

// Config holds seeding run parameters.
type Config struct {
	// BaseURL of the ladder service, e.g. http://localhost:9080.
	BaseURL string

	// NumPlayers to create before settling matches.
	NumPlayers int

	// NumMatches to settle across the created players.
	NumMatches int

	// TeamMatchRatio in [0,1]: the fraction of matches settled as 2v2.
	TeamMatchRatio float64

	// Workers submitting matches concurrently.
	Workers int

	// Timeout for each HTTP request.
	Timeout time.Duration

	// TopN leaderboard entries to display when the run finishes.
	TopN int

	// Verbose enables per-match logging.
	Verbose bool
}

// Stats tracks a seeding run.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	PlayersCreated  int64
	MatchesSettled  int64
	MatchesRejected int64
}
