package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/foostable/ladder/internal/seed"
	"github.com/foostable/ladder/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPlayers = 50
	defaultNumMatches = 2000
	defaultTeamRatio  = 0.25
	defaultTopN       = 20
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of players to create")
		numMatches = flag.Int("matches", defaultNumMatches, "Number of matches to settle")
		teamRatio  = flag.Float64("team-ratio", defaultTeamRatio, "Fraction of matches settled as 2v2")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		topN       = flag.Int("top", defaultTopN, "Number of leaderboard entries to display")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:        *baseURL,
		NumPlayers:     *numPlayers,
		NumMatches:     *numMatches,
		TeamMatchRatio: *teamRatio,
		Workers:        *workers,
		Timeout:        *timeout,
		TopN:           *topN,
		Verbose:        *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
