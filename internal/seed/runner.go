package seed

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foostable/ladder/pkg/logger"
)

// Run executes a full seeding pass: create players, settle matches
// concurrently, then display the resulting leaderboard.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	logger.Get().Info(ctx, "starting ladder seed",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("matches", config.NumMatches),
		logger.Int("workers", config.Workers),
		logger.Float64("teamRatio", config.TeamMatchRatio))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	players, err := createPlayers(ctx, config, rng, stats)
	if err != nil {
		return fmt.Errorf("player creation failed: %w", err)
	}

	matches := generateMatches(rng, players, config.NumMatches, config.TeamMatchRatio)
	if err := submitMatches(ctx, config, matches, stats); err != nil {
		return fmt.Errorf("match submission failed: %w", err)
	}

	if err := displayLeaderboard(ctx, config); err != nil {
		logger.Get().Warn(ctx, "failed to fetch leaderboard", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logger.Get().Info(ctx, "seed completed",
		logger.Int("playersCreated", int(stats.PlayersCreated)),
		logger.Int("matchesSettled", int(stats.MatchesSettled)),
		logger.Int("matchesRejected", int(stats.MatchesRejected)),
		logger.String("duration", stats.Duration.String()))
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	return client.getJSON(ctx, config.BaseURL+"/stats", nil)
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

type createPlayerResponse struct {
	ID string `json:"id"`
}

// createPlayers registers players sequentially and records their assigned
// IDs next to the generated latent skills.
func createPlayers(ctx context.Context, config *Config, rng *rand.Rand, stats *Stats) ([]player, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/players"

	players := generatePlayers(rng, config.NumPlayers)
	for i := range players {
		var resp createPlayerResponse
		req := createPlayerRequest{Name: players[i].Name}
		if err := client.postJSON(ctx, url, req, &resp, http.StatusCreated); err != nil {
			return nil, fmt.Errorf("create player %s: %w", players[i].Name, err)
		}
		players[i].ID = resp.ID
		atomic.AddInt64(&stats.PlayersCreated, 1)
	}
	return players, nil
}

type singlesMatchRequest struct {
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
	WinnerID  string `json:"winner_id"`
}

type teamMatchRequest struct {
	Team1Player1ID string `json:"team1_player1_id"`
	Team1Player2ID string `json:"team1_player2_id"`
	Team2Player1ID string `json:"team2_player1_id"`
	Team2Player2ID string `json:"team2_player2_id"`
	WinnerTeam     int    `json:"winner_team"`
}

// submitMatches settles matches concurrently using a worker pool.
func submitMatches(ctx context.Context, config *Config, matches []match, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	jobs := make(chan match)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := submitMatch(ctx, client, config, m); err != nil {
					atomic.AddInt64(&stats.MatchesRejected, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "match rejected", logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&stats.MatchesSettled, 1)
			}
		}()
	}

	for _, m := range matches {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- m:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func submitMatch(ctx context.Context, client *httpClient, config *Config, m match) error {
	if len(m.SideA) == 2 {
		req := teamMatchRequest{
			Team1Player1ID: m.SideA[0],
			Team1Player2ID: m.SideA[1],
			Team2Player1ID: m.SideB[0],
			Team2Player2ID: m.SideB[1],
			WinnerTeam:     2,
		}
		if m.WinnerA {
			req.WinnerTeam = 1
		}
		return client.postJSON(ctx, config.BaseURL+"/team-matches", req, nil, http.StatusCreated)
	}

	req := singlesMatchRequest{
		Player1ID: m.SideA[0],
		Player2ID: m.SideB[0],
		WinnerID:  m.SideB[0],
	}
	if m.WinnerA {
		req.WinnerID = m.SideA[0]
	}
	return client.postJSON(ctx, config.BaseURL+"/matches", req, nil, http.StatusCreated)
}

type leaderboardEntry struct {
	Rank               int     `json:"rank"`
	PlayerName         string  `json:"player_name"`
	GamesPlayed        int     `json:"games_played"`
	WinPercentage      float64 `json:"win_percentage"`
	ConservativeRating float64 `json:"conservative_rating"`
}

type leaderboardPage struct {
	Leaderboard []leaderboardEntry `json:"leaderboard"`
	Total       int                `json:"total"`
}

// displayLeaderboard fetches and logs the top of the ladder.
func displayLeaderboard(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/statistics/leaderboard?page=1&page_size=%d", config.BaseURL, config.TopN)

	var page leaderboardPage
	if err := client.getJSON(ctx, url, &page); err != nil {
		return err
	}

	logger.Get().Info(ctx, "leaderboard", logger.Int("total", page.Total))
	for _, e := range page.Leaderboard {
		logger.Get().Info(ctx, "entry",
			logger.Int("rank", e.Rank),
			logger.String("name", e.PlayerName),
			logger.Int("games", e.GamesPlayed),
			logger.Float64("winPct", e.WinPercentage),
			logger.Float64("rating", e.ConservativeRating))
	}
	return nil
}
