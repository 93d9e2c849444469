package service

import (
	"context"
	"fmt"
	"time"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/stats"
)

// Trend windows reported for player statistics.
var trendWindows = []struct {
	period string
	days   int
}{
	{"7d", 7},
	{"30d", 30},
	{"90d", 90},
	{"all", 0},
}

// PlayerStatistics bundles everything the statistics endpoint reports for
// one player.
type PlayerStatistics struct {
	Player            model.Player
	CurrentStreak     stats.Streak
	LongestWinStreak  int
	LongestLossStreak int
	Peak              stats.Peak
	Trends            []stats.Trend
	RecentForm        stats.Form
	FirstGame         *time.Time
	LastGame          *time.Time
	GamesThisWeek     int
	GamesThisMonth    int
}

// PlayerStatistics computes the full statistics bundle for one player.
// All windows share one "now" so the counts are mutually consistent.
func (s *Service) PlayerStatistics(ctx context.Context, playerID string) (PlayerStatistics, error) {
	p, err := s.store.Player(ctx, playerID)
	if err != nil {
		return PlayerStatistics{}, fmt.Errorf("player %s: %w", playerID, err)
	}

	matches, err := s.store.Matches(ctx, playerID)
	if err != nil {
		return PlayerStatistics{}, err
	}
	history, err := s.store.HistoryFor(ctx, playerID, nil)
	if err != nil {
		return PlayerStatistics{}, err
	}

	now := time.Now().UTC()
	out := PlayerStatistics{
		Player:        p,
		CurrentStreak: stats.CurrentStreak(matches, playerID),
		Peak:          stats.PeakRating(history, p.Belief()),
		RecentForm:    stats.RecentForm(matches, history, playerID),
	}
	out.LongestWinStreak, out.LongestLossStreak = stats.LongestStreaks(matches, playerID)

	for _, w := range trendWindows {
		out.Trends = append(out.Trends, stats.WindowTrend(matches, history, playerID, w.period, w.days, now))
	}

	if len(matches) > 0 {
		first := matches[len(matches)-1].PlayedAt
		last := matches[0].PlayedAt
		out.FirstGame = &first
		out.LastGame = &last
	}
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)
	for _, m := range matches {
		if !m.PlayedAt.Before(weekStart) {
			out.GamesThisWeek++
		}
		if !m.PlayedAt.Before(monthStart) {
			out.GamesThisMonth++
		}
	}
	return out, nil
}

// HeadToHead computes the record between two players.
func (s *Service) HeadToHead(ctx context.Context, playerA, playerB string) (stats.HeadToHead, error) {
	if playerA == playerB {
		return stats.HeadToHead{}, fmt.Errorf("%w: cannot compare a player with themselves", ErrDuplicatePlayer)
	}
	if _, err := s.store.Player(ctx, playerA); err != nil {
		return stats.HeadToHead{}, fmt.Errorf("player %s: %w", playerA, err)
	}
	if _, err := s.store.Player(ctx, playerB); err != nil {
		return stats.HeadToHead{}, fmt.Errorf("player %s: %w", playerB, err)
	}

	matches, err := s.store.Matches(ctx, "")
	if err != nil {
		return stats.HeadToHead{}, err
	}
	return stats.ComputeHeadToHead(matches, playerA, playerB), nil
}

// Leaderboard ranks active players by the given sort key.
func (s *Service) Leaderboard(ctx context.Context, key stats.SortKey, minGames, offset, limit int) ([]stats.RankedPlayer, int, error) {
	players, err := s.store.Players(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := stats.Leaderboard(players, key, minGames, offset, limit)
	return page, total, nil
}

// Summary computes the ladder-wide summary.
func (s *Service) Summary(ctx context.Context) (stats.Summary, error) {
	players, err := s.store.Players(ctx)
	if err != nil {
		return stats.Summary{}, err
	}
	matches, err := s.store.Matches(ctx, "")
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.ComputeSummary(players, matches, time.Now().UTC()), nil
}

// Progression returns a subject's chronological rating history, capped at
// limit entries (0 means all), for charting.
func (s *Service) Progression(ctx context.Context, subjectID string, limit int) ([]model.HistoryEntry, error) {
	history, err := s.store.HistoryFor(ctx, subjectID, nil)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// Matches lists settled matches newest-first, optionally for one subject.
func (s *Service) Matches(ctx context.Context, subjectID string) ([]model.Match, error) {
	return s.store.Matches(ctx, subjectID)
}

// MatchQuality reports how evenly matched two players currently are.
func (s *Service) MatchQuality(ctx context.Context, playerA, playerB string) (float64, error) {
	a, err := s.store.Player(ctx, playerA)
	if err != nil {
		return 0, fmt.Errorf("player %s: %w", playerA, err)
	}
	b, err := s.store.Player(ctx, playerB)
	if err != nil {
		return 0, fmt.Errorf("player %s: %w", playerB, err)
	}
	return s.env.MatchQuality(a.Belief(), b.Belief()), nil
}

// WinProbability predicts the probability that playerA beats playerB.
func (s *Service) WinProbability(ctx context.Context, playerA, playerB string) (float64, error) {
	a, err := s.store.Player(ctx, playerA)
	if err != nil {
		return 0, fmt.Errorf("player %s: %w", playerA, err)
	}
	b, err := s.store.Player(ctx, playerB)
	if err != nil {
		return 0, fmt.Errorf("player %s: %w", playerB, err)
	}
	return s.env.WinProbability(a.Belief(), b.Belief()), nil
}

// InitialBelief exposes the rating environment's prior for diagnostics.
func (s *Service) InitialBelief() skill.Belief {
	return s.env.NewBelief()
}
