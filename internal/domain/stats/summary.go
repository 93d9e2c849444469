package stats

import (
	"time"

	"github.com/foostable/ladder/internal/domain/model"
)

// Eligibility thresholds for summary top performers, matching the
// reference deployment.
const (
	topRatedMinGames    = 5
	bestWinRateMinGames = 10
)

// Matchup is a canonical unordered pairing and how often it was played.
type Matchup struct {
	SubjectLow  string
	SubjectHigh string
	Games       int
}

// Summary aggregates ladder-wide counts against a single "now" captured
// once, so all windows are mutually consistent.
type Summary struct {
	TotalPlayers      int
	ActivePlayers     int
	TotalGames        int
	GamesToday        int
	GamesThisWeek     int
	GamesThisMonth    int
	HighestRated      *model.Player
	MostActive        *model.Player
	BestWinRate       *model.Player
	AvgGamesPerPlayer float64
	AvgRating         float64
	MostCommonMatchup *Matchup
	LastUpdated       time.Time
}

// ComputeSummary builds the ladder-wide summary. Matches arrive
// newest-first; iteration for the most common matchup walks them
// oldest-first so ties resolve to the earliest-seen pairing.
func ComputeSummary(players []model.Player, matches []model.Match, now time.Time) Summary {
	s := Summary{
		TotalPlayers: len(players),
		TotalGames:   len(matches),
		LastUpdated:  now,
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)

	for _, m := range matches {
		if !m.PlayedAt.Before(dayStart) {
			s.GamesToday++
		}
		if !m.PlayedAt.Before(weekStart) {
			s.GamesThisWeek++
		}
		if !m.PlayedAt.Before(monthStart) {
			s.GamesThisMonth++
		}
	}

	var ratingSum float64
	for i := range players {
		p := players[i]
		if !p.Active {
			continue
		}
		s.ActivePlayers++
		ratingSum += p.ConservativeRating()

		if p.GamesPlayed >= topRatedMinGames &&
			(s.HighestRated == nil || p.ConservativeRating() > s.HighestRated.ConservativeRating()) {
			s.HighestRated = &players[i]
		}
		if s.MostActive == nil || p.GamesPlayed > s.MostActive.GamesPlayed {
			s.MostActive = &players[i]
		}
		if p.GamesPlayed >= bestWinRateMinGames &&
			(s.BestWinRate == nil || p.WinPercentage() > s.BestWinRate.WinPercentage()) {
			s.BestWinRate = &players[i]
		}
	}
	if s.ActivePlayers > 0 {
		s.AvgRating = ratingSum / float64(s.ActivePlayers)
	}
	if s.TotalPlayers > 0 {
		s.AvgGamesPerPlayer = float64(s.TotalGames) / float64(s.TotalPlayers)
	}

	s.MostCommonMatchup = mostCommonMatchup(matches)
	return s
}

// mostCommonMatchup groups matches by canonical unordered side pairing and
// picks the maximum, breaking ties by first appearance.
func mostCommonMatchup(matches []model.Match) *Matchup {
	type pair struct{ low, high string }
	counts := make(map[pair]int)
	var order []pair

	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		low, high := m.SideASubject, m.SideBSubject
		if high < low {
			low, high = high, low
		}
		p := pair{low: low, high: high}
		if _, seen := counts[p]; !seen {
			order = append(order, p)
		}
		counts[p]++
	}

	var best *Matchup
	for _, p := range order {
		if best == nil || counts[p] > best.Games {
			best = &Matchup{SubjectLow: p.low, SubjectHigh: p.high, Games: counts[p]}
		}
	}
	return best
}
