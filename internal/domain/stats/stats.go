// Package stats computes derived statistics from settled matches and the
// append-only rating history: streaks, peaks, trends, form, head-to-head
// records, leaderboards, and summary aggregates.
//
// All functions are pure. Match slices are expected newest-first (the
// repository's listing order) unless noted; history slices are expected
// chronological. Subjects are identified by ledger subject ID, so every
// computation works for players and teams alike. Zero activity is a valid
// result with sentinel values, never an error.
package stats

import (
	"strconv"
	"time"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
)

// Policy constants from the reference deployment.
const (
	// trendThreshold classifies a windowed conservative-rating change
	// as "up" or "down"; anything inside the band is "stable".
	trendThreshold = 2.0

	// recentFormGames is the number of matches analyzed for form.
	recentFormGames = 10
)

// Streak is a run of consecutive same-result matches.
// Count == 0 means the subject has no matches at all.
type Streak struct {
	Count int
	Won   bool
}

// String renders the streak the way the API reports it.
func (s Streak) String() string {
	if s.Count == 0 {
		return "No games played"
	}
	word := "loss"
	if s.Won {
		word = "win"
	}
	return strconv.Itoa(s.Count) + " game " + word + " streak"
}

// CurrentStreak scans matches newest-first and counts consecutive results
// matching the most recent one.
func CurrentStreak(matches []model.Match, subjectID string) Streak {
	if len(matches) == 0 {
		return Streak{}
	}
	won := matches[0].WonBy(subjectID)
	count := 0
	for _, m := range matches {
		if m.WonBy(subjectID) != won {
			break
		}
		count++
	}
	return Streak{Count: count, Won: won}
}

// LongestStreaks returns the longest win and loss streaks over the full
// match history in a single chronological pass. Both maxima are tracked
// even though only one run is live at a time.
func LongestStreaks(matches []model.Match, subjectID string) (longestWin, longestLoss int) {
	var curWin, curLoss int
	// matches arrive newest-first; walk them oldest-first.
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].WonBy(subjectID) {
			curWin++
			curLoss = 0
			if curWin > longestWin {
				longestWin = curWin
			}
		} else {
			curLoss++
			curWin = 0
			if curLoss > longestLoss {
				longestLoss = curLoss
			}
		}
	}
	return longestWin, longestLoss
}

// Peak is the highest conservative rating a subject ever reached.
// At is nil when the subject has no history and Rating falls back to the
// current belief.
type Peak struct {
	Rating float64
	At     *time.Time
}

// PeakRating finds the maximum post-match conservative rating across the
// subject's history, falling back to the current belief when no history
// exists.
func PeakRating(history []model.HistoryEntry, current skill.Belief) Peak {
	if len(history) == 0 {
		return Peak{Rating: skill.ConservativeRating(current)}
	}
	best := history[0]
	for _, h := range history[1:] {
		if h.ConservativeAfter() > best.ConservativeAfter() {
			best = h
		}
	}
	at := best.CreatedAt
	return Peak{Rating: best.ConservativeAfter(), At: &at}
}

// Trend summarizes a subject's performance inside a rolling time window.
type Trend struct {
	Period        string
	GamesPlayed   int
	Wins          int
	Losses        int
	WinPercentage float64
	AvgRating     float64
	RatingChange  float64
	Direction     string
}

// WindowTrend computes games, win rate, and the conservative-rating change
// across the last `days` days (0 means all time). The change is the rating
// after the window's last entry minus the rating before its first, and 0
// when the window holds no history. Direction is classified against fixed
// thresholds.
func WindowTrend(matches []model.Match, history []model.HistoryEntry, subjectID, period string, days int, now time.Time) Trend {
	var cutoff time.Time
	if days > 0 {
		cutoff = now.AddDate(0, 0, -days)
	}

	t := Trend{Period: period, Direction: "stable"}
	for _, m := range matches {
		if m.PlayedAt.Before(cutoff) {
			continue
		}
		t.GamesPlayed++
		if m.WonBy(subjectID) {
			t.Wins++
		} else {
			t.Losses++
		}
	}
	if t.GamesPlayed > 0 {
		t.WinPercentage = float64(t.Wins) / float64(t.GamesPlayed) * 100
	}

	// history is chronological; the window is its tail.
	var windowed []model.HistoryEntry
	for _, h := range history {
		if !h.CreatedAt.Before(cutoff) {
			windowed = append(windowed, h)
		}
	}
	if len(windowed) > 0 {
		var sum float64
		for _, h := range windowed {
			sum += h.ConservativeAfter()
		}
		t.AvgRating = sum / float64(len(windowed))
		t.RatingChange = windowed[len(windowed)-1].ConservativeAfter() - windowed[0].ConservativeBefore()
	}

	switch {
	case t.RatingChange > trendThreshold:
		t.Direction = "up"
	case t.RatingChange < -trendThreshold:
		t.Direction = "down"
	}
	return t
}
