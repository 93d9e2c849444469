package stats

import (
	"time"

	"github.com/foostable/ladder/internal/domain/model"
)

// GameForm is one match seen from the analyzed subject's perspective.
type GameForm struct {
	MatchID                  string
	Date                     time.Time
	OpponentID               string
	Result                   string
	RatingChange             float64
	ConservativeRatingChange float64
}

// Form summarizes the subject's most recent matches.
type Form struct {
	GamesAnalyzed   int
	Wins            int
	Losses          int
	WinPercentage   float64
	AvgRatingChange float64
	CurrentForm     string
	FormTrend       string
	Games           []GameForm
}

// RecentForm analyzes the subject's last matches (ten in the reference
// deployment). CurrentForm is a newest-first result string such as
// "WWLWL". The trend compares wins in the most recent half against the
// prior half and needs a full window to be anything but "stable".
func RecentForm(matches []model.Match, history []model.HistoryEntry, subjectID string) Form {
	recent := matches
	if len(recent) > recentFormGames {
		recent = recent[:recentFormGames]
	}

	// Index mu/conservative deltas by match for O(1) joins.
	deltas := make(map[string]model.HistoryEntry, len(history))
	for _, h := range history {
		deltas[h.MatchID] = h
	}

	f := Form{FormTrend: "stable", Games: make([]GameForm, 0, len(recent))}
	var changeSum float64
	for _, m := range recent {
		g := GameForm{
			MatchID:    m.ID,
			Date:       m.PlayedAt,
			OpponentID: opponentOf(m, subjectID),
			Result:     "L",
		}
		if m.WonBy(subjectID) {
			g.Result = "W"
			f.Wins++
		} else {
			f.Losses++
		}
		if h, ok := deltas[m.ID]; ok {
			g.RatingChange = h.MuAfter - h.MuBefore
			g.ConservativeRatingChange = h.ConservativeAfter() - h.ConservativeBefore()
		}
		changeSum += g.ConservativeRatingChange
		f.CurrentForm += g.Result
		f.Games = append(f.Games, g)
	}

	f.GamesAnalyzed = len(recent)
	if f.GamesAnalyzed > 0 {
		f.WinPercentage = float64(f.Wins) / float64(f.GamesAnalyzed) * 100
		f.AvgRatingChange = changeSum / float64(f.GamesAnalyzed)
	}

	half := recentFormGames / 2
	if len(recent) >= 2*half {
		var newerWins, olderWins int
		for i, g := range f.Games[:2*half] {
			if g.Result != "W" {
				continue
			}
			if i < half {
				newerWins++
			} else {
				olderWins++
			}
		}
		switch {
		case newerWins > olderWins:
			f.FormTrend = "improving"
		case newerWins < olderWins:
			f.FormTrend = "declining"
		}
	}
	return f
}

// opponentOf names the subject's opposition: the other side's subject for
// a side subject, or the opposing team subject for a team member.
func opponentOf(m model.Match, subjectID string) string {
	if m.SideASubject == subjectID {
		return m.SideBSubject
	}
	if m.SideBSubject == subjectID {
		return m.SideASubject
	}
	for _, id := range m.SideA {
		if id == subjectID {
			return m.SideBSubject
		}
	}
	return m.SideASubject
}
