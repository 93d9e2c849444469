package stats

import (
	"time"

	"github.com/foostable/ladder/internal/domain/model"
)

// HeadToHead is the record between exactly two subjects, from the first
// subject's perspective.
type HeadToHead struct {
	SubjectA       string
	SubjectB       string
	TotalGames     int
	WinsA          int
	WinsB          int
	WinPercentageA float64
	WinPercentageB float64
	LastGame       *time.Time
	StreakOwner    string
	Streak         Streak
	RecentGames    []GameForm
}

// ComputeHeadToHead restricts matches to those where a and b opposed each
// other, regardless of side, and computes both perspectives. The streak is
// the current run of wins by whichever subject won most recently. Recent
// games are reported from a's perspective, newest first, capped at the
// form window.
func ComputeHeadToHead(matches []model.Match, a, b string) HeadToHead {
	h := HeadToHead{SubjectA: a, SubjectB: b}

	var versus []model.Match
	for _, m := range matches {
		if opposed(m, a, b) {
			versus = append(versus, m)
		}
	}

	h.TotalGames = len(versus)
	for _, m := range versus {
		if m.WonBy(a) {
			h.WinsA++
		} else {
			h.WinsB++
		}
	}
	if h.TotalGames > 0 {
		h.WinPercentageA = float64(h.WinsA) / float64(h.TotalGames) * 100
		h.WinPercentageB = float64(h.WinsB) / float64(h.TotalGames) * 100
		last := versus[0].PlayedAt
		h.LastGame = &last

		h.Streak = CurrentStreak(versus, a)
		h.StreakOwner = a
		if !h.Streak.Won {
			// Report the streak as the other subject's win run.
			h.StreakOwner = b
			h.Streak.Won = true
		}
	}

	recent := versus
	if len(recent) > recentFormGames {
		recent = recent[:recentFormGames]
	}
	for _, m := range recent {
		g := GameForm{MatchID: m.ID, Date: m.PlayedAt, OpponentID: b, Result: "L"}
		if m.WonBy(a) {
			g.Result = "W"
		}
		h.RecentGames = append(h.RecentGames, g)
	}
	return h
}

// opposed reports whether a and b were on opposite sides of the match.
func opposed(m model.Match, a, b string) bool {
	return (onSideA(m, a) && onSideB(m, b)) || (onSideA(m, b) && onSideB(m, a))
}

func onSideA(m model.Match, id string) bool {
	if m.SideASubject == id {
		return true
	}
	for _, s := range m.SideA {
		if s == id {
			return true
		}
	}
	return false
}

func onSideB(m model.Match, id string) bool {
	if m.SideBSubject == id {
		return true
	}
	for _, s := range m.SideB {
		if s == id {
			return true
		}
	}
	return false
}
