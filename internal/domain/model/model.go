// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/team"
)

// Player holds one player's identity, current belief, and record.
// Invariant: GamesPlayed == Wins + Losses; counters never decrease.
type Player struct {
	ID          string
	Name        string
	Mu          float64
	Sigma       float64
	GamesPlayed int
	Wins        int
	Losses      int
	Active      bool
	CreatedAt   time.Time
}

// Belief extracts the player's skill belief.
func (p Player) Belief() skill.Belief {
	return skill.Belief{Mu: p.Mu, Sigma: p.Sigma}
}

// WinPercentage is Wins over GamesPlayed in percent, 0 for a fresh player.
func (p Player) WinPercentage() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.GamesPlayed) * 100
}

// ConservativeRating is the player's ranking key.
func (p Player) ConservativeRating() float64 {
	return skill.ConservativeRating(p.Belief())
}

// Team holds a two-player team's identity, current belief, and record.
// Same invariants as Player.
type Team struct {
	Key         team.Key
	Mu          float64
	Sigma       float64
	GamesPlayed int
	Wins        int
	Losses      int
	Active      bool
	CreatedAt   time.Time
}

// Belief extracts the team's composite skill belief.
func (t Team) Belief() skill.Belief {
	return skill.Belief{Mu: t.Mu, Sigma: t.Sigma}
}

// WinPercentage is Wins over GamesPlayed in percent, 0 for a fresh team.
func (t Team) WinPercentage() float64 {
	if t.GamesPlayed == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.GamesPlayed) * 100
}

// ConservativeRating is the team's ranking key.
func (t Team) ConservativeRating() float64 {
	return skill.ConservativeRating(t.Belief())
}

// TeamSubjectID renders a team key as a ledger subject ID ("low+high"),
// so players and teams share one history ledger keyed by string.
func TeamSubjectID(k team.Key) string {
	return k.Low + "+" + k.High
}

// Match is a settled 1v1 or 2v2 outcome. Immutable once settled.
// For a 1v1 the side slices hold one player ID; for a 2v2 they hold the
// two member IDs and the SideASubject/SideBSubject fields carry the team
// subject IDs.
type Match struct {
	ID           string
	SideA        []string
	SideB        []string
	SideASubject string
	SideBSubject string
	WinnerSide   skill.Side
	PlayedAt     time.Time
}

// TeamMatch reports whether the match was settled between teams.
func (m Match) TeamMatch() bool {
	return len(m.SideA) == 2
}

// Subjects lists every subject this match touched: side subjects first,
// then members for team matches.
func (m Match) Subjects() []string {
	out := []string{m.SideASubject, m.SideBSubject}
	if m.TeamMatch() {
		out = append(out, m.SideA...)
		out = append(out, m.SideB...)
	}
	return out
}

// WinnerSubject returns the winning side's subject ID.
func (m Match) WinnerSubject() string {
	if m.WinnerSide == skill.SideA {
		return m.SideASubject
	}
	return m.SideBSubject
}

// WonBy reports whether the given subject was on the winning side.
func (m Match) WonBy(subjectID string) bool {
	side := m.SideA
	if m.WinnerSide == skill.SideB {
		side = m.SideB
	}
	if m.WinnerSubject() == subjectID {
		return true
	}
	for _, id := range side {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Involves reports whether the given subject took part in the match,
// either as a side subject or as a team member.
func (m Match) Involves(subjectID string) bool {
	if m.SideASubject == subjectID || m.SideBSubject == subjectID {
		return true
	}
	for _, id := range append(append([]string{}, m.SideA...), m.SideB...) {
		if id == subjectID {
			return true
		}
	}
	return false
}

// HistoryEntry is one immutable row of the append-only rating ledger:
// a subject's belief before and after a settled match.
type HistoryEntry struct {
	SubjectID   string
	MatchID     string
	MuBefore    float64
	SigmaBefore float64
	MuAfter     float64
	SigmaAfter  float64
	CreatedAt   time.Time
}

// ConservativeBefore is the ranking key prior to the match.
func (h HistoryEntry) ConservativeBefore() float64 {
	return skill.ConservativeRating(skill.Belief{Mu: h.MuBefore, Sigma: h.SigmaBefore})
}

// ConservativeAfter is the ranking key after the match.
func (h HistoryEntry) ConservativeAfter() float64 {
	return skill.ConservativeRating(skill.Belief{Mu: h.MuAfter, Sigma: h.SigmaAfter})
}
