// Package team derives team identities and composite team beliefs from
// player beliefs, and decomposes team outcomes back onto the members.
package team

import (
	"math"

	"github.com/foostable/ladder/internal/domain/skill"
)

// Key is the canonical, order-independent identity of a two-player team.
// Invariant: Low < High.
type Key struct {
	Low  string
	High string
}

// NewKey canonicalizes an unordered pair of player IDs into a Key.
// NewKey(a, b) == NewKey(b, a) for all a != b.
func NewKey(a, b string) (Key, error) {
	if a == b {
		return Key{}, ErrDegenerateTeam
	}
	if a < b {
		return Key{Low: a, High: b}, nil
	}
	return Key{Low: b, High: a}, nil
}

// InitialBelief builds a team's starting belief from its members' beliefs.
// Member skills are modeled as independent, so means add and variances add.
func InitialBelief(memberA, memberB skill.Belief) skill.Belief {
	return skill.Belief{
		Mu:    memberA.Mu + memberB.Mu,
		Sigma: math.Sqrt(memberA.Sigma*memberA.Sigma + memberB.Sigma*memberB.Sigma),
	}
}

// Update settles a team-vs-team outcome on the two composite team beliefs,
// treating each team as a single subject.
func Update(env *skill.Env, teamA, teamB skill.Belief, winner skill.Side) (skill.Belief, skill.Belief, error) {
	return env.Update(teamA, teamB, winner)
}

// Members holds the two member beliefs of one side of a 2v2 match,
// in the order they were supplied.
type Members struct {
	First  skill.Belief
	Second skill.Belief
}

// DecomposeMembers settles a 2v2 outcome on the four individual member
// beliefs. Each side's members are updated jointly against the opposing
// pair; a member's correction is weighted by its own variance share, so
// the less certain teammate absorbs more of the result. Mean shifts track
// the team-level direction and no member's uncertainty grows.
func DecomposeMembers(env *skill.Env, sideA, sideB Members, winner skill.Side) (Members, Members, error) {
	a := []skill.Belief{sideA.First, sideA.Second}
	b := []skill.Belief{sideB.First, sideB.Second}

	switch winner {
	case skill.SideA:
		win, lose := env.UpdateGroups(a, b)
		return Members{First: win[0], Second: win[1]}, Members{First: lose[0], Second: lose[1]}, nil
	case skill.SideB:
		win, lose := env.UpdateGroups(b, a)
		return Members{First: lose[0], Second: lose[1]}, Members{First: win[0], Second: win[1]}, nil
	default:
		return sideA, sideB, skill.ErrInvalidOutcome
	}
}
