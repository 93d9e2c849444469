package seed

import (
	"fmt"
	"math"
	"math/rand"
)

// latentSkill is the hidden strength a seeded player plays at. Outcomes
// are sampled from it so the resulting ladder looks like real play
// instead of coin flips.
const (
	latentSkillMean   = 25.0
	latentSkillStddev = 8.0
	performanceNoise  = 6.0
)

// player is a seeded player with its hidden strength.
type player struct {
	ID    string
	Name  string
	Skill float64
}

// match is one generated outcome, 1v1 or 2v2.
type match struct {
	SideA   []string
	SideB   []string
	WinnerA bool
}

// generatePlayers produces player names and latent skills. IDs are filled
// in after the service assigns them.
func generatePlayers(rng *rand.Rand, n int) []player {
	players := make([]player, n)
	for i := range players {
		players[i] = player{
			Name:  fmt.Sprintf("seed-player-%04d", i+1),
			Skill: latentSkillMean + rng.NormFloat64()*latentSkillStddev,
		}
	}
	return players
}

// generateMatches samples matchups and outcomes from the latent skills.
// Roughly teamRatio of the matches are 2v2.
func generateMatches(rng *rand.Rand, players []player, n int, teamRatio float64) []match {
	matches := make([]match, 0, n)
	for i := 0; i < n; i++ {
		if rng.Float64() < teamRatio && len(players) >= 4 {
			matches = append(matches, generateTeamMatch(rng, players))
		} else {
			matches = append(matches, generateSinglesMatch(rng, players))
		}
	}
	return matches
}

func generateSinglesMatch(rng *rand.Rand, players []player) match {
	idx := pickDistinct(rng, len(players), 2)
	a, b := players[idx[0]], players[idx[1]]
	return match{
		SideA:   []string{a.ID},
		SideB:   []string{b.ID},
		WinnerA: playOut(rng, a.Skill, b.Skill),
	}
}

func generateTeamMatch(rng *rand.Rand, players []player) match {
	idx := pickDistinct(rng, len(players), 4)
	a1, a2 := players[idx[0]], players[idx[1]]
	b1, b2 := players[idx[2]], players[idx[3]]
	return match{
		SideA:   []string{a1.ID, a2.ID},
		SideB:   []string{b1.ID, b2.ID},
		WinnerA: playOut(rng, a1.Skill+a2.Skill, b1.Skill+b2.Skill),
	}
}

// playOut samples a winner: each side performs at its skill plus noise.
func playOut(rng *rand.Rand, skillA, skillB float64) bool {
	perfA := skillA + rng.NormFloat64()*performanceNoise
	perfB := skillB + rng.NormFloat64()*performanceNoise
	if perfA == perfB {
		// Draws are not representable; break the tie at random.
		return rng.Intn(2) == 0
	}
	return perfA > perfB
}

// pickDistinct samples k distinct indexes out of n, biased toward nearby
// indexes so the same pairings recur the way regulars play each other.
func pickDistinct(rng *rand.Rand, n, k int) []int {
	out := make([]int, 0, k)
	seen := make(map[int]struct{}, k)
	first := rng.Intn(n)
	out = append(out, first)
	seen[first] = struct{}{}

	for len(out) < k {
		// Cluster around the first pick with a geometric-ish spread.
		offset := int(math.Abs(rng.NormFloat64()) * float64(n) / 4)
		next := (first + offset + 1) % n
		if _, ok := seen[next]; ok {
			next = rng.Intn(n)
			if _, ok := seen[next]; ok {
				continue
			}
		}
		out = append(out, next)
		seen[next] = struct{}{}
	}
	return out
}
