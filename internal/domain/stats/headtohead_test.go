package stats_test

import (
	"strconv"
	"testing"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

// versusMatches builds newest-first matches between a and b from
// oldest-first results (true: a won), with unrelated matches interleaved.
func versusMatches(a, b string, aWon []bool) []model.Match {
	out := make([]model.Match, 0, len(aWon)+2)
	for i, won := range aWon {
		m := model.Match{
			ID:           "h" + strconv.Itoa(i+1),
			SideA:        []string{a},
			SideB:        []string{b},
			SideASubject: a,
			SideBSubject: b,
			WinnerSide:   skill.SideB,
			PlayedAt:     baseTime.AddDate(0, 0, i),
		}
		if won {
			m.WinnerSide = skill.SideA
		}
		out = append([]model.Match{m}, out...)
	}
	// Noise that must not count toward the record.
	noise := model.Match{
		ID: "noise", SideA: []string{a}, SideB: []string{"stranger"},
		SideASubject: a, SideBSubject: "stranger",
		WinnerSide: skill.SideA, PlayedAt: baseTime.AddDate(0, 0, 100),
	}
	return append([]model.Match{noise}, out...)
}

func TestComputeHeadToHead(t *testing.T) {
	Convey("Given a rivalry with a mixed record", t, func() {
		matches := versusMatches("alice", "bob", []bool{true, false, true, true})
		h := stats.ComputeHeadToHead(matches, "alice", "bob")

		Convey("Then only opposed matches count", func() {
			So(h.TotalGames, ShouldEqual, 4)
			So(h.WinsA, ShouldEqual, 3)
			So(h.WinsB, ShouldEqual, 1)
			So(h.WinPercentageA, ShouldEqual, 75.0)
			So(h.WinPercentageB, ShouldEqual, 25.0)
		})

		Convey("And the current streak belongs to the recent winner", func() {
			So(h.StreakOwner, ShouldEqual, "alice")
			So(h.Streak.Count, ShouldEqual, 2)
			So(h.Streak.Won, ShouldBeTrue)
		})

		Convey("And the last game date is the newest opposed match", func() {
			So(h.LastGame, ShouldNotBeNil)
			So(*h.LastGame, ShouldEqual, baseTime.AddDate(0, 0, 3))
		})

		Convey("And recent games are reported from the first perspective", func() {
			So(h.RecentGames, ShouldHaveLength, 4)
			So(h.RecentGames[0].Result, ShouldEqual, "W")
			So(h.RecentGames[0].OpponentID, ShouldEqual, "bob")
		})
	})

	Convey("Given the rivalry viewed from the losing side", t, func() {
		matches := versusMatches("alice", "bob", []bool{true, true})
		h := stats.ComputeHeadToHead(matches, "bob", "alice")

		Convey("Then the streak is attributed to the other subject", func() {
			So(h.WinsA, ShouldEqual, 0)
			So(h.WinsB, ShouldEqual, 2)
			So(h.StreakOwner, ShouldEqual, "alice")
			So(h.Streak.Won, ShouldBeTrue)
			So(h.Streak.Count, ShouldEqual, 2)
		})
	})

	Convey("Given subjects who never met", t, func() {
		matches := versusMatches("alice", "bob", []bool{true})
		h := stats.ComputeHeadToHead(matches, "alice", "carol")

		Convey("Then the record is empty", func() {
			So(h.TotalGames, ShouldEqual, 0)
			So(h.LastGame, ShouldBeNil)
			So(h.Streak.Count, ShouldEqual, 0)
			So(h.RecentGames, ShouldBeEmpty)
		})
	})

	Convey("Given 2v2 matches where the subjects opposed as members", t, func() {
		m := model.Match{
			ID:           "tm",
			SideA:        []string{"alice", "mate"},
			SideB:        []string{"bob", "other"},
			SideASubject: "alice+mate",
			SideBSubject: "bob+other",
			WinnerSide:   skill.SideA,
			PlayedAt:     baseTime,
		}
		h := stats.ComputeHeadToHead([]model.Match{m}, "alice", "bob")

		Convey("Then the team match counts toward the rivalry", func() {
			So(h.TotalGames, ShouldEqual, 1)
			So(h.WinsA, ShouldEqual, 1)
		})
	})

	Convey("Given 2v2 matches where the subjects were teammates", t, func() {
		m := model.Match{
			ID:           "tm2",
			SideA:        []string{"alice", "bob"},
			SideB:        []string{"x", "y"},
			SideASubject: "alice+bob",
			SideBSubject: "x+y",
			WinnerSide:   skill.SideA,
			PlayedAt:     baseTime,
		}
		h := stats.ComputeHeadToHead([]model.Match{m}, "alice", "bob")

		Convey("Then the match does not count", func() {
			So(h.TotalGames, ShouldEqual, 0)
		})
	})
}
