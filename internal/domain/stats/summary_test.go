package stats_test

import (
	"testing"
	"time"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func summaryMatch(id, winner, loser string, playedAt time.Time) model.Match {
	return model.Match{
		ID:           id,
		SideA:        []string{winner},
		SideB:        []string{loser},
		SideASubject: winner,
		SideBSubject: loser,
		WinnerSide:   skill.SideA,
		PlayedAt:     playedAt,
	}
}

func TestComputeSummary(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	Convey("Given a ladder with varied activity", t, func() {
		players := []model.Player{
			{ID: "p1", Name: "strong", Mu: 34, Sigma: 3, GamesPlayed: 20, Wins: 15, Losses: 5, Active: true},
			{ID: "p2", Name: "busy", Mu: 26, Sigma: 4, GamesPlayed: 60, Wins: 24, Losses: 36, Active: true},
			{ID: "p3", Name: "new", Mu: 28, Sigma: 7, GamesPlayed: 3, Wins: 3, Losses: 0, Active: true},
			{ID: "p4", Name: "gone", Mu: 45, Sigma: 1, GamesPlayed: 300, Wins: 280, Losses: 20, Active: false},
		}
		matches := []model.Match{
			summaryMatch("m5", "p1", "p2", now.Add(-2*time.Hour)),
			summaryMatch("m4", "p1", "p2", now.AddDate(0, 0, -3)),
			summaryMatch("m3", "p2", "p3", now.AddDate(0, 0, -10)),
			summaryMatch("m2", "p1", "p2", now.AddDate(0, 0, -40)),
			summaryMatch("m1", "p3", "p1", now.AddDate(0, 0, -41)),
		}

		s := stats.ComputeSummary(players, matches, now)

		Convey("Then counts are taken against a single now", func() {
			So(s.TotalPlayers, ShouldEqual, 4)
			So(s.ActivePlayers, ShouldEqual, 3)
			So(s.TotalGames, ShouldEqual, 5)
			So(s.GamesToday, ShouldEqual, 1)
			So(s.GamesThisWeek, ShouldEqual, 2)
			So(s.GamesThisMonth, ShouldEqual, 3)
			So(s.LastUpdated, ShouldEqual, now)
		})

		Convey("And the top rated player needs enough games", func() {
			// p4 outrates everyone but is inactive; p3 is unproven.
			So(s.HighestRated, ShouldNotBeNil)
			So(s.HighestRated.ID, ShouldEqual, "p1")
		})

		Convey("And the most active player has the most games", func() {
			So(s.MostActive, ShouldNotBeNil)
			So(s.MostActive.ID, ShouldEqual, "p2")
		})

		Convey("And the best win rate needs a longer record", func() {
			// p3 is 100% but under the threshold.
			So(s.BestWinRate, ShouldNotBeNil)
			So(s.BestWinRate.ID, ShouldEqual, "p1")
		})

		Convey("And the averages cover the expected populations", func() {
			So(s.AvgGamesPerPlayer, ShouldEqual, 1.25)
			// Mean conservative rating of the three active players.
			want := ((34.0 - 9) + (26 - 12) + (28 - 21)) / 3
			So(s.AvgRating, ShouldAlmostEqual, want, 1e-9)
		})

		Convey("And the most common matchup is the canonical pair", func() {
			So(s.MostCommonMatchup, ShouldNotBeNil)
			So(s.MostCommonMatchup.SubjectLow, ShouldEqual, "p1")
			So(s.MostCommonMatchup.SubjectHigh, ShouldEqual, "p2")
			So(s.MostCommonMatchup.Games, ShouldEqual, 3)
		})
	})

	Convey("Given matchup counts that tie", t, func() {
		matches := []model.Match{
			summaryMatch("m4", "c", "d", time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)),
			summaryMatch("m3", "a", "b", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
			summaryMatch("m2", "d", "c", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)),
			summaryMatch("m1", "b", "a", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		}

		s := stats.ComputeSummary(nil, matches, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

		Convey("Then the earliest-seen pairing wins the tie", func() {
			So(s.MostCommonMatchup, ShouldNotBeNil)
			So(s.MostCommonMatchup.SubjectLow, ShouldEqual, "a")
			So(s.MostCommonMatchup.SubjectHigh, ShouldEqual, "b")
			So(s.MostCommonMatchup.Games, ShouldEqual, 2)
		})
	})

	Convey("Given an empty ladder", t, func() {
		s := stats.ComputeSummary(nil, nil, now)

		Convey("Then the summary is all zeros with nil top performers", func() {
			So(s.TotalPlayers, ShouldEqual, 0)
			So(s.TotalGames, ShouldEqual, 0)
			So(s.HighestRated, ShouldBeNil)
			So(s.MostActive, ShouldBeNil)
			So(s.BestWinRate, ShouldBeNil)
			So(s.MostCommonMatchup, ShouldBeNil)
			So(s.AvgRating, ShouldEqual, 0)
		})
	})
}
