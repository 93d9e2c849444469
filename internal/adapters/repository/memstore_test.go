package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/foostable/ladder/internal/adapters/repository"
	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/team"
	. "github.com/smartystreets/goconvey/convey"
)

func newPlayer(id, name string) model.Player {
	return model.Player{
		ID: id, Name: name,
		Mu: 25, Sigma: 8.3333,
		Active:    true,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemStore_Players(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewMemStore()

		Convey("When a player is created", func() {
			So(s.CreatePlayer(ctx, newPlayer("p1", "alice")), ShouldBeNil)

			Convey("Then it can be fetched by ID", func() {
				p, err := s.Player(ctx, "p1")
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "alice")
			})

			Convey("And a duplicate ID is rejected", func() {
				So(s.CreatePlayer(ctx, newPlayer("p1", "other")), ShouldEqual, repository.ErrDuplicate)
			})

			Convey("And a duplicate name is rejected", func() {
				So(s.CreatePlayer(ctx, newPlayer("p2", "alice")), ShouldEqual, repository.ErrDuplicate)
			})
		})

		Convey("When several players are created", func() {
			So(s.CreatePlayer(ctx, newPlayer("p1", "alice")), ShouldBeNil)
			So(s.CreatePlayer(ctx, newPlayer("p2", "bob")), ShouldBeNil)

			Convey("Then listing preserves insertion order", func() {
				players, err := s.Players(ctx)
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 2)
				So(players[0].ID, ShouldEqual, "p1")
				So(players[1].ID, ShouldEqual, "p2")
			})
		})

		Convey("When a missing player is fetched", func() {
			_, err := s.Player(ctx, "nope")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When a player is deactivated", func() {
			So(s.CreatePlayer(ctx, newPlayer("p1", "alice")), ShouldBeNil)
			So(s.DeactivatePlayer(ctx, "p1"), ShouldBeNil)

			Convey("Then the row survives with Active false", func() {
				p, err := s.Player(ctx, "p1")
				So(err, ShouldBeNil)
				So(p.Active, ShouldBeFalse)
			})

			Convey("And deactivating a missing player fails", func() {
				So(s.DeactivatePlayer(ctx, "nope"), ShouldEqual, repository.ErrNotFound)
			})
		})
	})
}

func TestMemStore_Teams(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with a team", t, func() {
		s := repository.NewMemStore()
		key, err := team.NewKey("p1", "p2")
		So(err, ShouldBeNil)
		So(s.CreateTeam(ctx, model.Team{Key: key, Mu: 50, Sigma: 11.8, Active: true}), ShouldBeNil)

		Convey("Then it is found under its canonical key", func() {
			got, err := s.Team(ctx, key)
			So(err, ShouldBeNil)
			So(got.Mu, ShouldEqual, 50.0)

			reversed, err := team.NewKey("p2", "p1")
			So(err, ShouldBeNil)
			got, err = s.Team(ctx, reversed)
			So(err, ShouldBeNil)
			So(got.Key, ShouldResemble, key)
		})

		Convey("And a duplicate is rejected", func() {
			So(s.CreateTeam(ctx, model.Team{Key: key}), ShouldEqual, repository.ErrDuplicate)
		})

		Convey("And listing returns it", func() {
			teams, err := s.Teams(ctx)
			So(err, ShouldBeNil)
			So(teams, ShouldHaveLength, 1)
		})
	})
}

func settleBatch(id string, playedAt time.Time, winner, loser model.Player) repository.SettleBatch {
	m := model.Match{
		ID:           id,
		SideA:        []string{winner.ID},
		SideB:        []string{loser.ID},
		SideASubject: winner.ID,
		SideBSubject: loser.ID,
		WinnerSide:   skill.SideA,
		PlayedAt:     playedAt,
	}
	winner.Mu += 4
	winner.GamesPlayed++
	winner.Wins++
	loser.Mu -= 4
	loser.GamesPlayed++
	loser.Losses++
	return repository.SettleBatch{
		Match:   m,
		Players: []model.Player{winner, loser},
		History: []model.HistoryEntry{
			{SubjectID: winner.ID, MatchID: id, MuBefore: winner.Mu - 4, MuAfter: winner.Mu, SigmaBefore: winner.Sigma, SigmaAfter: winner.Sigma, CreatedAt: playedAt},
			{SubjectID: loser.ID, MatchID: id, MuBefore: loser.Mu + 4, MuAfter: loser.Mu, SigmaBefore: loser.Sigma, SigmaAfter: loser.Sigma, CreatedAt: playedAt},
		},
	}
}

func TestMemStore_ApplySettle(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a store with two players", t, func() {
		s := repository.NewMemStore()
		alice := newPlayer("p1", "alice")
		bob := newPlayer("p2", "bob")
		So(s.CreatePlayer(ctx, alice), ShouldBeNil)
		So(s.CreatePlayer(ctx, bob), ShouldBeNil)

		Convey("When a settle batch is applied", func() {
			So(s.ApplySettle(ctx, settleBatch("m1", base, alice, bob)), ShouldBeNil)

			Convey("Then the match, ratings, and ledger all land together", func() {
				m, err := s.Match(ctx, "m1")
				So(err, ShouldBeNil)
				So(m.WinnerSubject(), ShouldEqual, "p1")

				p, err := s.Player(ctx, "p1")
				So(err, ShouldBeNil)
				So(p.Mu, ShouldEqual, 29.0)
				So(p.Wins, ShouldEqual, 1)

				h, err := s.HistoryFor(ctx, "p1", nil)
				So(err, ShouldBeNil)
				So(h, ShouldHaveLength, 1)
				So(h[0].MatchID, ShouldEqual, "m1")
			})

			Convey("And replaying the same match ID is rejected", func() {
				So(s.ApplySettle(ctx, settleBatch("m1", base, alice, bob)), ShouldEqual, repository.ErrDuplicate)
			})

			Convey("And counts reflect the settle", func() {
				players, teams, matches := s.Counts(ctx)
				So(players, ShouldEqual, 2)
				So(teams, ShouldEqual, 0)
				So(matches, ShouldEqual, 1)
			})
		})

		Convey("When a batch references an unknown player", func() {
			ghost := newPlayer("ghost", "ghost")
			err := s.ApplySettle(ctx, settleBatch("m9", base, alice, ghost))

			Convey("Then nothing is applied", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
				_, err := s.Match(ctx, "m9")
				So(err, ShouldEqual, repository.ErrNotFound)

				p, err := s.Player(ctx, "p1")
				So(err, ShouldBeNil)
				So(p.GamesPlayed, ShouldEqual, 0)
			})
		})

		Convey("When several matches settle", func() {
			So(s.ApplySettle(ctx, settleBatch("m1", base, alice, bob)), ShouldBeNil)
			So(s.ApplySettle(ctx, settleBatch("m2", base.AddDate(0, 0, 1), bob, alice)), ShouldBeNil)
			So(s.ApplySettle(ctx, settleBatch("m3", base.AddDate(0, 0, 2), alice, bob)), ShouldBeNil)

			Convey("Then listing is newest-first", func() {
				matches, err := s.Matches(ctx, "")
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 3)
				So(matches[0].ID, ShouldEqual, "m3")
				So(matches[2].ID, ShouldEqual, "m1")
			})

			Convey("And the subject filter restricts involvement", func() {
				matches, err := s.Matches(ctx, "p1")
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 3)

				matches, err = s.Matches(ctx, "stranger")
				So(err, ShouldBeNil)
				So(matches, ShouldBeEmpty)
			})

			Convey("And history is chronological with a since filter", func() {
				h, err := s.HistoryFor(ctx, "p1", nil)
				So(err, ShouldBeNil)
				So(h, ShouldHaveLength, 3)
				So(h[0].MatchID, ShouldEqual, "m1")
				So(h[2].MatchID, ShouldEqual, "m3")

				since := base.AddDate(0, 0, 1)
				h, err = s.HistoryFor(ctx, "p1", &since)
				So(err, ShouldBeNil)
				So(h, ShouldHaveLength, 2)
				So(h[0].MatchID, ShouldEqual, "m2")
			})
		})
	})
}
