package model_test

import (
	"testing"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/team"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayer(t *testing.T) {
	Convey("Given a player with a record", t, func() {
		p := model.Player{ID: "p1", Mu: 30, Sigma: 4, GamesPlayed: 10, Wins: 7, Losses: 3}

		Convey("Then the belief mirrors the rating fields", func() {
			So(p.Belief(), ShouldResemble, skill.Belief{Mu: 30, Sigma: 4})
		})

		Convey("And the win percentage is wins over games", func() {
			So(p.WinPercentage(), ShouldEqual, 70.0)
		})

		Convey("And the conservative rating is mu minus three sigma", func() {
			So(p.ConservativeRating(), ShouldEqual, 18.0)
		})
	})

	Convey("Given a fresh player", t, func() {
		p := model.Player{}

		Convey("Then the win percentage is zero, not NaN", func() {
			So(p.WinPercentage(), ShouldEqual, 0.0)
		})
	})
}

func TestTeamSubjectID(t *testing.T) {
	Convey("Given a canonical team key", t, func() {
		k, err := team.NewKey("bob", "alice")
		So(err, ShouldBeNil)

		Convey("Then the subject ID joins the ordered members", func() {
			So(model.TeamSubjectID(k), ShouldEqual, "alice+bob")
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a settled 1v1 match", t, func() {
		m := model.Match{
			ID:           "m1",
			SideA:        []string{"a"},
			SideB:        []string{"b"},
			SideASubject: "a",
			SideBSubject: "b",
			WinnerSide:   skill.SideA,
		}

		Convey("Then it is not a team match", func() {
			So(m.TeamMatch(), ShouldBeFalse)
			So(m.Subjects(), ShouldResemble, []string{"a", "b"})
		})

		Convey("And winner bookkeeping follows the side", func() {
			So(m.WinnerSubject(), ShouldEqual, "a")
			So(m.WonBy("a"), ShouldBeTrue)
			So(m.WonBy("b"), ShouldBeFalse)
		})

		Convey("And involvement covers both sides only", func() {
			So(m.Involves("a"), ShouldBeTrue)
			So(m.Involves("b"), ShouldBeTrue)
			So(m.Involves("c"), ShouldBeFalse)
		})
	})

	Convey("Given a settled 2v2 match", t, func() {
		m := model.Match{
			ID:           "m2",
			SideA:        []string{"a1", "a2"},
			SideB:        []string{"b1", "b2"},
			SideASubject: "a1+a2",
			SideBSubject: "b1+b2",
			WinnerSide:   skill.SideB,
		}

		Convey("Then it is a team match touching six subjects", func() {
			So(m.TeamMatch(), ShouldBeTrue)
			So(m.Subjects(), ShouldResemble, []string{"a1+a2", "b1+b2", "a1", "a2", "b1", "b2"})
		})

		Convey("And the winning team and its members all won", func() {
			So(m.WinnerSubject(), ShouldEqual, "b1+b2")
			So(m.WonBy("b1+b2"), ShouldBeTrue)
			So(m.WonBy("b1"), ShouldBeTrue)
			So(m.WonBy("b2"), ShouldBeTrue)
			So(m.WonBy("a1"), ShouldBeFalse)
			So(m.WonBy("a1+a2"), ShouldBeFalse)
		})

		Convey("And every member is involved", func() {
			So(m.Involves("a2"), ShouldBeTrue)
			So(m.Involves("b1"), ShouldBeTrue)
			So(m.Involves("x"), ShouldBeFalse)
		})
	})
}

func TestHistoryEntry(t *testing.T) {
	Convey("Given a ledger row", t, func() {
		h := model.HistoryEntry{
			MuBefore: 25, SigmaBefore: 8,
			MuAfter: 29, SigmaAfter: 7,
		}

		Convey("Then the conservative keys derive from each side", func() {
			So(h.ConservativeBefore(), ShouldEqual, 1.0)
			So(h.ConservativeAfter(), ShouldEqual, 8.0)
		})
	})
}
