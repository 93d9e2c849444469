package team_test

import (
	"testing"

	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/team"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewKey(t *testing.T) {
	Convey("Given two distinct player IDs", t, func() {
		Convey("Then the key is order-independent", func() {
			k1, err := team.NewKey("alice", "bob")
			So(err, ShouldBeNil)
			k2, err := team.NewKey("bob", "alice")
			So(err, ShouldBeNil)
			So(k1, ShouldResemble, k2)
		})

		Convey("And the key is canonically ordered", func() {
			k, err := team.NewKey("zoe", "abe")
			So(err, ShouldBeNil)
			So(k.Low, ShouldEqual, "abe")
			So(k.High, ShouldEqual, "zoe")
		})
	})

	Convey("Given the same player twice", t, func() {
		_, err := team.NewKey("alice", "alice")

		Convey("Then the team is rejected as degenerate", func() {
			So(err, ShouldEqual, team.ErrDegenerateTeam)
		})
	})
}

func TestInitialBelief(t *testing.T) {
	Convey("Given two members on the default prior", t, func() {
		env := skill.New()
		b := team.InitialBelief(env.NewBelief(), env.NewBelief())

		Convey("Then means add and variances add", func() {
			So(b.Mu, ShouldEqual, 50.0)
			So(b.Sigma, ShouldAlmostEqual, 11.785, 0.001)
		})
	})

	Convey("Given members with different beliefs", t, func() {
		b := team.InitialBelief(
			skill.Belief{Mu: 30, Sigma: 3},
			skill.Belief{Mu: 20, Sigma: 4},
		)

		Convey("Then the composite reflects both", func() {
			So(b.Mu, ShouldEqual, 50.0)
			So(b.Sigma, ShouldEqual, 5.0)
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given two composite team beliefs", t, func() {
		env := skill.New()
		teamA := team.InitialBelief(env.NewBelief(), env.NewBelief())
		teamB := team.InitialBelief(env.NewBelief(), env.NewBelief())

		Convey("When team A wins", func() {
			newA, newB, err := team.Update(env, teamA, teamB, skill.SideA)
			So(err, ShouldBeNil)

			Convey("Then the winning team's belief strengthens", func() {
				So(newA.Mu, ShouldBeGreaterThan, teamA.Mu)
				So(newB.Mu, ShouldBeLessThan, teamB.Mu)
				So(newA.Sigma, ShouldBeLessThanOrEqualTo, teamA.Sigma)
				So(newB.Sigma, ShouldBeLessThanOrEqualTo, teamB.Sigma)
			})
		})
	})
}

func TestDecomposeMembers(t *testing.T) {
	env := skill.New()

	Convey("Given four members on the default prior", t, func() {
		sideA := team.Members{First: env.NewBelief(), Second: env.NewBelief()}
		sideB := team.Members{First: env.NewBelief(), Second: env.NewBelief()}

		Convey("When side A wins", func() {
			newA, newB, err := team.DecomposeMembers(env, sideA, sideB, skill.SideA)
			So(err, ShouldBeNil)

			Convey("Then both winners gain and both losers drop", func() {
				So(newA.First.Mu, ShouldBeGreaterThan, sideA.First.Mu)
				So(newA.Second.Mu, ShouldBeGreaterThan, sideA.Second.Mu)
				So(newB.First.Mu, ShouldBeLessThan, sideB.First.Mu)
				So(newB.Second.Mu, ShouldBeLessThan, sideB.Second.Mu)
			})

			Convey("And no member's uncertainty grows", func() {
				So(newA.First.Sigma, ShouldBeLessThanOrEqualTo, sideA.First.Sigma)
				So(newB.Second.Sigma, ShouldBeLessThanOrEqualTo, sideB.Second.Sigma)
			})
		})

		Convey("When side B wins the direction flips", func() {
			newA, newB, err := team.DecomposeMembers(env, sideA, sideB, skill.SideB)
			So(err, ShouldBeNil)
			So(newA.First.Mu, ShouldBeLessThan, sideA.First.Mu)
			So(newB.First.Mu, ShouldBeGreaterThan, sideB.First.Mu)
		})

		Convey("When the winner side is invalid", func() {
			_, _, err := team.DecomposeMembers(env, sideA, sideB, skill.Side(3))
			So(err, ShouldEqual, skill.ErrInvalidOutcome)
		})
	})

	Convey("Given a carried teammate with high uncertainty", t, func() {
		carry := skill.Belief{Mu: 30, Sigma: 2}
		passenger := skill.Belief{Mu: 22, Sigma: 8}
		sideA := team.Members{First: carry, Second: passenger}
		sideB := team.Members{First: env.NewBelief(), Second: env.NewBelief()}

		newA, _, err := team.DecomposeMembers(env, sideA, sideB, skill.SideA)
		So(err, ShouldBeNil)

		Convey("Then the uncertain member moves further than the certain one", func() {
			So(newA.Second.Mu-passenger.Mu, ShouldBeGreaterThan, newA.First.Mu-carry.Mu)
		})
	})
}
