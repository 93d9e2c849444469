// Package skill implements the Gaussian skill-rating engine.
//
// A player's latent skill is modeled as a Gaussian belief (mean, stddev).
// Settling a match moves the winner's mean up and the loser's mean down by
// an amount proportional to how surprising the result was, and shrinks both
// sides' uncertainty. The closed-form two-sided update is the no-draw
// specialization of the usual truncated-Gaussian message-passing scheme.
package skill

import (
	"math"
)

// Default environment constants. Sigma0 is Mu0/3 so a fresh player's
// conservative rating starts at zero.
const (
	defaultMu0    = 25.0
	defaultSigma0 = 8.3333
	defaultBeta   = 4.1667
	defaultTau    = 0.0833

	// minSigma keeps stddev strictly positive after repeated updates.
	minSigma = 1e-4

	// denomEpsilon guards v(t) against a vanishing cumulative density
	// for extremely lopsided, already-decided outcomes.
	denomEpsilon = 2.222758749e-162
)

// Belief is a Gaussian estimate of a subject's skill.
// Invariant: Sigma > 0.
type Belief struct {
	Mu    float64
	Sigma float64
}

// Side identifies one of the two sides of a match.
type Side int

const (
	SideA Side = iota
	SideB
)

// Env holds the immutable environment parameters of the rating model.
// Construct once with New and thread it explicitly; there is no global.
type Env struct {
	mu0    float64
	sigma0 float64
	beta   float64
	tau    float64
}

// Option applies a configuration option to the Env.
type Option func(*Env)

// WithInitialRating sets the mean and stddev assigned to new players.
func WithInitialRating(mu, sigma float64) Option {
	return func(e *Env) {
		if sigma > 0 {
			e.mu0 = mu
			e.sigma0 = sigma
		}
	}
}

// WithBeta sets the performance variance constant.
func WithBeta(beta float64) Option {
	return func(e *Env) {
		if beta > 0 {
			e.beta = beta
		}
	}
}

// WithTau sets the dynamics constant added to each side's variance before
// an update to model skill drift between matches.
func WithTau(tau float64) Option {
	return func(e *Env) {
		if tau >= 0 {
			e.tau = tau
		}
	}
}

// New constructs an Env with defaults, then applies options.
func New(opts ...Option) *Env {
	e := &Env{
		mu0:    defaultMu0,
		sigma0: defaultSigma0,
		beta:   defaultBeta,
		tau:    defaultTau,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewBelief returns the prior belief assigned to an unrated subject.
func (e *Env) NewBelief() Belief {
	return Belief{Mu: e.mu0, Sigma: e.sigma0}
}

// Update settles a 1v1 outcome and returns the posterior beliefs in the
// same order the priors were given. The winner's mean never decreases, the
// loser's never increases, and neither stddev grows.
func (e *Env) Update(a, b Belief, winner Side) (Belief, Belief, error) {
	switch winner {
	case SideA:
		win, lose := e.UpdateGroups([]Belief{a}, []Belief{b})
		return win[0], lose[0], nil
	case SideB:
		win, lose := e.UpdateGroups([]Belief{b}, []Belief{a})
		return lose[0], win[0], nil
	default:
		return a, b, ErrInvalidOutcome
	}
}

// UpdateGroups settles an outcome between a winning and a losing group of
// beliefs and returns the posteriors in matching order. Group aggregate
// skill is the sum of member skills; each member's correction is weighted
// by its own variance share. A 1v1 is the two singleton-group case.
func (e *Env) UpdateGroups(winners, losers []Belief) ([]Belief, []Belief) {
	tau2 := e.tau * e.tau

	// Skill drift between matches widens every prior slightly.
	winVars := make([]float64, len(winners))
	loseVars := make([]float64, len(losers))

	var sumVar, winMu, loseMu float64
	for i, b := range winners {
		winVars[i] = b.Sigma*b.Sigma + tau2
		sumVar += winVars[i]
		winMu += b.Mu
	}
	for i, b := range losers {
		loseVars[i] = b.Sigma*b.Sigma + tau2
		sumVar += loseVars[i]
		loseMu += b.Mu
	}

	// One performance variance per participant.
	n := len(winners) + len(losers)
	c2 := sumVar + float64(n)*e.beta*e.beta
	c := math.Sqrt(c2)

	t := (winMu - loseMu) / c
	v := vWin(t)
	w := v * (v + t)

	newWinners := make([]Belief, len(winners))
	for i, b := range winners {
		newWinners[i] = Belief{
			Mu:    b.Mu + winVars[i]/c*v,
			Sigma: shrinkSigma(b.Sigma, winVars[i], c2, w),
		}
	}
	newLosers := make([]Belief, len(losers))
	for i, b := range losers {
		newLosers[i] = Belief{
			Mu:    b.Mu - loseVars[i]/c*v,
			Sigma: shrinkSigma(b.Sigma, loseVars[i], c2, w),
		}
	}
	return newWinners, newLosers
}

// shrinkSigma applies the variance-multiplier update, clamped so a settled
// match never increases uncertainty and never drives sigma non-positive.
func shrinkSigma(prior, variance, c2, w float64) float64 {
	next := math.Sqrt(variance * (1 - variance/c2*w))
	if math.IsNaN(next) || next < minSigma {
		next = minSigma
	}
	if next > prior {
		next = prior
	}
	return next
}

// vWin is the additive mean-correction term for a win, phi(t)/Phi(t).
func vWin(t float64) float64 {
	denom := cdf(t)
	if denom < denomEpsilon {
		return -t
	}
	return pdf(t) / denom
}

// ConservativeRating is mu - 3*sigma: a value the subject's true skill
// exceeds with about 99.7% confidence. The sole ranking key.
func ConservativeRating(b Belief) float64 {
	return b.Mu - 3*b.Sigma
}

// MatchQuality measures how evenly matched two beliefs are, in [0, 1].
// It is symmetric, equals 1 for identical means, and decays as the skill
// gap grows relative to the combined uncertainty.
func (e *Env) MatchQuality(a, b Belief) float64 {
	c2 := a.Sigma*a.Sigma + b.Sigma*b.Sigma + 2*e.beta*e.beta
	diff := a.Mu - b.Mu
	return math.Exp(-diff * diff / (2 * c2))
}

// WinProbability predicts the probability that a beats b.
// WinProbability(a, b) + WinProbability(b, a) == 1.
func (e *Env) WinProbability(a, b Belief) float64 {
	sumVar := a.Sigma*a.Sigma + b.Sigma*b.Sigma
	denom := math.Sqrt(2*e.beta*e.beta + sumVar)
	return cdf((a.Mu - b.Mu) / denom)
}

func pdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func cdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
