// Package repository defines the ladder store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/team"
)

// SettleBatch is the full set of writes produced by one settled match.
// The store commits it atomically: every rating row and every history
// entry, or nothing. Partial application must never be observable.
type SettleBatch struct {
	Match   model.Match
	Players []model.Player
	Teams   []model.Team
	History []model.HistoryEntry
}

// Store provides read/write access to players, teams, matches, and the
// append-only rating history.
type Store interface {
	// CreatePlayer registers a new player. Returns ErrDuplicate if the
	// ID or name is already taken.
	CreatePlayer(ctx context.Context, p model.Player) error

	// Player returns a player by ID. Returns ErrNotFound if unknown.
	Player(ctx context.Context, id string) (model.Player, error)

	// Players lists all players in insertion order.
	Players(ctx context.Context) ([]model.Player, error)

	// DeactivatePlayer soft-deletes a player. History the player already
	// produced stays in the ledger.
	DeactivatePlayer(ctx context.Context, id string) error

	// CreateTeam registers a team under its canonical key.
	CreateTeam(ctx context.Context, t model.Team) error

	// Team returns a team by key. Returns ErrNotFound if unknown.
	Team(ctx context.Context, key team.Key) (model.Team, error)

	// Teams lists all teams in insertion order.
	Teams(ctx context.Context) ([]model.Team, error)

	// ApplySettle commits a settle batch atomically.
	ApplySettle(ctx context.Context, batch SettleBatch) error

	// Match returns a settled match by ID. Returns ErrNotFound if unknown.
	Match(ctx context.Context, id string) (model.Match, error)

	// Matches lists settled matches newest-first. An empty subjectID
	// lists everything; otherwise only matches involving the subject.
	Matches(ctx context.Context, subjectID string) ([]model.Match, error)

	// HistoryFor lists a subject's ledger entries in chronological
	// order, optionally bounded below by since.
	HistoryFor(ctx context.Context, subjectID string, since *time.Time) ([]model.HistoryEntry, error)

	// Counts returns the number of players, teams, and matches tracked.
	Counts(ctx context.Context) (players, teams, matches int)
}
