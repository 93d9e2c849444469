// In-memory Store implementation.
//
// One RWMutex guards all tables, which gives ApplySettle the transactional
// isolation the settle path needs: a reader never observes a half-applied
// batch. Matches are kept in arrival order and listed newest-first;
// history is kept per subject in chronological order.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/team"
	"github.com/foostable/ladder/pkg/metrics"
)

// MemStore implements Store with in-process maps.
type MemStore struct {
	mu sync.RWMutex

	players     map[string]model.Player
	playerOrder []string
	nameIndex   map[string]string

	teams     map[team.Key]model.Team
	teamOrder []team.Key

	matches map[string]model.Match
	// matchOrder holds match IDs oldest-first.
	matchOrder []string

	history map[string][]model.HistoryEntry
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		players:   make(map[string]model.Player),
		nameIndex: make(map[string]string),
		teams:     make(map[team.Key]model.Team),
		matches:   make(map[string]model.Match),
		history:   make(map[string][]model.HistoryEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePlayer registers a new player.
func (s *MemStore) CreatePlayer(_ context.Context, p model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[p.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := s.nameIndex[p.Name]; ok {
		return ErrDuplicate
	}
	s.players[p.ID] = p
	s.playerOrder = append(s.playerOrder, p.ID)
	s.nameIndex[p.Name] = p.ID
	metrics.UpdatePlayerCount(len(s.players))
	return nil
}

// Player returns a player by ID.
func (s *MemStore) Player(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return p, nil
}

// Players lists all players in insertion order.
func (s *MemStore) Players(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		out = append(out, s.players[id])
	}
	return out, nil
}

// DeactivatePlayer soft-deletes a player.
func (s *MemStore) DeactivatePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	s.players[id] = p
	return nil
}

// CreateTeam registers a team under its canonical key.
func (s *MemStore) CreateTeam(_ context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[t.Key]; ok {
		return ErrDuplicate
	}
	s.teams[t.Key] = t
	s.teamOrder = append(s.teamOrder, t.Key)
	metrics.UpdateTeamCount(len(s.teams))
	return nil
}

// Team returns a team by key.
func (s *MemStore) Team(_ context.Context, key team.Key) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[key]
	if !ok {
		return model.Team{}, ErrNotFound
	}
	return t, nil
}

// Teams lists all teams in insertion order.
func (s *MemStore) Teams(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Team, 0, len(s.teamOrder))
	for _, key := range s.teamOrder {
		out = append(out, s.teams[key])
	}
	return out, nil
}

// ApplySettle commits one settle batch under a single critical section.
func (s *MemStore) ApplySettle(_ context.Context, batch SettleBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[batch.Match.ID]; ok {
		return ErrDuplicate
	}
	for _, p := range batch.Players {
		if _, ok := s.players[p.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, t := range batch.Teams {
		if _, ok := s.teams[t.Key]; !ok {
			return ErrNotFound
		}
	}

	// All rows validated; apply the whole batch.
	s.matches[batch.Match.ID] = batch.Match
	s.matchOrder = append(s.matchOrder, batch.Match.ID)
	for _, p := range batch.Players {
		s.players[p.ID] = p
	}
	for _, t := range batch.Teams {
		s.teams[t.Key] = t
	}
	for _, h := range batch.History {
		s.history[h.SubjectID] = append(s.history[h.SubjectID], h)
	}
	metrics.RecordMatchSettled()
	return nil
}

// Match returns a settled match by ID.
func (s *MemStore) Match(_ context.Context, id string) (model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return model.Match{}, ErrNotFound
	}
	return m, nil
}

// Matches lists settled matches newest-first, optionally restricted to one
// subject.
func (s *MemStore) Matches(_ context.Context, subjectID string) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Match, 0, len(s.matchOrder))
	for i := len(s.matchOrder) - 1; i >= 0; i-- {
		m := s.matches[s.matchOrder[i]]
		if subjectID != "" && !m.Involves(subjectID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// HistoryFor lists a subject's ledger entries chronologically.
func (s *MemStore) HistoryFor(_ context.Context, subjectID string, since *time.Time) ([]model.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[subjectID]
	out := make([]model.HistoryEntry, 0, len(entries))
	for _, h := range entries {
		if since != nil && h.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// Counts returns the number of players, teams, and matches tracked.
func (s *MemStore) Counts(_ context.Context) (players, teams, matches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), len(s.teams), len(s.matchOrder)
}
