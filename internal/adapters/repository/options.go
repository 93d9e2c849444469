// Package repository defines the ladder store interface and errors.
package repository

import (
	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/team"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCapacity pre-sizes the player and match tables for the expected
// ladder size.
func WithCapacity(players, matches int) Option {
	return func(s *MemStore) {
		if players > 0 {
			s.players = make(map[string]model.Player, players)
			s.nameIndex = make(map[string]string, players)
			s.playerOrder = make([]string, 0, players)
			s.teams = make(map[team.Key]model.Team, players)
		}
		if matches > 0 {
			s.matches = make(map[string]model.Match, matches)
			s.matchOrder = make([]string, 0, matches)
			s.history = make(map[string][]model.HistoryEntry, players)
		}
	}
}
