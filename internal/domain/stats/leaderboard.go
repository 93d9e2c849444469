package stats

import (
	"sort"

	"github.com/foostable/ladder/internal/domain/model"
)

// SortKey selects the leaderboard ordering.
type SortKey string

// Supported leaderboard sort keys.
const (
	SortByRating  SortKey = "rating"
	SortByWins    SortKey = "wins"
	SortByGames   SortKey = "games"
	SortByWinRate SortKey = "win_rate"
)

// ParseSortKey maps a query-string value to a SortKey, defaulting to
// conservative rating for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByWins, SortByGames, SortByWinRate:
		return SortKey(s)
	default:
		return SortByRating
	}
}

// RankedPlayer is one leaderboard row with its 1-based overall rank.
type RankedPlayer struct {
	Rank   int
	Player model.Player
}

// Leaderboard filters, orders, and paginates players. Only active players
// with at least minGames matches are ranked. The sort is stable and
// strictly descending on the selected key, so ties keep insertion order.
// Rank reflects position in the full ordering, not within the page.
// Returns the page plus the total number of ranked players.
func Leaderboard(players []model.Player, key SortKey, minGames, offset, limit int) ([]RankedPlayer, int) {
	eligible := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Active && p.GamesPlayed >= minGames {
			eligible = append(eligible, p)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return sortValue(eligible[i], key) > sortValue(eligible[j], key)
	})

	total := len(eligible)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []RankedPlayer{}, total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	page := make([]RankedPlayer, 0, end-offset)
	for i, p := range eligible[offset:end] {
		page = append(page, RankedPlayer{Rank: offset + i + 1, Player: p})
	}
	return page, total
}

// sortValue extracts the descending sort key for a player.
func sortValue(p model.Player, key SortKey) float64 {
	switch key {
	case SortByWins:
		return float64(p.Wins)
	case SortByGames:
		return float64(p.GamesPlayed)
	case SortByWinRate:
		games := p.GamesPlayed
		if games < 1 {
			games = 1
		}
		return float64(p.Wins) / float64(games)
	default:
		return p.ConservativeRating()
	}
}
