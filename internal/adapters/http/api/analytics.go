// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
	"time"
)

// AnalyticsHandler handles rating progression and matchmaking endpoints.
type AnalyticsHandler struct {
	deps Dependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// progressionPoint is one rating snapshot after a settled match.
type progressionPoint struct {
	MatchID            string    `json:"match_id"`
	Date               time.Time `json:"date"`
	Mu                 float64   `json:"trueskill_mu"`
	Sigma              float64   `json:"trueskill_sigma"`
	ConservativeRating float64   `json:"conservative_rating"`
}

// progressionResponse is a subject's chronological rating history.
type progressionResponse struct {
	SubjectID string             `json:"subject_id"`
	Points    []progressionPoint `json:"points"`
}

// HandleProgression handles GET /analytics/progression/{id} requests.
// Query: limit caps the number of points (0 means all).
func (h *AnalyticsHandler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/analytics/progression/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	limit := queryInt(r.URL.Query().Get("limit"), 0)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	history, err := h.deps.Progression(r.Context(), id, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := progressionResponse{SubjectID: id, Points: make([]progressionPoint, 0, len(history))}
	for _, entry := range history {
		out.Points = append(out.Points, progressionPoint{
			MatchID:            entry.MatchID,
			Date:               entry.CreatedAt,
			Mu:                 entry.MuAfter,
			Sigma:              entry.SigmaAfter,
			ConservativeRating: entry.ConservativeAfter(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Comparison charts stay readable up to this many series.
const maxComparisonPlayers = 10

// playerProgression is one player's series for a comparison chart.
type playerProgression struct {
	PlayerID   string             `json:"player_id"`
	PlayerName string             `json:"player_name"`
	Points     []progressionPoint `json:"points"`
}

// comparisonResponse holds aligned rating series for several players.
type comparisonResponse struct {
	Players    []playerProgression `json:"players"`
	TotalGames int                 `json:"total_games"`
}

// HandleComparison handles GET /analytics/comparison requests.
// Query: player_ids (comma-separated, at most 10), limit per player.
func (h *AnalyticsHandler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	raw := strings.Split(q.Get("player_ids"), ",")
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 || len(ids) > maxComparisonPlayers {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	limit := queryInt(q.Get("limit"), 0)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	out := comparisonResponse{Players: make([]playerProgression, 0, len(ids))}
	for _, id := range ids {
		player, err := h.deps.Player(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		history, err := h.deps.Progression(r.Context(), id, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		series := playerProgression{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Points:     make([]progressionPoint, 0, len(history)),
		}
		for _, entry := range history {
			series.Points = append(series.Points, progressionPoint{
				MatchID:            entry.MatchID,
				Date:               entry.CreatedAt,
				Mu:                 entry.MuAfter,
				Sigma:              entry.SigmaAfter,
				ConservativeRating: entry.ConservativeAfter(),
			})
		}
		out.Players = append(out.Players, series)
		out.TotalGames += player.GamesPlayed
	}
	writeJSON(w, http.StatusOK, out)
}

// matchQualityResponse pairs balance quality with a win prediction.
type matchQualityResponse struct {
	Player1ID             string  `json:"player1_id"`
	Player2ID             string  `json:"player2_id"`
	Quality               float64 `json:"quality"`
	Player1WinProbability float64 `json:"player1_win_probability"`
}

// HandleMatchQuality handles GET /analytics/match-quality requests.
// Query: player1_id, player2_id.
func (h *AnalyticsHandler) HandleMatchQuality(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	a, b := q.Get("player1_id"), q.Get("player2_id")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	quality, err := h.deps.MatchQuality(r.Context(), a, b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	prob, err := h.deps.WinProbability(r.Context(), a, b)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matchQualityResponse{
		Player1ID:             a,
		Player2ID:             b,
		Quality:               quality,
		Player1WinProbability: prob,
	})
}
