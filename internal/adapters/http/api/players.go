// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/foostable/ladder/internal/domain/model"
)

// PlayersHandler handles player registration and lookup.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// createPlayerRequest mirrors the POST /players body.
type createPlayerRequest struct {
	Name string `json:"name"`
}

// playerResponse is the read shape for one player.
type playerResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Mu                 float64   `json:"trueskill_mu"`
	Sigma              float64   `json:"trueskill_sigma"`
	ConservativeRating float64   `json:"conservative_rating"`
	GamesPlayed        int       `json:"games_played"`
	Wins               int       `json:"wins"`
	Losses             int       `json:"losses"`
	WinPercentage      float64   `json:"win_percentage"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

func toPlayerResponse(p model.Player) playerResponse {
	return playerResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Mu:                 p.Mu,
		Sigma:              p.Sigma,
		ConservativeRating: p.ConservativeRating(),
		GamesPlayed:        p.GamesPlayed,
		Wins:               p.Wins,
		Losses:             p.Losses,
		WinPercentage:      p.WinPercentage(),
		IsActive:           p.Active,
		CreatedAt:          p.CreatedAt,
	}
}

// teamResponse is the read shape for one team.
type teamResponse struct {
	ID                 string    `json:"id"`
	Player1ID          string    `json:"player1_id"`
	Player2ID          string    `json:"player2_id"`
	Mu                 float64   `json:"trueskill_mu"`
	Sigma              float64   `json:"trueskill_sigma"`
	ConservativeRating float64   `json:"conservative_rating"`
	GamesPlayed        int       `json:"games_played"`
	Wins               int       `json:"wins"`
	Losses             int       `json:"losses"`
	WinPercentage      float64   `json:"win_percentage"`
	CreatedAt          time.Time `json:"created_at"`
}

func toTeamResponse(t model.Team) teamResponse {
	return teamResponse{
		ID:                 model.TeamSubjectID(t.Key),
		Player1ID:          t.Key.Low,
		Player2ID:          t.Key.High,
		Mu:                 t.Mu,
		Sigma:              t.Sigma,
		ConservativeRating: t.ConservativeRating(),
		GamesPlayed:        t.GamesPlayed,
		Wins:               t.Wins,
		Losses:             t.Losses,
		WinPercentage:      t.WinPercentage(),
		CreatedAt:          t.CreatedAt,
	}
}

// HandlePlayers handles POST /players and GET /players requests.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req createPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		p, err := h.deps.CreatePlayer(r.Context(), strings.TrimSpace(req.Name))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPlayerResponse(p))
	case http.MethodGet:
		players, err := h.deps.Players(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]playerResponse, 0, len(players))
		for _, p := range players {
			out = append(out, toPlayerResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.NotFound(w, r)
	}
}

// HandlePlayer handles GET /players/{id} and DELETE /players/{id}.
func (h *PlayersHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := h.deps.Player(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlayerResponse(p))
	case http.MethodDelete:
		if err := h.deps.DeactivatePlayer(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
	default:
		http.NotFound(w, r)
	}
}

// HandleTeams handles GET /teams requests.
func (h *PlayersHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	teams, err := h.deps.Teams(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}
