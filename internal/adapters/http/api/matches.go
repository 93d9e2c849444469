// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	service "github.com/foostable/ladder/internal/app"
	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
)

// Pagination defaults for match listings.
const (
	defaultPageSize = 20
)

// MatchesHandler handles match settlement and listing.
type MatchesHandler struct {
	deps        Dependencies
	maxPageSize int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, maxPageSize int) *MatchesHandler {
	return &MatchesHandler{deps: deps, maxPageSize: maxPageSize}
}

// matchRequest mirrors the POST /matches body for a 1v1 match.
// MatchID is optional and enables idempotent resubmission.
type matchRequest struct {
	MatchID   string `json:"match_id"`
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
	WinnerID  string `json:"winner_id"`
	PlayedAt  string `json:"played_at"`
}

// teamMatchRequest mirrors the POST /team-matches body for a 2v2 match
// formed directly from four player IDs.
type teamMatchRequest struct {
	MatchID        string `json:"match_id"`
	Team1Player1ID string `json:"team1_player1_id"`
	Team1Player2ID string `json:"team1_player2_id"`
	Team2Player1ID string `json:"team2_player1_id"`
	Team2Player2ID string `json:"team2_player2_id"`
	WinnerTeam     int    `json:"winner_team"`
	PlayedAt       string `json:"played_at"`
}

// matchResponse is the read shape for one settled match.
type matchResponse struct {
	ID         string    `json:"id"`
	SideA      []string  `json:"side_a"`
	SideB      []string  `json:"side_b"`
	WinnerSide int       `json:"winner_side"`
	Winner     string    `json:"winner"`
	TeamMatch  bool      `json:"team_match"`
	PlayedAt   time.Time `json:"played_at"`
}

func toMatchResponse(m model.Match) matchResponse {
	return matchResponse{
		ID:         m.ID,
		SideA:      m.SideA,
		SideB:      m.SideB,
		WinnerSide: int(m.WinnerSide) + 1,
		Winner:     m.WinnerSubject(),
		TeamMatch:  m.TeamMatch(),
		PlayedAt:   m.PlayedAt,
	}
}

// matchListResponse is the paginated match listing.
type matchListResponse struct {
	Matches    []matchResponse `json:"matches"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// HandleMatches handles POST /matches (settle a 1v1) and GET /matches
// (paginated listing, newest first, optional subject filter).
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSettleSingles(w, r)
	case http.MethodGet:
		h.handleListMatches(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *MatchesHandler) handleSettleSingles(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if req.Player1ID == "" || req.Player2ID == "" || req.WinnerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	// The winner must be one of the two sides; anything else is a
	// caller bug surfaced as an invalid outcome.
	var winner skill.Side
	switch req.WinnerID {
	case req.Player1ID:
		winner = skill.SideA
	case req.Player2ID:
		winner = skill.SideB
	default:
		writeError(w, http.StatusBadRequest, "invalid_outcome", skill.ErrInvalidOutcome)
		return
	}

	playedAt, ok := parsePlayedAt(w, req.PlayedAt)
	if !ok {
		return
	}

	m, err := h.deps.SettleMatch(r.Context(), service.SettleRequest{
		ID:       req.MatchID,
		SideA:    []string{req.Player1ID},
		SideB:    []string{req.Player2ID},
		Winner:   winner,
		PlayedAt: playedAt,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(m))
}

// HandleTeamMatch handles POST /team-matches requests: a 2v2 settled
// directly from four player IDs, auto-creating teams on first pairing.
func (h *MatchesHandler) HandleTeamMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req teamMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	ids := []string{req.Team1Player1ID, req.Team1Player2ID, req.Team2Player1ID, req.Team2Player2ID}
	for _, id := range ids {
		if id == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
	}

	var winner skill.Side
	switch req.WinnerTeam {
	case 1:
		winner = skill.SideA
	case 2:
		winner = skill.SideB
	default:
		writeError(w, http.StatusBadRequest, "invalid_outcome", skill.ErrInvalidOutcome)
		return
	}

	playedAt, ok := parsePlayedAt(w, req.PlayedAt)
	if !ok {
		return
	}

	m, err := h.deps.SettleMatch(r.Context(), service.SettleRequest{
		ID:       req.MatchID,
		SideA:    []string{req.Team1Player1ID, req.Team1Player2ID},
		SideB:    []string{req.Team2Player1ID, req.Team2Player2ID},
		Winner:   winner,
		PlayedAt: playedAt,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(m))
}

func (h *MatchesHandler) handleListMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), defaultPageSize)
	if page < 1 || pageSize < 1 || pageSize > h.maxPageSize {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	matches, err := h.deps.Matches(r.Context(), q.Get("subject_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize
	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	out := matchListResponse{
		Matches:    make([]matchResponse, 0, end-offset),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
	for _, m := range matches[offset:end] {
		out.Matches = append(out.Matches, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// parsePlayedAt validates an optional RFC3339 timestamp, writing a 400 on
// malformed input.
func parsePlayedAt(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return time.Time{}, false
	}
	return ts, true
}

// queryInt parses an optional integer query parameter.
func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
