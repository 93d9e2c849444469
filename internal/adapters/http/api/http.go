// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foostable/ladder/internal/adapters/repository"
	service "github.com/foostable/ladder/internal/app"
	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/stats"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreatePlayer(ctx context.Context, name string) (model.Player, error)
	Player(ctx context.Context, id string) (model.Player, error)
	Players(ctx context.Context) ([]model.Player, error)
	DeactivatePlayer(ctx context.Context, id string) error
	Teams(ctx context.Context) ([]model.Team, error)

	SettleMatch(ctx context.Context, req service.SettleRequest) (model.Match, error)
	Matches(ctx context.Context, subjectID string) ([]model.Match, error)

	PlayerStatistics(ctx context.Context, playerID string) (service.PlayerStatistics, error)
	HeadToHead(ctx context.Context, playerA, playerB string) (stats.HeadToHead, error)
	Leaderboard(ctx context.Context, key stats.SortKey, minGames, offset, limit int) ([]stats.RankedPlayer, int, error)
	Summary(ctx context.Context) (stats.Summary, error)
	Progression(ctx context.Context, subjectID string, limit int) ([]model.HistoryEntry, error)
	MatchQuality(ctx context.Context, playerA, playerB string) (float64, error)
	WinProbability(ctx context.Context, playerA, playerB string) (float64, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	playersHandler    *PlayersHandler
	matchesHandler    *MatchesHandler
	statisticsHandler *StatisticsHandler
	analyticsHandler  *AnalyticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxPageSize int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		playersHandler:    NewPlayersHandler(deps),
		matchesHandler:    NewMatchesHandler(deps, maxPageSize),
		statisticsHandler: NewStatisticsHandler(deps, maxPageSize),
		analyticsHandler:  NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayer, "player"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.playersHandler.HandleTeams, "teams"))

	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleMatches, "matches"))
	mux.HandleFunc("/team-matches", MetricsMiddleware(s.matchesHandler.HandleTeamMatch, "team_matches"))

	mux.HandleFunc("/statistics/summary", MetricsMiddleware(s.statisticsHandler.HandleSummary, "statistics_summary"))
	mux.HandleFunc("/statistics/leaderboard", MetricsMiddleware(s.statisticsHandler.HandleLeaderboard, "statistics_leaderboard"))
	mux.HandleFunc("/statistics/players/", MetricsMiddleware(s.statisticsHandler.HandlePlayerStatistics, "statistics_player"))
	mux.HandleFunc("/statistics/head-to-head/", MetricsMiddleware(s.statisticsHandler.HandleHeadToHead, "statistics_head_to_head"))

	mux.HandleFunc("/analytics/progression/", MetricsMiddleware(s.analyticsHandler.HandleProgression, "analytics_progression"))
	mux.HandleFunc("/analytics/comparison", MetricsMiddleware(s.analyticsHandler.HandleComparison, "analytics_comparison"))
	mux.HandleFunc("/analytics/match-quality", MetricsMiddleware(s.analyticsHandler.HandleMatchQuality, "analytics_match_quality"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates service-layer sentinel errors to statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrDuplicateMatch):
		writeError(w, http.StatusConflict, "duplicate_match", err)
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate", err)
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
