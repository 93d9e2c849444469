// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/foostable/ladder/internal/domain/stats"
)

// StatisticsHandler handles the statistics endpoints.
type StatisticsHandler struct {
	deps        Dependencies
	maxPageSize int
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(deps Dependencies, maxPageSize int) *StatisticsHandler {
	return &StatisticsHandler{deps: deps, maxPageSize: maxPageSize}
}

// trendResponse is one time-windowed performance trend.
type trendResponse struct {
	Period        string  `json:"period"`
	GamesPlayed   int     `json:"games_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"win_percentage"`
	AvgRating     float64 `json:"avg_rating"`
	RatingChange  float64 `json:"rating_change"`
	Direction     string  `json:"trend_direction"`
}

// gameFormResponse is one recent game from the subject's perspective.
type gameFormResponse struct {
	MatchID                  string    `json:"match_id"`
	Date                     time.Time `json:"date"`
	OpponentID               string    `json:"opponent_id"`
	Result                   string    `json:"result"`
	RatingChange             float64   `json:"rating_change"`
	ConservativeRatingChange float64   `json:"conservative_rating_change"`
}

// recentFormResponse summarizes the last analyzed games.
type recentFormResponse struct {
	GamesAnalyzed   int                `json:"games_analyzed"`
	Wins            int                `json:"wins"`
	Losses          int                `json:"losses"`
	WinPercentage   float64            `json:"win_percentage"`
	AvgRatingChange float64            `json:"avg_rating_change"`
	CurrentForm     string             `json:"current_form"`
	FormTrend       string             `json:"form_trend"`
	Games           []gameFormResponse `json:"games"`
}

// playerStatisticsResponse is the full statistics bundle for one player.
type playerStatisticsResponse struct {
	Player            playerResponse     `json:"player"`
	PeakRating        float64            `json:"peak_rating"`
	PeakRatingDate    *time.Time         `json:"peak_rating_date"`
	CurrentStreak     string             `json:"current_streak"`
	LongestWinStreak  int                `json:"longest_win_streak"`
	LongestLossStreak int                `json:"longest_loss_streak"`
	PerformanceTrends []trendResponse    `json:"performance_trends"`
	RecentForm        recentFormResponse `json:"recent_form"`
	FirstGameDate     *time.Time         `json:"first_game_date"`
	LastGameDate      *time.Time         `json:"last_game_date"`
	GamesThisWeek     int                `json:"games_this_week"`
	GamesThisMonth    int                `json:"games_this_month"`
}

func toRecentFormResponse(f stats.Form) recentFormResponse {
	out := recentFormResponse{
		GamesAnalyzed:   f.GamesAnalyzed,
		Wins:            f.Wins,
		Losses:          f.Losses,
		WinPercentage:   f.WinPercentage,
		AvgRatingChange: f.AvgRatingChange,
		CurrentForm:     f.CurrentForm,
		FormTrend:       f.FormTrend,
		Games:           make([]gameFormResponse, 0, len(f.Games)),
	}
	for _, g := range f.Games {
		out.Games = append(out.Games, gameFormResponse{
			MatchID:                  g.MatchID,
			Date:                     g.Date,
			OpponentID:               g.OpponentID,
			Result:                   g.Result,
			RatingChange:             g.RatingChange,
			ConservativeRatingChange: g.ConservativeRatingChange,
		})
	}
	return out
}

// HandlePlayerStatistics handles GET /statistics/players/{id} requests.
func (h *StatisticsHandler) HandlePlayerStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/statistics/players/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	ps, err := h.deps.PlayerStatistics(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := playerStatisticsResponse{
		Player:            toPlayerResponse(ps.Player),
		PeakRating:        ps.Peak.Rating,
		PeakRatingDate:    ps.Peak.At,
		CurrentStreak:     ps.CurrentStreak.String(),
		LongestWinStreak:  ps.LongestWinStreak,
		LongestLossStreak: ps.LongestLossStreak,
		RecentForm:        toRecentFormResponse(ps.RecentForm),
		FirstGameDate:     ps.FirstGame,
		LastGameDate:      ps.LastGame,
		GamesThisWeek:     ps.GamesThisWeek,
		GamesThisMonth:    ps.GamesThisMonth,
	}
	for _, t := range ps.Trends {
		out.PerformanceTrends = append(out.PerformanceTrends, trendResponse{
			Period:        t.Period,
			GamesPlayed:   t.GamesPlayed,
			Wins:          t.Wins,
			Losses:        t.Losses,
			WinPercentage: t.WinPercentage,
			AvgRating:     t.AvgRating,
			RatingChange:  t.RatingChange,
			Direction:     t.Direction,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// headToHeadResponse is the record between two players.
type headToHeadResponse struct {
	Player1ID            string             `json:"player1_id"`
	Player2ID            string             `json:"player2_id"`
	TotalGames           int                `json:"total_games"`
	Player1Wins          int                `json:"player1_wins"`
	Player2Wins          int                `json:"player2_wins"`
	Player1WinPercentage float64            `json:"player1_win_percentage"`
	Player2WinPercentage float64            `json:"player2_win_percentage"`
	LastGameDate         *time.Time         `json:"last_game_date"`
	CurrentStreak        string             `json:"current_streak"`
	RecentGames          []gameFormResponse `json:"recent_games"`
}

// HandleHeadToHead handles GET /statistics/head-to-head/{a}/{b} requests.
func (h *StatisticsHandler) HandleHeadToHead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/statistics/head-to-head/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	h2h, err := h.deps.HeadToHead(r.Context(), parts[0], parts[1])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := headToHeadResponse{
		Player1ID:            h2h.SubjectA,
		Player2ID:            h2h.SubjectB,
		TotalGames:           h2h.TotalGames,
		Player1Wins:          h2h.WinsA,
		Player2Wins:          h2h.WinsB,
		Player1WinPercentage: h2h.WinPercentageA,
		Player2WinPercentage: h2h.WinPercentageB,
		LastGameDate:         h2h.LastGame,
		RecentGames:          make([]gameFormResponse, 0, len(h2h.RecentGames)),
	}
	if h2h.Streak.Count > 0 {
		out.CurrentStreak = h2h.StreakOwner + " - " + h2h.Streak.String()
	}
	for _, g := range h2h.RecentGames {
		out.RecentGames = append(out.RecentGames, gameFormResponse{
			MatchID:    g.MatchID,
			Date:       g.Date,
			OpponentID: g.OpponentID,
			Result:     g.Result,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// leaderboardEntryResponse is one ranked leaderboard row.
type leaderboardEntryResponse struct {
	Rank               int     `json:"rank"`
	PlayerID           string  `json:"player_id"`
	PlayerName         string  `json:"player_name"`
	GamesPlayed        int     `json:"games_played"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	WinPercentage      float64 `json:"win_percentage"`
	ConservativeRating float64 `json:"conservative_rating"`
	Mu                 float64 `json:"trueskill_mu"`
	Sigma              float64 `json:"trueskill_sigma"`
}

// leaderboardResponse is the paginated leaderboard.
type leaderboardResponse struct {
	Leaderboard []leaderboardEntryResponse `json:"leaderboard"`
	Total       int                        `json:"total"`
	Page        int                        `json:"page"`
	PageSize    int                        `json:"page_size"`
	SortBy      string                     `json:"sort_by"`
	LastUpdated time.Time                  `json:"last_updated"`
}

// HandleLeaderboard handles GET /statistics/leaderboard requests.
// Query: page, page_size, min_games, sort_by (rating|wins|games|win_rate).
func (h *StatisticsHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), defaultPageSize)
	minGames := queryInt(q.Get("min_games"), 0)
	if page < 1 || pageSize < 1 || pageSize > h.maxPageSize || minGames < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	key := stats.ParseSortKey(q.Get("sort_by"))

	rows, total, err := h.deps.Leaderboard(r.Context(), key, minGames, (page-1)*pageSize, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := leaderboardResponse{
		Leaderboard: make([]leaderboardEntryResponse, 0, len(rows)),
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		SortBy:      string(key),
		LastUpdated: time.Now().UTC(),
	}
	for _, row := range rows {
		out.Leaderboard = append(out.Leaderboard, leaderboardEntryResponse{
			Rank:               row.Rank,
			PlayerID:           row.Player.ID,
			PlayerName:         row.Player.Name,
			GamesPlayed:        row.Player.GamesPlayed,
			Wins:               row.Player.Wins,
			Losses:             row.Player.Losses,
			WinPercentage:      row.Player.WinPercentage(),
			ConservativeRating: row.Player.ConservativeRating(),
			Mu:                 row.Player.Mu,
			Sigma:              row.Player.Sigma,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// summaryResponse is the ladder-wide statistics summary.
type summaryResponse struct {
	TotalPlayers      int             `json:"total_players"`
	ActivePlayers     int             `json:"active_players"`
	TotalGames        int             `json:"total_games"`
	GamesToday        int             `json:"games_today"`
	GamesThisWeek     int             `json:"games_this_week"`
	GamesThisMonth    int             `json:"games_this_month"`
	HighestRated      *playerResponse `json:"highest_rated_player"`
	MostActive        *playerResponse `json:"most_active_player"`
	BestWinRate       *playerResponse `json:"best_win_rate_player"`
	AvgGamesPerPlayer float64         `json:"avg_games_per_player"`
	AvgRating         float64         `json:"avg_rating"`
	MostCommonMatchup string          `json:"most_common_matchup"`
	LastUpdated       time.Time       `json:"last_updated"`
}

// HandleSummary handles GET /statistics/summary requests.
func (h *StatisticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s, err := h.deps.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := summaryResponse{
		TotalPlayers:      s.TotalPlayers,
		ActivePlayers:     s.ActivePlayers,
		TotalGames:        s.TotalGames,
		GamesToday:        s.GamesToday,
		GamesThisWeek:     s.GamesThisWeek,
		GamesThisMonth:    s.GamesThisMonth,
		AvgGamesPerPlayer: s.AvgGamesPerPlayer,
		AvgRating:         s.AvgRating,
		LastUpdated:       s.LastUpdated,
	}
	if s.HighestRated != nil {
		p := toPlayerResponse(*s.HighestRated)
		out.HighestRated = &p
	}
	if s.MostActive != nil {
		p := toPlayerResponse(*s.MostActive)
		out.MostActive = &p
	}
	if s.BestWinRate != nil {
		p := toPlayerResponse(*s.BestWinRate)
		out.BestWinRate = &p
	}
	if s.MostCommonMatchup != nil {
		out.MostCommonMatchup = s.MostCommonMatchup.SubjectLow + " vs " + s.MostCommonMatchup.SubjectHigh
	}
	writeJSON(w, http.StatusOK, out)
}
