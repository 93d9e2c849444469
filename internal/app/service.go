// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foostable/ladder/internal/adapters/repository"
	"github.com/foostable/ladder/internal/domain/dedupe"
	"github.com/foostable/ladder/internal/domain/model"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/team"
	"github.com/foostable/ladder/pkg/logger"
	"github.com/foostable/ladder/pkg/metrics"
)

// Service orchestrates settles and statistics queries over the store.
//
// The rating and statistics engines are pure; all mutable state lives in
// the store. A settle is a read-modify-append-write cycle, so the service
// holds a per-subject lock for every subject a match can touch (two for a
// 1v1, six for a 2v2) for the whole cycle. Locks are always taken in
// sorted subject order so concurrent settles cannot deadlock.
type Service struct {
	mu sync.RWMutex

	env     *skill.Env
	store   repository.Store
	deduper dedupe.Deduper

	subjectMu sync.Mutex
	subjects  map[string]*sync.Mutex

	dedupeSize int
	started    bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEnv sets the rating environment.
func WithEnv(env *skill.Env) Option {
	return func(s *Service) {
		if env != nil {
			s.env = env
		}
	}
}

// WithStore sets the backing store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDedupeSize sets the size of the settle idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dedupeSize: 50000,
		subjects:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.env == nil {
		s.env = skill.New()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	s.started = true
	s.logger.Info(ctx, "ladder service started",
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "ladder service stopped")
}

// CreatePlayer registers a new player with the prior belief.
func (s *Service) CreatePlayer(ctx context.Context, name string) (model.Player, error) {
	prior := s.env.NewBelief()
	p := model.Player{
		ID:        uuid.NewString(),
		Name:      name,
		Mu:        prior.Mu,
		Sigma:     prior.Sigma,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePlayer(ctx, p); err != nil {
		return model.Player{}, fmt.Errorf("create player: %w", err)
	}
	s.logger.Info(ctx, "player created",
		logger.String("playerID", p.ID),
		logger.String("name", p.Name),
	)
	return p, nil
}

// Player returns a player by ID.
func (s *Service) Player(ctx context.Context, id string) (model.Player, error) {
	return s.store.Player(ctx, id)
}

// Players lists all players.
func (s *Service) Players(ctx context.Context) ([]model.Player, error) {
	return s.store.Players(ctx)
}

// DeactivatePlayer soft-deletes a player.
func (s *Service) DeactivatePlayer(ctx context.Context, id string) error {
	return s.store.DeactivatePlayer(ctx, id)
}

// Teams lists all teams.
func (s *Service) Teams(ctx context.Context) ([]model.Team, error) {
	return s.store.Teams(ctx)
}

// SettleRequest describes one match outcome to apply.
// ID is optional; a fresh UUID is assigned when empty. Resubmitting a
// request with the same ID is a duplicate and settles nothing.
type SettleRequest struct {
	ID       string
	SideA    []string
	SideB    []string
	Winner   skill.Side
	PlayedAt time.Time
}

// SettleMatch applies a match outcome: rating updates for both sides (and
// every team member for a 2v2), win/loss counters, and one history entry
// per touched subject, committed as a single batch. Any validation error
// aborts the settle with no partial writes.
func (s *Service) SettleMatch(ctx context.Context, req SettleRequest) (model.Match, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.PlayedAt.IsZero() {
		req.PlayedAt = time.Now().UTC()
	}
	if req.Winner != skill.SideA && req.Winner != skill.SideB {
		metrics.RecordSettleRejected()
		return model.Match{}, skill.ErrInvalidOutcome
	}
	if len(req.SideA) != len(req.SideB) || (len(req.SideA) != 1 && len(req.SideA) != 2) {
		metrics.RecordSettleRejected()
		return model.Match{}, fmt.Errorf("%w: sides must hold one or two players each", skill.ErrInvalidOutcome)
	}
	if err := distinctPlayers(req.SideA, req.SideB); err != nil {
		metrics.RecordSettleRejected()
		return model.Match{}, err
	}

	if s.deduper.SeenAndRecord(ctx, req.ID) {
		metrics.RecordSettleDuplicate()
		return model.Match{}, ErrDuplicateMatch
	}

	start := time.Now()
	match, err := s.settle(ctx, req)
	if err != nil {
		// Allow the caller to retry a failed settle under the same ID.
		s.deduper.Unrecord(ctx, req.ID)
		return model.Match{}, err
	}
	metrics.RecordSettleDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "match settled",
		logger.String("matchID", match.ID),
		logger.String("winner", match.WinnerSubject()),
		logger.Int("subjects", len(match.Subjects())),
	)
	return match, nil
}

// settle runs the locked read-modify-append-write cycle.
func (s *Service) settle(ctx context.Context, req SettleRequest) (model.Match, error) {
	if len(req.SideA) == 1 {
		return s.settleSingles(ctx, req)
	}
	return s.settleTeams(ctx, req)
}

func (s *Service) settleSingles(ctx context.Context, req SettleRequest) (model.Match, error) {
	unlock := s.lockSubjects([]string{req.SideA[0], req.SideB[0]})
	defer unlock()

	a, err := s.activePlayer(ctx, req.SideA[0])
	if err != nil {
		return model.Match{}, err
	}
	b, err := s.activePlayer(ctx, req.SideB[0])
	if err != nil {
		return model.Match{}, err
	}

	newA, newB, err := s.env.Update(a.Belief(), b.Belief(), req.Winner)
	if err != nil {
		return model.Match{}, err
	}

	match := model.Match{
		ID:           req.ID,
		SideA:        []string{a.ID},
		SideB:        []string{b.ID},
		SideASubject: a.ID,
		SideBSubject: b.ID,
		WinnerSide:   req.Winner,
		PlayedAt:     req.PlayedAt,
	}

	batch := repository.SettleBatch{
		Match: match,
		Players: []model.Player{
			applyPlayerResult(a, newA, req.Winner == skill.SideA),
			applyPlayerResult(b, newB, req.Winner == skill.SideB),
		},
		History: []model.HistoryEntry{
			historyEntry(a.ID, match, a.Belief(), newA),
			historyEntry(b.ID, match, b.Belief(), newB),
		},
	}
	if err := s.store.ApplySettle(ctx, batch); err != nil {
		return model.Match{}, fmt.Errorf("apply settle: %w", err)
	}
	return match, nil
}

func (s *Service) settleTeams(ctx context.Context, req SettleRequest) (model.Match, error) {
	keyA, err := team.NewKey(req.SideA[0], req.SideA[1])
	if err != nil {
		return model.Match{}, err
	}
	keyB, err := team.NewKey(req.SideB[0], req.SideB[1])
	if err != nil {
		return model.Match{}, err
	}

	// A 2v2 settle mutates six subjects: both teams and all four members.
	unlock := s.lockSubjects([]string{
		model.TeamSubjectID(keyA), model.TeamSubjectID(keyB),
		req.SideA[0], req.SideA[1], req.SideB[0], req.SideB[1],
	})
	defer unlock()

	members := make([]model.Player, 0, 4)
	for _, id := range append(append([]string{}, req.SideA...), req.SideB...) {
		p, err := s.activePlayer(ctx, id)
		if err != nil {
			return model.Match{}, err
		}
		members = append(members, p)
	}
	a1, a2, b1, b2 := members[0], members[1], members[2], members[3]

	teamA, err := s.ensureTeam(ctx, keyA, a1, a2)
	if err != nil {
		return model.Match{}, err
	}
	teamB, err := s.ensureTeam(ctx, keyB, b1, b2)
	if err != nil {
		return model.Match{}, err
	}

	newTeamA, newTeamB, err := team.Update(s.env, teamA.Belief(), teamB.Belief(), req.Winner)
	if err != nil {
		return model.Match{}, err
	}
	newSideA, newSideB, err := team.DecomposeMembers(s.env,
		team.Members{First: a1.Belief(), Second: a2.Belief()},
		team.Members{First: b1.Belief(), Second: b2.Belief()},
		req.Winner,
	)
	if err != nil {
		return model.Match{}, err
	}

	match := model.Match{
		ID:           req.ID,
		SideA:        []string{a1.ID, a2.ID},
		SideB:        []string{b1.ID, b2.ID},
		SideASubject: model.TeamSubjectID(keyA),
		SideBSubject: model.TeamSubjectID(keyB),
		WinnerSide:   req.Winner,
		PlayedAt:     req.PlayedAt,
	}

	wonA := req.Winner == skill.SideA
	batch := repository.SettleBatch{
		Match: match,
		Players: []model.Player{
			applyPlayerResult(a1, newSideA.First, wonA),
			applyPlayerResult(a2, newSideA.Second, wonA),
			applyPlayerResult(b1, newSideB.First, !wonA),
			applyPlayerResult(b2, newSideB.Second, !wonA),
		},
		Teams: []model.Team{
			applyTeamResult(teamA, newTeamA, wonA),
			applyTeamResult(teamB, newTeamB, !wonA),
		},
		History: []model.HistoryEntry{
			historyEntry(match.SideASubject, match, teamA.Belief(), newTeamA),
			historyEntry(match.SideBSubject, match, teamB.Belief(), newTeamB),
			historyEntry(a1.ID, match, a1.Belief(), newSideA.First),
			historyEntry(a2.ID, match, a2.Belief(), newSideA.Second),
			historyEntry(b1.ID, match, b1.Belief(), newSideB.First),
			historyEntry(b2.ID, match, b2.Belief(), newSideB.Second),
		},
	}
	if err := s.store.ApplySettle(ctx, batch); err != nil {
		return model.Match{}, fmt.Errorf("apply settle: %w", err)
	}
	return match, nil
}

// ensureTeam looks a team up, creating it from its members' current
// beliefs on first appearance.
func (s *Service) ensureTeam(ctx context.Context, key team.Key, m1, m2 model.Player) (model.Team, error) {
	t, err := s.store.Team(ctx, key)
	if err == nil {
		return t, nil
	}
	initial := team.InitialBelief(m1.Belief(), m2.Belief())
	t = model.Team{
		Key:       key,
		Mu:        initial.Mu,
		Sigma:     initial.Sigma,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return model.Team{}, fmt.Errorf("create team: %w", err)
	}
	s.logger.Info(ctx, "team created",
		logger.String("teamID", model.TeamSubjectID(key)),
	)
	return t, nil
}

// activePlayer fetches a player and rejects settles for inactive ones.
func (s *Service) activePlayer(ctx context.Context, id string) (model.Player, error) {
	p, err := s.store.Player(ctx, id)
	if err != nil {
		return model.Player{}, fmt.Errorf("player %s: %w", id, err)
	}
	if !p.Active {
		return model.Player{}, fmt.Errorf("player %s: %w", id, ErrInactivePlayer)
	}
	return p, nil
}

// lockSubjects acquires every subject lock in sorted order and returns the
// matching unlock.
func (s *Service) lockSubjects(ids []string) func() {
	sorted := append([]string{}, ids...)
	sort.Strings(sorted)

	locks := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		locks = append(locks, s.subjectLock(id))
	}
	for _, l := range locks {
		l.Lock()
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (s *Service) subjectLock(id string) *sync.Mutex {
	s.subjectMu.Lock()
	defer s.subjectMu.Unlock()

	l, ok := s.subjects[id]
	if !ok {
		l = &sync.Mutex{}
		s.subjects[id] = l
	}
	return l
}

// distinctPlayers rejects matches where a player appears on both sides or
// twice on one side.
func distinctPlayers(sideA, sideB []string) error {
	seen := make(map[string]struct{}, len(sideA)+len(sideB))
	for _, id := range append(append([]string{}, sideA...), sideB...) {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// applyPlayerResult folds a posterior belief and a result into the rating
// row. Counters only ever increase.
func applyPlayerResult(p model.Player, posterior skill.Belief, won bool) model.Player {
	p.Mu = posterior.Mu
	p.Sigma = posterior.Sigma
	p.GamesPlayed++
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
	return p
}

func applyTeamResult(t model.Team, posterior skill.Belief, won bool) model.Team {
	t.Mu = posterior.Mu
	t.Sigma = posterior.Sigma
	t.GamesPlayed++
	if won {
		t.Wins++
	} else {
		t.Losses++
	}
	return t
}

func historyEntry(subjectID string, m model.Match, before, after skill.Belief) model.HistoryEntry {
	return model.HistoryEntry{
		SubjectID:   subjectID,
		MatchID:     m.ID,
		MuBefore:    before.Mu,
		SigmaBefore: before.Sigma,
		MuAfter:     after.Mu,
		SigmaAfter:  after.Sigma,
		CreatedAt:   m.PlayedAt,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]any{
		"started": s.started,
	}
	if s.started {
		players, teams, matches := s.store.Counts(context.Background())
		out["players"] = players
		out["teams"] = teams
		out["matches"] = matches
		out["dedupeEntries"] = s.deduper.Size()
	}
	return out
}
