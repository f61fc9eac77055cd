package games

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/apperr"
	"github.com/mcdev12/korfscore/go/internal/models"
)

type fakeRepo struct {
	mu               sync.Mutex
	games            map[uuid.UUID]*models.Game
	rosters          map[uuid.UUID][]models.LineupPlayer
	possessionsEnded map[uuid.UUID]int
	resets           int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		games:            make(map[uuid.UUID]*models.Game),
		rosters:          make(map[uuid.UUID][]models.LineupPlayer),
		possessionsEnded: make(map[uuid.UUID]int),
	}
}

func (r *fakeRepo) put(g models.Game) *models.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.games[g.ID] = &g
	cp := g
	return &cp
}

func (r *fakeRepo) get(id uuid.UUID) models.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.games[id]
}

func (r *fakeRepo) CreateGame(_ context.Context, req CreateGameRequest) (*models.Game, error) {
	return r.put(models.Game{
		HomeTeamID:        req.HomeTeamID,
		AwayTeamID:        req.AwayTeamID,
		HomeTeamName:      req.HomeTeamName,
		AwayTeamName:      req.AwayTeamName,
		CurrentPeriod:     1,
		NumberOfPeriods:   req.NumberOfPeriods,
		PeriodDuration:    req.PeriodDuration,
		TimeRemaining:     req.PeriodDuration,
		TimerState:        models.TimerStopped,
		HomeAttackingSide: req.HomeAttackingSide,
		Status:            models.GameStatusScheduled,
		ScheduledAt:       req.ScheduledAt,
	}), nil
}

func (r *fakeRepo) GetGame(_ context.Context, id uuid.UUID) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, apperr.NotFound("game")
	}
	cp := *g
	return &cp, nil
}

func (r *fakeRepo) ListRunningGames(context.Context) ([]models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Game
	for _, g := range r.games {
		if g.TimerState == models.TimerRunning && g.Status == models.GameStatusInProgress {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateDetails(_ context.Context, g *models.Game) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.games[g.ID]
	if !ok {
		return nil, apperr.NotFound("game")
	}
	stored.Status = g.Status
	stored.HomeAttackingSide = g.HomeAttackingSide
	stored.HomeTeamName = g.HomeTeamName
	stored.AwayTeamName = g.AwayTeamName
	cp := *stored
	return &cp, nil
}

func (r *fakeRepo) MutateTimer(_ context.Context, id uuid.UUID, _ time.Time, mutate TimerMutation) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.games[id]
	if !ok {
		return nil, apperr.NotFound("game")
	}
	g := *stored
	end, err := mutate(&g)
	if err != nil {
		return nil, err
	}
	if end {
		r.possessionsEnded[id]++
	}
	r.games[id] = &g
	cp := g
	return &cp, nil
}

func (r *fakeRepo) ResetMatch(_ context.Context, id uuid.UUID) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, apperr.NotFound("game")
	}
	r.resets++
	g.HomeScore, g.AwayScore = 0, 0
	g.CurrentPeriod = 1
	g.TimeRemaining = g.PeriodDuration
	g.TimerState = models.TimerStopped
	g.TimerStartedAt = nil
	g.PeriodEndHandled = 0
	cp := *g
	return &cp, nil
}

func (r *fakeRepo) GetRoster(_ context.Context, id uuid.UUID) (*models.Roster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &models.Roster{GameID: id, Players: append([]models.LineupPlayer(nil), r.rosters[id]...)}, nil
}

func (r *fakeRepo) SaveRoster(_ context.Context, id uuid.UUID, players []models.LineupPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rosters[id] = append([]models.LineupPlayer(nil), players...)
	return nil
}

type emitted struct {
	gameID    uuid.UUID
	eventType models.MatchEventType
	period    int
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *fakeEmitter) Emit(_ context.Context, gameID uuid.UUID, t models.MatchEventType, period int, _ interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{gameID, t, period})
}

func (e *fakeEmitter) types() []models.MatchEventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.MatchEventType, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.eventType
	}
	return out
}

type mapCache struct {
	mu          sync.Mutex
	games       map[uuid.UUID]models.Game
	invalidated int
}

func newMapCache() *mapCache {
	return &mapCache{games: make(map[uuid.UUID]models.Game)}
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (*models.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.games[id]
	if !ok {
		return nil, false
	}
	return &g, true
}

func (c *mapCache) Set(_ context.Context, g *models.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[g.ID] = *g
}

func (c *mapCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.games, id)
	c.invalidated++
}
