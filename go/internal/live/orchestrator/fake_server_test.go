package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/clients"
	"github.com/mcdev12/korfscore/go/clients/korfball_client"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// fakeServer is an in-memory stand-in for the match API.
type fakeServer struct {
	mu          sync.Mutex
	game        models.Game
	possessions []models.Possession
	shots       []models.Shot
	roster      *models.Roster
	calls       []string
	failures    map[string]error
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		game: models.Game{
			ID:                uuid.New(),
			HomeTeamID:        uuid.New(),
			AwayTeamID:        uuid.New(),
			HomeTeamName:      "Fortuna",
			AwayTeamName:      "PKC",
			CurrentPeriod:     1,
			NumberOfPeriods:   2,
			PeriodDuration:    1500,
			TimeRemaining:     1500,
			TimerState:        models.TimerStopped,
			HomeAttackingSide: models.AttackingSideLeft,
			Status:            models.GameStatusInProgress,
		},
		failures: map[string]error{},
	}
}

func (f *fakeServer) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failures[call]
}

func (f *fakeServer) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeServer) GetGame(context.Context, uuid.UUID) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetGame"); err != nil {
		return nil, err
	}
	g := f.game
	return &g, nil
}

func (f *fakeServer) UpdateGameStatus(_ context.Context, _ uuid.UUID, status models.GameStatus) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateGameStatus"); err != nil {
		return nil, err
	}
	f.game.Status = status
	g := f.game
	return &g, nil
}

func (f *fakeServer) GetTimer(context.Context, uuid.UUID) (*models.TimerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetTimer"); err != nil {
		return nil, err
	}
	s := f.game.Timer()
	return &s, nil
}

func (f *fakeServer) timerAction(call string, mutate func()) (*models.TimerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(call); err != nil {
		return nil, err
	}
	mutate()
	s := f.game.Timer()
	return &s, nil
}

func (f *fakeServer) StartTimer(context.Context, uuid.UUID) (*models.TimerState, error) {
	return f.timerAction("StartTimer", func() { f.game.TimerState = models.TimerRunning })
}

func (f *fakeServer) PauseTimer(context.Context, uuid.UUID) (*models.TimerState, error) {
	return f.timerAction("PauseTimer", func() { f.game.TimerState = models.TimerPaused })
}

func (f *fakeServer) NextPeriod(context.Context, uuid.UUID) (*models.TimerState, error) {
	return f.timerAction("NextPeriod", func() {
		f.game.CurrentPeriod++
		f.game.TimeRemaining = f.game.PeriodDuration
		f.game.TimerState = models.TimerStopped
		f.endActiveLocked()
	})
}

func (f *fakeServer) ResetMatch(context.Context, uuid.UUID) (*models.TimerState, error) {
	return f.timerAction("ResetMatch", func() {
		f.game.CurrentPeriod = 1
		f.game.TimeRemaining = f.game.PeriodDuration
		f.game.TimerState = models.TimerStopped
		f.game.HomeScore, f.game.AwayScore = 0, 0
		f.possessions = nil
		f.shots = nil
	})
}

func (f *fakeServer) endActiveLocked() {
	now := time.Now()
	for i := range f.possessions {
		if f.possessions[i].EndedAt == nil {
			f.possessions[i].EndedAt = &now
		}
	}
}

func (f *fakeServer) CreatePossession(_ context.Context, gameID uuid.UUID, req korfball_client.CreatePossessionRequest) (*models.Possession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreatePossession"); err != nil {
		return nil, err
	}
	f.endActiveLocked()
	p := models.Possession{ID: uuid.New(), GameID: gameID, TeamID: req.TeamID, Period: req.Period, StartedAt: req.StartedAt}
	f.possessions = append(f.possessions, p)
	return &p, nil
}

func (f *fakeServer) GetActivePossession(context.Context, uuid.UUID) (*models.Possession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetActivePossession"); err != nil {
		return nil, err
	}
	for _, p := range f.possessions {
		if p.EndedAt == nil {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeServer) IncrementPossessionShots(_ context.Context, _ uuid.UUID, id uuid.UUID) (*models.Possession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("IncrementPossessionShots"); err != nil {
		return nil, err
	}
	for i := range f.possessions {
		if f.possessions[i].ID == id {
			f.possessions[i].ShotsTaken++
			p := f.possessions[i]
			return &p, nil
		}
	}
	return nil, &clients.APIError{Status: 404, Message: "possession not found"}
}

func (f *fakeServer) CreateShot(_ context.Context, gameID uuid.UUID, req korfball_client.CreateShotRequest) (*models.Shot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateShot"); err != nil {
		return nil, err
	}
	s := models.Shot{
		ID:        uuid.New(),
		GameID:    gameID,
		TeamID:    req.TeamID,
		PlayerID:  req.PlayerID,
		XCoord:    req.XCoord,
		YCoord:    req.YCoord,
		Result:    req.Result,
		ShotType:  req.ShotType,
		Distance:  req.Distance,
		Period:    req.Period,
		CreatedAt: time.Now(),
	}
	f.shots = append(f.shots, s)
	if s.Result == models.ShotResultGoal {
		if s.TeamID == f.game.HomeTeamID {
			f.game.HomeScore++
		} else {
			f.game.AwayScore++
		}
	}
	return &s, nil
}

func (f *fakeServer) ListShots(context.Context, uuid.UUID) ([]models.Shot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListShots"); err != nil {
		return nil, err
	}
	return append([]models.Shot(nil), f.shots...), nil
}

func (f *fakeServer) DeleteShot(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteShot"); err != nil {
		return err
	}
	for i, s := range f.shots {
		if s.ID == id {
			f.shots = append(f.shots[:i], f.shots[i+1:]...)
			return nil
		}
	}
	return &clients.APIError{Status: 404, Message: "shot not found"}
}

func (f *fakeServer) GetRoster(_ context.Context, gameID uuid.UUID) (*models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetRoster"); err != nil {
		return nil, err
	}
	if f.roster == nil {
		return &models.Roster{GameID: gameID}, nil
	}
	r := *f.roster
	return &r, nil
}

func (f *fakeServer) SaveRoster(_ context.Context, gameID uuid.UUID, players []models.LineupPlayer) (*models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SaveRoster"); err != nil {
		return nil, err
	}
	f.roster = &models.Roster{GameID: gameID, Players: players, UpdatedAt: time.Now()}
	r := *f.roster
	return &r, nil
}
