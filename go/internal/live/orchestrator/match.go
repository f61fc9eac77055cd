// Package orchestrator drives one live match: it composes the timer client,
// the possession tracker and the shot recorder and sequences the actions
// that touch more than one of them.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/lineup"
	"github.com/mcdev12/korfscore/go/internal/live/possession"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/mcdev12/korfscore/go/internal/live/shots"
	"github.com/mcdev12/korfscore/go/internal/live/timer"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrMatchEnded    = errors.New("match has ended")
	ErrNotLoaded     = errors.New("match not loaded")
	ErrNotInProgress = errors.New("match is not in progress")
	ErrNotPreMatch   = errors.New("lineup can only be submitted before the match starts")
	ErrLastPeriod    = errors.New("already in the last period")
	ErrUnknownTeam   = errors.New("team does not play in this match")
	ErrNoPossession  = errors.New("no team has possession")
	ErrPeriodEnded   = errors.New("period has ended, continue or start the next period before recording shots")
)

// DefaultRefreshInterval is how often Run refreshes game, possession and shots.
const DefaultRefreshInterval = 5 * time.Second

// API is the full server surface a match needs.
type API interface {
	timer.API
	possession.API
	shots.API
	GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error)
	UpdateGameStatus(ctx context.Context, gameID uuid.UUID, status models.GameStatus) (*models.Game, error)
	StartTimer(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error)
	PauseTimer(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error)
	NextPeriod(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error)
	ResetMatch(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error)
	GetRoster(ctx context.Context, gameID uuid.UUID) (*models.Roster, error)
	SaveRoster(ctx context.Context, gameID uuid.UUID, players []models.LineupPlayer) (*models.Roster, error)
}

// Config configures a Match.
type Config struct {
	GameID          uuid.UUID
	API             API
	Rules           lineup.Rules
	Policy          retry.Policy
	Clock           clockwork.Clock
	PollInterval    time.Duration
	RefreshInterval time.Duration

	// OnError receives a human readable message for every failed background write.
	OnError func(msg string)
	// OnPeriodEnd fires once per period when the clock runs out.
	OnPeriodEnd func(period int)
	// OnEffect observes each dispatched effect, in order.
	OnEffect func(name string)
}

// Match is the controller for one live match.
type Match struct {
	gameID          uuid.UUID
	api             API
	rules           lineup.Rules
	clock           clockwork.Clock
	refreshInterval time.Duration
	disp            *retry.Dispatcher

	timer       *timer.Client
	possessions *possession.Tracker
	shots       *shots.Recorder

	onError     func(string)
	onPeriodEnd func(int)
	onEffect    func(string)

	mu      sync.Mutex
	game    *models.Game
	ended   bool
	lastErr string
}

// New wires a Match. Background writes are bound to ctx; call Close when done.
func New(ctx context.Context, cfg Config) *Match {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Policy.MaxRetries == 0 && cfg.Policy.BaseDelay == 0 {
		cfg.Policy = retry.DefaultPolicy()
	}
	if cfg.Policy.Clock == nil {
		cfg.Policy = cfg.Policy.WithClock(cfg.Clock)
	}
	if cfg.Rules.SelectedCount == 0 {
		cfg.Rules = lineup.DefaultRules()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}

	m := &Match{
		gameID:          cfg.GameID,
		api:             cfg.API,
		rules:           cfg.Rules,
		clock:           cfg.Clock,
		refreshInterval: cfg.RefreshInterval,
		disp:            retry.NewDispatcher(ctx, cfg.Policy),
		onError:         cfg.OnError,
		onPeriodEnd:     cfg.OnPeriodEnd,
		onEffect:        cfg.OnEffect,
	}

	m.timer = timer.NewClient(timer.Config{
		GameID:       cfg.GameID,
		API:          cfg.API,
		Clock:        cfg.Clock,
		PollInterval: cfg.PollInterval,
		OnPeriodEnd:  m.handlePeriodEnd,
	})
	m.possessions = possession.NewTracker(possession.Config{
		GameID:     cfg.GameID,
		API:        cfg.API,
		Dispatcher: m.disp,
		Clock:      cfg.Clock,
		OnError:    m.report,
	})
	m.shots = shots.NewRecorder(shots.Config{
		GameID:      cfg.GameID,
		API:         cfg.API,
		Dispatcher:  m.disp,
		Clock:       cfg.Clock,
		TimerState:  func() models.TimerStatus { return m.timer.State().TimerState },
		OnConfirmed: m.shotConfirmed,
		OnError:     m.report,
	})
	m.timer.Subscribe(func(s models.TimerState) {
		m.possessions.SetTimerRunning(s.Running() && s.TimeRemaining > 0)
	})
	return m
}

func (m *Match) Timer() *timer.Client {
	return m.timer
}

func (m *Match) Possessions() *possession.Tracker {
	return m.possessions
}

func (m *Match) Shots() *shots.Recorder {
	return m.shots
}

// Game returns a copy of the cached game, or nil before Load.
func (m *Match) Game() *models.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game == nil {
		return nil
	}
	g := *m.game
	return &g
}

// Ended reports whether the match reached its terminal state.
func (m *Match) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended
}

// LastError returns the most recent operator-facing error message.
func (m *Match) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// ClearError dismisses the last error message.
func (m *Match) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = ""
}

// Load fetches the game, timer, active possession and shots.
func (m *Match) Load(ctx context.Context) error {
	game, err := retry.Do(ctx, m.disp.Policy(), "get game", func(ctx context.Context) (*models.Game, error) {
		return m.api.GetGame(ctx, m.gameID)
	})
	if err != nil {
		return fmt.Errorf("failed to load game %s: %w", m.gameID, err)
	}
	m.setGame(game)
	m.timer.Apply(game.Timer())

	var errs []error
	if err := m.possessions.Sync(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sync possession: %w", err))
	}
	if err := m.shots.Refresh(ctx); err != nil {
		errs = append(errs, err)
	}
	log.Info().
		Str("game_id", m.gameID.String()).
		Str("status", string(game.Status)).
		Int("period", game.CurrentPeriod).
		Msg("match loaded")
	return errors.Join(errs...)
}

// Refresh re-reads server state. Each read is independent; failures are
// joined and the last known state is kept for the ones that failed.
func (m *Match) Refresh(ctx context.Context) error {
	var errs []error
	if game, err := m.api.GetGame(ctx, m.gameID); err != nil {
		errs = append(errs, fmt.Errorf("refresh game: %w", err))
	} else {
		m.setGame(game)
	}
	if err := m.timer.Refetch(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := m.possessions.Sync(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sync possession: %w", err))
	}
	if err := m.shots.Refresh(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run keeps the match in sync until ctx is done: timer polling, the one
// second possession tick and the periodic refresh.
func (m *Match) Run(ctx context.Context, onTick func(time.Duration)) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.timer.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		m.possessions.Run(ctx, onTick)
	}()

	ticker := m.clock.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.Chan():
			if err := m.Refresh(ctx); err != nil {
				log.Warn().Err(err).Str("game_id", m.gameID.String()).Msg("periodic refresh failed")
			}
		}
	}
}

// Wait blocks until every background write has settled.
func (m *Match) Wait() {
	m.disp.Wait()
}

// Close cancels pending retries and waits for background writes to return.
func (m *Match) Close() {
	m.disp.Close()
}

func (m *Match) setGame(g *models.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.game = g
	if g.Status.IsTerminal() {
		m.ended = true
	}
}

func (m *Match) report(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
	if m.onError != nil {
		m.onError(msg)
	}
}

func (m *Match) handlePeriodEnd(period int) {
	m.possessions.SetTimerRunning(false)
	log.Info().Str("game_id", m.gameID.String()).Int("period", period).Msg("period clock ran out")
	if m.onPeriodEnd != nil {
		m.onPeriodEnd(period)
	}
}

func (m *Match) shotConfirmed(s models.Shot) {
	if s.Result != models.ShotResultGoal {
		return
	}
	m.disp.Go("refresh score", func(ctx context.Context) {
		game, err := m.api.GetGame(ctx, m.gameID)
		if err != nil {
			log.Warn().Err(err).Str("game_id", m.gameID.String()).Msg("score refresh failed")
			return
		}
		m.setGame(game)
	})
}
