package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/live/court"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/mcdev12/korfscore/go/internal/live/shots"
	"github.com/mcdev12/korfscore/go/internal/live/timer"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ShotRequest is a shot as entered by the operator.
type ShotRequest struct {
	PlayerID uuid.UUID
	X, Y     float64
	Result   models.ShotResult
	ShotType string
	// TeamID overrides the team resolved from the court half when set.
	TeamID   uuid.UUID
}

// liveGame returns the cached game when live mutations are allowed.
func (m *Match) liveGame() (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game == nil {
		return nil, ErrNotLoaded
	}
	if m.ended {
		return nil, ErrMatchEnded
	}
	if m.game.Status != models.GameStatusInProgress {
		return nil, ErrNotInProgress
	}
	g := *m.game
	return &g, nil
}

// StartTimer starts or resumes the match clock. The very first start of a
// match gives the home team possession.
func (m *Match) StartTimer() error {
	game, err := m.liveGame()
	if err != nil {
		return err
	}
	state := m.timer.State()
	if state.Running() {
		return nil
	}

	first := state.CurrentPeriod == 1 && state.TimerState == models.TimerStopped && m.possessions.Active() == nil
	effects := []effect{
		m.timerEffect("start timer", timer.StatePatch(models.TimerRunning), func(ctx context.Context) (*models.TimerState, error) {
			return m.api.StartTimer(ctx, m.gameID)
		}),
	}
	if first {
		effects = append(effects, m.startPossessionEffect(game.HomeTeamID, state.CurrentPeriod))
	}
	m.dispatch(effects...)
	return nil
}

// PauseTimer pauses a running match clock.
func (m *Match) PauseTimer() error {
	if _, err := m.liveGame(); err != nil {
		return err
	}
	if !m.timer.State().Running() {
		return nil
	}
	m.dispatch(m.pauseEffect())
	return nil
}

// RecordShot records a shot at (X, Y). The shooting team is the one
// attacking that half. A goal also pauses the clock, hands possession to the
// opponent and bumps the score locally until the server confirms it.
// Shots are refused while the clock is paused, and after the period ran out
// until the operator acknowledges it with ResetPeriodEnd on the timer.
func (m *Match) RecordShot(req ShotRequest) (shots.Entry, error) {
	game, err := m.liveGame()
	if err != nil {
		return shots.Entry{}, err
	}
	if m.timer.State().TimerState == models.TimerPaused {
		return shots.Entry{}, shots.ErrTimerPaused
	}
	if m.timer.PeriodHasEnded() {
		return shots.Entry{}, ErrPeriodEnded
	}

	teamID := req.TeamID
	if teamID == uuid.Nil {
		teamID, err = court.ResolveTeam(game, req.X)
		if err != nil {
			return shots.Entry{}, err
		}
	} else if _, ok := game.SideOf(teamID); !ok {
		return shots.Entry{}, ErrUnknownTeam
	}

	state := m.timer.State()
	entry, err := m.shots.RecordShot(shots.Input{
		TeamID:   teamID,
		PlayerID: req.PlayerID,
		Point:    &court.Point{X: req.X, Y: req.Y},
		Result:   req.Result,
		ShotType: req.ShotType,
		Period:   state.CurrentPeriod,
	})
	if err != nil {
		return shots.Entry{}, err
	}

	effects := []effect{{name: "increment possession shots", run: func() {
		if !m.possessions.IncrementShots() {
			log.Debug().Str("game_id", m.gameID.String()).Msg("shot recorded without an active possession")
		}
	}}}
	if req.Result == models.ShotResultGoal {
		if state.Running() {
			effects = append(effects, m.pauseEffect())
		}
		effects = append(effects,
			m.startPossessionEffect(game.OpponentOf(teamID), state.CurrentPeriod),
			effect{name: "bump score", run: func() { m.bumpScore(teamID) }},
		)
	}
	m.dispatch(effects...)
	return entry, nil
}

func (m *Match) bumpScore(teamID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game == nil {
		return
	}
	g := *m.game
	switch teamID {
	case g.HomeTeamID:
		g.HomeScore++
	case g.AwayTeamID:
		g.AwayScore++
	}
	m.game = &g
}

// SwitchPossession hands the ball to side. It is a no-op when that team
// already has possession.
func (m *Match) SwitchPossession(side models.TeamSide) error {
	game, err := m.liveGame()
	if err != nil {
		return err
	}
	teamID := game.TeamID(side)
	if active := m.possessions.Active(); active != nil && active.TeamID == teamID {
		return nil
	}
	m.dispatch(m.startPossessionEffect(teamID, m.timer.State().CurrentPeriod))
	return nil
}

// NextPeriod advances the clock to the next period and drops the active possession.
func (m *Match) NextPeriod() error {
	if _, err := m.liveGame(); err != nil {
		return err
	}
	state := m.timer.State()
	if state.NumberOfPeriods > 0 && state.CurrentPeriod >= state.NumberOfPeriods {
		return ErrLastPeriod
	}

	next := state.CurrentPeriod + 1
	stopped := models.TimerStopped
	patch := timer.Patch{
		CurrentPeriod: &next,
		TimeRemaining: &state.PeriodDuration,
		TimerState:    &stopped,
	}
	m.dispatch(
		effect{name: "clear possession", run: m.possessions.Clear},
		m.timerEffect("next period", patch, func(ctx context.Context) (*models.TimerState, error) {
			return m.api.NextPeriod(ctx, m.gameID)
		}),
	)
	return nil
}

// ResetMatch wipes the match back to the first period: scores, shots,
// possessions and events are cleared on the server and locally.
func (m *Match) ResetMatch() error {
	m.mu.Lock()
	if m.game == nil {
		m.mu.Unlock()
		return ErrNotLoaded
	}
	if m.ended {
		m.mu.Unlock()
		return ErrMatchEnded
	}
	m.mu.Unlock()

	state := m.timer.State()
	first := 1
	stopped := models.TimerStopped
	patch := timer.Patch{
		CurrentPeriod: &first,
		TimeRemaining: &state.PeriodDuration,
		TimerState:    &stopped,
	}
	m.dispatch(
		effect{name: "clear possession", run: m.possessions.Clear},
		effect{name: "clear shots", run: m.shots.Reset},
		effect{name: "clear score", run: m.clearScore},
		effect{name: "reset match", run: func() {
			var undo func()
			retry.Optimistic(m.disp, retry.Write[*models.TimerState]{
				Name: "reset match",
				Apply: func() {
					undo = m.timer.SetOptimistic(patch)
					m.timer.Rearm()
				},
				Call: func(ctx context.Context) (*models.TimerState, error) {
					return m.api.ResetMatch(ctx, m.gameID)
				},
				Commit: func(s *models.TimerState) {
					m.timer.Apply(*s)
				},
				Rollback: func(err error) {
					undo()
					m.report(err)
					m.disp.Go("restore after failed reset", func(ctx context.Context) {
						if err := m.Refresh(ctx); err != nil {
							log.Warn().Err(err).Str("game_id", m.gameID.String()).Msg("refresh after failed reset")
						}
					})
				},
			})
		}},
	)
	return nil
}

func (m *Match) clearScore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game == nil {
		return
	}
	g := *m.game
	g.HomeScore, g.AwayScore = 0, 0
	m.game = &g
}

// EndGame marks the match completed. Afterwards every live mutation returns
// ErrMatchEnded.
func (m *Match) EndGame(ctx context.Context) error {
	m.mu.Lock()
	if m.game == nil {
		m.mu.Unlock()
		return ErrNotLoaded
	}
	if m.ended {
		m.mu.Unlock()
		return ErrMatchEnded
	}
	m.ended = true
	m.mu.Unlock()

	game, err := retry.Do(ctx, m.disp.Policy(), "end game", func(ctx context.Context) (*models.Game, error) {
		return m.api.UpdateGameStatus(ctx, m.gameID, models.GameStatusCompleted)
	})
	if err != nil {
		m.mu.Lock()
		m.ended = false
		m.mu.Unlock()
		m.report(err)
		return fmt.Errorf("failed to end game: %w", err)
	}

	m.setGame(game)
	m.possessions.SetTimerRunning(false)
	log.Info().
		Str("game_id", m.gameID.String()).
		Int("home_score", game.HomeScore).
		Int("away_score", game.AwayScore).
		Msg("match completed")
	return nil
}
