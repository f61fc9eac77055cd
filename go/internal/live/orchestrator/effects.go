package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/mcdev12/korfscore/go/internal/live/timer"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// effect is one step of a multi-part action. run applies its local change
// synchronously and owns the rollback of its own background write.
type effect struct {
	name string
	run  func()
}

// dispatch runs effects in order. A failing effect never undoes another one.
func (m *Match) dispatch(effects ...effect) {
	for _, e := range effects {
		log.Debug().Str("game_id", m.gameID.String()).Str("effect", e.name).Msg("dispatching effect")
		if m.onEffect != nil {
			m.onEffect(e.name)
		}
		e.run()
	}
}

// timerEffect overlays patch on the timer client, then calls action with
// retries. The overlay is undone if the call fails.
func (m *Match) timerEffect(name string, patch timer.Patch, action func(ctx context.Context) (*models.TimerState, error)) effect {
	return effect{name: name, run: func() {
		var undo func()
		retry.Optimistic(m.disp, retry.Write[*models.TimerState]{
			Name: name,
			Apply: func() {
				undo = m.timer.SetOptimistic(patch)
			},
			Call: action,
			Commit: func(s *models.TimerState) {
				m.timer.Apply(*s)
			},
			Rollback: func(err error) {
				undo()
				m.report(err)
			},
		})
	}}
}

func (m *Match) pauseEffect() effect {
	return m.timerEffect("pause timer", timer.StatePatch(models.TimerPaused), func(ctx context.Context) (*models.TimerState, error) {
		return m.api.PauseTimer(ctx, m.gameID)
	})
}

func (m *Match) startPossessionEffect(teamID uuid.UUID, period int) effect {
	return effect{name: "start possession", run: func() {
		m.possessions.StartPossession(teamID, period)
	}}
}
