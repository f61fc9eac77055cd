package games

import (
	"time"

	"github.com/mcdev12/korfscore/go/internal/models"
)

// Remaining derives the seconds left on the clock at now. A running clock
// stores the value it had at TimerStartedAt.
func Remaining(g *models.Game, now time.Time) int {
	if g.TimerState != models.TimerRunning || g.TimerStartedAt == nil {
		return g.TimeRemaining
	}
	elapsed := int(now.Sub(*g.TimerStartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if left := g.TimeRemaining - elapsed; left > 0 {
		return left
	}
	return 0
}

// Project returns the client view of g at now.
func Project(g *models.Game, now time.Time) *models.Game {
	out := *g
	out.TimeRemaining = Remaining(g, now)
	return &out
}

// TimerOf returns the clock projection served by GET /timer.
func TimerOf(g *models.Game, now time.Time) models.TimerState {
	state := Project(g, now).Timer()
	state.ServerTime = now.UTC()
	return state
}

func startClock(g *models.Game, now time.Time) {
	g.TimerState = models.TimerRunning
	g.TimerStartedAt = &now
}

// freezeClock persists the derived remaining time and leaves the clock in state.
func freezeClock(g *models.Game, now time.Time, state models.TimerStatus) {
	g.TimeRemaining = Remaining(g, now)
	g.TimerState = state
	g.TimerStartedAt = nil
}

// periodExpired reports a running clock at zero whose end has not been handled.
func periodExpired(g *models.Game, now time.Time) bool {
	return g.TimerState == models.TimerRunning &&
		Remaining(g, now) == 0 &&
		g.PeriodEndHandled < g.CurrentPeriod
}
