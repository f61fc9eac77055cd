package games

import (
	"testing"
	"time"

	"github.com/mcdev12/korfscore/go/internal/models"
)

var t0 = time.Date(2026, 5, 9, 14, 0, 0, 0, time.UTC)

func TestRemaining(t *testing.T) {
	started := t0
	tests := []struct {
		name string
		game models.Game
		now  time.Time
		want int
	}{
		{"stopped keeps stored value", models.Game{TimerState: models.TimerStopped, TimeRemaining: 1500}, t0.Add(time.Hour), 1500},
		{"paused keeps stored value", models.Game{TimerState: models.TimerPaused, TimeRemaining: 600}, t0.Add(time.Hour), 600},
		{"running counts down", models.Game{TimerState: models.TimerRunning, TimeRemaining: 1500, TimerStartedAt: &started}, t0.Add(90 * time.Second), 1410},
		{"partial seconds truncate", models.Game{TimerState: models.TimerRunning, TimeRemaining: 10, TimerStartedAt: &started}, t0.Add(2900 * time.Millisecond), 8},
		{"floors at zero", models.Game{TimerState: models.TimerRunning, TimeRemaining: 10, TimerStartedAt: &started}, t0.Add(time.Minute), 0},
		{"clock skew never adds time", models.Game{TimerState: models.TimerRunning, TimeRemaining: 10, TimerStartedAt: &started}, t0.Add(-time.Minute), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remaining(&tt.game, tt.now); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFreezeClock(t *testing.T) {
	g := &models.Game{TimeRemaining: 100}
	startClock(g, t0)
	freezeClock(g, t0.Add(40*time.Second), models.TimerPaused)

	if g.TimeRemaining != 60 || g.TimerState != models.TimerPaused || g.TimerStartedAt != nil {
		t.Errorf("after pause: remaining=%d state=%s startedAt=%v", g.TimeRemaining, g.TimerState, g.TimerStartedAt)
	}
	if got := Remaining(g, t0.Add(time.Hour)); got != 60 {
		t.Errorf("paused clock moved: %d", got)
	}
}

func TestTimerOf(t *testing.T) {
	started := t0
	g := &models.Game{
		CurrentPeriod:   2,
		NumberOfPeriods: 2,
		PeriodDuration:  1500,
		TimeRemaining:   30,
		TimerState:      models.TimerRunning,
		TimerStartedAt:  &started,
	}
	state := TimerOf(g, t0.Add(10*time.Second))
	if state.TimeRemaining != 20 || state.CurrentPeriod != 2 || !state.Running() {
		t.Errorf("TimerOf = %+v", state)
	}
	if !state.ServerTime.Equal(t0.Add(10 * time.Second)) {
		t.Errorf("ServerTime = %v", state.ServerTime)
	}
	if g.TimeRemaining != 30 {
		t.Error("projection must not modify the stored game")
	}
}

func TestPeriodExpired(t *testing.T) {
	started := t0
	g := &models.Game{CurrentPeriod: 1, TimeRemaining: 5, TimerState: models.TimerRunning, TimerStartedAt: &started}
	if periodExpired(g, t0.Add(4*time.Second)) {
		t.Error("expired with time left")
	}
	if !periodExpired(g, t0.Add(5*time.Second)) {
		t.Error("not expired at zero")
	}
	g.PeriodEndHandled = 1
	if periodExpired(g, t0.Add(5*time.Second)) {
		t.Error("handled period reported again")
	}
}
