package timer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/models"
)

type fakeAPI struct {
	mu    sync.Mutex
	state *models.TimerState
	err   error
	calls int
}

func (f *fakeAPI) GetTimer(_ context.Context, _ uuid.UUID) (*models.TimerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := *f.state
	return &s, nil
}

func running(period, remaining int) *models.TimerState {
	return &models.TimerState{
		CurrentPeriod:   period,
		NumberOfPeriods: 2,
		TimeRemaining:   remaining,
		TimerState:      models.TimerRunning,
		PeriodDuration:  1500,
	}
}

func TestStateCountsDownBetweenPolls(t *testing.T) {
	clock := clockwork.NewFakeClock()
	api := &fakeAPI{state: running(1, 10)}
	c := NewClient(Config{GameID: uuid.New(), API: api, Clock: clock})

	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	clock.Advance(3 * time.Second)
	if got := c.State().TimeRemaining; got != 7 {
		t.Errorf("TimeRemaining after 3s = %d, want 7", got)
	}
	clock.Advance(30 * time.Second)
	if got := c.State().TimeRemaining; got != 0 {
		t.Errorf("TimeRemaining after 33s = %d, want 0", got)
	}
}

func TestStateFrozenWhilePaused(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := running(1, 100)
	s.TimerState = models.TimerPaused
	c := NewClient(Config{GameID: uuid.New(), API: &fakeAPI{state: s}, Clock: clock})

	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	clock.Advance(10 * time.Second)
	if got := c.State().TimeRemaining; got != 100 {
		t.Errorf("TimeRemaining = %d, want 100", got)
	}
}

func TestRefetchFailureKeepsState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	api := &fakeAPI{state: running(2, 50)}
	c := NewClient(Config{GameID: uuid.New(), API: api, Clock: clock})

	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	api.err = errors.New("connection refused")
	if err := c.Refetch(context.Background()); err == nil {
		t.Fatal("Refetch() error = nil, want error")
	}
	got := c.State()
	if got.CurrentPeriod != 2 || got.TimeRemaining != 50 {
		t.Errorf("State() = %+v, want period 2 with 50s left", got)
	}
	if !c.Loaded() {
		t.Error("Loaded() = false after an earlier successful sync")
	}
}

func TestSetOptimisticUndo(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := running(1, 100)
	s.TimerState = models.TimerPaused
	c := NewClient(Config{GameID: uuid.New(), API: &fakeAPI{state: s}, Clock: clock})
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}

	undo := c.SetOptimistic(StatePatch(models.TimerRunning))
	if !c.State().Running() {
		t.Fatal("State() not running after optimistic start")
	}
	clock.Advance(4 * time.Second)
	if got := c.State().TimeRemaining; got != 96 {
		t.Errorf("TimeRemaining = %d, want 96", got)
	}

	undo()
	got := c.State()
	if got.TimerState != models.TimerPaused || got.TimeRemaining != 100 {
		t.Errorf("after undo State() = %+v, want paused with 100s", got)
	}
}

func TestSetOptimisticUndoAfterSyncKeepsServerState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	api := &fakeAPI{state: running(1, 100)}
	c := NewClient(Config{GameID: uuid.New(), API: api, Clock: clock})
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}

	undo := c.SetOptimistic(StatePatch(models.TimerPaused))
	if got := c.State(); got.TimerState != models.TimerPaused || got.TimeRemaining != 100 {
		t.Fatalf("State() = %+v, want paused at 100", got)
	}

	clock.Advance(7 * time.Second)
	api.mu.Lock()
	api.state = running(1, 93)
	api.mu.Unlock()
	for i := 0; i < 2; i++ {
		if err := c.Refetch(context.Background()); err != nil {
			t.Fatalf("Refetch() error = %v", err)
		}
	}

	undo()
	got := c.State()
	if got.TimerState != models.TimerRunning || got.TimeRemaining != 93 {
		t.Errorf("after undo State() = %+v, want the synced running 93s", got)
	}
}

func TestSetOptimisticUndoOnlyOwnOverlay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewClient(Config{GameID: uuid.New(), API: &fakeAPI{state: running(1, 100)}, Clock: clock})
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}

	undoPause := c.SetOptimistic(StatePatch(models.TimerPaused))
	period := 2
	c.SetOptimistic(Patch{CurrentPeriod: &period})
	undoPause()

	if got := c.State(); got.CurrentPeriod != 2 || got.TimerState != models.TimerPaused {
		t.Errorf("State() = %+v, want the later overlay kept", got)
	}
}

func TestPeriodEndFiresOncePerPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	api := &fakeAPI{state: running(1, 2)}
	var fired []int
	c := NewClient(Config{
		GameID:      uuid.New(),
		API:         api,
		Clock:       clock,
		OnPeriodEnd: func(p int) { fired = append(fired, p) },
	})
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}

	clock.Advance(time.Second)
	c.Tick()
	if c.PeriodHasEnded() {
		t.Fatal("PeriodHasEnded() = true with time left")
	}

	clock.Advance(2 * time.Second)
	c.Tick()
	c.Tick()
	if !c.PeriodHasEnded() {
		t.Fatal("PeriodHasEnded() = false at zero")
	}
	if len(fired) != 1 || fired[0] != 1 {
		t.Fatalf("callback fired %v, want [1]", fired)
	}

	c.ResetPeriodEnd()
	c.Tick()
	if c.PeriodHasEnded() {
		t.Error("PeriodHasEnded() = true after reset in the same period")
	}
	if len(fired) != 1 {
		t.Errorf("callback fired again in the same period: %v", fired)
	}

	api.state = running(2, 1)
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	clock.Advance(time.Second)
	c.Tick()
	if len(fired) != 2 || fired[1] != 2 {
		t.Errorf("callback fired %v, want [1 2]", fired)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewClient(Config{GameID: uuid.New(), API: &fakeAPI{state: running(1, 30)}, Clock: clock})

	var seen []models.TimerState
	c.Subscribe(func(s models.TimerState) { seen = append(seen, s) })

	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	if len(seen) != 1 || seen[0].TimeRemaining != 30 {
		t.Errorf("listener saw %+v, want one update with 30s", seen)
	}
}

func TestRunPollsUntilCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	api := &fakeAPI{state: running(1, 600)}
	c := NewClient(Config{GameID: uuid.New(), API: api, Clock: clock, PollInterval: 2 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	if err := clock.BlockUntilContext(ctx, 2); err != nil {
		t.Fatalf("BlockUntilContext() error = %v", err)
	}
	clock.Advance(2 * time.Second)

	deadline := time.After(2 * time.Second)
	for {
		api.mu.Lock()
		calls := api.calls
		api.mu.Unlock()
		if calls >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("GetTimer called %d times, want at least 2", calls)
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestRearmAllowsSamePeriodToEndAgain(t *testing.T) {
	clock := clockwork.NewFakeClock()
	api := &fakeAPI{state: running(1, 1)}
	fired := 0
	c := NewClient(Config{GameID: uuid.New(), API: api, Clock: clock, OnPeriodEnd: func(int) { fired++ }})
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	clock.Advance(time.Second)
	c.Tick()

	c.Rearm()
	if err := c.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	clock.Advance(time.Second)
	c.Tick()

	if fired != 2 {
		t.Errorf("period end fired %d times, want 2 across a reset", fired)
	}
}
