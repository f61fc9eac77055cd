package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepPeriodEnds(ctx context.Context) (int, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep ran without a deadline")
	}
	return 1, c.err
}

func TestSweep_CallsGames(t *testing.T) {
	games := &countingSweeper{}
	w, err := New(games, time.Second, clockwork.NewRealClock())
	if err != nil {
		t.Fatal(err)
	}
	w.Sweep()
	w.Sweep()
	if got := games.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestSweep_SkipsAfterCancel(t *testing.T) {
	games := &countingSweeper{}
	w, err := New(games, time.Second, clockwork.NewRealClock())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.ctx = ctx
	w.Sweep()
	if got := games.calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}
}

func TestSweeper_RunsOnSchedule(t *testing.T) {
	games := &countingSweeper{err: errors.New("db down")}
	w, err := New(games, 20*time.Millisecond, clockwork.NewRealClock())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for games.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("calls = %d after 2s", games.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNew_DefaultsInterval(t *testing.T) {
	w, err := New(&countingSweeper{}, 0, clockwork.NewRealClock())
	if err != nil {
		t.Fatal(err)
	}
	if w.interval != DefaultInterval {
		t.Errorf("interval = %v", w.interval)
	}
}
