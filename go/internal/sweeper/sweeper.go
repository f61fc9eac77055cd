// Package sweeper runs the server-side period-end detection job.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const DefaultInterval = time.Second

// PeriodSweeper is satisfied by games.App.
type PeriodSweeper interface {
	SweepPeriodEnds(ctx context.Context) (int, error)
}

type Sweeper struct {
	s        gocron.Scheduler
	games    PeriodSweeper
	interval time.Duration
	timeout  time.Duration
	ctx      context.Context
}

func New(games PeriodSweeper, interval time.Duration, clock clockwork.Clock) (*Sweeper, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Sweeper{
		s:        s,
		games:    games,
		interval: interval,
		timeout:  5 * interval,
		ctx:      context.Background(),
	}, nil
}

// Start schedules the sweep. Runs never overlap; a slow sweep delays the next.
func (w *Sweeper) Start(ctx context.Context) error {
	w.ctx = ctx
	_, err := w.s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.Sweep),
		gocron.WithName("period-end-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create sweep job: %w", err)
	}
	w.s.Start()
	log.Info().Dur("interval", w.interval).Msg("period sweeper started")
	return nil
}

func (w *Sweeper) Stop() error {
	return w.s.Shutdown()
}

// Sweep runs one pass.
func (w *Sweeper) Sweep() {
	if w.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	n, err := w.games.SweepPeriodEnds(ctx)
	if err != nil {
		log.Error().Err(err).Msg("period sweep failed")
		return
	}
	if n > 0 {
		log.Debug().Int("games", n).Msg("period sweep handled games")
	}
}
