// Package timer keeps a client-side view of the server-authoritative match clock.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is how often Run re-synchronizes with the server.
const DefaultPollInterval = 5 * time.Second

// API is what the timer client needs from the match server.
type API interface {
	GetTimer(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error)
}

// Patch overlays fields on the local state before the server confirms them.
type Patch struct {
	CurrentPeriod  *int
	TimeRemaining  *int
	TimerState     *models.TimerStatus
	PeriodDuration *int
}

// StatePatch is shorthand for a Patch that only changes the timer status.
func StatePatch(status models.TimerStatus) Patch {
	return Patch{TimerState: &status}
}

// Listener is notified after every local or server state change.
type Listener func(models.TimerState)

// Config configures a Client.
type Config struct {
	GameID       uuid.UUID
	API          API
	Clock        clockwork.Clock
	PollInterval time.Duration
	// OnPeriodEnd fires once per period when the clock reaches zero while running.
	OnPeriodEnd func(period int)
}

// Client exposes the current match clock. Between polls it derives
// time_remaining from the last synced value and the elapsed local time.
type Client struct {
	gameID       uuid.UUID
	api          API
	clock        clockwork.Clock
	pollInterval time.Duration
	onPeriodEnd  func(period int)

	mu       sync.Mutex
	state    models.TimerState
	syncedAt time.Time
	loaded   bool
	// gen bumps on every server sync and overlay; an undo only applies to its own overlay.
	gen uint64

	periodHasEnded bool
	firedPeriod    int
	listeners      []Listener
}

// NewClient creates a timer client. Call Refetch or Run to load state.
func NewClient(cfg Config) *Client {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Client{
		gameID:       cfg.GameID,
		api:          cfg.API,
		clock:        cfg.Clock,
		pollInterval: cfg.PollInterval,
		onPeriodEnd:  cfg.OnPeriodEnd,
		state:        models.TimerState{TimerState: models.TimerStopped},
	}
}

// Subscribe registers l for state changes.
func (c *Client) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Loaded reports whether at least one server sync has succeeded.
func (c *Client) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// State returns the current clock with the running countdown applied.
func (c *Client) State() models.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.derivedLocked()
}

func (c *Client) derivedLocked() models.TimerState {
	s := c.state
	if s.TimerState == models.TimerRunning {
		elapsed := int(c.clock.Since(c.syncedAt) / time.Second)
		s.TimeRemaining -= elapsed
		if s.TimeRemaining < 0 {
			s.TimeRemaining = 0
		}
	}
	return s
}

// Refetch re-synchronizes with the server. On failure the previous state is
// kept and the error is returned.
func (c *Client) Refetch(ctx context.Context) error {
	fresh, err := c.api.GetTimer(ctx, c.gameID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", c.gameID.String()).Msg("timer refetch failed, keeping last known state")
		return fmt.Errorf("refetch timer: %w", err)
	}
	c.Apply(*fresh)
	return nil
}

// Apply replaces the local state with a server snapshot. Server values win
// over any optimistic overlay.
func (c *Client) Apply(fresh models.TimerState) {
	c.mu.Lock()
	if fresh.CurrentPeriod != c.state.CurrentPeriod {
		c.periodHasEnded = false
	}
	c.state = fresh
	c.syncedAt = c.clock.Now()
	c.loaded = true
	c.gen++
	c.mu.Unlock()

	c.afterChange()
}

// SetOptimistic overlays p immediately. The returned undo restores the state
// that was visible before the overlay, for use when the write fails. Once a
// server sync or another overlay has replaced it, undo does nothing.
func (c *Client) SetOptimistic(p Patch) (undo func()) {
	c.mu.Lock()
	prev := c.derivedLocked()
	next := prev
	if p.CurrentPeriod != nil {
		next.CurrentPeriod = *p.CurrentPeriod
	}
	if p.TimeRemaining != nil {
		next.TimeRemaining = *p.TimeRemaining
	}
	if p.TimerState != nil {
		next.TimerState = *p.TimerState
	}
	if p.PeriodDuration != nil {
		next.PeriodDuration = *p.PeriodDuration
	}
	if next.CurrentPeriod != prev.CurrentPeriod {
		c.periodHasEnded = false
	}
	c.state = next
	c.syncedAt = c.clock.Now()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.afterChange()

	return func() {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			log.Debug().Str("game_id", c.gameID.String()).Msg("timer overlay already replaced, skipping undo")
			return
		}
		c.state = prev
		c.syncedAt = c.clock.Now()
		c.gen++
		c.mu.Unlock()
		c.afterChange()
	}
}

// PeriodHasEnded reports whether the clock hit zero while running in the current period.
func (c *Client) PeriodHasEnded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.periodHasEnded
}

// ResetPeriodEnd clears the flag, e.g. when the operator chooses to keep
// recording after the period ended. The callback does not fire again for the
// same period.
func (c *Client) ResetPeriodEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periodHasEnded = false
}

// Rearm forgets which periods already ended, for a match reset.
func (c *Client) Rearm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periodHasEnded = false
	c.firedPeriod = 0
}

// Tick re-evaluates the derived clock; Run calls it every second.
func (c *Client) Tick() {
	c.afterChange()
}

func (c *Client) afterChange() {
	c.mu.Lock()
	s := c.derivedLocked()
	fire := false
	if s.TimerState == models.TimerRunning && s.TimeRemaining == 0 && c.firedPeriod != s.CurrentPeriod {
		c.periodHasEnded = true
		c.firedPeriod = s.CurrentPeriod
		fire = true
	}
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(s)
	}
	if fire {
		log.Info().Str("game_id", c.gameID.String()).Int("period", s.CurrentPeriod).Msg("period ended")
		if c.onPeriodEnd != nil {
			c.onPeriodEnd(s.CurrentPeriod)
		}
	}
}

// Run polls the server and ticks the local countdown until ctx is done.
func (c *Client) Run(ctx context.Context) {
	if err := c.Refetch(ctx); err != nil {
		log.Error().Err(err).Str("game_id", c.gameID.String()).Msg("initial timer fetch failed")
	}

	tick := c.clock.NewTicker(time.Second)
	poll := c.clock.NewTicker(c.pollInterval)
	defer tick.Stop()
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("game_id", c.gameID.String()).Msg("timer client stopped")
			return
		case <-tick.Chan():
			c.Tick()
		case <-poll.Chan():
			_ = c.Refetch(ctx)
		}
	}
}
