// Package possession tracks which team holds the ball and for how long.
package possession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/clients/korfball_client"
	"github.com/mcdev12/korfscore/go/internal/live/ref"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// SameStartTolerance is how far apart two started_at values may be and
// still describe the same possession.
const SameStartTolerance = time.Second

// API is what the tracker needs from the match server.
type API interface {
	CreatePossession(ctx context.Context, gameID uuid.UUID, req korfball_client.CreatePossessionRequest) (*models.Possession, error)
	GetActivePossession(ctx context.Context, gameID uuid.UUID) (*models.Possession, error)
	IncrementPossessionShots(ctx context.Context, gameID, possessionID uuid.UUID) (*models.Possession, error)
}

// Active is the possession currently in play as seen by this client.
type Active struct {
	Ref        ref.Ref
	TeamID     uuid.UUID
	Period     int
	StartedAt  time.Time
	ShotsTaken int
}

// Config configures a Tracker.
type Config struct {
	GameID     uuid.UUID
	API        API
	Dispatcher *retry.Dispatcher
	Clock      clockwork.Clock
	OnError    func(error)
}

// Tracker owns the client-side possession lifecycle.
type Tracker struct {
	gameID  uuid.UUID
	api     API
	disp    *retry.Dispatcher
	clock   clockwork.Clock
	onError func(error)

	mu           sync.Mutex
	active       *Active
	dur          DurationClock
	timerRunning bool
	// increments recorded per possession while its create was pending
	unflushed map[ref.Ref]int
	inflight  int
	// closed once the most recent create call has settled
	lastCreate chan struct{}
}

func NewTracker(cfg Config) *Tracker {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Tracker{
		gameID:    cfg.GameID,
		api:       cfg.API,
		disp:      cfg.Dispatcher,
		clock:     cfg.Clock,
		onError:   cfg.OnError,
		unflushed: make(map[ref.Ref]int),
	}
}

// Active returns a copy of the active possession, or nil.
func (t *Tracker) Active() *Active {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return nil
	}
	a := *t.active
	return &a
}

// Duration returns the in-play time of the active possession.
func (t *Tracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dur.Duration(t.clock.Now())
}

// SetTimerRunning freezes or resumes the duration clock.
func (t *Tracker) SetTimerRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timerRunning = running
	t.dur.SetRunning(running, t.clock.Now())
}

// Clear drops the active possession and zeroes the duration clock. Shots
// counted on a still-pending possession are sent once it is confirmed.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
	t.dur.Reset()
	t.inflight = 0
}

// StartPossession shows a new possession for teamID immediately and creates
// it on the server in the background. Creates reach the server one at a time
// in the order they were started, so a late create never ends a newer
// possession. On failure the tracker reverts to no active possession.
func (t *Tracker) StartPossession(teamID uuid.UUID, period int) ref.Ref {
	pending := ref.Pending(uuid.New())
	now := t.clock.Now()
	done := make(chan struct{})
	var prev chan struct{}

	retry.Optimistic(t.disp, retry.Write[*models.Possession]{
		Name: "create possession",
		Apply: func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			prev, t.lastCreate = t.lastCreate, done
			t.active = &Active{
				Ref:       pending,
				TeamID:    teamID,
				Period:    period,
				StartedAt: now,
			}
			t.inflight = 0
			t.dur.Start(now, t.timerRunning, now)
		},
		Call: func(ctx context.Context) (*models.Possession, error) {
			if prev != nil {
				select {
				case <-prev:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return t.api.CreatePossession(ctx, t.gameID, korfball_client.CreatePossessionRequest{
				TeamID:    teamID,
				Period:    period,
				StartedAt: now,
			})
		},
		Commit: func(p *models.Possession) {
			defer close(done)
			t.confirm(pending, p)
		},
		Rollback: func(err error) {
			defer close(done)
			t.mu.Lock()
			lost := t.unflushed[pending]
			delete(t.unflushed, pending)
			owned := t.active != nil && t.active.Ref == pending
			if owned {
				t.active = nil
				t.dur.Reset()
			}
			t.mu.Unlock()
			if owned {
				t.fail("failed to start possession", err)
			} else if lost > 0 {
				log.Warn().Err(err).Int("shots", lost).Msg("dropped shot count of a possession that failed to start")
			}
		},
	})
	return pending
}

// confirm swaps pending for the server's possession. Shots counted while it
// was pending are sent even when a newer possession has replaced it locally.
func (t *Tracker) confirm(pending ref.Ref, p *models.Possession) {
	confirmed := ref.Confirmed(p.ID)

	t.mu.Lock()
	flush := t.unflushed[pending]
	delete(t.unflushed, pending)
	if t.active != nil && t.active.Ref == pending {
		t.active.Ref = confirmed
		if !sameStart(t.active.StartedAt, p.StartedAt) {
			t.active.StartedAt = p.StartedAt
			t.dur.Start(p.StartedAt, t.timerRunning, t.clock.Now())
		}
		if p.ShotsTaken > t.active.ShotsTaken {
			t.active.ShotsTaken = p.ShotsTaken
		}
	} else {
		log.Debug().Str("possession_id", p.ID.String()).Int("shots", flush).Msg("possession confirmed after being superseded locally")
	}
	t.mu.Unlock()

	for i := 0; i < flush; i++ {
		t.sendIncrement(confirmed)
	}
}

// IncrementShots bumps the active possession's shot counter. While the
// possession is still pending the increment is held locally and sent once
// the server confirms it. Returns false when there is no active possession.
func (t *Tracker) IncrementShots() bool {
	t.mu.Lock()
	if t.active == nil {
		t.mu.Unlock()
		return false
	}
	t.active.ShotsTaken++
	r := t.active.Ref
	if r.IsPending() {
		t.unflushed[r]++
		t.mu.Unlock()
		return true
	}
	t.mu.Unlock()

	t.sendIncrement(r)
	return true
}

func (t *Tracker) sendIncrement(r ref.Ref) {
	serverID, _ := r.ServerID()
	retry.Optimistic(t.disp, retry.Write[*models.Possession]{
		Name: "increment possession shots",
		Apply: func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.active != nil && t.active.Ref == r {
				t.inflight++
			}
		},
		Call: func(ctx context.Context) (*models.Possession, error) {
			return t.api.IncrementPossessionShots(ctx, t.gameID, serverID)
		},
		Commit: func(*models.Possession) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.active != nil && t.active.Ref == r {
				t.inflight--
			}
		},
		Rollback: func(err error) {
			t.mu.Lock()
			owned := t.active != nil && t.active.Ref == r
			if owned {
				t.inflight--
				if t.active.ShotsTaken > 0 {
					t.active.ShotsTaken--
				}
			}
			t.mu.Unlock()
			if owned {
				t.fail("failed to update possession shots", err)
			}
		},
	})
}

// Sync reconciles with the server's active possession. A pending possession
// is left alone because its create call owns reconciliation.
func (t *Tracker) Sync(ctx context.Context) error {
	p, err := t.api.GetActivePossession(ctx, t.gameID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil && t.active.Ref.IsPending() {
		return nil
	}
	if p == nil {
		if t.active != nil {
			log.Debug().Str("possession", t.active.Ref.String()).Msg("server reports no active possession")
		}
		t.active = nil
		t.dur.Reset()
		t.inflight = 0
		return nil
	}

	shots := p.ShotsTaken
	if t.active != nil && t.inflight > 0 && t.active.ShotsTaken > shots {
		shots = t.active.ShotsTaken
	}
	keepClock := t.active != nil && t.dur.Tracking() && sameStart(t.dur.StartedAt(), p.StartedAt)
	if t.active == nil || t.active.Ref != ref.Confirmed(p.ID) {
		t.inflight = 0
	}
	t.active = &Active{
		Ref:        ref.Confirmed(p.ID),
		TeamID:     p.TeamID,
		Period:     p.Period,
		StartedAt:  p.StartedAt,
		ShotsTaken: shots,
	}
	if !keepClock {
		t.dur.Start(p.StartedAt, t.timerRunning, t.clock.Now())
	}
	return nil
}

// Run calls onTick with the current duration every second until ctx is done.
func (t *Tracker) Run(ctx context.Context, onTick func(time.Duration)) {
	ticker := t.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if onTick != nil {
				onTick(t.Duration())
			}
		}
	}
}

func (t *Tracker) fail(msg string, err error) {
	log.Error().Err(err).Str("game_id", t.gameID.String()).Msg(msg)
	if t.onError != nil {
		t.onError(fmt.Errorf("%s: %w", msg, err))
	}
}

func sameStart(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= SameStartTolerance
}
