// Package shots records shots with an optimistic local list that converges
// to the server's.
package shots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/clients/korfball_client"
	"github.com/mcdev12/korfscore/go/internal/live/court"
	"github.com/mcdev12/korfscore/go/internal/live/ref"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrTimerPaused is returned by Click while the match timer is paused.
	ErrTimerPaused  = errors.New("timer is paused, resume before recording shots")
	ErrShotNotFound = errors.New("shot not found")
)

// ValidationError is a local rejection; nothing was sent or changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// API is what the recorder needs from the match server.
type API interface {
	CreateShot(ctx context.Context, gameID uuid.UUID, req korfball_client.CreateShotRequest) (*models.Shot, error)
	ListShots(ctx context.Context, gameID uuid.UUID) ([]models.Shot, error)
	DeleteShot(ctx context.Context, gameID, shotID uuid.UUID) error
}

// Input is a shot about to be recorded.
type Input struct {
	TeamID   uuid.UUID
	PlayerID uuid.UUID
	// Point is nil until the operator has clicked the court.
	Point    *court.Point
	Result   models.ShotResult
	ShotType string
	Period   int
}

// Entry is a shot in the local list.
type Entry struct {
	Ref ref.Ref
	models.Shot
}

// Config configures a Recorder.
type Config struct {
	GameID      uuid.UUID
	API         API
	Dispatcher  *retry.Dispatcher
	Clock       clockwork.Clock
	// TimerState reports the current match clock status for click gating.
	TimerState  func() models.TimerStatus
	// OnConfirmed runs after the server accepted a shot.
	OnConfirmed func(models.Shot)
	OnError     func(error)
}

// Recorder owns the local shot list for one game.
type Recorder struct {
	gameID      uuid.UUID
	api         API
	disp        *retry.Dispatcher
	clock       clockwork.Clock
	timerState  func() models.TimerStatus
	onConfirmed func(models.Shot)
	onError     func(error)

	mu      sync.Mutex
	entries []Entry
	click   *court.Point

	// pending shots deleted before their create returned
	deleteOnConfirm map[uuid.UUID]bool
	// confirmed shots whose delete is in flight
	deleting        map[uuid.UUID]bool
}

func NewRecorder(cfg Config) *Recorder {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Recorder{
		gameID:          cfg.GameID,
		api:             cfg.API,
		disp:            cfg.Dispatcher,
		clock:           cfg.Clock,
		timerState:      cfg.TimerState,
		onConfirmed:     cfg.OnConfirmed,
		onError:         cfg.OnError,
		deleteOnConfirm: map[uuid.UUID]bool{},
		deleting:        map[uuid.UUID]bool{},
	}
}

// Click selects a court position. Clicks are ignored while the timer is paused.
func (r *Recorder) Click(x, y float64) (court.Point, error) {
	if r.timerState != nil && r.timerState() == models.TimerPaused {
		return court.Point{}, ErrTimerPaused
	}
	p := court.Point{X: x, Y: y}
	if !p.InBounds() {
		return court.Point{}, court.ErrOutOfBounds
	}
	r.mu.Lock()
	r.click = &p
	r.mu.Unlock()
	return p, nil
}

// Selected returns the last clicked position, if any.
func (r *Recorder) Selected() *court.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.click == nil {
		return nil
	}
	p := *r.click
	return &p
}

// ClearSelection forgets the last click.
func (r *Recorder) ClearSelection() {
	r.mu.Lock()
	r.click = nil
	r.mu.Unlock()
}

func validate(in Input) error {
	switch {
	case in.PlayerID == uuid.Nil:
		return &ValidationError{Field: "player_id", Message: "select a player before recording a shot"}
	case in.Point == nil:
		return &ValidationError{Field: "coordinates", Message: "select a position on the court before recording a shot"}
	case !in.Point.InBounds():
		return &ValidationError{Field: "coordinates", Message: court.ErrOutOfBounds.Error()}
	case in.TeamID == uuid.Nil:
		return &ValidationError{Field: "team_id", Message: "shooting team is unknown"}
	case !in.Result.Valid():
		return &ValidationError{Field: "result", Message: fmt.Sprintf("unknown shot result %q", in.Result)}
	}
	return nil
}

// RecordShot validates in, shows the shot immediately and persists it in the
// background. The shot is removed again if the create fails.
func (r *Recorder) RecordShot(in Input) (Entry, error) {
	if err := validate(in); err != nil {
		return Entry{}, err
	}

	pending := ref.Pending(uuid.New())
	localID, _ := pending.LocalID()
	entry := Entry{
		Ref: pending,
		Shot: models.Shot{
			ID:        localID,
			GameID:    r.gameID,
			TeamID:    in.TeamID,
			PlayerID:  in.PlayerID,
			XCoord:    in.Point.X,
			YCoord:    in.Point.Y,
			Result:    in.Result,
			ShotType:  in.ShotType,
			Distance:  court.DistanceToNearestGoal(in.Point.X, in.Point.Y),
			Period:    in.Period,
			CreatedAt: r.clock.Now(),
		},
	}

	retry.Optimistic(r.disp, retry.Write[*models.Shot]{
		Name: "create shot",
		Apply: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.entries = append(r.entries, entry)
			r.click = nil
		},
		Call: func(ctx context.Context) (*models.Shot, error) {
			return r.api.CreateShot(ctx, r.gameID, korfball_client.CreateShotRequest{
				TeamID:   entry.TeamID,
				PlayerID: entry.PlayerID,
				XCoord:   entry.XCoord,
				YCoord:   entry.YCoord,
				Result:   entry.Result,
				ShotType: entry.ShotType,
				Distance: entry.Distance,
				Period:   entry.Period,
			})
		},
		Commit: func(s *models.Shot) {
			r.confirm(localID, s)
		},
		Rollback: func(err error) {
			r.mu.Lock()
			deleted := r.deleteOnConfirm[localID]
			delete(r.deleteOnConfirm, localID)
			r.removeLocked(pending)
			r.mu.Unlock()
			if !deleted {
				r.fail("failed to record shot", err)
			}
		},
	})
	return entry, nil
}

func (r *Recorder) confirm(localID uuid.UUID, s *models.Shot) {
	r.mu.Lock()
	if r.deleteOnConfirm[localID] {
		delete(r.deleteOnConfirm, localID)
		r.mu.Unlock()
		log.Debug().Str("shot_id", s.ID.String()).Msg("shot deleted before confirmation, deleting on server")
		r.deleteConfirmed(Entry{Ref: ref.Confirmed(s.ID), Shot: *s}, -1)
		return
	}
	for i := range r.entries {
		if r.entries[i].Ref == ref.Pending(localID) {
			r.entries[i] = Entry{Ref: ref.Confirmed(s.ID), Shot: *s}
			break
		}
	}
	r.mu.Unlock()

	if r.onConfirmed != nil {
		r.onConfirmed(*s)
	}
	r.disp.Go("refresh shots", func(ctx context.Context) {
		if err := r.Refresh(ctx); err != nil {
			log.Warn().Err(err).Str("game_id", r.gameID.String()).Msg("shot refresh after create failed")
		}
	})
}

// Delete removes a shot as a correction. A shot that is still pending is
// hidden now and deleted on the server once its create confirms.
func (r *Recorder) Delete(target ref.Ref) error {
	r.mu.Lock()
	idx := r.indexLocked(target)
	if idx < 0 {
		r.mu.Unlock()
		return ErrShotNotFound
	}
	entry := r.entries[idx]
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	if localID, ok := target.LocalID(); ok {
		r.deleteOnConfirm[localID] = true
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	r.deleteConfirmed(entry, idx)
	return nil
}

// deleteConfirmed deletes a confirmed shot already removed from the list.
// On failure it is restored at idx, or not at all when idx is negative.
func (r *Recorder) deleteConfirmed(entry Entry, idx int) {
	serverID, _ := entry.Ref.ServerID()
	retry.Optimistic(r.disp, retry.Write[struct{}]{
		Name: "delete shot",
		Apply: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.deleting[serverID] = true
		},
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.api.DeleteShot(ctx, r.gameID, serverID)
		},
		Commit: func(struct{}) {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.deleting, serverID)
		},
		Rollback: func(err error) {
			r.mu.Lock()
			delete(r.deleting, serverID)
			if idx >= 0 && r.indexLocked(entry.Ref) < 0 {
				if idx > len(r.entries) {
					idx = len(r.entries)
				}
				r.entries = append(r.entries[:idx], append([]Entry{entry}, r.entries[idx:]...)...)
			}
			r.mu.Unlock()
			r.fail("failed to delete shot", err)
		},
	})
}

// Refresh replaces the confirmed shots with the server's list. Pending shots
// stay at the end.
func (r *Recorder) Refresh(ctx context.Context) error {
	list, err := r.api.ListShots(ctx, r.gameID)
	if err != nil {
		return fmt.Errorf("refresh shots: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })

	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]Entry, 0, len(list)+len(r.entries))
	for _, s := range list {
		if r.deleting[s.ID] {
			continue
		}
		next = append(next, Entry{Ref: ref.Confirmed(s.ID), Shot: s})
	}
	for _, e := range r.entries {
		if e.Ref.IsPending() {
			next = append(next, e)
		}
	}
	r.entries = next
	return nil
}

// Shots returns a copy of the local list in display order.
func (r *Recorder) Shots() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Find returns the entry for target.
func (r *Recorder) Find(target ref.Ref) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(target); i >= 0 {
		return r.entries[i], true
	}
	return Entry{}, false
}

// Reset drops all local state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.click = nil
	r.deleteOnConfirm = map[uuid.UUID]bool{}
	r.deleting = map[uuid.UUID]bool{}
}

func (r *Recorder) indexLocked(target ref.Ref) int {
	for i := range r.entries {
		if r.entries[i].Ref == target {
			return i
		}
	}
	return -1
}

func (r *Recorder) removeLocked(target ref.Ref) {
	if i := r.indexLocked(target); i >= 0 {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
	}
}

func (r *Recorder) fail(msg string, err error) {
	log.Error().Err(err).Str("game_id", r.gameID.String()).Msg(msg)
	if r.onError != nil {
		r.onError(fmt.Errorf("%s: %w", msg, err))
	}
}
