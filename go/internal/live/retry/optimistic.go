package retry

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Write describes one optimistic write. Apply runs synchronously before the
// network call; Commit or Rollback runs once the call settles.
type Write[T any] struct {
	Name     string
	Apply    func()
	Call     func(ctx context.Context) (T, error)
	Commit   func(T)
	Rollback func(error)
}

// Dispatcher runs the network half of optimistic writes in the background and
// lets callers wait for everything in flight.
type Dispatcher struct {
	policy Policy
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher whose background calls are bound to ctx.
func NewDispatcher(ctx context.Context, policy Policy) *Dispatcher {
	ctx, cancel := context.WithCancel(ctx)
	return &Dispatcher{
		policy: policy,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Policy returns the retry policy used for background calls.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Go runs fn in the background and tracks it for Wait.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("op", name).Msg("background write panicked")
			}
		}()
		fn(d.ctx)
	}()
}

// Wait blocks until every background call has settled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels in-flight backoff waits and waits for them to return.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

// Optimistic applies w locally, then retries w.Call in the background.
func Optimistic[T any](d *Dispatcher, w Write[T]) {
	if w.Apply != nil {
		w.Apply()
	}
	d.Go(w.Name, func(ctx context.Context) {
		result, err := Do(ctx, d.policy, w.Name, w.Call)
		if err != nil {
			if w.Rollback != nil {
				w.Rollback(err)
			}
			return
		}
		if w.Commit != nil {
			w.Commit(result)
		}
	})
}
