// Package retry wraps idempotent-ish writes with capped exponential backoff
// and pairs them with optimistic local mutations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// Policy controls how many times a failed call is retried and how long to wait.
// Attempt n (0-based) waits BaseDelay * 2^n before the next attempt.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Clock      clockwork.Clock
}

// DefaultPolicy gives 4 attempts in total: 1s, 2s and 4s apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Clock:      clockwork.NewRealClock(),
	}
}

// WithClock returns a copy of p using clock.
func (p Policy) WithClock(clock clockwork.Clock) Policy {
	p.Clock = clock
	return p
}

// Delay returns the wait after the given 0-based failed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

func (p Policy) clock() clockwork.Clock {
	if p.Clock == nil {
		return clockwork.NewRealClock()
	}
	return p.Clock
}

type statusCoder interface {
	StatusCode() int
}

// IsPermanent reports whether err carries a 4xx client status. Those are
// never retried.
func IsPermanent(err error) bool {
	var sc statusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		return code >= http.StatusBadRequest && code < http.StatusInternalServerError
	}
	return false
}

// Do runs op until it succeeds, fails permanently, or the retries are spent.
// The last error is returned unchanged so callers can inspect it.
func Do[T any](ctx context.Context, p Policy, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	clock := p.clock()

	for attempt := 0; ; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}

		if IsPermanent(err) {
			log.Debug().Err(err).Str("op", name).Msg("client error, not retrying")
			return result, err
		}

		if attempt >= p.MaxRetries {
			log.Error().
				Err(err).
				Str("op", name).
				Int("attempts", attempt+1).
				Msg("giving up after retries")
			return result, err
		}

		delay := p.Delay(attempt)
		log.Warn().
			Err(err).
			Str("op", name).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("write failed, retrying")

		select {
		case <-clock.After(delay):
		case <-ctx.Done():
			return result, fmt.Errorf("%s: %w (last error: %v)", name, ctx.Err(), err)
		}
	}
}

// Exec is Do for calls without a result.
func Exec(ctx context.Context, p Policy, name string, op func(ctx context.Context) error) error {
	_, err := Do(ctx, p, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
