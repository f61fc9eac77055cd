// Package events records the match timeline and fans each entry out to
// live subscribers.
package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Store persists events.
type Store interface {
	InsertEvent(ctx context.Context, gameID uuid.UUID, eventType models.MatchEventType, period int, details json.RawMessage) (*models.MatchEvent, error)
	ListEvents(ctx context.Context, gameID uuid.UUID) ([]models.MatchEvent, error)
}

// Publisher delivers a persisted event to one downstream channel.
type Publisher interface {
	Publish(ctx context.Context, event models.MatchEvent) error
}

// Emitter persists match events and then publishes them.
type Emitter struct {
	store      Store
	publishers []Publisher
	clock      clockwork.Clock
}

func NewEmitter(store Store, clock clockwork.Clock, publishers ...Publisher) *Emitter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Emitter{
		store:      store,
		publishers: publishers,
		clock:      clock,
	}
}

// Emit never fails the caller: the mutation it describes has already
// happened. Persist and publish failures are logged.
func (e *Emitter) Emit(ctx context.Context, gameID uuid.UUID, eventType models.MatchEventType, period int, details interface{}) {
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to marshal event details")
		} else {
			raw = b
		}
	}

	event, err := e.store.InsertEvent(ctx, gameID, eventType, period, raw)
	if err != nil {
		log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to persist match event")
		event = &models.MatchEvent{
			ID:        uuid.New(),
			GameID:    gameID,
			Type:      eventType,
			Period:    period,
			Details:   raw,
			CreatedAt: e.clock.Now().UTC(),
		}
	}

	for _, p := range e.publishers {
		if err := p.Publish(ctx, *event); err != nil {
			log.Warn().
				Err(err).
				Str("game_id", gameID.String()).
				Str("event_type", string(eventType)).
				Msg("failed to publish match event")
		}
	}
}

// List returns the persisted timeline of a game.
func (e *Emitter) List(ctx context.Context, gameID uuid.UUID) ([]models.MatchEvent, error) {
	return e.store.ListEvents(ctx, gameID)
}
