// Package cache keeps short-lived game snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultTTL bounds how stale a snapshot can be if an invalidation is lost.
const DefaultTTL = 30 * time.Second

// snapshot carries the server-only clock fields models.Game hides from JSON.
type snapshot struct {
	Game             models.Game `json:"game"`
	TimerStartedAt   *time.Time  `json:"timer_started_at,omitempty"`
	PeriodEndHandled int         `json:"period_end_handled"`
}

// GameCache is a read-through cache of raw game rows. Redis errors degrade
// to cache misses.
type GameCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameCache(client *redis.Client, ttl time.Duration) *GameCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &GameCache{
		client: client,
		ttl:    ttl,
	}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func key(id uuid.UUID) string {
	return fmt.Sprintf("game:%s:snapshot", id)
}

func (c *GameCache) Get(ctx context.Context, id uuid.UUID) (*models.Game, bool) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("game_id", id.String()).Msg("game cache read failed")
		return nil, false
	}
	g, err := decode(data)
	if err != nil {
		log.Warn().Err(err).Str("game_id", id.String()).Msg("dropping unreadable game snapshot")
		c.Invalidate(ctx, id)
		return nil, false
	}
	return g, true
}

func (c *GameCache) Set(ctx context.Context, g *models.Game) {
	data, err := encode(g)
	if err != nil {
		log.Warn().Err(err).Str("game_id", g.ID.String()).Msg("failed to encode game snapshot")
		return
	}
	if err := c.client.Set(ctx, key(g.ID), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("game_id", g.ID.String()).Msg("game cache write failed")
	}
}

func (c *GameCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		log.Warn().Err(err).Str("game_id", id.String()).Msg("game cache invalidation failed")
	}
}

func encode(g *models.Game) ([]byte, error) {
	return json.Marshal(snapshot{
		Game:             *g,
		TimerStartedAt:   g.TimerStartedAt,
		PeriodEndHandled: g.PeriodEndHandled,
	})
}

func decode(data []byte) (*models.Game, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	g := s.Game
	g.TimerStartedAt = s.TimerStartedAt
	g.PeriodEndHandled = s.PeriodEndHandled
	return &g, nil
}
