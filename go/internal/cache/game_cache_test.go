package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

func TestSnapshotKeepsClockFields(t *testing.T) {
	started := time.Date(2026, 5, 9, 14, 0, 0, 0, time.UTC)
	g := &models.Game{
		ID:               uuid.New(),
		HomeScore:        4,
		CurrentPeriod:    2,
		TimeRemaining:    600,
		TimerState:       models.TimerRunning,
		TimerStartedAt:   &started,
		PeriodEndHandled: 1,
	}
	data, err := encode(g)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.TimerStartedAt == nil || !got.TimerStartedAt.Equal(started) {
		t.Errorf("TimerStartedAt = %v, want %v", got.TimerStartedAt, started)
	}
	if got.PeriodEndHandled != 1 || got.HomeScore != 4 || got.TimeRemaining != 600 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestGameCache_Redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	c := NewGameCache(client, time.Minute)
	g := &models.Game{ID: uuid.New(), AwayScore: 2}
	if _, ok := c.Get(ctx, g.ID); ok {
		t.Fatal("hit before set")
	}
	c.Set(ctx, g)
	got, ok := c.Get(ctx, g.ID)
	if !ok || got.AwayScore != 2 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	c.Invalidate(ctx, g.ID)
	if _, ok := c.Get(ctx, g.ID); ok {
		t.Error("hit after invalidate")
	}
}
