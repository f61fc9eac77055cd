package korfball_client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// ListEvents returns the game's timeline, oldest first.
func (c *Client) ListEvents(ctx context.Context, gameID uuid.UUID) ([]models.MatchEvent, error) {
	var events []models.MatchEvent
	if err := c.Get(ctx, eventsPath(gameID), &events); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
