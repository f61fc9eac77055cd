package korfball_client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

func (c *Client) GetTimer(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error) {
	var state models.TimerState
	if err := c.Get(ctx, timerPath(gameID), &state); err != nil {
		return nil, fmt.Errorf("failed to get timer: %w", err)
	}
	return &state, nil
}

func (c *Client) StartTimer(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error) {
	return c.timerAction(ctx, gameID, timerStartAction)
}

func (c *Client) PauseTimer(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error) {
	return c.timerAction(ctx, gameID, timerPauseAction)
}

func (c *Client) NextPeriod(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error) {
	return c.timerAction(ctx, gameID, timerNextPeriodAction)
}

// ResetMatch clears scores, shots, possessions and events server-side.
func (c *Client) ResetMatch(ctx context.Context, gameID uuid.UUID) (*models.TimerState, error) {
	return c.timerAction(ctx, gameID, timerResetMatchAction)
}

func (c *Client) timerAction(ctx context.Context, gameID uuid.UUID, action string) (*models.TimerState, error) {
	var state models.TimerState
	if err := c.Post(ctx, timerActionPath(gameID, action), nil, &state); err != nil {
		return nil, fmt.Errorf("failed to %s timer: %w", action, err)
	}
	return &state, nil
}
