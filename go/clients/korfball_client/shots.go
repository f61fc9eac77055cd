package korfball_client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// CreateShotRequest persists a shot. Distance is recomputed server-side when zero.
type CreateShotRequest struct {
	TeamID   uuid.UUID         `json:"team_id"`
	PlayerID uuid.UUID         `json:"player_id"`
	XCoord   float64           `json:"x_coord"`
	YCoord   float64           `json:"y_coord"`
	Result   models.ShotResult `json:"result"`
	ShotType string            `json:"shot_type"`
	Distance float64           `json:"distance"`
	Period   int               `json:"period"`
}

func (c *Client) CreateShot(ctx context.Context, gameID uuid.UUID, req CreateShotRequest) (*models.Shot, error) {
	var s models.Shot
	if err := c.Post(ctx, shotsPath(gameID), req, &s); err != nil {
		return nil, fmt.Errorf("failed to create shot: %w", err)
	}
	return &s, nil
}

func (c *Client) ListShots(ctx context.Context, gameID uuid.UUID) ([]models.Shot, error) {
	var shots []models.Shot
	if err := c.Get(ctx, shotsPath(gameID), &shots); err != nil {
		return nil, fmt.Errorf("failed to list shots: %w", err)
	}
	return shots, nil
}

func (c *Client) DeleteShot(ctx context.Context, gameID, shotID uuid.UUID) error {
	if err := c.Delete(ctx, shotPath(gameID, shotID)); err != nil {
		return fmt.Errorf("failed to delete shot: %w", err)
	}
	return nil
}
