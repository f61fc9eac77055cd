package korfball_client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/clients"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// CreatePossessionRequest starts a possession. The server ends any other active one.
type CreatePossessionRequest struct {
	TeamID    uuid.UUID `json:"team_id"`
	Period    int       `json:"period"`
	StartedAt time.Time `json:"started_at"`
}

func (c *Client) CreatePossession(ctx context.Context, gameID uuid.UUID, req CreatePossessionRequest) (*models.Possession, error) {
	var p models.Possession
	if err := c.Post(ctx, possessionsPath(gameID), req, &p); err != nil {
		return nil, fmt.Errorf("failed to create possession: %w", err)
	}
	return &p, nil
}

// GetActivePossession returns (nil, nil) when the game has no active possession.
func (c *Client) GetActivePossession(ctx context.Context, gameID uuid.UUID) (*models.Possession, error) {
	var p models.Possession
	if err := c.Get(ctx, activePossessionPath(gameID), &p); err != nil {
		if clients.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active possession: %w", err)
	}
	return &p, nil
}

func (c *Client) IncrementPossessionShots(ctx context.Context, gameID, possessionID uuid.UUID) (*models.Possession, error) {
	var p models.Possession
	if err := c.Post(ctx, incrementPossessionPath(gameID, possessionID), nil, &p); err != nil {
		return nil, fmt.Errorf("failed to increment possession shots: %w", err)
	}
	return &p, nil
}

func (c *Client) ListPossessions(ctx context.Context, gameID uuid.UUID) ([]models.Possession, error) {
	var ps []models.Possession
	if err := c.Get(ctx, possessionsPath(gameID), &ps); err != nil {
		return nil, fmt.Errorf("failed to list possessions: %w", err)
	}
	return ps, nil
}
