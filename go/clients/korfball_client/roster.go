package korfball_client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// SaveRosterRequest replaces the game roster for both teams.
type SaveRosterRequest struct {
	Players []models.LineupPlayer `json:"players"`
}

func (c *Client) GetRoster(ctx context.Context, gameID uuid.UUID) (*models.Roster, error) {
	var r models.Roster
	if err := c.Get(ctx, rosterPath(gameID), &r); err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return &r, nil
}

func (c *Client) SaveRoster(ctx context.Context, gameID uuid.UUID, players []models.LineupPlayer) (*models.Roster, error) {
	var r models.Roster
	if err := c.Put(ctx, rosterPath(gameID), SaveRosterRequest{Players: players}, &r); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}
	return &r, nil
}
