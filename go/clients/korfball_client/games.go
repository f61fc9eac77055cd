package korfball_client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// CreateGameRequest creates a scheduled game.
type CreateGameRequest struct {
	HomeTeamID        uuid.UUID            `json:"home_team_id"`
	AwayTeamID        uuid.UUID            `json:"away_team_id"`
	HomeTeamName      string               `json:"home_team_name"`
	AwayTeamName      string               `json:"away_team_name"`
	NumberOfPeriods   int                  `json:"number_of_periods,omitempty"`
	PeriodDuration    int                  `json:"period_duration,omitempty"`
	HomeAttackingSide models.AttackingSide `json:"home_attacking_side,omitempty"`
	ScheduledAt       *time.Time           `json:"scheduled_at,omitempty"`
}

// UpdateGameRequest patches mutable game fields. Nil fields are left unchanged.
type UpdateGameRequest struct {
	Status            *models.GameStatus    `json:"status,omitempty"`
	HomeAttackingSide *models.AttackingSide `json:"home_attacking_side,omitempty"`
	HomeTeamName      *string               `json:"home_team_name,omitempty"`
	AwayTeamName      *string               `json:"away_team_name,omitempty"`
}

func (c *Client) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	var game models.Game
	if err := c.Post(ctx, GamesEndpoint, req, &game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &game, nil
}

func (c *Client) GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	var game models.Game
	if err := c.Get(ctx, gamePath(gameID), &game); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

func (c *Client) UpdateGame(ctx context.Context, gameID uuid.UUID, req UpdateGameRequest) (*models.Game, error) {
	var game models.Game
	if err := c.Patch(ctx, gamePath(gameID), req, &game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return &game, nil
}

// UpdateGameStatus is a shorthand for a status-only patch.
func (c *Client) UpdateGameStatus(ctx context.Context, gameID uuid.UUID, status models.GameStatus) (*models.Game, error) {
	return c.UpdateGame(ctx, gameID, UpdateGameRequest{Status: &status})
}
