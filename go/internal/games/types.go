package games

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// CreateGameRequest represents the data needed to schedule a game
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

// SaveRosterRequest replaces the game roster for both teams.
type SaveRosterRequest struct {
	Players []models.LineupPlayer `json:"players"`
}

// TimerMutation edits the clock fields of a locked game row. Returning
// true ends the game's active possession in the same transaction.
type TimerMutation func(g *models.Game) (endPossession bool, err error)
