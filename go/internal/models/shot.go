package models

import (
	"time"

	"github.com/google/uuid"
)

// ShotResult is the outcome of a shot attempt.
type ShotResult string

const (
	ShotResultGoal    ShotResult = "goal"
	ShotResultMiss    ShotResult = "miss"
	ShotResultBlocked ShotResult = "blocked"
)

// Valid reports whether r is a known result.
func (r ShotResult) Valid() bool {
	return r == ShotResultGoal || r == ShotResultMiss || r == ShotResultBlocked
}

// Common shot types. The field is free text; these are the ones the UI offers.
const (
	ShotTypeRunning  = "running_shot"
	ShotTypeStanding = "standing_shot"
	ShotTypeRebound  = "rebound"
	ShotTypePenalty  = "penalty"
	ShotTypeFreePass = "free_pass"
)

// Shot is an immutable shot event. Deleting it is the only correction.
type Shot struct {
	ID        uuid.UUID  `json:"id"`
	GameID    uuid.UUID  `json:"game_id"`
	TeamID    uuid.UUID  `json:"team_id"`
	PlayerID  uuid.UUID  `json:"player_id"`
	XCoord    float64    `json:"x_coord"`
	YCoord    float64    `json:"y_coord"`
	Result    ShotResult `json:"result"`
	ShotType  string     `json:"shot_type"`
	Distance  float64    `json:"distance"` // meters
	Period    int        `json:"period"`
	CreatedAt time.Time  `json:"created_at"`
}
