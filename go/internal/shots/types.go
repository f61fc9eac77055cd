package shots

import (
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// CreateShotRequest persists a shot. Distance is recomputed when zero.
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
