package models

import (
	"time"

	"github.com/google/uuid"
)

// Possession is one continuous attacking spell by one team.
type Possession struct {
	ID         uuid.UUID  `json:"id"`
	GameID     uuid.UUID  `json:"game_id"`
	TeamID     uuid.UUID  `json:"team_id"`
	Period     int        `json:"period"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	ShotsTaken int        `json:"shots_taken"`
}

// Active reports whether the possession has not ended.
func (p *Possession) Active() bool {
	return p.EndedAt == nil
}
