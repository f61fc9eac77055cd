package models

import (
	"time"

	"github.com/google/uuid"
)

// LineupPosition is the zone a player starts in.
type LineupPosition string

const (
	LineupPositionNone    LineupPosition = ""
	LineupPositionOffense LineupPosition = "offense"
	LineupPositionDefense LineupPosition = "defense"
)

// LineupPlayer is one player's entry in a game roster.
type LineupPlayer struct {
	PlayerID  uuid.UUID      `json:"player_id"`
	TeamID    uuid.UUID      `json:"team_id"`
	Name      string         `json:"name"`
	Gender    Gender         `json:"gender"`
	Position  LineupPosition `json:"position,omitempty"`
	Selected  bool           `json:"selected"`
	IsCaptain bool           `json:"is_captain"`
}

// Roster is the saved game roster for both teams.
type Roster struct {
	GameID    uuid.UUID      `json:"game_id"`
	Players   []LineupPlayer `json:"players"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ForTeam returns the roster entries of one team.
func (r *Roster) ForTeam(teamID uuid.UUID) []LineupPlayer {
	var out []LineupPlayer
	for _, p := range r.Players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out
}
