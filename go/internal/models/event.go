package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MatchEventType names a domain event emitted by the match server.
type MatchEventType string

const (
	EventTimerStarted      MatchEventType = "timer_started"
	EventTimerPaused       MatchEventType = "timer_paused"
	EventPeriodAdvanced    MatchEventType = "period_advanced"
	EventPeriodEnded       MatchEventType = "period_ended"
	EventMatchReset        MatchEventType = "match_reset"
	EventStatusChanged     MatchEventType = "status_changed"
	EventPossessionStarted MatchEventType = "possession_started"
	EventShotRecorded      MatchEventType = "shot_recorded"
	EventGoalScored        MatchEventType = "goal_scored"
	EventShotDeleted       MatchEventType = "shot_deleted"
	EventRosterSaved       MatchEventType = "roster_saved"
)

// MatchEvent is a persisted timeline entry for a game.
type MatchEvent struct {
	ID        uuid.UUID       `json:"id"`
	GameID    uuid.UUID       `json:"game_id"`
	Type      MatchEventType  `json:"type"`
	Period    int             `json:"period"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
