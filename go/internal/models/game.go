package models

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus defines the lifecycle status of a match.
type GameStatus string

const (
	GameStatusScheduled    GameStatus = "scheduled"
	GameStatusToReschedule GameStatus = "to_reschedule"
	GameStatusInProgress   GameStatus = "in_progress"
	GameStatusCompleted    GameStatus = "completed"
	GameStatusCancelled    GameStatus = "cancelled"
)

// IsTerminal reports whether no further match mutations are allowed.
func (s GameStatus) IsTerminal() bool {
	return s == GameStatusCompleted || s == GameStatusCancelled
}

// IsPreMatch reports whether the match has not started yet.
func (s GameStatus) IsPreMatch() bool {
	return s == GameStatusScheduled || s == GameStatusToReschedule
}

// Valid reports whether s is a known status.
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusScheduled, GameStatusToReschedule, GameStatusInProgress, GameStatusCompleted, GameStatusCancelled:
		return true
	}
	return false
}

// AttackingSide is the half of the court a team shoots toward.
type AttackingSide string

const (
	AttackingSideUnset AttackingSide = ""
	AttackingSideLeft  AttackingSide = "left"
	AttackingSideRight AttackingSide = "right"
)

// Opposite returns the other half. Unset stays unset.
func (s AttackingSide) Opposite() AttackingSide {
	switch s {
	case AttackingSideLeft:
		return AttackingSideRight
	case AttackingSideRight:
		return AttackingSideLeft
	}
	return AttackingSideUnset
}

// Game represents a korfball match. The server owns it; clients hold a cached copy.
type Game struct {
	ID                uuid.UUID     `json:"id"`
	HomeTeamID        uuid.UUID     `json:"home_team_id"`
	AwayTeamID        uuid.UUID     `json:"away_team_id"`
	HomeTeamName      string        `json:"home_team_name"`
	AwayTeamName      string        `json:"away_team_name"`
	HomeScore         int           `json:"home_score"`
	AwayScore         int           `json:"away_score"`
	CurrentPeriod     int           `json:"current_period"`
	NumberOfPeriods   int           `json:"number_of_periods"`
	PeriodDuration    int           `json:"period_duration"` // seconds
	TimeRemaining     int           `json:"time_remaining"`  // seconds
	TimerState        TimerStatus   `json:"timer_state"`
	HomeAttackingSide AttackingSide `json:"home_attacking_side"`
	Status            GameStatus    `json:"status"`
	ScheduledAt       *time.Time    `json:"scheduled_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	// Server-internal clock bookkeeping, not serialized to clients.
	TimerStartedAt   *time.Time `json:"-"`
	PeriodEndHandled int        `json:"-"`
}

// TeamSide identifies home or away within one game.
type TeamSide string

const (
	TeamSideHome TeamSide = "home"
	TeamSideAway TeamSide = "away"
)

// Opponent returns the other side.
func (s TeamSide) Opponent() TeamSide {
	if s == TeamSideHome {
		return TeamSideAway
	}
	return TeamSideHome
}

// TeamID returns the team identifier for side.
func (g *Game) TeamID(side TeamSide) uuid.UUID {
	if side == TeamSideHome {
		return g.HomeTeamID
	}
	return g.AwayTeamID
}

// SideOf returns which side teamID plays on, false when the team is not in this game.
func (g *Game) SideOf(teamID uuid.UUID) (TeamSide, bool) {
	switch teamID {
	case g.HomeTeamID:
		return TeamSideHome, true
	case g.AwayTeamID:
		return TeamSideAway, true
	}
	return "", false
}

// OpponentOf returns the opposing team id, uuid.Nil when teamID is not in this game.
func (g *Game) OpponentOf(teamID uuid.UUID) uuid.UUID {
	side, ok := g.SideOf(teamID)
	if !ok {
		return uuid.Nil
	}
	return g.TeamID(side.Opponent())
}

// Timer projects the clock fields of the game.
func (g *Game) Timer() TimerState {
	return TimerState{
		CurrentPeriod:   g.CurrentPeriod,
		NumberOfPeriods: g.NumberOfPeriods,
		TimeRemaining:   g.TimeRemaining,
		TimerState:      g.TimerState,
		PeriodDuration:  g.PeriodDuration,
	}
}
