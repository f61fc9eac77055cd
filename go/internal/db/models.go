package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Game struct {
	ID                uuid.UUID
	HomeTeamID        uuid.UUID
	AwayTeamID        uuid.UUID
	HomeTeamName      string
	AwayTeamName      string
	HomeScore         int32
	AwayScore         int32
	CurrentPeriod     int32
	NumberOfPeriods   int32
	PeriodDuration    int32
	TimeRemaining     int32
	TimerState        string
	TimerStartedAt    sql.NullTime
	PeriodEndHandled  int32
	HomeAttackingSide string
	Status            string
	ScheduledAt       sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Possession struct {
	ID         uuid.UUID
	GameID     uuid.UUID
	TeamID     uuid.UUID
	Period     int32
	StartedAt  time.Time
	EndedAt    sql.NullTime
	ShotsTaken int32
}

type Shot struct {
	ID        uuid.UUID
	GameID    uuid.UUID
	TeamID    uuid.UUID
	PlayerID  uuid.UUID
	XCoord    float64
	YCoord    float64
	Result    string
	ShotType  string
	Distance  float64
	Period    int32
	CreatedAt time.Time
}

type RosterPlayer struct {
	GameID    uuid.UUID
	PlayerID  uuid.UUID
	TeamID    uuid.UUID
	Name      string
	Gender    string
	Position  string
	Selected  bool
	IsCaptain bool
	UpdatedAt time.Time
}

type MatchEvent struct {
	ID        uuid.UUID
	GameID    uuid.UUID
	EventType string
	Period    int32
	Details   pqtype.NullRawMessage
	CreatedAt time.Time
}
