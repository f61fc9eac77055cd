package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const gameColumns = `id, home_team_id, away_team_id, home_team_name, away_team_name,
    home_score, away_score, current_period, number_of_periods, period_duration,
    time_remaining, timer_state, timer_started_at, period_end_handled,
    home_attacking_side, status, scheduled_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (Game, error) {
	var i Game
	err := row.Scan(
		&i.ID,
		&i.HomeTeamID,
		&i.AwayTeamID,
		&i.HomeTeamName,
		&i.AwayTeamName,
		&i.HomeScore,
		&i.AwayScore,
		&i.CurrentPeriod,
		&i.NumberOfPeriods,
		&i.PeriodDuration,
		&i.TimeRemaining,
		&i.TimerState,
		&i.TimerStartedAt,
		&i.PeriodEndHandled,
		&i.HomeAttackingSide,
		&i.Status,
		&i.ScheduledAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createGame = `-- name: CreateGame :one
INSERT INTO games (
    home_team_id, away_team_id, home_team_name, away_team_name,
    number_of_periods, period_duration, time_remaining,
    home_attacking_side, scheduled_at
) VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $8)
RETURNING ` + gameColumns

type CreateGameParams struct {
	HomeTeamID        uuid.UUID
	AwayTeamID        uuid.UUID
	HomeTeamName      string
	AwayTeamName      string
	NumberOfPeriods   int32
	PeriodDuration    int32
	HomeAttackingSide string
	ScheduledAt       sql.NullTime
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, createGame,
		arg.HomeTeamID,
		arg.AwayTeamID,
		arg.HomeTeamName,
		arg.AwayTeamName,
		arg.NumberOfPeriods,
		arg.PeriodDuration,
		arg.HomeAttackingSide,
		arg.ScheduledAt,
	)
	return scanGame(row)
}

const getGame = `-- name: GetGame :one
SELECT ` + gameColumns + ` FROM games WHERE id = $1`

func (q *Queries) GetGame(ctx context.Context, id uuid.UUID) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	return scanGame(row)
}

const getGameForUpdate = `-- name: GetGameForUpdate :one
SELECT ` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`

func (q *Queries) GetGameForUpdate(ctx context.Context, id uuid.UUID) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGameForUpdate, id)
	return scanGame(row)
}

const listRunningGames = `-- name: ListRunningGames :many
SELECT ` + gameColumns + ` FROM games
WHERE timer_state = 'running' AND status = 'in_progress'
ORDER BY id`

func (q *Queries) ListRunningGames(ctx context.Context) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listRunningGames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Game
	for rows.Next() {
		i, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateGameDetails = `-- name: UpdateGameDetails :one
UPDATE games SET
    status = $2,
    home_attacking_side = $3,
    home_team_name = $4,
    away_team_name = $5,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + gameColumns

type UpdateGameDetailsParams struct {
	ID                uuid.UUID
	Status            string
	HomeAttackingSide string
	HomeTeamName      string
	AwayTeamName      string
}

func (q *Queries) UpdateGameDetails(ctx context.Context, arg UpdateGameDetailsParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, updateGameDetails,
		arg.ID,
		arg.Status,
		arg.HomeAttackingSide,
		arg.HomeTeamName,
		arg.AwayTeamName,
	)
	return scanGame(row)
}

const updateGameTimer = `-- name: UpdateGameTimer :one
UPDATE games SET
    current_period = $2,
    time_remaining = $3,
    timer_state = $4,
    timer_started_at = $5,
    period_end_handled = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + gameColumns

type UpdateGameTimerParams struct {
	ID               uuid.UUID
	CurrentPeriod    int32
	TimeRemaining    int32
	TimerState       string
	TimerStartedAt   sql.NullTime
	PeriodEndHandled int32
}

func (q *Queries) UpdateGameTimer(ctx context.Context, arg UpdateGameTimerParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, updateGameTimer,
		arg.ID,
		arg.CurrentPeriod,
		arg.TimeRemaining,
		arg.TimerState,
		arg.TimerStartedAt,
		arg.PeriodEndHandled,
	)
	return scanGame(row)
}

const adjustGameScore = `-- name: AdjustGameScore :one
UPDATE games SET
    home_score = GREATEST(0, home_score + $2),
    away_score = GREATEST(0, away_score + $3),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + gameColumns

type AdjustGameScoreParams struct {
	ID        uuid.UUID
	HomeDelta int32
	AwayDelta int32
}

func (q *Queries) AdjustGameScore(ctx context.Context, arg AdjustGameScoreParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, adjustGameScore, arg.ID, arg.HomeDelta, arg.AwayDelta)
	return scanGame(row)
}

const resetGame = `-- name: ResetGame :one
UPDATE games SET
    home_score = 0,
    away_score = 0,
    current_period = 1,
    time_remaining = period_duration,
    timer_state = 'stopped',
    timer_started_at = NULL,
    period_end_handled = 0,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + gameColumns

func (q *Queries) ResetGame(ctx context.Context, id uuid.UUID) (Game, error) {
	row := q.db.QueryRowContext(ctx, resetGame, id)
	return scanGame(row)
}
