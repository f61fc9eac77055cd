package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const possessionColumns = `id, game_id, team_id, period, started_at, ended_at, shots_taken`

func scanPossession(row rowScanner) (Possession, error) {
	var i Possession
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.TeamID,
		&i.Period,
		&i.StartedAt,
		&i.EndedAt,
		&i.ShotsTaken,
	)
	return i, err
}

const createPossession = `-- name: CreatePossession :one
INSERT INTO possessions (game_id, team_id, period, started_at, ended_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + possessionColumns

type CreatePossessionParams struct {
	GameID    uuid.UUID
	TeamID    uuid.UUID
	Period    int32
	StartedAt time.Time
	EndedAt   sql.NullTime
}

func (q *Queries) CreatePossession(ctx context.Context, arg CreatePossessionParams) (Possession, error) {
	row := q.db.QueryRowContext(ctx, createPossession, arg.GameID, arg.TeamID, arg.Period, arg.StartedAt, arg.EndedAt)
	return scanPossession(row)
}

const endActivePossessions = `-- name: EndActivePossessions :execrows
UPDATE possessions SET ended_at = $2
WHERE game_id = $1 AND ended_at IS NULL`

type EndActivePossessionsParams struct {
	GameID  uuid.UUID
	EndedAt time.Time
}

func (q *Queries) EndActivePossessions(ctx context.Context, arg EndActivePossessionsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, endActivePossessions, arg.GameID, arg.EndedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getActivePossession = `-- name: GetActivePossession :one
SELECT ` + possessionColumns + ` FROM possessions
WHERE game_id = $1 AND ended_at IS NULL
LIMIT 1`

func (q *Queries) GetActivePossession(ctx context.Context, gameID uuid.UUID) (Possession, error) {
	row := q.db.QueryRowContext(ctx, getActivePossession, gameID)
	return scanPossession(row)
}

const incrementPossessionShots = `-- name: IncrementPossessionShots :one
UPDATE possessions SET shots_taken = shots_taken + 1
WHERE id = $1 AND game_id = $2
RETURNING ` + possessionColumns

type IncrementPossessionShotsParams struct {
	ID     uuid.UUID
	GameID uuid.UUID
}

func (q *Queries) IncrementPossessionShots(ctx context.Context, arg IncrementPossessionShotsParams) (Possession, error) {
	row := q.db.QueryRowContext(ctx, incrementPossessionShots, arg.ID, arg.GameID)
	return scanPossession(row)
}

const listPossessions = `-- name: ListPossessions :many
SELECT ` + possessionColumns + ` FROM possessions
WHERE game_id = $1
ORDER BY started_at`

func (q *Queries) ListPossessions(ctx context.Context, gameID uuid.UUID) ([]Possession, error) {
	rows, err := q.db.QueryContext(ctx, listPossessions, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Possession
	for rows.Next() {
		i, err := scanPossession(rows)
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

const deletePossessionsByGame = `-- name: DeletePossessionsByGame :exec
DELETE FROM possessions WHERE game_id = $1`

func (q *Queries) DeletePossessionsByGame(ctx context.Context, gameID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deletePossessionsByGame, gameID)
	return err
}
