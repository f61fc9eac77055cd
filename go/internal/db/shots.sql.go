package db

import (
	"context"

	"github.com/google/uuid"
)

const shotColumns = `id, game_id, team_id, player_id, x_coord, y_coord, result, shot_type, distance, period, created_at`

func scanShot(row rowScanner) (Shot, error) {
	var i Shot
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.TeamID,
		&i.PlayerID,
		&i.XCoord,
		&i.YCoord,
		&i.Result,
		&i.ShotType,
		&i.Distance,
		&i.Period,
		&i.CreatedAt,
	)
	return i, err
}

const createShot = `-- name: CreateShot :one
INSERT INTO shots (game_id, team_id, player_id, x_coord, y_coord, result, shot_type, distance, period)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + shotColumns

type CreateShotParams struct {
	GameID   uuid.UUID
	TeamID   uuid.UUID
	PlayerID uuid.UUID
	XCoord   float64
	YCoord   float64
	Result   string
	ShotType string
	Distance float64
	Period   int32
}

func (q *Queries) CreateShot(ctx context.Context, arg CreateShotParams) (Shot, error) {
	row := q.db.QueryRowContext(ctx, createShot,
		arg.GameID,
		arg.TeamID,
		arg.PlayerID,
		arg.XCoord,
		arg.YCoord,
		arg.Result,
		arg.ShotType,
		arg.Distance,
		arg.Period,
	)
	return scanShot(row)
}

const listShots = `-- name: ListShots :many
SELECT ` + shotColumns + ` FROM shots
WHERE game_id = $1
ORDER BY created_at, id`

func (q *Queries) ListShots(ctx context.Context, gameID uuid.UUID) ([]Shot, error) {
	rows, err := q.db.QueryContext(ctx, listShots, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Shot
	for rows.Next() {
		i, err := scanShot(rows)
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

const deleteShot = `-- name: DeleteShot :one
DELETE FROM shots WHERE id = $1 AND game_id = $2
RETURNING ` + shotColumns

type DeleteShotParams struct {
	ID     uuid.UUID
	GameID uuid.UUID
}

func (q *Queries) DeleteShot(ctx context.Context, arg DeleteShotParams) (Shot, error) {
	row := q.db.QueryRowContext(ctx, deleteShot, arg.ID, arg.GameID)
	return scanShot(row)
}

const deleteShotsByGame = `-- name: DeleteShotsByGame :exec
DELETE FROM shots WHERE game_id = $1`

func (q *Queries) DeleteShotsByGame(ctx context.Context, gameID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteShotsByGame, gameID)
	return err
}
