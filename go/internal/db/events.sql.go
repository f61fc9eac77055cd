package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const insertMatchEvent = `-- name: InsertMatchEvent :one
INSERT INTO match_events (game_id, event_type, period, details)
VALUES ($1, $2, $3, $4)
RETURNING id, game_id, event_type, period, details, created_at`

type InsertMatchEventParams struct {
	GameID    uuid.UUID
	EventType string
	Period    int32
	Details   pqtype.NullRawMessage
}

func (q *Queries) InsertMatchEvent(ctx context.Context, arg InsertMatchEventParams) (MatchEvent, error) {
	row := q.db.QueryRowContext(ctx, insertMatchEvent, arg.GameID, arg.EventType, arg.Period, arg.Details)
	var i MatchEvent
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.EventType,
		&i.Period,
		&i.Details,
		&i.CreatedAt,
	)
	return i, err
}

const listMatchEvents = `-- name: ListMatchEvents :many
SELECT id, game_id, event_type, period, details, created_at
FROM match_events
WHERE game_id = $1
ORDER BY created_at, id`

func (q *Queries) ListMatchEvents(ctx context.Context, gameID uuid.UUID) ([]MatchEvent, error) {
	rows, err := q.db.QueryContext(ctx, listMatchEvents, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchEvent
	for rows.Next() {
		var i MatchEvent
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.EventType,
			&i.Period,
			&i.Details,
			&i.CreatedAt,
		); err != nil {
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

const deleteMatchEventsByGame = `-- name: DeleteMatchEventsByGame :exec
DELETE FROM match_events WHERE game_id = $1`

func (q *Queries) DeleteMatchEventsByGame(ctx context.Context, gameID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteMatchEventsByGame, gameID)
	return err
}
