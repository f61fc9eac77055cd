package db

import (
	"context"

	"github.com/google/uuid"
)

const insertRosterPlayer = `-- name: InsertRosterPlayer :exec
INSERT INTO roster_players (game_id, player_id, team_id, name, gender, position, selected, is_captain)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

type InsertRosterPlayerParams struct {
	GameID    uuid.UUID
	PlayerID  uuid.UUID
	TeamID    uuid.UUID
	Name      string
	Gender    string
	Position  string
	Selected  bool
	IsCaptain bool
}

func (q *Queries) InsertRosterPlayer(ctx context.Context, arg InsertRosterPlayerParams) error {
	_, err := q.db.ExecContext(ctx, insertRosterPlayer,
		arg.GameID,
		arg.PlayerID,
		arg.TeamID,
		arg.Name,
		arg.Gender,
		arg.Position,
		arg.Selected,
		arg.IsCaptain,
	)
	return err
}

const deleteRosterByGame = `-- name: DeleteRosterByGame :exec
DELETE FROM roster_players WHERE game_id = $1`

func (q *Queries) DeleteRosterByGame(ctx context.Context, gameID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteRosterByGame, gameID)
	return err
}

const listRosterPlayers = `-- name: ListRosterPlayers :many
SELECT game_id, player_id, team_id, name, gender, position, selected, is_captain, updated_at
FROM roster_players
WHERE game_id = $1
ORDER BY team_id, name`

func (q *Queries) ListRosterPlayers(ctx context.Context, gameID uuid.UUID) ([]RosterPlayer, error) {
	rows, err := q.db.QueryContext(ctx, listRosterPlayers, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RosterPlayer
	for rows.Next() {
		var i RosterPlayer
		if err := rows.Scan(
			&i.GameID,
			&i.PlayerID,
			&i.TeamID,
			&i.Name,
			&i.Gender,
			&i.Position,
			&i.Selected,
			&i.IsCaptain,
			&i.UpdatedAt,
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
