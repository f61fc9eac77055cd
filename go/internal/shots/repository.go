package shots

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/db"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/mcdev12/korfscore/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	ListShots(ctx context.Context, gameID uuid.UUID) ([]db.Shot, error)
}

// Repository implements shot data access. Goals move the scoreboard in
// the same transaction as the shot row.
type Repository struct {
	queries Querier
	db      *sql.DB
}

func NewRepository(querier Querier, database *sql.DB) *Repository {
	return &Repository{
		queries: querier,
		db:      database,
	}
}

func (r *Repository) CreateShot(ctx context.Context, gameID uuid.UUID, req CreateShotRequest) (*models.Shot, error) {
	var out *models.Shot
	err := sqlutil.Run(ctx, r.db, r.txQueries, func(q *db.Queries) error {
		row, err := q.CreateShot(ctx, db.CreateShotParams{
			GameID:   gameID,
			TeamID:   req.TeamID,
			PlayerID: req.PlayerID,
			XCoord:   req.XCoord,
			YCoord:   req.YCoord,
			Result:   string(req.Result),
			ShotType: req.ShotType,
			Distance: req.Distance,
			Period:   int32(req.Period),
		})
		if err != nil {
			return fmt.Errorf("insert shot: %w", err)
		}
		if req.Result == models.ShotResultGoal {
			if err := adjustScore(ctx, q, gameID, req.TeamID, 1); err != nil {
				return err
			}
		}
		out = dbShotToModel(row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shot: %w", err)
	}
	return out, nil
}

// DeleteShot removes a shot and takes back its goal.
func (r *Repository) DeleteShot(ctx context.Context, gameID, shotID uuid.UUID) (*models.Shot, error) {
	var out *models.Shot
	err := sqlutil.Run(ctx, r.db, r.txQueries, func(q *db.Queries) error {
		row, err := q.DeleteShot(ctx, db.DeleteShotParams{ID: shotID, GameID: gameID})
		if err != nil {
			return sqlutil.NotFound(err, "shot")
		}
		if models.ShotResult(row.Result) == models.ShotResultGoal {
			if err := adjustScore(ctx, q, gameID, row.TeamID, -1); err != nil {
				return err
			}
		}
		out = dbShotToModel(row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete shot: %w", err)
	}
	return out, nil
}

func (r *Repository) ListShots(ctx context.Context, gameID uuid.UUID) ([]models.Shot, error) {
	rows, err := r.queries.ListShots(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shots: %w", err)
	}
	out := make([]models.Shot, len(rows))
	for i, row := range rows {
		out[i] = *dbShotToModel(row)
	}
	return out, nil
}

func adjustScore(ctx context.Context, q *db.Queries, gameID, teamID uuid.UUID, delta int32) error {
	game, err := q.GetGameForUpdate(ctx, gameID)
	if err != nil {
		return sqlutil.NotFound(err, "game")
	}
	arg := db.AdjustGameScoreParams{ID: gameID}
	if teamID == game.HomeTeamID {
		arg.HomeDelta = delta
	} else {
		arg.AwayDelta = delta
	}
	if _, err := q.AdjustGameScore(ctx, arg); err != nil {
		return fmt.Errorf("adjust score: %w", err)
	}
	return nil
}

func (r *Repository) txQueries(tx *sql.Tx) *db.Queries {
	return db.New(tx)
}

func dbShotToModel(row db.Shot) *models.Shot {
	return &models.Shot{
		ID:        row.ID,
		GameID:    row.GameID,
		TeamID:    row.TeamID,
		PlayerID:  row.PlayerID,
		XCoord:    row.XCoord,
		YCoord:    row.YCoord,
		Result:    models.ShotResult(row.Result),
		ShotType:  row.ShotType,
		Distance:  row.Distance,
		Period:    int(row.Period),
		CreatedAt: row.CreatedAt,
	}
}
