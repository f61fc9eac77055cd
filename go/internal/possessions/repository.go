package possessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/apperr"
	"github.com/mcdev12/korfscore/go/internal/db"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/mcdev12/korfscore/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetActivePossession(ctx context.Context, gameID uuid.UUID) (db.Possession, error)
	IncrementPossessionShots(ctx context.Context, arg db.IncrementPossessionShotsParams) (db.Possession, error)
	ListPossessions(ctx context.Context, gameID uuid.UUID) ([]db.Possession, error)
}

// Repository implements possession data access
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

// CreatePossession ends the game's active possession and starts a new one in one transaction.
// A start older than the active possession never ends it; the late possession
// is stored as already over at the moment the newer one began.
func (r *Repository) CreatePossession(ctx context.Context, gameID uuid.UUID, req CreatePossessionRequest) (*models.Possession, error) {
	var out *models.Possession
	err := sqlutil.Run(ctx, r.db, r.txQueries, func(q *db.Queries) error {
		if _, err := q.GetGameForUpdate(ctx, gameID); err != nil {
			return sqlutil.NotFound(err, "game")
		}
		var active *db.Possession
		row, err := q.GetActivePossession(ctx, gameID)
		switch {
		case err == nil:
			active = &row
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("get active possession: %w", err)
		}
		endedAt := lateEnd(active, req.StartedAt)
		if !endedAt.Valid {
			if _, err := q.EndActivePossessions(ctx, db.EndActivePossessionsParams{
				GameID:  gameID,
				EndedAt: req.StartedAt,
			}); err != nil {
				return fmt.Errorf("end active possession: %w", err)
			}
		}
		row, err = q.CreatePossession(ctx, db.CreatePossessionParams{
			GameID:    gameID,
			TeamID:    req.TeamID,
			Period:    int32(req.Period),
			StartedAt: req.StartedAt,
			EndedAt:   endedAt,
		})
		if sqlutil.IsUniqueViolation(err) {
			return apperr.Conflict("another possession was started concurrently")
		}
		if err != nil {
			return fmt.Errorf("insert possession: %w", err)
		}
		out = dbPossessionToModel(row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create possession: %w", err)
	}
	return out, nil
}

// lateEnd reports when a possession starting at startedAt is already over.
// It is only set when active began after startedAt.
func lateEnd(active *db.Possession, startedAt time.Time) sql.NullTime {
	if active == nil || !active.StartedAt.After(startedAt) {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: active.StartedAt, Valid: true}
}

func (r *Repository) GetActivePossession(ctx context.Context, gameID uuid.UUID) (*models.Possession, error) {
	row, err := r.queries.GetActivePossession(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active possession: %w", sqlutil.NotFound(err, "active possession"))
	}
	return dbPossessionToModel(row), nil
}

func (r *Repository) IncrementShots(ctx context.Context, gameID, possessionID uuid.UUID) (*models.Possession, error) {
	row, err := r.queries.IncrementPossessionShots(ctx, db.IncrementPossessionShotsParams{
		ID:     possessionID,
		GameID: gameID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to increment possession shots: %w", sqlutil.NotFound(err, "possession"))
	}
	return dbPossessionToModel(row), nil
}

func (r *Repository) ListPossessions(ctx context.Context, gameID uuid.UUID) ([]models.Possession, error) {
	rows, err := r.queries.ListPossessions(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list possessions: %w", err)
	}
	out := make([]models.Possession, len(rows))
	for i, row := range rows {
		out[i] = *dbPossessionToModel(row)
	}
	return out, nil
}

func (r *Repository) txQueries(tx *sql.Tx) *db.Queries {
	return db.New(tx)
}

func dbPossessionToModel(row db.Possession) *models.Possession {
	return &models.Possession{
		ID:         row.ID,
		GameID:     row.GameID,
		TeamID:     row.TeamID,
		Period:     int(row.Period),
		StartedAt:  row.StartedAt.UTC(),
		EndedAt:    sqlutil.FromSqlTime(row.EndedAt),
		ShotsTaken: int(row.ShotsTaken),
	}
}

