package games

import (
	"context"
	"database/sql"
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
	CreateGame(ctx context.Context, arg db.CreateGameParams) (db.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (db.Game, error)
	ListRunningGames(ctx context.Context) ([]db.Game, error)
	UpdateGameDetails(ctx context.Context, arg db.UpdateGameDetailsParams) (db.Game, error)
	ListRosterPlayers(ctx context.Context, gameID uuid.UUID) ([]db.RosterPlayer, error)
}

// Repository implements game, clock and roster data access
type Repository struct {
	queries Querier
	db      *sql.DB
}

// NewRepository creates a new games repository
func NewRepository(querier Querier, database *sql.DB) *Repository {
	return &Repository{
		queries: querier,
		db:      database,
	}
}

func (r *Repository) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	row, err := r.queries.CreateGame(ctx, db.CreateGameParams{
		HomeTeamID:        req.HomeTeamID,
		AwayTeamID:        req.AwayTeamID,
		HomeTeamName:      req.HomeTeamName,
		AwayTeamName:      req.AwayTeamName,
		NumberOfPeriods:   int32(req.NumberOfPeriods),
		PeriodDuration:    int32(req.PeriodDuration),
		HomeAttackingSide: string(req.HomeAttackingSide),
		ScheduledAt:       sqlutil.ToSqlTime(req.ScheduledAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return DBGameToModel(row), nil
}

func (r *Repository) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	row, err := r.queries.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", sqlutil.NotFound(err, "game"))
	}
	return DBGameToModel(row), nil
}

func (r *Repository) ListRunningGames(ctx context.Context) ([]models.Game, error) {
	rows, err := r.queries.ListRunningGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list running games: %w", err)
	}
	out := make([]models.Game, len(rows))
	for i, row := range rows {
		out[i] = *DBGameToModel(row)
	}
	return out, nil
}

// UpdateDetails writes status, attacking side and team names.
func (r *Repository) UpdateDetails(ctx context.Context, g *models.Game) (*models.Game, error) {
	row, err := r.queries.UpdateGameDetails(ctx, db.UpdateGameDetailsParams{
		ID:                g.ID,
		Status:            string(g.Status),
		HomeAttackingSide: string(g.HomeAttackingSide),
		HomeTeamName:      g.HomeTeamName,
		AwayTeamName:      g.AwayTeamName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", sqlutil.NotFound(err, "game"))
	}
	return DBGameToModel(row), nil
}

// MutateTimer locks the game row, applies mutate and writes the clock fields back.
func (r *Repository) MutateTimer(ctx context.Context, gameID uuid.UUID, at time.Time, mutate TimerMutation) (*models.Game, error) {
	var out *models.Game
	err := sqlutil.Run(ctx, r.db, r.txQueries, func(q *db.Queries) error {
		row, err := q.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return sqlutil.NotFound(err, "game")
		}
		g := DBGameToModel(row)
		endPossession, err := mutate(g)
		if err != nil {
			return err
		}
		if endPossession {
			if _, err := q.EndActivePossessions(ctx, db.EndActivePossessionsParams{GameID: gameID, EndedAt: at}); err != nil {
				return fmt.Errorf("end active possession: %w", err)
			}
		}
		row, err = q.UpdateGameTimer(ctx, db.UpdateGameTimerParams{
			ID:               gameID,
			CurrentPeriod:    int32(g.CurrentPeriod),
			TimeRemaining:    int32(g.TimeRemaining),
			TimerState:       string(g.TimerState),
			TimerStartedAt:   sqlutil.ToSqlTime(g.TimerStartedAt),
			PeriodEndHandled: int32(g.PeriodEndHandled),
		})
		if err != nil {
			return fmt.Errorf("update timer: %w", err)
		}
		out = DBGameToModel(row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game timer: %w", err)
	}
	return out, nil
}

// ResetMatch clears scores, shots, possessions and events and rewinds the clock.
func (r *Repository) ResetMatch(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	var out *models.Game
	err := sqlutil.Run(ctx, r.db, r.txQueries, func(q *db.Queries) error {
		if _, err := q.GetGameForUpdate(ctx, gameID); err != nil {
			return sqlutil.NotFound(err, "game")
		}
		if err := q.DeleteShotsByGame(ctx, gameID); err != nil {
			return fmt.Errorf("delete shots: %w", err)
		}
		if err := q.DeletePossessionsByGame(ctx, gameID); err != nil {
			return fmt.Errorf("delete possessions: %w", err)
		}
		if err := q.DeleteMatchEventsByGame(ctx, gameID); err != nil {
			return fmt.Errorf("delete events: %w", err)
		}
		row, err := q.ResetGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("reset game: %w", err)
		}
		out = DBGameToModel(row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset match: %w", err)
	}
	return out, nil
}

func (r *Repository) GetRoster(ctx context.Context, gameID uuid.UUID) (*models.Roster, error) {
	rows, err := r.queries.ListRosterPlayers(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	roster := &models.Roster{GameID: gameID, Players: make([]models.LineupPlayer, 0, len(rows))}
	for _, row := range rows {
		roster.Players = append(roster.Players, models.LineupPlayer{
			PlayerID:  row.PlayerID,
			TeamID:    row.TeamID,
			Name:      row.Name,
			Gender:    models.Gender(row.Gender),
			Position:  models.LineupPosition(row.Position),
			Selected:  row.Selected,
			IsCaptain: row.IsCaptain,
		})
		if row.UpdatedAt.After(roster.UpdatedAt) {
			roster.UpdatedAt = row.UpdatedAt
		}
	}
	return roster, nil
}

// SaveRoster replaces every roster entry of the game.
func (r *Repository) SaveRoster(ctx context.Context, gameID uuid.UUID, players []models.LineupPlayer) error {
	err := sqlutil.Run(ctx, r.db, r.txQueries, func(q *db.Queries) error {
		if err := q.DeleteRosterByGame(ctx, gameID); err != nil {
			return fmt.Errorf("clear roster: %w", err)
		}
		for _, p := range players {
			err := q.InsertRosterPlayer(ctx, db.InsertRosterPlayerParams{
				GameID:    gameID,
				PlayerID:  p.PlayerID,
				TeamID:    p.TeamID,
				Name:      p.Name,
				Gender:    string(p.Gender),
				Position:  string(p.Position),
				Selected:  p.Selected,
				IsCaptain: p.IsCaptain,
			})
			if sqlutil.IsUniqueViolation(err) {
				return apperr.Invalid("player %s appears twice in the roster", p.PlayerID)
			}
			if err != nil {
				return fmt.Errorf("insert roster player: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

func (r *Repository) txQueries(tx *sql.Tx) *db.Queries {
	return db.New(tx)
}

// DBGameToModel converts a games row to the domain model.
func DBGameToModel(row db.Game) *models.Game {
	return &models.Game{
		ID:                row.ID,
		HomeTeamID:        row.HomeTeamID,
		AwayTeamID:        row.AwayTeamID,
		HomeTeamName:      row.HomeTeamName,
		AwayTeamName:      row.AwayTeamName,
		HomeScore:         int(row.HomeScore),
		AwayScore:         int(row.AwayScore),
		CurrentPeriod:     int(row.CurrentPeriod),
		NumberOfPeriods:   int(row.NumberOfPeriods),
		PeriodDuration:    int(row.PeriodDuration),
		TimeRemaining:     int(row.TimeRemaining),
		TimerState:        models.TimerStatus(row.TimerState),
		HomeAttackingSide: models.AttackingSide(row.HomeAttackingSide),
		Status:            models.GameStatus(row.Status),
		ScheduledAt:       sqlutil.FromSqlTime(row.ScheduledAt),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		TimerStartedAt:    sqlutil.FromSqlTime(row.TimerStartedAt),
		PeriodEndHandled:  int(row.PeriodEndHandled),
	}
}
