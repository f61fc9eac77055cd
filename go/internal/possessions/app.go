// Package possessions records which team holds the ball.
package possessions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/apperr"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// PossessionsRepository defines what the app layer needs from the repository
type PossessionsRepository interface {
	CreatePossession(ctx context.Context, gameID uuid.UUID, req CreatePossessionRequest) (*models.Possession, error)
	GetActivePossession(ctx context.Context, gameID uuid.UUID) (*models.Possession, error)
	IncrementShots(ctx context.Context, gameID, possessionID uuid.UUID) (*models.Possession, error)
	ListPossessions(ctx context.Context, gameID uuid.UUID) ([]models.Possession, error)
}

// GameReader loads the game a possession belongs to.
type GameReader interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
}

// EventEmitter records match events.
type EventEmitter interface {
	Emit(ctx context.Context, gameID uuid.UUID, eventType models.MatchEventType, period int, details interface{})
}

type App struct {
	repo   PossessionsRepository
	games  GameReader
	events EventEmitter
	clock  clockwork.Clock
}

func NewApp(repo PossessionsRepository, games GameReader, events EventEmitter, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:   repo,
		games:  games,
		events: events,
		clock:  clock,
	}
}

// CreatePossession starts a possession for a team in the game
func (a *App) CreatePossession(ctx context.Context, gameID uuid.UUID, req CreatePossessionRequest) (*models.Possession, error) {
	game, err := a.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status.IsTerminal() {
		return nil, apperr.Conflict("game is %s", game.Status)
	}
	side, ok := game.SideOf(req.TeamID)
	if !ok {
		return nil, apperr.Invalid("team %s does not play in this game", req.TeamID)
	}
	if req.Period == 0 {
		req.Period = game.CurrentPeriod
	}
	if req.Period < 1 || req.Period > game.NumberOfPeriods {
		return nil, apperr.Invalid("period must be between 1 and %d", game.NumberOfPeriods)
	}
	if req.StartedAt.IsZero() {
		req.StartedAt = a.clock.Now()
	}
	req.StartedAt = req.StartedAt.UTC()

	p, err := a.repo.CreatePossession(ctx, gameID, req)
	if err != nil {
		return nil, err
	}

	a.events.Emit(ctx, gameID, models.EventPossessionStarted, p.Period, map[string]interface{}{
		"possession_id": p.ID,
		"team_id":       p.TeamID,
		"side":          side,
	})
	log.Debug().
		Str("game_id", gameID.String()).
		Str("team_id", p.TeamID.String()).
		Msg("possession started")
	return p, nil
}

// GetActivePossession returns the game's active possession or a not-found error
func (a *App) GetActivePossession(ctx context.Context, gameID uuid.UUID) (*models.Possession, error) {
	if _, err := a.games.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return a.repo.GetActivePossession(ctx, gameID)
}

// IncrementShots bumps a possession's shot counter. Ended possessions still
// count shots that were in flight when they ended.
func (a *App) IncrementShots(ctx context.Context, gameID, possessionID uuid.UUID) (*models.Possession, error) {
	game, err := a.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status.IsTerminal() {
		return nil, apperr.Conflict("game is %s", game.Status)
	}
	return a.repo.IncrementShots(ctx, gameID, possessionID)
}

func (a *App) ListPossessions(ctx context.Context, gameID uuid.UUID) ([]models.Possession, error) {
	if _, err := a.games.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return a.repo.ListPossessions(ctx, gameID)
}
