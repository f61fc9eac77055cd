// Package shots persists shot attempts and keeps the scoreboard in step.
package shots

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/apperr"
	"github.com/mcdev12/korfscore/go/internal/live/court"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ShotsRepository defines what the app layer needs from the repository
type ShotsRepository interface {
	CreateShot(ctx context.Context, gameID uuid.UUID, req CreateShotRequest) (*models.Shot, error)
	DeleteShot(ctx context.Context, gameID, shotID uuid.UUID) (*models.Shot, error)
	ListShots(ctx context.Context, gameID uuid.UUID) ([]models.Shot, error)
}

// Games loads games and drops cached copies after a score change.
type Games interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// EventEmitter records match events.
type EventEmitter interface {
	Emit(ctx context.Context, gameID uuid.UUID, eventType models.MatchEventType, period int, details interface{})
}

type App struct {
	repo   ShotsRepository
	games  Games
	events EventEmitter
}

func NewApp(repo ShotsRepository, games Games, events EventEmitter) *App {
	return &App{
		repo:   repo,
		games:  games,
		events: events,
	}
}

// CreateShot validates and stores a shot; goals bump the shooting team's score
func (a *App) CreateShot(ctx context.Context, gameID uuid.UUID, req CreateShotRequest) (*models.Shot, error) {
	game, err := a.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusInProgress {
		return nil, apperr.Conflict("game is %s, not in progress", game.Status)
	}
	if err := a.normalize(game, &req); err != nil {
		return nil, err
	}

	shot, err := a.repo.CreateShot(ctx, gameID, req)
	if err != nil {
		return nil, err
	}
	a.games.Invalidate(ctx, gameID)

	a.events.Emit(ctx, gameID, models.EventShotRecorded, shot.Period, shot)
	if shot.Result == models.ShotResultGoal {
		a.events.Emit(ctx, gameID, models.EventGoalScored, shot.Period, map[string]uuid.UUID{
			"shot_id":   shot.ID,
			"team_id":   shot.TeamID,
			"player_id": shot.PlayerID,
		})
	}
	log.Debug().
		Str("game_id", gameID.String()).
		Str("result", string(shot.Result)).
		Float64("distance", shot.Distance).
		Msg("shot recorded")
	return shot, nil
}

func (a *App) normalize(game *models.Game, req *CreateShotRequest) error {
	if _, ok := game.SideOf(req.TeamID); !ok {
		return apperr.Invalid("team %s does not play in this game", req.TeamID)
	}
	if req.PlayerID == uuid.Nil {
		return apperr.Invalid("player_id is required")
	}
	if !(court.Point{X: req.XCoord, Y: req.YCoord}).InBounds() {
		return apperr.Invalid("coordinates (%.1f, %.1f) are off the court", req.XCoord, req.YCoord)
	}
	if !req.Result.Valid() {
		return apperr.Invalid("result must be goal, miss or blocked")
	}
	if req.ShotType == "" {
		req.ShotType = models.ShotTypeRunning
	}
	if req.Period == 0 {
		req.Period = game.CurrentPeriod
	}
	if req.Period < 1 || req.Period > game.NumberOfPeriods {
		return apperr.Invalid("period must be between 1 and %d", game.NumberOfPeriods)
	}
	if req.Distance <= 0 {
		req.Distance = court.DistanceToNearestGoal(req.XCoord, req.YCoord)
	}
	return nil
}

func (a *App) ListShots(ctx context.Context, gameID uuid.UUID) ([]models.Shot, error) {
	if _, err := a.games.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return a.repo.ListShots(ctx, gameID)
}

// DeleteShot removes a shot as a correction
func (a *App) DeleteShot(ctx context.Context, gameID, shotID uuid.UUID) error {
	game, err := a.games.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Status.IsTerminal() {
		return apperr.Conflict("game is %s", game.Status)
	}
	shot, err := a.repo.DeleteShot(ctx, gameID, shotID)
	if err != nil {
		return err
	}
	a.games.Invalidate(ctx, gameID)
	a.events.Emit(ctx, gameID, models.EventShotDeleted, shot.Period, map[string]interface{}{
		"shot_id": shot.ID,
		"result":  shot.Result,
	})
	return nil
}
