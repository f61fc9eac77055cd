package games

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/httpapi"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// GamesApp defines what the service layer needs from the games application
type GamesApp interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	UpdateGame(ctx context.Context, id uuid.UUID, req UpdateGameRequest) (*models.Game, error)
	GetTimer(ctx context.Context, id uuid.UUID) (models.TimerState, error)
	StartTimer(ctx context.Context, id uuid.UUID) (models.TimerState, error)
	PauseTimer(ctx context.Context, id uuid.UUID) (models.TimerState, error)
	NextPeriod(ctx context.Context, id uuid.UUID) (models.TimerState, error)
	ResetMatch(ctx context.Context, id uuid.UUID) (models.TimerState, error)
	GetRoster(ctx context.Context, id uuid.UUID) (*models.Roster, error)
	SaveRoster(ctx context.Context, id uuid.UUID, players []models.LineupPlayer) (*models.Roster, error)
}

// Service exposes games over JSON HTTP
type Service struct {
	app GamesApp
}

// NewService creates a new games HTTP service
func NewService(app GamesApp) *Service {
	return &Service{
		app: app,
	}
}

// Routes mounts under /api/games.
func (s *Service) Routes(r chi.Router) {
	r.Post("/", s.CreateGame)
	r.Get("/{gameID}", s.GetGame)
	r.Patch("/{gameID}", s.UpdateGame)

	r.Get("/{gameID}/timer", s.GetTimer)
	r.Post("/{gameID}/timer/start", s.timerAction(s.app.StartTimer))
	r.Post("/{gameID}/timer/pause", s.timerAction(s.app.PauseTimer))
	r.Post("/{gameID}/timer/next-period", s.timerAction(s.app.NextPeriod))
	r.Post("/{gameID}/timer/reset-match", s.timerAction(s.app.ResetMatch))

	r.Get("/{gameID}/roster", s.GetRoster)
	r.Put("/{gameID}/roster", s.SaveRoster)
}

func (s *Service) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	game, err := s.app.CreateGame(r.Context(), req)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, game)
}

func (s *Service) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	game, err := s.app.GetGame(r.Context(), id)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, game)
}

func (s *Service) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	var req UpdateGameRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	game, err := s.app.UpdateGame(r.Context(), id, req)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, game)
}

func (s *Service) GetTimer(w http.ResponseWriter, r *http.Request) {
	s.timerAction(s.app.GetTimer)(w, r)
}

func (s *Service) timerAction(action func(context.Context, uuid.UUID) (models.TimerState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpapi.URLUUID(r, "gameID")
		if err != nil {
			httpapi.RespondAppError(w, r, err)
			return
		}
		state, err := action(r.Context(), id)
		if err != nil {
			httpapi.RespondAppError(w, r, err)
			return
		}
		httpapi.RespondJSON(w, http.StatusOK, state)
	}
}

func (s *Service) GetRoster(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	roster, err := s.app.GetRoster(r.Context(), id)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, roster)
}

func (s *Service) SaveRoster(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	var req SaveRosterRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	roster, err := s.app.SaveRoster(r.Context(), id, req.Players)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, roster)
}
