package shots

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/httpapi"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// ShotsApp defines what the service layer needs from the shots application
type ShotsApp interface {
	CreateShot(ctx context.Context, gameID uuid.UUID, req CreateShotRequest) (*models.Shot, error)
	ListShots(ctx context.Context, gameID uuid.UUID) ([]models.Shot, error)
	DeleteShot(ctx context.Context, gameID, shotID uuid.UUID) error
}

type Service struct {
	app ShotsApp
}

func NewService(app ShotsApp) *Service {
	return &Service{
		app: app,
	}
}

// Routes mounts under /api/games/{gameID}/shots.
func (s *Service) Routes(r chi.Router) {
	r.Post("/", s.CreateShot)
	r.Get("/", s.ListShots)
	r.Delete("/{shotID}", s.DeleteShot)
}

func (s *Service) CreateShot(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	var req CreateShotRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	shot, err := s.app.CreateShot(r.Context(), gameID, req)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, shot)
}

func (s *Service) ListShots(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	list, err := s.app.ListShots(r.Context(), gameID)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Shot{}
	}
	httpapi.RespondJSON(w, http.StatusOK, list)
}

func (s *Service) DeleteShot(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	shotID, err := httpapi.URLUUID(r, "shotID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	if err := s.app.DeleteShot(r.Context(), gameID, shotID); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
