package possessions

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/httpapi"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// PossessionsApp defines what the service layer needs from the possessions application
type PossessionsApp interface {
	CreatePossession(ctx context.Context, gameID uuid.UUID, req CreatePossessionRequest) (*models.Possession, error)
	GetActivePossession(ctx context.Context, gameID uuid.UUID) (*models.Possession, error)
	IncrementShots(ctx context.Context, gameID, possessionID uuid.UUID) (*models.Possession, error)
	ListPossessions(ctx context.Context, gameID uuid.UUID) ([]models.Possession, error)
}

type Service struct {
	app PossessionsApp
}

func NewService(app PossessionsApp) *Service {
	return &Service{
		app: app,
	}
}

// Routes mounts under /api/games/{gameID}/possessions.
func (s *Service) Routes(r chi.Router) {
	r.Post("/", s.CreatePossession)
	r.Get("/", s.ListPossessions)
	r.Get("/active", s.GetActivePossession)
	r.Post("/{possessionID}/increment", s.IncrementShots)
}

func (s *Service) CreatePossession(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	var req CreatePossessionRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	p, err := s.app.CreatePossession(r.Context(), gameID, req)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, p)
}

func (s *Service) GetActivePossession(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	p, err := s.app.GetActivePossession(r.Context(), gameID)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, p)
}

func (s *Service) IncrementShots(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	possessionID, err := httpapi.URLUUID(r, "possessionID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	p, err := s.app.IncrementShots(r.Context(), gameID, possessionID)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, p)
}

func (s *Service) ListPossessions(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	list, err := s.app.ListPossessions(r.Context(), gameID)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Possession{}
	}
	httpapi.RespondJSON(w, http.StatusOK, list)
}
