package events

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/httpapi"
	"github.com/mcdev12/korfscore/go/internal/models"
)

// Lister defines what the handlers need.
type Lister interface {
	List(ctx context.Context, gameID uuid.UUID) ([]models.MatchEvent, error)
}

// Service serves the game timeline over HTTP.
type Service struct {
	events Lister
}

func NewService(events Lister) *Service {
	return &Service{events: events}
}

// Routes mounts under /api/games/{gameID}/events.
func (s *Service) Routes(r chi.Router) {
	r.Get("/", s.ListEvents)
}

func (s *Service) ListEvents(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	list, err := s.events.List(r.Context(), gameID)
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	if list == nil {
		list = []models.MatchEvent{}
	}
	httpapi.RespondJSON(w, http.StatusOK, list)
}
