package gateway

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/httpapi"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// GameReader confirms the game exists before a socket is opened.
type GameReader interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
}

type Handler struct {
	hub   *Hub
	games GameReader
}

func NewHandler(hub *Hub, games GameReader) *Handler {
	return &Handler{
		hub:   hub,
		games: games,
	}
}

// Routes mounts under /ws.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/games/{gameID}", h.HandleGameFeed)
	r.Get("/stats", h.HandleStats)
}

func (h *Handler) HandleGameFeed(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.URLUUID(r, "gameID")
	if err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}
	if _, err := h.games.GetGame(r.Context(), gameID); err != nil {
		httpapi.RespondAppError(w, r, err)
		return
	}

	// Upgrade writes its own HTTP error on failure.
	if err := h.hub.Upgrade(w, r, gameID); err != nil {
		log.Warn().Err(err).Str("game_id", gameID.String()).Msg("websocket upgrade failed")
	}
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	httpapi.RespondJSON(w, http.StatusOK, h.hub.Stats())
}
