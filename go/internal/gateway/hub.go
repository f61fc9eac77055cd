// Package gateway pushes match events to websocket dashboards, one pool per game.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Hub tracks websocket connections per game and fans match events out to them.
type Hub struct {
	games map[uuid.UUID]map[*Connection]bool
	mu    sync.RWMutex

	upgrader    websocket.Upgrader
	config      Config
	broadcastCh chan models.MatchEvent
}

// Connection is one dashboard subscribed to a game.
type Connection struct {
	ID          string
	GameID      uuid.UUID
	Conn        *websocket.Conn
	Send        chan []byte
	ConnectedAt time.Time

	hub *Hub
}

type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      64,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

func NewHub(config Config) *Hub {
	return &Hub{
		games: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan models.MatchEvent, 1000),
	}
}

// Start delivers queued events until ctx is done.
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("websocket hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("websocket hub shutting down")
			return
		case event := <-h.broadcastCh:
			h.broadcast(event)
		}
	}
}

// Publish queues event for the game's subscribers. A full queue drops the
// event; dashboards resync from the REST API.
func (h *Hub) Publish(_ context.Context, event models.MatchEvent) error {
	select {
	case h.broadcastCh <- event:
		return nil
	default:
		return fmt.Errorf("broadcast queue full, dropped %s for game %s", event.Type, event.GameID)
	}
}

// Upgrade switches the request to a websocket subscribed to gameID.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.New().String(),
		GameID:      gameID,
		Conn:        ws,
		Send:        make(chan []byte, h.config.SendBuffer),
		ConnectedAt: time.Now(),
		hub:         h,
	}
	h.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("game_id", gameID.String()).
		Msg("websocket connection established")
	return nil
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.games[c.GameID] == nil {
		h.games[c.GameID] = make(map[*Connection]bool)
	}
	h.games[c.GameID][c] = true
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.games[c.GameID]
	if !ok || !conns[c] {
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.games, c.GameID)
	}
	log.Debug().
		Str("connection_id", c.ID).
		Str("game_id", c.GameID.String()).
		Msg("websocket connection unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	var all []*Connection
	for _, conns := range h.games {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
}

func (h *Hub) broadcast(event models.MatchEvent) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.games[event.GameID]))
	for c := range h.games[event.GameID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, c := range targets {
		select {
		case c.Send <- data:
		default:
			log.Warn().
				Str("connection_id", c.ID).
				Msg("send buffer full, closing slow websocket")
			h.unregister(c)
		}
	}
}

type Stats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveGames      int            `json:"active_games"`
	GameConnections  map[string]int `json:"game_connections"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{
		ActiveGames:     len(h.games),
		GameConnections: make(map[string]int, len(h.games)),
	}
	for id, conns := range h.games {
		s.TotalConnections += len(conns)
		s.GameConnections[id.String()] = len(conns)
	}
	return s
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; dashboards are read-only.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connection_id", c.ID).Msg("unexpected websocket close")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
