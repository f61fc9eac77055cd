package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/db"
	"github.com/mcdev12/korfscore/go/internal/events"
	"github.com/mcdev12/korfscore/go/internal/games"
	"github.com/mcdev12/korfscore/go/internal/gateway"
	"github.com/mcdev12/korfscore/go/internal/possessions"
	"github.com/mcdev12/korfscore/go/internal/rules"
	"github.com/mcdev12/korfscore/go/internal/shots"
)

type Services struct {
	Games       *games.Service
	Possessions *possessions.Service
	Shots       *shots.Service
	Events      *events.Service
	Gateway     *gateway.Handler

	// GamesApp also drives the period sweeper.
	GamesApp *games.App
}

type Infra struct {
	Clock      clockwork.Clock
	Rules      rules.Rules
	Cache      games.GameCache
	Hub        *gateway.Hub
	Publishers []events.Publisher
}

func setupServices(database *sql.DB, infra Infra) *Services {
	// Database layer → Repository layer → App layer → Service layer
	queries := db.New(database)

	// Events
	eventsRepo := events.NewRepository(queries)
	publishers := append([]events.Publisher{infra.Hub}, infra.Publishers...)
	emitter := events.NewEmitter(eventsRepo, infra.Clock, publishers...)
	eventsService := events.NewService(emitter)

	// Games
	gamesRepo := games.NewRepository(queries, database)
	gamesApp := games.NewApp(gamesRepo, emitter, infra.Cache, infra.Clock, infra.Rules)
	gamesService := games.NewService(gamesApp)

	// Possessions
	possessionsRepo := possessions.NewRepository(queries, database)
	possessionsApp := possessions.NewApp(possessionsRepo, gamesApp, emitter, infra.Clock)
	possessionsService := possessions.NewService(possessionsApp)

	// Shots
	shotsRepo := shots.NewRepository(queries, database)
	shotsApp := shots.NewApp(shotsRepo, gamesApp, emitter)
	shotsService := shots.NewService(shotsApp)

	return &Services{
		Games:       gamesService,
		Possessions: possessionsService,
		Shots:       shotsService,
		Events:      eventsService,
		Gateway:     gateway.NewHandler(infra.Hub, gamesApp),
		GamesApp:    gamesApp,
	}
}
