package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/cache"
	"github.com/mcdev12/korfscore/go/internal/events"
	"github.com/mcdev12/korfscore/go/internal/gateway"
	"github.com/mcdev12/korfscore/go/internal/publisher"
	"github.com/mcdev12/korfscore/go/internal/rules"
	"github.com/mcdev12/korfscore/go/internal/sweeper"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	matchRules, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load rules")
	}

	database, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup database")
	}
	defer database.Close()

	clock := clockwork.NewRealClock()
	hub := gateway.NewHub(gateway.DefaultConfig())
	go hub.Start(ctx)

	infra := Infra{
		Clock: clock,
		Rules: matchRules,
		Hub:   hub,
	}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		infra.Cache = cache.NewGameCache(client, cfg.CacheTTL)
		log.Info().Msg("game cache enabled")
	}

	if cfg.NATSURL != "" {
		jsCfg := publisher.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL
		js, err := publisher.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer js.Close()
		infra.Publishers = []events.Publisher{js}
		log.Info().Str("stream", jsCfg.StreamName).Msg("publishing match events to JetStream")
	}

	services := setupServices(database, infra)

	sweep, err := sweeper.New(services.GamesApp, cfg.SweepInterval, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sweeper")
	}
	if err := sweep.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start sweeper")
	}

	server := setupServer(cfg, services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := sweep.Stop(); err != nil {
		log.Warn().Err(err).Msg("sweeper shutdown failed")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
