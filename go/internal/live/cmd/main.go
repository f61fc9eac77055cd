package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/korfscore/go/clients/korfball_client"
	"github.com/mcdev12/korfscore/go/internal/live/orchestrator"
	"github.com/mcdev12/korfscore/go/internal/rules"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, gameID, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	matchRules, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load rules")
	}

	client := korfball_client.NewClient(cfg.APIURL)
	if cfg.APIToken != "" {
		client = client.WithToken(cfg.APIToken)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	console := newConsole(os.Stdout)
	match := orchestrator.New(ctx, orchestrator.Config{
		GameID:       gameID,
		API:          client,
		Rules:        matchRules.Lineup,
		Policy:       matchRules.RetryPolicy(),
		PollInterval: cfg.PollInterval,
		OnError: func(msg string) {
			console.printf("! %s\n", msg)
		},
		OnPeriodEnd: func(period int) {
			console.printf("* period %d has ended. `next` to advance, `continue` to keep recording\n", period)
		},
	})
	defer match.Close()
	console.match = match

	if err := match.Load(ctx); err != nil {
		log.Error().Err(err).Msg("initial load incomplete")
	}
	if err := console.loadRoster(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load roster, players must be given by id")
	}

	go match.Run(ctx, nil)

	console.printStatus()
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		console.prompt()
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			quit, err := console.execute(ctx, line)
			if err != nil {
				console.printf("error: %v\n", err)
			}
			if quit {
				return
			}
		}
	}
}
