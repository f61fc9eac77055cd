package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIURL       string        `envconfig:"API_URL" default:"http://localhost:8080"`
	APIToken     string        `envconfig:"API_TOKEN"`
	GameID       string        `envconfig:"GAME_ID" required:"true"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	RulesPath    string        `envconfig:"RULES_PATH" default:"rules.yaml"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"warn"`
}

func loadConfig() (*Config, uuid.UUID, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, uuid.Nil, err
	}
	gameID, err := uuid.Parse(c.GameID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid GAME_ID: %w", err)
	}
	return &c, gameID, nil
}
