package main

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string        `envconfig:"PORT" default:"8080"`
	NATSURL       string        `envconfig:"NATS_URL"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	RulesPath     string        `envconfig:"RULES_PATH" default:"rules.yaml"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1s"`
	CORSOrigins   string        `envconfig:"CORS_ORIGINS" default:"*"`
	APIToken      string        `envconfig:"API_TOKEN"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

func loadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
