// Package dbconfig reads the Postgres settings shared by the API server and
// the seed tools.
package dbconfig

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is filled from DB_* variables. DB_URL, when set, wins over the
// individual fields.
type Config struct {
	URL      string `envconfig:"URL"`
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     int    `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"postgres"`
	Password string `envconfig:"PASSWORD" default:"postgres"`
	Database string `envconfig:"NAME" default:"korfscore"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	ConnMaxIdleTime time.Duration `envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`
}

// Load reads the DB_* environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("DB", &c); err != nil {
		return Config{}, fmt.Errorf("database config: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return Config{}, fmt.Errorf("database config: port %d out of range", c.Port)
	}
	return c, nil
}

// DSN is the connection URL handed to lib/pq and pgx.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redacted is DSN with the password masked, for logs.
func (c Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "postgres://invalid"
	}
	return u.Redacted()
}
