// Package rules loads competition settings from a YAML file.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mcdev12/korfscore/go/internal/lineup"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Match holds the period structure new games are created with.
type Match struct {
	NumberOfPeriods int           `yaml:"number_of_periods"`
	PeriodDuration  time.Duration `yaml:"period_duration"`
}

// Retry configures background write retries.
type Retry struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

type Rules struct {
	Match  Match        `yaml:"match"`
	Lineup lineup.Rules `yaml:"lineup"`
	Retry  Retry        `yaml:"retry"`
}

// Default is two halves of 25 minutes with the standard lineup.
func Default() Rules {
	return Rules{
		Match: Match{
			NumberOfPeriods: 2,
			PeriodDuration:  25 * time.Minute,
		},
		Lineup: lineup.DefaultRules(),
		Retry: Retry{
			MaxRetries: retry.DefaultMaxRetries,
			BaseDelay:  retry.DefaultBaseDelay,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("rules file not found, using defaults")
		return r, nil
	}
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return r, nil
}

func (r Rules) Validate() error {
	switch {
	case r.Match.NumberOfPeriods < 1:
		return errors.New("match.number_of_periods must be at least 1")
	case r.Match.PeriodDuration < time.Second:
		return errors.New("match.period_duration must be at least 1s")
	case r.Lineup.SelectedCount < 1:
		return errors.New("lineup.selected_count must be at least 1")
	case r.Lineup.BalanceGender && r.Lineup.SelectedCount%2 != 0:
		return errors.New("lineup.selected_count must be even when balance_gender is set")
	case r.Lineup.RequirePositions && r.Lineup.SelectedCount%4 != 0:
		return errors.New("lineup.selected_count must be a multiple of 4 when require_positions is set")
	case r.Retry.MaxRetries < 0:
		return errors.New("retry.max_retries must not be negative")
	case r.Retry.BaseDelay <= 0:
		return errors.New("retry.base_delay must be positive")
	}
	return nil
}

// PeriodSeconds is the period duration in whole seconds, as stored on games.
func (r Rules) PeriodSeconds() int {
	return int(r.Match.PeriodDuration / time.Second)
}

// RetryPolicy builds the policy for background writes.
func (r Rules) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxRetries = r.Retry.MaxRetries
	p.BaseDelay = r.Retry.BaseDelay
	return p
}
