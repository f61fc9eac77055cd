package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
	"gopkg.in/yaml.v3"
)

// seedNamespace keeps generated ids stable across runs so re-seeding is a no-op.
var seedNamespace = uuid.MustParse("6f1c2a52-8a7e-4c1b-9a55-0d4b3f1e7c21")

type Fixture struct {
	Key             string      `yaml:"key"`
	NumberOfPeriods int         `yaml:"number_of_periods"`
	PeriodDuration  int         `yaml:"period_duration"`
	Home            FixtureTeam `yaml:"home"`
	Away            FixtureTeam `yaml:"away"`
}

type FixtureTeam struct {
	Name    string          `yaml:"name"`
	Players []FixturePlayer `yaml:"players"`
}

type FixturePlayer struct {
	Name     string `yaml:"name"`
	Gender   string `yaml:"gender"`
	Position string `yaml:"position"`
	Selected bool   `yaml:"selected"`
	Captain  bool   `yaml:"captain"`
}

// SeedGame is the row set written for one fixture.
type SeedGame struct {
	Game    models.Game
	Players []models.LineupPlayer
}

func loadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func stableID(parts ...string) uuid.UUID {
	name := ""
	for _, p := range parts {
		name += "/" + p
	}
	return uuid.NewSHA1(seedNamespace, []byte(name))
}

func (f *Fixture) Build() (*SeedGame, error) {
	if f.Key == "" {
		return nil, fmt.Errorf("fixture key is required")
	}
	if f.Home.Name == "" || f.Away.Name == "" || f.Home.Name == f.Away.Name {
		return nil, fmt.Errorf("fixture needs two distinct team names")
	}
	periods := f.NumberOfPeriods
	if periods <= 0 {
		periods = 2
	}
	duration := f.PeriodDuration
	if duration <= 0 {
		duration = 25 * 60
	}

	homeID := stableID("team", f.Home.Name)
	awayID := stableID("team", f.Away.Name)
	sg := &SeedGame{
		Game: models.Game{
			ID:              stableID("game", f.Key),
			HomeTeamID:      homeID,
			AwayTeamID:      awayID,
			HomeTeamName:    f.Home.Name,
			AwayTeamName:    f.Away.Name,
			CurrentPeriod:   1,
			NumberOfPeriods: periods,
			PeriodDuration:  duration,
			TimeRemaining:   duration,
			TimerState:      models.TimerStopped,
			Status:          models.GameStatusScheduled,
		},
	}

	for _, side := range []struct {
		id   uuid.UUID
		team FixtureTeam
	}{{homeID, f.Home}, {awayID, f.Away}} {
		for _, p := range side.team.Players {
			g := models.Gender(p.Gender)
			if !g.Valid() {
				return nil, fmt.Errorf("%s: invalid gender %q", p.Name, p.Gender)
			}
			sg.Players = append(sg.Players, models.LineupPlayer{
				PlayerID:  stableID("player", side.team.Name, p.Name),
				TeamID:    side.id,
				Name:      p.Name,
				Gender:    g,
				Position:  models.LineupPosition(p.Position),
				Selected:  p.Selected,
				IsCaptain: p.Captain,
			})
		}
	}
	return sg, nil
}
