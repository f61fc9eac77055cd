package main

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/lineup"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/mcdev12/korfscore/go/internal/rules"
)

func TestBundledFixturePassesLineupGate(t *testing.T) {
	f, err := loadFixture(filepath.Join(".", "match.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	seed, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(seed.Players) != 18 {
		t.Fatalf("players = %d", len(seed.Players))
	}

	r := rules.Default().Lineup
	r.RequirePositions = true
	roster := &models.Roster{Players: seed.Players}
	for name, id := range map[string]uuid.UUID{"home": seed.Game.HomeTeamID, "away": seed.Game.AwayTeamID} {
		if res := lineup.CheckTeamRequirements(roster.ForTeam(id), r); !res.Valid {
			t.Errorf("%s lineup rejected: %s", name, res.Message)
		}
	}
}

func TestBuild_StableIDs(t *testing.T) {
	f := &Fixture{
		Key:  "k",
		Home: FixtureTeam{Name: "A", Players: []FixturePlayer{{Name: "x", Gender: "male"}}},
		Away: FixtureTeam{Name: "B"},
	}
	a, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := f.Build()
	if a.Game.ID != b.Game.ID || a.Players[0].PlayerID != b.Players[0].PlayerID {
		t.Error("ids differ between builds")
	}
	if a.Game.HomeTeamID == a.Game.AwayTeamID {
		t.Error("team ids collide")
	}
	if a.Game.PeriodDuration != 1500 || a.Game.TimeRemaining != 1500 {
		t.Errorf("defaults = %d/%d", a.Game.PeriodDuration, a.Game.TimeRemaining)
	}
}

func TestBuild_Rejects(t *testing.T) {
	tests := map[string]*Fixture{
		"no key":     {Home: FixtureTeam{Name: "A"}, Away: FixtureTeam{Name: "B"}},
		"same teams": {Key: "k", Home: FixtureTeam{Name: "A"}, Away: FixtureTeam{Name: "A"}},
		"bad gender": {Key: "k", Home: FixtureTeam{Name: "A", Players: []FixturePlayer{{Name: "x", Gender: "?"}}}, Away: FixtureTeam{Name: "B"}},
	}
	for name, f := range tests {
		if _, err := f.Build(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
