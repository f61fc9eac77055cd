// Package lineup validates a team's match-day selection before kick-off.
package lineup

import (
	"fmt"

	"github.com/mcdev12/korfscore/go/internal/models"
)

// Rules describes the lineup variant in force for a competition.
type Rules struct {
	SelectedCount int `yaml:"selected_count"`
	// BalanceGender requires an equal number of male and female players.
	BalanceGender bool `yaml:"balance_gender"`
	// RequirePositions requires SelectedCount/2 players in each zone, each zone balanced by gender.
	RequirePositions bool `yaml:"require_positions"`
	RequireCaptain   bool `yaml:"require_captain"`
}

// DefaultRules is the standard eight-player lineup, four of each gender, one captain.
func DefaultRules() Rules {
	return Rules{
		SelectedCount:  8,
		BalanceGender:  true,
		RequireCaptain: true,
	}
}

// Result is the outcome of a lineup check. Message is empty when Valid.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func invalid(format string, args ...interface{}) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// CheckTeamRequirements validates one team's roster entries against r.
func CheckTeamRequirements(players []models.LineupPlayer, r Rules) Result {
	var selected []models.LineupPlayer
	for _, p := range players {
		if p.Selected {
			selected = append(selected, p)
		}
	}

	if len(selected) != r.SelectedCount {
		return invalid("exactly %d players must be selected (currently %d)", r.SelectedCount, len(selected))
	}

	if r.BalanceGender {
		male, female := countGenders(selected)
		half := r.SelectedCount / 2
		if male != half || female != half {
			return invalid("selection must have %d male and %d female players (currently %d male, %d female)", half, half, male, female)
		}
	}

	if r.RequirePositions {
		if res := checkZones(selected, r.SelectedCount/2); !res.Valid {
			return res
		}
	}

	if r.RequireCaptain {
		captains := 0
		for _, p := range selected {
			if p.IsCaptain {
				captains++
			}
		}
		switch {
		case captains == 0:
			return invalid("a captain must be designated")
		case captains > 1:
			return invalid("only one captain may be designated (currently %d)", captains)
		}
	}

	return Result{Valid: true}
}

func checkZones(selected []models.LineupPlayer, zoneSize int) Result {
	zones := map[models.LineupPosition][]models.LineupPlayer{}
	for _, p := range selected {
		if p.Position != models.LineupPositionOffense && p.Position != models.LineupPositionDefense {
			return invalid("%s has no offense/defense position", displayName(p))
		}
		zones[p.Position] = append(zones[p.Position], p)
	}
	for _, zone := range []models.LineupPosition{models.LineupPositionOffense, models.LineupPositionDefense} {
		players := zones[zone]
		if len(players) != zoneSize {
			return invalid("%s must have exactly %d players (currently %d)", zone, zoneSize, len(players))
		}
		male, female := countGenders(players)
		if male != zoneSize/2 || female != zoneSize/2 {
			return invalid("%s must have %d male and %d female players (currently %d male, %d female)", zone, zoneSize/2, zoneSize/2, male, female)
		}
	}
	return Result{Valid: true}
}

func countGenders(players []models.LineupPlayer) (male, female int) {
	for _, p := range players {
		switch p.Gender {
		case models.GenderMale:
			male++
		case models.GenderFemale:
			female++
		}
	}
	return male, female
}

func displayName(p models.LineupPlayer) string {
	if p.Name != "" {
		return p.Name
	}
	return p.PlayerID.String()
}
