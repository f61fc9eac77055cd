// Package court holds the pure geometry of the korfball field: which team may
// shoot from a clicked half, and how far a shot is from the nearest korf.
package court

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/models"
)

const (
	// FieldLength and FieldWidth are the real dimensions in meters that the
	// 0-100 percentage coordinates are scaled to.
	FieldLength = 40.0
	FieldWidth  = 20.0

	// Midline splits the halves. x < Midline is the left half; x == Midline
	// belongs to the right half.
	Midline = 50.0
)

// Korf anchors in percentage space.
var (
	LeftKorf  = Point{X: 13, Y: 50}
	RightKorf = Point{X: 87, Y: 50}
)

// ErrAttackingSideUnset is returned when the home team's attacking side was never configured.
var ErrAttackingSideUnset = errors.New("home attacking side is not set")

// ErrOutOfBounds is returned for coordinates outside [0,100].
var ErrOutOfBounds = errors.New("coordinates out of bounds")

// Point is a court position in percent of length (X) and width (Y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InBounds reports whether p lies on the field.
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

// HalfOf returns the half containing x.
func HalfOf(x float64) models.AttackingSide {
	if x < Midline {
		return models.AttackingSideLeft
	}
	return models.AttackingSideRight
}

// ResolveSide returns which team is entitled to shoot from the half at x.
// Home attacks homeSide for the whole match; away attacks the opposite half.
func ResolveSide(x float64, homeSide models.AttackingSide) (models.TeamSide, error) {
	if homeSide != models.AttackingSideLeft && homeSide != models.AttackingSideRight {
		return "", ErrAttackingSideUnset
	}
	if x < 0 || x > 100 {
		return "", ErrOutOfBounds
	}
	if HalfOf(x) == homeSide {
		return models.TeamSideHome, nil
	}
	return models.TeamSideAway, nil
}

// ResolveTeam is ResolveSide mapped to the game's team ids.
func ResolveTeam(game *models.Game, x float64) (uuid.UUID, error) {
	side, err := ResolveSide(x, game.HomeAttackingSide)
	if err != nil {
		return uuid.Nil, err
	}
	return game.TeamID(side), nil
}

// DistanceToNearestGoal returns the distance in meters from (x, y) to the
// closer korf, rounded to one decimal.
func DistanceToNearestGoal(x, y float64) float64 {
	p := Point{X: x, Y: y}
	d := math.Min(metersBetween(p, LeftKorf), metersBetween(p, RightKorf))
	return math.Round(d*10) / 10
}

func metersBetween(a, b Point) float64 {
	dx := (a.X - b.X) / 100 * FieldLength
	dy := (a.Y - b.Y) / 100 * FieldWidth
	return math.Hypot(dx, dy)
}
