// Package strength scores planets and houses: a simplified six-fold
// Shadbala, Bhava Bala derived from it, and the Ashtakavarga bindu tables.
//
// All scores are in virupas. Shadbala covers the seven classical planets;
// the nodes have no strength entry.
package strength

import (
	"math"
	"time"

	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Components are the individual Shadbala contributions.
type Components struct {
	Positional  float64 `json:"positional"`
	Directional float64 `json:"directional"`
	Temporal    float64 `json:"temporal"`
	Motional    float64 `json:"motional"`
	Natural     float64 `json:"natural"`
}

// Sum adds the components.
func (c Components) Sum() float64 {
	return c.Positional + c.Directional + c.Temporal + c.Motional + c.Natural
}

// Score is one planet's Shadbala.
type Score struct {
	Planet     zodiac.Planet `json:"planet"`
	Components Components    `json:"components"`
	Total      float64       `json:"total"`
	Required   float64       `json:"required"`
	IsStrong   bool          `json:"is_strong"`
}

// Ratio returns Total / Required.
func (s Score) Ratio() float64 {
	if s.Required == 0 {
		return 0
	}
	return s.Total / s.Required
}

// Shadbala maps each classical planet to its score.
type Shadbala map[zodiac.Planet]Score

// Ordered returns the scores in Sun..Saturn order.
func (s Shadbala) Ordered() []Score {
	out := make([]Score, 0, len(s))
	for _, p := range zodiac.Classical {
		if sc, ok := s[p]; ok {
			out = append(out, sc)
		}
	}
	return out
}

// Component weights.
const (
	ownSignBonus    = 30.0
	friendSignBonus = 15.0
	dignityMax      = 60.0
	dignitySlope    = 2.0
	digMax          = 60.0
	digSlope        = 10.0
	affinityBonus   = 30.0
	mercuryBonus    = 15.0
	pakshaBonus     = 30.0
	weekdayBonus    = 15.0
	motionBase      = 30.0
	motionRetro     = 60.0
)

// Day births fall within [dayStartHour, dayEndHour) local time.
const (
	dayStartHour = 6
	dayEndHour   = 18
)

// ComputeShadbala scores Sun through Saturn. local is the birth instant in the
// birth zone; its hour decides day or night and its weekday the day lord.
func ComputeShadbala(positions []zodiac.Position, placement houses.Placement, local time.Time) Shadbala {
	out := make(Shadbala, len(zodiac.Classical))
	for _, p := range zodiac.Classical {
		pos, ok := zodiac.Find(positions, p)
		if !ok {
			continue
		}
		c := Components{
			Positional:  positional(pos),
			Directional: directional(p, placement[p]),
			Temporal:    temporal(p, local),
			Motional:    motional(pos),
			Natural:     p.NaturalStrength(),
		}
		total := c.Sum()
		out[p] = Score{
			Planet:     p,
			Components: c,
			Total:      total,
			Required:   p.RequiredStrength(),
			IsStrong:   total >= p.RequiredStrength(),
		}
	}
	return out
}

// positional scores dignity: exaltation bonus, debilitation penalty, own and
// friendly signs. The result is never negative.
func positional(pos zodiac.Position) float64 {
	p := pos.Planet
	total := 0.0
	if ex, ok := p.Exaltation(); ok {
		closeness := math.Max(0, dignityMax-dignitySlope*math.Abs(pos.DegreeInSign-ex.Degree))
		switch pos.Sign {
		case ex.Sign:
			total += closeness
		case ex.Debilitation():
			total -= closeness
		}
	}
	if p.Owns(pos.Sign) {
		total += ownSignBonus
	}
	for _, f := range p.Friends() {
		if f.Owns(pos.Sign) {
			total += friendSignBonus
			break
		}
	}
	return math.Max(0, total)
}

// directional falls off linearly with house distance from the ideal house.
func directional(p zodiac.Planet, house int) float64 {
	if house == 0 || p.DirectionalHouse() == 0 {
		return 0
	}
	d := houses.Distance(house, p.DirectionalHouse())
	return math.Max(0, digMax-digSlope*float64(d))
}

// IsDayBirth reports whether local falls in the daytime window.
func IsDayBirth(local time.Time) bool {
	h := local.Hour()
	return h >= dayStartHour && h < dayEndHour
}

func temporal(p zodiac.Planet, local time.Time) float64 {
	total := 0.0
	day := IsDayBirth(local)
	if (day && p.DayStrong()) || (!day && p.NightStrong()) {
		total += affinityBonus
	}
	if p == zodiac.Mercury {
		total += mercuryBonus
	}
	if p == zodiac.Moon {
		total += pakshaBonus
	}
	if zodiac.WeekdayLord(int(local.Weekday())) == p {
		total += weekdayBonus
	}
	return total
}

func motional(pos zodiac.Position) float64 {
	if pos.Planet.IsLuminary() {
		return motionBase
	}
	if pos.Retrograde {
		return motionRetro
	}
	return motionBase
}
