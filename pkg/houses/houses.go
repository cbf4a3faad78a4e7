// Package houses assigns planets to houses and computes graha drishti
// (planetary aspects), mutual aspects and rasi drishti (sign aspects).
//
// Houses are defined by twelve sidereal cusps in ascending zodiacal order
// around the circle. House i spans [cusp[i-1], cusp[i mod 12]); the span
// containing 0° wraps. A longitude exactly on a cusp belongs to the house
// that begins there.
package houses

import (
	"math"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Cusps are the twelve sidereal house cusps; Cusps[0] opens the first house.
type Cusps [12]float64

// Validate checks that the cusps are in range and ascend once around the circle.
func (c Cusps) Validate() error {
	total := 0.0
	for i, v := range c {
		if v < 0 || v >= 360 || math.IsNaN(v) {
			return errors.Invariant("cusp %d = %v outside [0, 360)", i+1, v)
		}
		span := zodiac.Normalize(c[(i+1)%12] - v)
		if span == 0 {
			return errors.Invariant("house %d has zero width", i+1)
		}
		total += span
	}
	if math.Abs(total-360) > 1e-6 {
		return errors.Invariant("cusps wrap the zodiac %.0f times, want once", total/360)
	}
	return nil
}

// Sign returns the sign of house h's opening cusp.
func (c Cusps) Sign(h int) zodiac.Sign {
	return zodiac.SignOf(c[h-1])
}

// HouseOf returns the house (1..12) containing lon. Spans are half-open, so
// a longitude short of a cusp by any margin stays in the earlier house.
func HouseOf(lon float64, cusps Cusps) int {
	lon = zodiac.Normalize(lon)
	for i := 0; i < 12; i++ {
		start, end := cusps[i], cusps[(i+1)%12]
		if start <= end {
			if lon >= start && lon < end {
				return i + 1
			}
		} else if lon >= start || lon < end {
			return i + 1
		}
	}
	// Unreachable for validated cusps.
	return 12
}

// Occupancy is the contents of one house.
type Occupancy struct {
	House     int             `json:"house"`
	Sign      zodiac.Sign     `json:"sign"`
	Lord      zodiac.Planet   `json:"lord"`
	Occupants []zodiac.Planet `json:"occupants"`
}

// Placement maps each planet to its house.
type Placement map[zodiac.Planet]int

// Place assigns every position to a house.
func Place(positions []zodiac.Position, cusps Cusps) Placement {
	out := make(Placement, len(positions))
	for _, p := range positions {
		out[p.Planet] = HouseOf(p.Longitude, cusps)
	}
	return out
}

// Occupancies lists all twelve houses with their sign, lord and occupants.
// Occupants keep the order of positions.
func Occupancies(positions []zodiac.Position, cusps Cusps) []Occupancy {
	out := make([]Occupancy, 12)
	for h := 1; h <= 12; h++ {
		sign := cusps.Sign(h)
		out[h-1] = Occupancy{
			House:     h,
			Sign:      sign,
			Lord:      sign.Lord(),
			Occupants: []zodiac.Planet{},
		}
	}
	for _, p := range positions {
		h := HouseOf(p.Longitude, cusps)
		out[h-1].Occupants = append(out[h-1].Occupants, p.Planet)
	}
	return out
}

// Lords returns the lord of each house, indexed by house number.
func Lords(occ []Occupancy) map[int]zodiac.Planet {
	out := make(map[int]zodiac.Planet, len(occ))
	for _, o := range occ {
		out[o.House] = o.Lord
	}
	return out
}

// Ahead returns the house n places ahead of h.
func Ahead(h, n int) int {
	return ((h-1+n)%12+12)%12 + 1
}

// Distance returns the shortest circular distance between two houses (0..6).
func Distance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	d %= 12
	if d > 6 {
		d = 12 - d
	}
	return d
}
