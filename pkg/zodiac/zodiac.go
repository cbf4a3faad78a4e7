// Package zodiac holds the constant tables shared by every chart computation:
// signs, planets, nakshatras, sign lordship and planetary dignities.
//
// All tables are defined once here and consumed read-only by the varga,
// house, dasha, strength, yoga and panchanga packages.
//
// Signs are numbered 1 (Aries) through 12 (Pisces). Longitudes are sidereal
// degrees in [0, 360).
package zodiac

import (
	"fmt"
	"math"
)

// =============================================================================
// Angular Constants
// =============================================================================

const (
	// SignSpan is the width of one zodiac sign in degrees.
	SignSpan = 30.0

	// NakshatraSpan is the width of one lunar mansion (13°20').
	NakshatraSpan = 360.0 / 27.0

	// PadaSpan is the width of one nakshatra quarter (3°20').
	PadaSpan = NakshatraSpan / 4.0
)

// Normalize reduces a longitude into [0, 360).
func Normalize(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}

// =============================================================================
// Signs
// =============================================================================

// Sign is a zodiac sign numbered 1..12.
type Sign int

// Signs in zodiacal order.
const (
	Aries Sign = iota + 1
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Quality is the modality of a sign.
type Quality int

const (
	Movable Quality = iota
	Fixed
	Dual
)

func (q Quality) String() string {
	switch q {
	case Movable:
		return "Movable"
	case Fixed:
		return "Fixed"
	case Dual:
		return "Dual"
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// Element is the classical element of a sign.
type Element int

const (
	Fire Element = iota
	Earth
	Air
	Water
)

func (e Element) String() string {
	switch e {
	case Fire:
		return "Fire"
	case Earth:
		return "Earth"
	case Air:
		return "Air"
	case Water:
		return "Water"
	}
	return fmt.Sprintf("Element(%d)", int(e))
}

// signInfo is one row of the sign table.
type signInfo struct {
	name    string
	lord    Planet
	quality Quality
	element Element
}

// signs is indexed by Sign; index 0 is unused.
var signs = [13]signInfo{
	{},
	{"Aries", Mars, Movable, Fire},
	{"Taurus", Venus, Fixed, Earth},
	{"Gemini", Mercury, Dual, Air},
	{"Cancer", Moon, Movable, Water},
	{"Leo", Sun, Fixed, Fire},
	{"Virgo", Mercury, Dual, Earth},
	{"Libra", Venus, Movable, Air},
	{"Scorpio", Mars, Fixed, Water},
	{"Sagittarius", Jupiter, Dual, Fire},
	{"Capricorn", Saturn, Movable, Earth},
	{"Aquarius", Saturn, Fixed, Air},
	{"Pisces", Jupiter, Dual, Water},
}

// Valid reports whether s is in 1..12.
func (s Sign) Valid() bool { return s >= Aries && s <= Pisces }

func (s Sign) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signs[s].name
}

// Lord returns the planet ruling the sign.
func (s Sign) Lord() Planet { return signs[s].lord }

// Quality returns the sign's modality.
func (s Sign) Quality() Quality { return signs[s].quality }

// Element returns the sign's element.
func (s Sign) Element() Element { return signs[s].element }

// Odd reports whether the sign is odd-numbered (Aries, Gemini, ...).
func (s Sign) Odd() bool { return int(s)%2 == 1 }

// Add returns the sign n places ahead, wrapping around the zodiac.
func (s Sign) Add(n int) Sign {
	return Sign(((int(s)-1+n)%12+12)%12 + 1)
}

// SignOf returns the sign containing a longitude.
func SignOf(lon float64) Sign {
	idx := int(math.Floor(Normalize(lon) / SignSpan))
	if idx > 11 {
		idx = 11
	}
	return Sign(idx + 1)
}

// ParseSign converts a sign name to a Sign.
func ParseSign(name string) (Sign, bool) {
	for s := Aries; s <= Pisces; s++ {
		if signs[s].name == name {
			return s, true
		}
	}
	return 0, false
}

// AllSigns returns the twelve signs in order.
func AllSigns() []Sign {
	out := make([]Sign, 12)
	for i := range out {
		out[i] = Sign(i + 1)
	}
	return out
}
