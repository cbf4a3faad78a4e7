// Package ephemeris defines the astronomical backend consumed by chart
// computation and ships two implementations.
//
// The Adapter interface supplies tropical ecliptic longitudes, the ayanamsa
// offset and house cusps for a Julian day. Everything downstream works in
// sidereal longitudes derived from these values.
//
// # Implementations
//
//   - Kepler: an analytic low-precision model (Keplerian elements for the
//     planets, a truncated lunar theory, linear ayanamsa models). It needs no
//     data files and is accurate to a fraction of a degree within the
//     supported range 1800-2050.
//   - Table: fixed positions and daily motions loaded from a TOML file, for
//     plugging in externally computed ephemerides and for deterministic tests.
//
// # Usage
//
//	eph := ephemeris.NewKepler()
//	jd := ephemeris.JulianDay(birth)
//	pos, err := eph.Position(ctx, ephemeris.Moon, jd)
//	ayan, err := eph.Ayanamsa(ctx, jd, ephemeris.Lahiri)
//	cusps, err := eph.HouseCusps(ctx, jd, lat, lon, ephemeris.WholeSign)
package ephemeris

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Body identifies a point the adapter can locate.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	MeanNode
	TrueNode
)

var bodyNames = map[Body]string{
	Sun:      "sun",
	Moon:     "moon",
	Mercury:  "mercury",
	Venus:    "venus",
	Mars:     "mars",
	Jupiter:  "jupiter",
	Saturn:   "saturn",
	MeanNode: "mean_node",
	TrueNode: "true_node",
}

func (b Body) String() string {
	if s, ok := bodyNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// ParseBody converts a lowercase body name such as "mars" or "mean_node".
func ParseBody(s string) (Body, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range bodyNames {
		if name == s {
			return b, true
		}
	}
	return 0, false
}

// NodeType selects which lunar node stands in for Rahu.
type NodeType string

const (
	NodeMean NodeType = "mean"
	NodeTrue NodeType = "true"
)

// Valid reports whether n is a known node type.
func (n NodeType) Valid() bool { return n == NodeMean || n == NodeTrue }

// BodyFor maps a graha to the body used to locate it. Ketu has no body of
// its own and is derived from Rahu.
func BodyFor(p zodiac.Planet, nodes NodeType) (Body, bool) {
	switch p {
	case zodiac.Sun:
		return Sun, true
	case zodiac.Moon:
		return Moon, true
	case zodiac.Mercury:
		return Mercury, true
	case zodiac.Venus:
		return Venus, true
	case zodiac.Mars:
		return Mars, true
	case zodiac.Jupiter:
		return Jupiter, true
	case zodiac.Saturn:
		return Saturn, true
	case zodiac.Rahu:
		if nodes == NodeTrue {
			return TrueNode, true
		}
		return MeanNode, true
	}
	return 0, false
}

// AyanamsaMode names a sidereal zodiac convention.
type AyanamsaMode string

const (
	Lahiri       AyanamsaMode = "lahiri"
	Raman        AyanamsaMode = "raman"
	KP           AyanamsaMode = "kp"
	FaganBradley AyanamsaMode = "fagan_bradley"
)

// AyanamsaModes lists the supported conventions.
var AyanamsaModes = []AyanamsaMode{Lahiri, Raman, KP, FaganBradley}

// Valid reports whether m is a supported convention.
func (m AyanamsaMode) Valid() bool {
	for _, v := range AyanamsaModes {
		if m == v {
			return true
		}
	}
	return false
}

// HouseSystem names a house division method.
type HouseSystem string

const (
	WholeSign HouseSystem = "whole_sign"
	Equal     HouseSystem = "equal"
	Sripati   HouseSystem = "sripati"
)

// HouseSystems lists the supported house systems.
var HouseSystems = []HouseSystem{WholeSign, Equal, Sripati}

// Valid reports whether h is a supported house system.
func (h HouseSystem) Valid() bool {
	for _, v := range HouseSystems {
		if h == v {
			return true
		}
	}
	return false
}

// Coordinates are geocentric ecliptic coordinates in degrees, tropical and
// referred to the equinox of date.
type Coordinates struct {
	Longitude float64 `toml:"longitude" json:"longitude"`
	Latitude  float64 `toml:"latitude" json:"latitude"`
}

// Adapter is the astronomical backend.
//
// All longitudes are tropical degrees in [0, 360). HouseCusps returns the 12
// cusps in house order; cusps[0] is always the ascendant.
type Adapter interface {
	Position(ctx context.Context, body Body, jd float64) (Coordinates, error)
	Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error)
	HouseCusps(ctx context.Context, jd, lat, lon float64, system HouseSystem) ([12]float64, error)
}
