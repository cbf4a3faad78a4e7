// Package panchanga derives the five limbs of the Hindu almanac from the
// sidereal Sun and Moon longitudes and a localized timestamp.
package panchanga

import (
	"math"
	"time"

	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Angular spans of each limb.
const (
	TithiSpan  = 12.0
	KaranaSpan = 6.0
	YogaSpan   = 360.0 / 27
)

// Paksha is the lunar fortnight.
const (
	Shukla  = "Shukla"
	Krishna = "Krishna"
)

// Tithi is the lunar day. Index runs 1..30.
type Tithi struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Paksha   string  `json:"paksha"`
	Fraction float64 `json:"fraction"`
}

// Nakshatra is the Moon's lunar mansion. Index runs 1..27.
type Nakshatra struct {
	Index int           `json:"index"`
	Name  string        `json:"name"`
	Lord  zodiac.Planet `json:"lord"`
	Pada  int           `json:"pada"`
}

// Yoga is the luni-solar yoga. Index runs 1..27.
type Yoga struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"`
}

// Karana is the half-tithi. Index runs 1..60.
type Karana struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"`
}

// Snapshot is the almanac for one instant.
type Snapshot struct {
	Tithi     Tithi     `json:"tithi"`
	Nakshatra Nakshatra `json:"nakshatra"`
	Yoga      Yoga      `json:"yoga"`
	Karana    Karana    `json:"karana"`
	Vaara     string    `json:"vaara"`
}

// Compute builds the snapshot. Longitudes are sidereal degrees; local is the
// instant in the observer's zone and only decides the weekday.
func Compute(sunLon, moonLon float64, local time.Time) Snapshot {
	return Snapshot{
		Tithi:     TithiAt(sunLon, moonLon),
		Nakshatra: NakshatraAt(moonLon),
		Yoga:      YogaAt(sunLon, moonLon),
		Karana:    KaranaAt(sunLon, moonLon),
		Vaara:     local.Weekday().String(),
	}
}

// split returns the segment index and the fraction elapsed within it.
func split(angle, span float64, n int) (int, float64) {
	angle = zodiac.Normalize(angle)
	idx := int(math.Floor(angle / span))
	if idx >= n {
		idx = n - 1
	}
	return idx, (angle - float64(idx)*span) / span
}

// TithiAt returns the tithi for the Moon's elongation from the Sun.
func TithiAt(sunLon, moonLon float64) Tithi {
	idx, frac := split(moonLon-sunLon, TithiSpan, len(tithiNames))
	paksha := Shukla
	if idx >= 15 {
		paksha = Krishna
	}
	return Tithi{Index: idx + 1, Name: tithiNames[idx], Paksha: paksha, Fraction: frac}
}

// NakshatraAt returns the Moon's nakshatra and pada.
func NakshatraAt(moonLon float64) Nakshatra {
	n := zodiac.NakshatraAt(zodiac.NakshatraIndex(moonLon))
	return Nakshatra{Index: n.Index + 1, Name: n.Name, Lord: n.Lord, Pada: zodiac.Pada(moonLon)}
}

// YogaAt returns the yoga for the sum of the longitudes.
func YogaAt(sunLon, moonLon float64) Yoga {
	idx, frac := split(sunLon+moonLon, YogaSpan, len(yogaNames))
	return Yoga{Index: idx + 1, Name: yogaNames[idx], Fraction: frac}
}

// KaranaAt returns the half-tithi.
func KaranaAt(sunLon, moonLon float64) Karana {
	idx, frac := split(moonLon-sunLon, KaranaSpan, len(karanaNames))
	return Karana{Index: idx + 1, Name: karanaNames[idx], Fraction: frac}
}
