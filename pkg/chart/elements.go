package chart

import (
	"math"

	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// DefaultLuminaryWeight counts the Sun and Moon like any other planet.
const DefaultLuminaryWeight = 1.0

// Balance is the weighted share of planets per element and per sign
// quality, in percent rounded to one decimal.
type Balance struct {
	Elements   map[string]float64 `json:"elements"`
	Modalities map[string]float64 `json:"modalities"`
}

// ElementBalance weighs every position by one, except the luminaries which
// count luminaryWeight.
func ElementBalance(positions []zodiac.Position, luminaryWeight float64) Balance {
	b := Balance{
		Elements:   map[string]float64{},
		Modalities: map[string]float64{},
	}
	for _, e := range []zodiac.Element{zodiac.Fire, zodiac.Earth, zodiac.Air, zodiac.Water} {
		b.Elements[e.String()] = 0
	}
	for _, q := range []zodiac.Quality{zodiac.Movable, zodiac.Fixed, zodiac.Dual} {
		b.Modalities[q.String()] = 0
	}

	total := 0.0
	for _, p := range positions {
		w := 1.0
		if p.Planet.IsLuminary() {
			w = luminaryWeight
		}
		total += w
		b.Elements[p.Sign.Element().String()] += w
		b.Modalities[p.Sign.Quality().String()] += w
	}
	if total == 0 {
		return b
	}
	for k, v := range b.Elements {
		b.Elements[k] = round1(v / total * 100)
	}
	for k, v := range b.Modalities {
		b.Modalities[k] = round1(v / total * 100)
	}
	return b
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
