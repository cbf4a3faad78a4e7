package houses

import (
	"sort"

	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Aspect kinds.
const (
	KindOpposition = "opposition"
	KindSpecial    = "special"
)

// Aspect is one house receiving a planet's drishti.
type Aspect struct {
	House       int    `json:"house"`
	StrengthPct int    `json:"strength_pct"`
	Kind        string `json:"kind"`
}

// Record lists every house a planet aspects from its own house.
type Record struct {
	Planet    zodiac.Planet `json:"planet"`
	FromHouse int           `json:"from_house"`
	Aspects   []Aspect      `json:"aspects"`
}

// Houses returns the aspected house numbers.
func (r Record) Houses() []int {
	out := make([]int, len(r.Aspects))
	for i, a := range r.Aspects {
		out[i] = a.House
	}
	return out
}

// AspectsHouse reports whether the record aspects house h.
func (r Record) AspectsHouse(h int) bool {
	for _, a := range r.Aspects {
		if a.House == h {
			return true
		}
	}
	return false
}

// specialStrength overrides the default 100% for particular special aspects.
var specialStrength = map[zodiac.Planet]map[int]int{
	zodiac.Mars: {3: 75},
}

// GrahaDrishti computes aspects for each planet in positions order.
//
// Every planet aspects the house six ahead (the seventh from itself). Mars
// also aspects 3 and 7 ahead, Jupiter and the nodes 4 and 8, Saturn 2 and 9.
func GrahaDrishti(positions []zodiac.Position, placement Placement) []Record {
	out := make([]Record, 0, len(positions))
	for _, p := range positions {
		from := placement[p.Planet]
		rec := Record{
			Planet:    p.Planet,
			FromHouse: from,
			Aspects: []Aspect{{
				House:       Ahead(from, 6),
				StrengthPct: 100,
				Kind:        KindOpposition,
			}},
		}
		for _, n := range p.Planet.SpecialAspects() {
			pct := 100
			if s, ok := specialStrength[p.Planet][n]; ok {
				pct = s
			}
			rec.Aspects = append(rec.Aspects, Aspect{
				House:       Ahead(from, n),
				StrengthPct: pct,
				Kind:        KindSpecial,
			})
		}
		out = append(out, rec)
	}
	return out
}

// MutualPair is an unordered pair of planets aspecting each other's house.
// A is the name that sorts first.
type MutualPair struct {
	A zodiac.Planet `json:"a"`
	B zodiac.Planet `json:"b"`
}

// Has reports whether the pair contains both p and q.
func (m MutualPair) Has(p, q zodiac.Planet) bool {
	return (m.A == p && m.B == q) || (m.A == q && m.B == p)
}

// Mutual returns every pair whose aspect sets each contain the other's house.
// Pairs appear once, in record order.
func Mutual(records []Record) []MutualPair {
	out := []MutualPair{}
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			a, b := records[i], records[j]
			if a.AspectsHouse(b.FromHouse) && b.AspectsHouse(a.FromHouse) {
				pair := []zodiac.Planet{a.Planet, b.Planet}
				sort.Slice(pair, func(x, y int) bool { return pair[x] < pair[y] })
				out = append(out, MutualPair{A: pair[0], B: pair[1]})
			}
		}
	}
	return out
}

// MutuallyAspecting reports whether p and q appear together in pairs.
func MutuallyAspecting(pairs []MutualPair, p, q zodiac.Planet) bool {
	for _, m := range pairs {
		if m.Has(p, q) {
			return true
		}
	}
	return false
}

// SignAspects returns rasi drishti for every sign.
//
// Movable signs aspect fixed signs and fixed signs aspect movable signs,
// except the adjacent one; dual signs aspect the other dual signs.
func SignAspects() map[zodiac.Sign][]zodiac.Sign {
	out := make(map[zodiac.Sign][]zodiac.Sign, 12)
	for _, s := range zodiac.AllSigns() {
		targets := []zodiac.Sign{}
		for _, t := range zodiac.AllSigns() {
			if s == t {
				continue
			}
			sq, tq := s.Quality(), t.Quality()
			switch {
			case sq == zodiac.Dual && tq == zodiac.Dual:
				targets = append(targets, t)
			case (sq == zodiac.Movable && tq == zodiac.Fixed) || (sq == zodiac.Fixed && tq == zodiac.Movable):
				if d := int(t) - int(s); d != 1 && d != -1 && d != 11 && d != -11 {
					targets = append(targets, t)
				}
			}
		}
		out[s] = targets
	}
	return out
}
