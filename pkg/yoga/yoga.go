// Package yoga detects classical planetary combinations in a birth chart.
//
// Five families are matched: Pancha Mahapurusha, Raja, Dhana, Chandra and
// Nabhasa. Detection is purely structural; each match carries a fixed effect
// text looked up by name.
package yoga

import (
	"fmt"

	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Category groups related yogas.
type Category string

const (
	CategoryMahapurusha Category = "pancha_mahapurusha"
	CategoryRaja        Category = "raja"
	CategoryDhana       Category = "dhana"
	CategoryChandra     Category = "chandra"
	CategoryNabhasa     Category = "nabhasa"
)

// Strength labels.
const (
	StrengthVeryStrong = "Very Strong"
	StrengthStrong     = "Strong"
	StrengthMedium     = "Medium"
)

// Raja Yoga connection kinds, in the order they are tested.
const (
	ConnectionConjunction = "Conjunction"
	ConnectionParivartana = "Parivartana"
	ConnectionAspect      = "Mutual Aspect"
)

// Yoga is one detected combination.
type Yoga struct {
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Type     string          `json:"type"`
	Planets  []zodiac.Planet `json:"planets"`
	Houses   []int           `json:"houses,omitempty"`
	Sign     zodiac.Sign     `json:"sign,omitempty"`
	Strength string          `json:"strength,omitempty"`
	Negative bool            `json:"negative,omitempty"`
	Effects  string          `json:"effects"`
}

// Result holds detected yogas per family.
type Result struct {
	PanchaMahapurusha []Yoga   `json:"pancha_mahapurusha"`
	Raja              []Yoga   `json:"raja"`
	Dhana             []Yoga   `json:"dhana"`
	Chandra           []Yoga   `json:"chandra"`
	Nabhasa           []Yoga   `json:"nabhasa"`
	TotalCount        int      `json:"total_count"`
	Summary           []string `json:"summary"`
}

// All returns every yoga in family order.
func (r Result) All() []Yoga {
	out := make([]Yoga, 0, r.TotalCount)
	out = append(out, r.PanchaMahapurusha...)
	out = append(out, r.Raja...)
	out = append(out, r.Dhana...)
	out = append(out, r.Chandra...)
	out = append(out, r.Nabhasa...)
	return out
}

// Has reports whether a yoga with the given name was detected.
func (r Result) Has(name string) bool {
	for _, y := range r.All() {
		if y.Name == name {
			return true
		}
	}
	return false
}

// Input is the chart data the detectors read.
type Input struct {
	Positions   []zodiac.Position
	Occupancies []houses.Occupancy
	Placement   houses.Placement
	Aspects     []houses.Record
}

// Detect runs every family detector.
func Detect(in Input) Result {
	r := Result{
		PanchaMahapurusha: Mahapurusha(in),
		Raja:              Raja(in),
		Dhana:             Dhana(in),
		Chandra:           Chandra(in.Positions),
		Nabhasa:           Nabhasa(in.Positions),
	}
	r.TotalCount = len(r.PanchaMahapurusha) + len(r.Raja) + len(r.Dhana) + len(r.Chandra) + len(r.Nabhasa)
	r.Summary = summarize(r)
	return r
}

var (
	kendras  = []int{1, 4, 7, 10}
	trikonas = []int{1, 5, 9}
	wealth   = []int{1, 2, 5, 9, 11}
)

func isKendra(h int) bool {
	for _, k := range kendras {
		if h == k {
			return true
		}
	}
	return false
}

// =============================================================================
// Pancha Mahapurusha
// =============================================================================

var mahapurushaNames = map[zodiac.Planet]string{
	zodiac.Mars:    "Ruchaka Yoga",
	zodiac.Mercury: "Bhadra Yoga",
	zodiac.Jupiter: "Hamsa Yoga",
	zodiac.Venus:   "Malavya Yoga",
	zodiac.Saturn:  "Sasa Yoga",
}

var mahapurushaOrder = []zodiac.Planet{zodiac.Mars, zodiac.Mercury, zodiac.Jupiter, zodiac.Venus, zodiac.Saturn}

// Mahapurusha emits a yoga for each of Mars through Saturn sitting in a kendra
// in its own or exaltation sign.
func Mahapurusha(in Input) []Yoga {
	var out []Yoga
	for _, p := range mahapurushaOrder {
		pos, ok := zodiac.Find(in.Positions, p)
		if !ok {
			continue
		}
		house := in.Placement[p]
		if !isKendra(house) {
			continue
		}
		ex, _ := p.Exaltation()
		exalted := pos.Sign == ex.Sign
		if !exalted && !p.Owns(pos.Sign) {
			continue
		}
		strength := StrengthMedium
		if exalted {
			strength = StrengthStrong
		}
		name := mahapurushaNames[p]
		out = append(out, Yoga{
			Name:     name,
			Category: CategoryMahapurusha,
			Type:     "Pancha Mahapurusha Yoga",
			Planets:  []zodiac.Planet{p},
			Houses:   []int{house},
			Sign:     pos.Sign,
			Strength: strength,
			Effects:  effects[name],
		})
	}
	return out
}

// =============================================================================
// Raja and Dhana
// =============================================================================

// Raja checks every kendra/trikona lord pair with distinct lords. The first of
// conjunction, sign exchange and mutual aspect that holds is emitted.
func Raja(in Input) []Yoga {
	lords := houses.Lords(in.Occupancies)
	var out []Yoga
	for _, k := range kendras {
		for _, t := range trikonas {
			kl, tl := lords[k], lords[t]
			if kl == "" || tl == "" || kl == tl {
				continue
			}
			hk, okK := in.Placement[kl]
			ht, okT := in.Placement[tl]
			if !okK || !okT {
				continue
			}

			y := Yoga{
				Name:     "Raja Yoga",
				Category: CategoryRaja,
				Planets:  []zodiac.Planet{kl, tl},
				Houses:   []int{k, t},
			}
			switch {
			case hk == ht:
				y.Type, y.Strength = ConnectionConjunction, StrengthVeryStrong
			case hk == t && ht == k:
				y.Type, y.Strength = ConnectionParivartana, StrengthVeryStrong
			case aspects(in.Aspects, kl, ht) && aspects(in.Aspects, tl, hk):
				y.Type, y.Strength = ConnectionAspect, StrengthStrong
			default:
				continue
			}
			y.Effects = rajaEffects[y.Type]
			out = append(out, y)
		}
	}
	return out
}

func aspects(records []houses.Record, p zodiac.Planet, house int) bool {
	for _, r := range records {
		if r.Planet == p {
			return r.AspectsHouse(house)
		}
	}
	return false
}

// Dhana emits a yoga for each pair of distinct wealth-house lords sharing a house.
func Dhana(in Input) []Yoga {
	lords := houses.Lords(in.Occupancies)
	var out []Yoga
	for i, h1 := range wealth {
		for _, h2 := range wealth[i+1:] {
			l1, l2 := lords[h1], lords[h2]
			if l1 == "" || l2 == "" || l1 == l2 {
				continue
			}
			a, okA := in.Placement[l1]
			b, okB := in.Placement[l2]
			if !okA || !okB || a != b {
				continue
			}
			out = append(out, Yoga{
				Name:     "Dhana Yoga",
				Category: CategoryDhana,
				Type:     "Wealth Combination",
				Planets:  []zodiac.Planet{l1, l2},
				Houses:   []int{h1, h2},
				Effects:  effects["Dhana Yoga"],
			})
		}
	}
	return out
}

// =============================================================================
// Chandra
// =============================================================================

// FromMoon returns the 1-based sign position of s counted from the Moon's
// sign; the Moon's own sign is 1.
func FromMoon(moon, s zodiac.Sign) int {
	return ((int(s)-int(moon))%12+12)%12 + 1
}

func excludedFromChandra(p zodiac.Planet) bool {
	return p == zodiac.Moon || p == zodiac.Sun || p.IsNode()
}

// Chandra detects the Moon-relative yogas.
func Chandra(positions []zodiac.Position) []Yoga {
	moon, ok := zodiac.Find(positions, zodiac.Moon)
	if !ok {
		return nil
	}

	var second, twelfth []zodiac.Planet
	for _, pos := range positions {
		if excludedFromChandra(pos.Planet) {
			continue
		}
		switch FromMoon(moon.Sign, pos.Sign) {
		case 2:
			second = append(second, pos.Planet)
		case 12:
			twelfth = append(twelfth, pos.Planet)
		}
	}

	var out []Yoga
	add := func(name, typ string, planets []zodiac.Planet, negative bool) {
		out = append(out, Yoga{
			Name:     name,
			Category: CategoryChandra,
			Type:     typ,
			Planets:  append([]zodiac.Planet{zodiac.Moon}, planets...),
			Negative: negative,
			Effects:  effects[name],
		})
	}

	if len(second) > 0 {
		add("Sunafa Yoga", "Chandra Yoga", second, false)
	}
	if len(twelfth) > 0 {
		add("Anafa Yoga", "Chandra Yoga", twelfth, false)
	}
	if len(second) > 0 && len(twelfth) > 0 {
		add("Durudhara Yoga", "Chandra Yoga", append(append([]zodiac.Planet{}, second...), twelfth...), false)
	}
	if len(second) == 0 && len(twelfth) == 0 {
		add("Kemadruma Yoga", "Chandra Yoga (Negative)", nil, true)
	}
	if jup, ok := zodiac.Find(positions, zodiac.Jupiter); ok && isKendra(FromMoon(moon.Sign, jup.Sign)) {
		add("Gaja Kesari Yoga", "Chandra Yoga", []zodiac.Planet{zodiac.Jupiter}, false)
	}
	return out
}

// =============================================================================
// Nabhasa
// =============================================================================

var nabhasaNames = map[zodiac.Quality]string{
	zodiac.Movable: "Rajju Yoga",
	zodiac.Fixed:   "Musala Yoga",
	zodiac.Dual:    "Nala Yoga",
}

// Nabhasa emits Rajju, Musala or Nala when all seven classical planets share
// one sign quality.
func Nabhasa(positions []zodiac.Position) []Yoga {
	counts := make(map[zodiac.Quality]int, 3)
	for _, pos := range positions {
		if pos.Planet.IsNode() {
			continue
		}
		counts[pos.Sign.Quality()]++
	}
	for _, q := range []zodiac.Quality{zodiac.Movable, zodiac.Fixed, zodiac.Dual} {
		if counts[q] == len(zodiac.Classical) {
			name := nabhasaNames[q]
			return []Yoga{{
				Name:     name,
				Category: CategoryNabhasa,
				Type:     "Nabhasa Yoga",
				Planets:  append([]zodiac.Planet{}, zodiac.Classical...),
				Effects:  effects[name],
			}}
		}
	}
	return nil
}

// =============================================================================
// Summary
// =============================================================================

func summarize(r Result) []string {
	summary := []string{}
	if n := len(r.PanchaMahapurusha); n > 0 {
		summary = append(summary, fmt.Sprintf("Chart has %d Mahapurusha Yoga(s) indicating strong personality", n))
	}
	if n := len(r.Raja); n > 0 {
		summary = append(summary, fmt.Sprintf("Chart has %d Raja Yoga(s) indicating power and authority", n))
	}
	if n := len(r.Dhana); n > 0 {
		summary = append(summary, fmt.Sprintf("Chart has %d Dhana Yoga(s) indicating wealth potential", n))
	}
	for _, y := range r.Chandra {
		if y.Name == "Gaja Kesari Yoga" {
			summary = append(summary, "Gaja Kesari Yoga present - wisdom and fame")
			break
		}
	}
	return summary
}
