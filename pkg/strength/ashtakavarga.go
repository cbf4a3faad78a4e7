package strength

import "github.com/matzehuels/jyotish/pkg/zodiac"

// Ashtakavarga holds each planet's bindus per sign and the sign totals.
// Index 0 of each array is Aries.
type Ashtakavarga struct {
	Bindus map[zodiac.Planet][12]int `json:"bindus"`
	Totals [12]int                   `json:"totals"`
}

// Total returns the sum of all sign totals.
func (a Ashtakavarga) Total() int {
	n := 0
	for _, v := range a.Totals {
		n += v
	}
	return n
}

// At returns the total bindus in sign s.
func (a Ashtakavarga) At(s zodiac.Sign) int { return a.Totals[s-1] }

// ComputeAshtakavarga marks a bindu in every sign at a favorable offset from
// each planet's own sign. Offsets count the planet's sign as 1.
func ComputeAshtakavarga(positions []zodiac.Position) Ashtakavarga {
	av := Ashtakavarga{Bindus: make(map[zodiac.Planet][12]int, len(positions))}
	for _, pos := range positions {
		offsets := pos.Planet.AshtakavargaOffsets()
		if len(offsets) == 0 {
			continue
		}
		favorable := make(map[int]bool, len(offsets))
		for _, o := range offsets {
			favorable[o] = true
		}

		var row [12]int
		for s := 1; s <= 12; s++ {
			offset := ((s-int(pos.Sign))%12+12)%12 + 1
			if favorable[offset] {
				row[s-1] = 1
				av.Totals[s-1]++
			}
		}
		av.Bindus[pos.Planet] = row
	}
	return av
}
