package strength

import (
	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Bhava Bala weights.
const (
	occupantWeight = 0.25
	lordWeight     = 0.5

	// BhavaStrongThreshold is the value a house must exceed to count as strong.
	BhavaStrongThreshold = 300.0
)

// HouseStrength is one house's Bhava Bala.
type HouseStrength struct {
	House     int             `json:"house"`
	Sign      zodiac.Sign     `json:"sign"`
	Lord      zodiac.Planet   `json:"lord"`
	Occupants []zodiac.Planet `json:"occupants"`
	Value     float64         `json:"value"`
	IsStrong  bool            `json:"is_strong"`
}

// ComputeBhavaBala derives house strength from the occupants' and the lord's
// Shadbala totals. Planets without a score (the nodes) contribute nothing.
func ComputeBhavaBala(occ []houses.Occupancy, sb Shadbala) []HouseStrength {
	out := make([]HouseStrength, 0, len(occ))
	for _, o := range occ {
		v := 0.0
		for _, p := range o.Occupants {
			v += sb[p].Total * occupantWeight
		}
		v += sb[o.Lord].Total * lordWeight
		out = append(out, HouseStrength{
			House:     o.House,
			Sign:      o.Sign,
			Lord:      o.Lord,
			Occupants: o.Occupants,
			Value:     v,
			IsStrong:  v > BhavaStrongThreshold,
		})
	}
	return out
}
