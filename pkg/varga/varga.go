// Package varga computes divisional charts (vargas) D1 through D60.
//
// Each chart splits every 30° sign into N parts and maps each part to a
// target sign. Most charts count the parts forward from a start sign; a few
// (Hora, Drekkana, Trimsamsa) use their own tables. Rules are stored in a
// fixed-size table indexed by ChartID, so every id has exactly one rule.
//
// # Usage
//
//	sign, err := varga.Compute(varga.D9, zodiac.Leo, 12.5)
//
//	set := varga.ComputeAll(positions)
//	navamsa := set.Charts[varga.D9]
//	fmt.Println(set.Vargottama)
package varga

import (
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Chart maps each planet to its sign in one divisional chart.
type Chart map[zodiac.Planet]zodiac.Sign

// Set is a collection of divisional charts plus the vargottama planets.
type Set struct {
	Charts     map[ChartID]Chart `json:"charts"`
	Vargottama []zodiac.Planet   `json:"vargottama"`
}

// Compute returns the sign occupied in chart id by a body at deg within sign.
// Part boundaries are floored: a body exactly on a boundary belongs to the
// part that begins there.
func Compute(id ChartID, sign zodiac.Sign, deg float64) (zodiac.Sign, error) {
	if !id.Valid() || rules[id] == nil {
		return 0, errors.New(errors.ErrCodeUnknownChart, "unknown chart id %d", int(id))
	}
	if !sign.Valid() {
		return 0, errors.Invariant("sign %d out of range", int(sign))
	}
	if deg < 0 || deg >= zodiac.SignSpan {
		return 0, errors.Invariant("degree in sign %v out of range [0, 30)", deg)
	}
	return zodiac.Sign(rules[id](int(sign)-1, deg) + 1), nil
}

// ComputeCharts builds the requested charts for every position.
func ComputeCharts(positions []zodiac.Position, ids []ChartID) (Set, error) {
	set := Set{Charts: make(map[ChartID]Chart, len(ids))}
	for _, id := range ids {
		chart := make(Chart, len(positions))
		for _, p := range positions {
			s, err := Compute(id, p.Sign, p.DegreeInSign)
			if err != nil {
				return Set{}, err
			}
			chart[p.Planet] = s
		}
		set.Charts[id] = chart
	}
	set.Vargottama = Vargottama(positions)
	return set, nil
}

// ComputeAll builds all sixty charts.
func ComputeAll(positions []zodiac.Position) (Set, error) {
	return ComputeCharts(positions, All())
}

// Vargottama returns the planets whose navamsa sign equals their rasi sign,
// in input order.
func Vargottama(positions []zodiac.Position) []zodiac.Planet {
	out := []zodiac.Planet{}
	for _, p := range positions {
		d9, err := Compute(D9, p.Sign, p.DegreeInSign)
		if err == nil && d9 == p.Sign {
			out = append(out, p.Planet)
		}
	}
	return out
}
