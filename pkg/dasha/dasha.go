// Package dasha generates the Vimshottari planetary period timeline.
//
// The 120-year cycle runs through nine lords in a fixed order. The Moon's
// nakshatra at birth selects the first lord, and the unelapsed part of that
// nakshatra sets how much of the first period remains. Each period divides
// into nine sub-periods starting from its own lord, each sized in proportion
// to that lord's years, recursively to the requested depth.
//
// # Usage
//
//	periods, err := dasha.Vimshottari(moon.Longitude, birth, dasha.Options{Depth: 3})
//	for _, maha := range periods {
//	    fmt.Println(maha.Lord, maha.Start, maha.End)
//	}
//
//	active := dasha.Current(periods, time.Now())
package dasha

import (
	"math"
	"time"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Year is the Vimshottari year length.
const Year = time.Duration(36525) * 24 * time.Hour / 100

// Depth limits and default.
const (
	DefaultDepth = 1
	MaxDepth     = 5
)

// Level names for each depth, starting at 1.
var Levels = []string{"Mahadasha", "Antardasha", "Pratyantardasha", "Sookshma", "Prana"}

// Period is one node of the dasha tree. Children tile [Start, End) exactly.
type Period struct {
	Lord     zodiac.Planet `json:"lord"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Children []Period      `json:"children,omitempty"`
}

// Duration returns End - Start.
func (p Period) Duration() time.Duration { return p.End.Sub(p.Start) }

// Contains reports whether t falls within [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Options control timeline generation.
type Options struct {
	// Depth is the number of nested levels, 1 (mahadasha only) to MaxDepth.
	Depth int

	// From trims the timeline to periods ending after it. Zero keeps
	// everything from birth.
	From time.Time
}

// Vimshottari builds the dasha timeline for a Moon at moonLon born at birth.
// Returned times carry birth's location.
func Vimshottari(moonLon float64, birth time.Time, opts Options) ([]Period, error) {
	if opts.Depth == 0 {
		opts.Depth = DefaultDepth
	}
	if err := errors.ValidateDepth(opts.Depth, MaxDepth); err != nil {
		return nil, err
	}
	if math.IsNaN(moonLon) || math.IsInf(moonLon, 0) {
		return nil, errors.Input("moon longitude must be finite")
	}

	moonLon = zodiac.Normalize(moonLon)
	startIdx := zodiac.NakshatraIndex(moonLon) % len(zodiac.DashaOrder)
	elapsed := zodiac.NakshatraFraction(moonLon)

	periods := make([]Period, 0, len(zodiac.DashaOrder))
	cursor := birth
	for k := range zodiac.DashaOrder {
		lord := zodiac.DashaOrder[(startIdx+k)%len(zodiac.DashaOrder)]
		span := fullSpan(lord)
		if k == 0 {
			span -= time.Duration(float64(span) * elapsed)
		}
		p := Period{Lord: lord, Start: cursor, End: cursor.Add(span)}
		subdivide(&p, opts.Depth-1)
		periods = append(periods, p)
		cursor = p.End
	}

	if !opts.From.IsZero() {
		periods = Window(periods, opts.From)
	}
	return periods, nil
}

// fullSpan is the length of a complete mahadasha for lord.
func fullSpan(lord zodiac.Planet) time.Duration {
	return time.Duration(int64(lord.DashaYears())) * Year
}

// subdivide fills p.Children down to levels more levels. Boundaries are
// computed from cumulative fractions and the last child ends exactly at p.End.
func subdivide(p *Period, levels int) {
	if levels <= 0 {
		return
	}
	total := float64(p.Duration())
	start := indexOf(p.Lord)
	n := len(zodiac.DashaOrder)

	p.Children = make([]Period, n)
	cursor := p.Start
	cumulative := 0.0
	for k := 0; k < n; k++ {
		lord := zodiac.DashaOrder[(start+k)%n]
		cumulative += lord.DashaYears()
		end := p.Start.Add(time.Duration(total * cumulative / zodiac.DashaCycleYears))
		if k == n-1 {
			end = p.End
		}
		child := Period{Lord: lord, Start: cursor, End: end}
		subdivide(&child, levels-1)
		p.Children[k] = child
		cursor = end
	}
}

func indexOf(lord zodiac.Planet) int {
	for i, p := range zodiac.DashaOrder {
		if p == lord {
			return i
		}
	}
	return 0
}

// Window drops periods that end at or before from and clips the first
// surviving period (and its descendants) to start at from.
func Window(periods []Period, from time.Time) []Period {
	out := make([]Period, 0, len(periods))
	for _, p := range periods {
		if !p.End.After(from) {
			continue
		}
		if p.Start.Before(from) {
			p.Start = from
		}
		if len(p.Children) > 0 {
			p.Children = Window(p.Children, from)
		}
		out = append(out, p)
	}
	return out
}

// Current returns the chain of periods active at t, outermost first.
func Current(periods []Period, t time.Time) []Period {
	var chain []Period
	level := periods
	for len(level) > 0 {
		found := false
		for _, p := range level {
			if p.Contains(t) {
				chain = append(chain, Period{Lord: p.Lord, Start: p.Start, End: p.End})
				level = p.Children
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return chain
}

// Walk visits every period depth-first; depth starts at 1.
func Walk(periods []Period, fn func(p Period, depth int)) {
	var walk func([]Period, int)
	walk = func(ps []Period, depth int) {
		for _, p := range ps {
			fn(p, depth)
			walk(p.Children, depth+1)
		}
	}
	walk(periods, 1)
}
