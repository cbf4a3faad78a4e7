// Package sidereal converts tropical ephemeris output into sidereal planet
// positions with sign, nakshatra, pada and retrograde status.
package sidereal

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Resolve places a tropical longitude in the sidereal zodiac.
// Retrograde is left false; callers decide motion.
func Resolve(p zodiac.Planet, tropical, ayanamsa float64) zodiac.Position {
	lon := zodiac.Normalize(tropical - ayanamsa)
	return place(p, lon)
}

func place(p zodiac.Planet, lon float64) zodiac.Position {
	sign := zodiac.SignOf(lon)
	deg := lon - float64(sign-1)*zodiac.SignSpan
	if deg < 0 {
		deg = 0
	}
	nak := zodiac.NakshatraAt(zodiac.NakshatraIndex(lon))
	return zodiac.Position{
		Planet:         p,
		Longitude:      lon,
		Sign:           sign,
		DegreeInSign:   deg,
		NakshatraIndex: nak.Index,
		NakshatraName:  nak.Name,
		NakshatraLord:  nak.Lord,
		Pada:           zodiac.Pada(lon),
	}
}

// Opposite returns the position 180° from pos under a new name; used to
// derive Ketu from Rahu.
func Opposite(p zodiac.Planet, pos zodiac.Position) zodiac.Position {
	out := place(p, zodiac.Normalize(pos.Longitude+180))
	out.Latitude = -pos.Latitude
	out.Retrograde = pos.Retrograde
	return out
}

// Moving reports whether motion from lon0 to lon1 is retrograde, taking the
// shorter arc so a crossing of 0° is not mistaken for reversal.
func Moving(lon0, lon1 float64) (retrograde bool) {
	d := zodiac.Normalize(lon1-lon0+180) - 180
	return d < 0
}

// Resolver computes sidereal positions for all nine grahas.
type Resolver struct {
	Ephemeris ephemeris.Adapter
	Nodes     ephemeris.NodeType
}

// NewResolver returns a resolver using eph. An empty node type means mean node.
func NewResolver(eph ephemeris.Adapter, nodes ephemeris.NodeType) *Resolver {
	if nodes == "" {
		nodes = ephemeris.NodeMean
	}
	return &Resolver{Ephemeris: eph, Nodes: nodes}
}

// Positions returns the nine grahas at jd in zodiac.Planets order.
//
// Sun and Moon are never retrograde, the nodes always are, and the others are
// retrograde when their longitude one day later is smaller.
func (r *Resolver) Positions(ctx context.Context, jd, ayanamsa float64) ([]zodiac.Position, error) {
	out := make([]zodiac.Position, 0, len(zodiac.Planets))
	var rahu zodiac.Position

	for _, p := range zodiac.Planets {
		if p == zodiac.Ketu {
			out = append(out, Opposite(zodiac.Ketu, rahu))
			continue
		}
		body, ok := ephemeris.BodyFor(p, r.Nodes)
		if !ok {
			return nil, errors.Invariant("no ephemeris body for %s", p)
		}
		now, err := r.Ephemeris.Position(ctx, body, jd)
		if err != nil {
			return nil, wrapEphemeris(err, "position of %s", p)
		}

		pos := Resolve(p, now.Longitude, ayanamsa)
		pos.Latitude = now.Latitude

		switch {
		case p.IsLuminary():
			pos.Retrograde = false
		case p.IsNode():
			pos.Retrograde = true
		default:
			next, err := r.Ephemeris.Position(ctx, body, jd+1)
			if err != nil {
				return nil, wrapEphemeris(err, "motion of %s", p)
			}
			pos.Retrograde = Moving(now.Longitude, next.Longitude)
		}

		if p == zodiac.Rahu {
			rahu = pos
		}
		out = append(out, pos)
	}
	return out, nil
}

// wrapEphemeris tags backend failures, leaving cancellations and input
// errors untouched.
func wrapEphemeris(err error, format string, args ...any) error {
	switch errors.KindOf(err) {
	case errors.KindInput, errors.KindEphemeris:
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(errors.ErrCodeEphemeris, err, format, args...)
}
