// Package chart assembles a Vedic birth chart from raw birth data.
//
// NewBirthContext validates the input and resolves everything that depends on
// the ephemeris only once (Julian day, ayanamsa, house cusps). Compute then
// derives positions, houses, aspects and every optional section from it.
// The partial functions (DivisionalChartsOnly, DashaOnly, ...) compute a
// single section for callers that need nothing else.
package chart

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Input is raw birth data as entered by a user.
type Input struct {
	Date        string                 `json:"date"` // YYYY-MM-DD
	Time        string                 `json:"time"` // HH:MM or HH:MM:SS, default 12:00
	Timezone    string                 `json:"timezone"`
	Latitude    float64                `json:"latitude"`
	Longitude   float64                `json:"longitude"`
	Ayanamsa    ephemeris.AyanamsaMode `json:"ayanamsa,omitempty"`
	HouseSystem ephemeris.HouseSystem  `json:"house_system,omitempty"`
	Nodes       ephemeris.NodeType     `json:"nodes,omitempty"`
}

// Defaults for empty Input fields.
const (
	DefaultAyanamsa    = ephemeris.Lahiri
	DefaultHouseSystem = ephemeris.WholeSign
	DefaultNodes       = ephemeris.NodeMean
)

// BirthContext is the validated, ephemeris-resolved birth moment. It is
// immutable once built.
type BirthContext struct {
	JulianDay    float64                `json:"julian_day"`
	Local        time.Time              `json:"local"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	AyanamsaMode ephemeris.AyanamsaMode `json:"ayanamsa_mode"`
	Ayanamsa     float64                `json:"ayanamsa"`
	HouseSystem  ephemeris.HouseSystem  `json:"house_system"`
	Nodes        ephemeris.NodeType     `json:"nodes"`
	Ascendant    float64                `json:"ascendant"`
	Cusps        houses.Cusps           `json:"cusps"`
}

// AscendantSign returns the sign rising at birth.
func (bc *BirthContext) AscendantSign() zodiac.Sign { return zodiac.SignOf(bc.Ascendant) }

// NewBirthContext validates in and resolves the Julian day, ayanamsa and
// sidereal cusps through eph.
//
// Input problems come back as input-kind errors; backend failures are wrapped
// as EPHEMERIS_ERROR.
func NewBirthContext(ctx context.Context, eph ephemeris.Adapter, in Input) (*BirthContext, error) {
	if in.Ayanamsa == "" {
		in.Ayanamsa = DefaultAyanamsa
	}
	if in.HouseSystem == "" {
		in.HouseSystem = DefaultHouseSystem
	}
	if in.Nodes == "" {
		in.Nodes = DefaultNodes
	}
	if !in.Ayanamsa.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown ayanamsa %q", in.Ayanamsa)
	}
	if !in.HouseSystem.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown house system %q", in.HouseSystem)
	}
	if !in.Nodes.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown node type %q", in.Nodes)
	}
	if err := errors.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}
	loc, err := errors.LoadTimezone(in.Timezone)
	if err != nil {
		return nil, err
	}
	local, err := errors.ParseBirthTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateDateRange(local); err != nil {
		return nil, err
	}

	jd := ephemeris.JulianDay(local)
	ayan, err := eph.Ayanamsa(ctx, jd, in.Ayanamsa)
	if err != nil {
		return nil, wrapEphemeris(err, "ayanamsa")
	}
	tropical, err := eph.HouseCusps(ctx, jd, in.Latitude, in.Longitude, in.HouseSystem)
	if err != nil {
		return nil, wrapEphemeris(err, "house cusps")
	}

	asc := zodiac.Normalize(tropical[0] - ayan)
	var cusps houses.Cusps
	if in.HouseSystem == ephemeris.WholeSign {
		// Whole-sign houses begin at the sidereal rising sign.
		start := math.Floor(asc/zodiac.SignSpan) * zodiac.SignSpan
		for i := range cusps {
			cusps[i] = zodiac.Normalize(start + zodiac.SignSpan*float64(i))
		}
	} else {
		for i, c := range tropical {
			cusps[i] = zodiac.Normalize(c - ayan)
		}
	}
	if err := cusps.Validate(); err != nil {
		return nil, err
	}

	return &BirthContext{
		JulianDay:    jd,
		Local:        local,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		AyanamsaMode: in.Ayanamsa,
		Ayanamsa:     ayan,
		HouseSystem:  in.HouseSystem,
		Nodes:        in.Nodes,
		Ascendant:    asc,
		Cusps:        cusps,
	}, nil
}

func wrapEphemeris(err error, what string) error {
	switch errors.KindOf(err) {
	case errors.KindInput, errors.KindEphemeris:
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(errors.ErrCodeEphemeris, err, "%s", what)
}
