package ephemeris

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Table is an Adapter backed by fixed positions and daily motions, typically
// exported from a precise external ephemeris for a single birth moment.
//
// Positions are extrapolated linearly from Epoch using each body's Speed,
// which is what retrograde detection needs. The ayanamsa is a single value
// regardless of the requested mode.
//
// Example file:
//
//	epoch = 2447930.5
//	ayanamsa = 23.71
//	ascendant = 94.2
//	midheaven = 3.8
//
//	[bodies.sun]
//	longitude = 300.1
//	speed = 1.01
//
//	[bodies.mars]
//	longitude = 265.4
//	speed = -0.2
type Table struct {
	Epoch     float64              `toml:"epoch"`
	Value     float64              `toml:"ayanamsa"`
	Ascendant float64              `toml:"ascendant"`
	Midheaven *float64             `toml:"midheaven"`
	Cusps     []float64            `toml:"cusps"`
	Bodies    map[string]TableBody `toml:"bodies"`
}

// TableBody is one body's entry in a Table.
type TableBody struct {
	Longitude float64 `toml:"longitude"`
	Latitude  float64 `toml:"latitude"`
	Speed     float64 `toml:"speed"` // degrees per day
}

// Ensure Table implements Adapter.
var _ Adapter = (*Table)(nil)

// LoadTable reads a Table from a TOML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read ephemeris table %s", path)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a Table from TOML.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode ephemeris table")
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if len(t.Cusps) != 0 && len(t.Cusps) != 12 {
		return errors.New(errors.ErrCodeInvalidInput, "ephemeris table needs 12 cusps, got %d", len(t.Cusps))
	}
	for name := range t.Bodies {
		if _, ok := ParseBody(name); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "ephemeris table has unknown body %q", name)
		}
	}
	return nil
}

// Set stores a body's entry, replacing any previous one.
func (t *Table) Set(b Body, lon, speed float64) {
	if t.Bodies == nil {
		t.Bodies = make(map[string]TableBody)
	}
	t.Bodies[b.String()] = TableBody{Longitude: zodiac.Normalize(lon), Speed: speed}
}

// Position returns the body's longitude extrapolated to jd.
func (t *Table) Position(ctx context.Context, body Body, jd float64) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	entry, ok := t.Bodies[body.String()]
	if !ok && body == TrueNode {
		entry, ok = t.Bodies[MeanNode.String()]
	}
	if !ok {
		return Coordinates{}, errors.New(errors.ErrCodeEphemeris, "ephemeris table has no entry for %v", body)
	}
	dt := 0.0
	if t.Epoch != 0 {
		dt = jd - t.Epoch
	}
	return Coordinates{
		Longitude: zodiac.Normalize(entry.Longitude + entry.Speed*dt),
		Latitude:  entry.Latitude,
	}, nil
}

// Ayanamsa returns the table's fixed ayanamsa.
func (t *Table) Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return t.Value, nil
}

// HouseCusps returns the table's explicit cusps, or derives them from the
// stored ascendant (and midheaven for sripati).
func (t *Table) HouseCusps(ctx context.Context, jd, lat, lon float64, system HouseSystem) ([12]float64, error) {
	var cusps [12]float64
	if err := ctx.Err(); err != nil {
		return cusps, err
	}
	if len(t.Cusps) == 12 {
		copy(cusps[:], t.Cusps)
		return cusps, nil
	}

	asc := zodiac.Normalize(t.Ascendant)
	switch system {
	case Equal:
		for i := range cusps {
			cusps[i] = zodiac.Normalize(asc + 30*float64(i))
		}
	case WholeSign:
		start := math.Floor(asc/30) * 30
		cusps[0] = asc
		for i := 1; i < 12; i++ {
			cusps[i] = zodiac.Normalize(start + 30*float64(i))
		}
	case Sripati:
		if t.Midheaven == nil {
			return cusps, errors.New(errors.ErrCodeEphemeris, "ephemeris table needs a midheaven for %s houses", system)
		}
		cusps = porphyry(asc, zodiac.Normalize(*t.Midheaven))
	default:
		return cusps, errors.New(errors.ErrCodeInvalidOption, "unknown house system %q", system)
	}
	return cusps, nil
}

// String summarizes the table for logging.
func (t *Table) String() string {
	return fmt.Sprintf("table(epoch=%.2f bodies=%d)", t.Epoch, len(t.Bodies))
}
