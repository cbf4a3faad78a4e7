package chart

import (
	"context"
	"time"

	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/panchanga"
	"github.com/matzehuels/jyotish/pkg/sidereal"
	"github.com/matzehuels/jyotish/pkg/strength"
	"github.com/matzehuels/jyotish/pkg/varga"
	"github.com/matzehuels/jyotish/pkg/yoga"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Options select the optional chart sections.
type Options struct {
	Divisional bool
	Dasha      bool
	Yogas      bool
	Strengths  bool
	Panchanga  bool

	// Charts restricts the divisional charts; empty means all sixty.
	Charts []varga.ChartID

	// DashaDepth is the number of dasha levels (default dasha.DefaultDepth).
	DashaDepth int

	// DashaFrom windows the dasha timeline; zero keeps it from birth.
	DashaFrom time.Time
}

// AllSections returns options enabling every section.
func AllSections() Options {
	return Options{Divisional: true, Dasha: true, Yogas: true, Strengths: true, Panchanga: true}
}

// Aspects groups graha drishti, mutual aspects and rasi drishti.
type Aspects struct {
	Graha  []houses.Record               `json:"graha"`
	Mutual []houses.MutualPair           `json:"mutual"`
	Rasi   map[zodiac.Sign][]zodiac.Sign `json:"rasi"`
}

// Strengths groups the strength engine outputs.
type Strengths struct {
	Shadbala     strength.Shadbala        `json:"shadbala"`
	BhavaBala    []strength.HouseStrength `json:"bhava_bala"`
	Ashtakavarga strength.Ashtakavarga    `json:"ashtakavarga"`
}

// Chart is a computed birth chart. Optional sections are nil when not requested.
type Chart struct {
	Context    *BirthContext       `json:"context"`
	Positions  []zodiac.Position   `json:"positions"`
	Houses     []houses.Occupancy  `json:"houses"`
	Aspects    Aspects             `json:"aspects"`
	Elements   Balance             `json:"elements"`
	Divisional *varga.Set          `json:"divisional,omitempty"`
	Dasha      []dasha.Period      `json:"dasha,omitempty"`
	Yogas      *yoga.Result        `json:"yogas,omitempty"`
	Strengths  *Strengths          `json:"strengths,omitempty"`
	Panchanga  *panchanga.Snapshot `json:"panchanga,omitempty"`
}

// base is the part of a chart every section builds on.
type base struct {
	positions []zodiac.Position
	placement houses.Placement
	occupancy []houses.Occupancy
	records   []houses.Record
	sun, moon zodiac.Position
}

func resolve(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext) (*base, error) {
	if bc == nil {
		return nil, errors.Invariant("birth context is nil")
	}
	positions, err := sidereal.NewResolver(eph, bc.Nodes).Positions(ctx, bc.JulianDay, bc.Ayanamsa)
	if err != nil {
		return nil, err
	}
	sun, ok := zodiac.Find(positions, zodiac.Sun)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingPlanet, "Sun missing from positions")
	}
	moon, ok := zodiac.Find(positions, zodiac.Moon)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingPlanet, "Moon missing from positions")
	}
	placement := houses.Place(positions, bc.Cusps)
	return &base{
		positions: positions,
		placement: placement,
		occupancy: houses.Occupancies(positions, bc.Cusps),
		records:   houses.GrahaDrishti(positions, placement),
		sun:       sun,
		moon:      moon,
	}, nil
}

// Compute builds the chart for bc. Positions, houses, aspects and the element
// balance are always present; other sections follow opts.
func Compute(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext, opts Options) (*Chart, error) {
	b, err := resolve(ctx, eph, bc)
	if err != nil {
		return nil, err
	}

	c := &Chart{
		Context:   bc,
		Positions: b.positions,
		Houses:    b.occupancy,
		Aspects: Aspects{
			Graha:  b.records,
			Mutual: houses.Mutual(b.records),
			Rasi:   houses.SignAspects(),
		},
		Elements: ElementBalance(b.positions, DefaultLuminaryWeight),
	}

	if opts.Divisional {
		set, err := divisional(b, opts.Charts)
		if err != nil {
			return nil, err
		}
		c.Divisional = &set
	}
	if opts.Dasha {
		periods, err := timeline(b, bc, opts)
		if err != nil {
			return nil, err
		}
		c.Dasha = periods
	}
	if opts.Strengths {
		s := strengths(b, bc)
		c.Strengths = &s
	}
	if opts.Yogas {
		y := yogas(b)
		c.Yogas = &y
	}
	if opts.Panchanga {
		p := panchanga.Compute(b.sun.Longitude, b.moon.Longitude, bc.Local)
		c.Panchanga = &p
	}
	return c, nil
}

// DivisionalChartsOnly computes the requested divisional charts (all when ids is empty).
func DivisionalChartsOnly(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext, ids []varga.ChartID) (varga.Set, error) {
	b, err := resolve(ctx, eph, bc)
	if err != nil {
		return varga.Set{}, err
	}
	return divisional(b, ids)
}

// DashaOnly computes the Vimshottari timeline.
func DashaOnly(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext, opts Options) ([]dasha.Period, error) {
	b, err := resolve(ctx, eph, bc)
	if err != nil {
		return nil, err
	}
	return timeline(b, bc, opts)
}

// YogasOnly detects yogas.
func YogasOnly(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext) (yoga.Result, error) {
	b, err := resolve(ctx, eph, bc)
	if err != nil {
		return yoga.Result{}, err
	}
	return yogas(b), nil
}

// StrengthsOnly computes Shadbala, Bhava Bala and Ashtakavarga.
func StrengthsOnly(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext) (Strengths, error) {
	b, err := resolve(ctx, eph, bc)
	if err != nil {
		return Strengths{}, err
	}
	return strengths(b, bc), nil
}

// PanchangaOnly computes the almanac for the birth moment.
func PanchangaOnly(ctx context.Context, eph ephemeris.Adapter, bc *BirthContext) (panchanga.Snapshot, error) {
	b, err := resolve(ctx, eph, bc)
	if err != nil {
		return panchanga.Snapshot{}, err
	}
	return panchanga.Compute(b.sun.Longitude, b.moon.Longitude, bc.Local), nil
}

func divisional(b *base, ids []varga.ChartID) (varga.Set, error) {
	if len(ids) == 0 {
		return varga.ComputeAll(b.positions)
	}
	return varga.ComputeCharts(b.positions, ids)
}

func timeline(b *base, bc *BirthContext, opts Options) ([]dasha.Period, error) {
	return dasha.Vimshottari(b.moon.Longitude, bc.Local, dasha.Options{
		Depth: opts.DashaDepth,
		From:  opts.DashaFrom,
	})
}

func strengths(b *base, bc *BirthContext) Strengths {
	sb := strength.ComputeShadbala(b.positions, b.placement, bc.Local)
	return Strengths{
		Shadbala:     sb,
		BhavaBala:    strength.ComputeBhavaBala(b.occupancy, sb),
		Ashtakavarga: strength.ComputeAshtakavarga(b.positions),
	}
}

func yogas(b *base) yoga.Result {
	return yoga.Detect(yoga.Input{
		Positions:   b.positions,
		Occupancies: b.occupancy,
		Placement:   b.placement,
		Aspects:     b.records,
	})
}
