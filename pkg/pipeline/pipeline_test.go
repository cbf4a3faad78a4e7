package pipeline

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/varga"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

func fixture() *ephemeris.Table {
	mc := 10.0
	tbl := &ephemeris.Table{
		Epoch:     ephemeris.JulianDay(time.Date(1990, 2, 5, 9, 0, 0, 0, time.UTC)),
		Value:     24,
		Ascendant: 100,
		Midheaven: &mc,
	}
	tbl.Set(ephemeris.Sun, 304, 1.01)
	tbl.Set(ephemeris.Moon, 69, 13.2)
	tbl.Set(ephemeris.Mars, 274, 0.7)
	tbl.Set(ephemeris.Mercury, 224, -0.4)
	tbl.Set(ephemeris.Jupiter, 199, 0.1)
	tbl.Set(ephemeris.Venus, 94, 1.2)
	tbl.Set(ephemeris.Saturn, 154, 0.05)
	tbl.Set(ephemeris.MeanNode, 44, -0.05)
	return tbl
}

// countingEphemeris counts birth context resolutions.
type countingEphemeris struct {
	ephemeris.Adapter
	contexts atomic.Int32
}

func (c *countingEphemeris) Ayanamsa(ctx context.Context, jd float64, mode ephemeris.AyanamsaMode) (float64, error) {
	c.contexts.Add(1)
	return c.Adapter.Ayanamsa(ctx, jd, mode)
}

func testOptions() Options {
	return Options{
		Date:      "1990-02-05",
		Time:      "14:30",
		Timezone:  "Asia/Kolkata",
		Latitude:  28.61,
		Longitude: 77.21,
	}
}

func testRunner() (*Runner, *countingEphemeris) {
	eph := &countingEphemeris{Adapter: fixture()}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewRunner(eph, cache.NewMemoryCache(0, time.Hour), nil, logger), eph
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Date: "1990-02-05", Timezone: "UTC"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Time != "12:00" {
		t.Errorf("Time = %q, want 12:00", opts.Time)
	}
	if opts.Ayanamsa != "lahiri" || opts.HouseSystem != "whole_sign" || opts.Nodes != "mean" {
		t.Errorf("calculation defaults not applied: %+v", opts)
	}
	if opts.DashaDepth != DefaultDashaDepth {
		t.Errorf("DashaDepth = %d, want %d", opts.DashaDepth, DefaultDashaDepth)
	}
	if len(opts.Sections) != len(Sections) {
		t.Errorf("Sections = %v, want all", opts.Sections)
	}
	if opts.Logger != nil {
		t.Error("Logger should stay nil so the runner's logger is used")
	}

	// Idempotent
	opts.Sections = []string{SectionDasha}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Sections) != 1 {
		t.Error("second call should not reapply defaults")
	}
}

func TestValidateAndSetDefaultsEmptySections(t *testing.T) {
	opts := testOptions()
	opts.Sections = []string{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	co := opts.ChartOptions()
	if co.Divisional || co.Dasha || co.Yogas || co.Strengths || co.Panchanga {
		t.Errorf("empty sections should disable every section: %+v", co)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"ayanamsa", func(o *Options) { o.Ayanamsa = "tropical" }, errors.ErrCodeInvalidOption},
		{"house system", func(o *Options) { o.HouseSystem = "placidus" }, errors.ErrCodeInvalidOption},
		{"nodes", func(o *Options) { o.Nodes = "osculating" }, errors.ErrCodeInvalidOption},
		{"section", func(o *Options) { o.Sections = []string{"dasha", "transits"} }, errors.ErrCodeInvalidOption},
		{"depth high", func(o *Options) { o.DashaDepth = 6 }, errors.ErrCodeInvalidOption},
		{"depth negative", func(o *Options) { o.DashaDepth = -1 }, errors.ErrCodeInvalidOption},
		{"dasha from", func(o *Options) { o.DashaFrom = "2020/01/01" }, errors.ErrCodeInvalidOption},
		{"chart id", func(o *Options) { o.Charts = []string{"D9", "D61"} }, errors.ErrCodeInvalidOption},
		{"latitude", func(o *Options) { o.Latitude = 95 }, errors.ErrCodeInvalidCoordinates},
		{"longitude", func(o *Options) { o.Longitude = -181 }, errors.ErrCodeInvalidCoordinates},
		{"timezone", func(o *Options) { o.Timezone = "Mars/Olympus" }, errors.ErrCodeInvalidTimezone},
		{"missing timezone", func(o *Options) { o.Timezone = "" }, errors.ErrCodeInvalidTimezone},
		{"date", func(o *Options) { o.Date = "05/02/1990" }, errors.ErrCodeInvalidDate},
		{"time", func(o *Options) { o.Time = "2pm" }, errors.ErrCodeInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidationMessageUsesJSONNames(t *testing.T) {
	opts := testOptions()
	opts.HouseSystem = "placidus"
	err := opts.ValidateAndSetDefaults()
	if msg := errors.UserMessage(err); !strings.HasPrefix(msg, "house_system must be one of") {
		t.Errorf("message = %q", msg)
	}
}

func TestChartKeyOpts(t *testing.T) {
	opts := testOptions()
	opts.DashaDepth = 3
	opts.Charts = []string{"d9", "D10"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if k := opts.ChartKeyOpts(SectionYogas); k.DashaDepth != 0 || k.Charts != nil {
		t.Errorf("yogas key should ignore dasha and chart options: %+v", k)
	}
	if k := opts.ChartKeyOpts(SectionDasha); k.DashaDepth != 3 {
		t.Errorf("dasha key DashaDepth = %d, want 3", k.DashaDepth)
	}
	k := opts.ChartKeyOpts(SectionDivisional)
	if len(k.Charts) != 2 || k.Charts[0] != "D9" || k.Charts[1] != "D10" {
		t.Errorf("divisional key Charts = %v, want [D9 D10]", k.Charts)
	}
	if k := opts.ChartKeyOpts(SectionChart); len(k.Sections) != len(Sections) || k.DashaDepth != 3 {
		t.Errorf("chart key should carry sections and dasha depth: %+v", k)
	}
}

func TestExecute(t *testing.T) {
	r, eph := testRunner()
	ctx := context.Background()

	res, err := r.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.Hit {
		t.Error("first run should miss the cache")
	}
	c := res.Chart
	if len(c.Positions) != len(zodiac.Planets) {
		t.Errorf("positions = %d, want %d", len(c.Positions), len(zodiac.Planets))
	}
	if c.Divisional == nil || len(c.Divisional.Charts) != varga.NumCharts {
		t.Error("all divisional charts should be computed by default")
	}
	if len(c.Dasha) != len(zodiac.DashaOrder) || c.Yogas == nil || c.Strengths == nil || c.Panchanga == nil {
		t.Error("every section should be present")
	}
	if eph.contexts.Load() != 1 {
		t.Errorf("birth context resolved %d times, want 1", eph.contexts.Load())
	}

	again, err := r.Execute(ctx, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.Hit {
		t.Error("second run should hit the cache")
	}
	if again.CacheKey != res.CacheKey {
		t.Error("cache key should be stable")
	}
	if eph.contexts.Load() != 1 {
		t.Error("cache hit should not touch the ephemeris")
	}
	if again.Chart.Positions[1].Longitude != c.Positions[1].Longitude {
		t.Error("cached chart should decode to the same positions")
	}
	if len(again.Chart.Divisional.Charts) != varga.NumCharts {
		t.Error("cached divisional charts should decode by chart id")
	}

	refresh := testOptions()
	refresh.Refresh = true
	if res, err := r.Execute(ctx, refresh); err != nil || res.CacheInfo.Hit {
		t.Errorf("refresh should recompute (hit=%v, err=%v)", res != nil && res.CacheInfo.Hit, err)
	}
}

func TestExecuteSubset(t *testing.T) {
	r, _ := testRunner()
	opts := testOptions()
	opts.Sections = []string{SectionYogas, SectionPanchanga}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	c := res.Chart
	if c.Divisional != nil || c.Dasha != nil || c.Strengths != nil {
		t.Error("unselected sections should be nil")
	}
	if c.Yogas == nil || c.Panchanga == nil {
		t.Error("selected sections should be present")
	}
}

func TestExecuteErrors(t *testing.T) {
	r, _ := testRunner()

	opts := testOptions()
	opts.Date = "1700-01-01"
	_, err := r.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeDateOutOfRange) {
		t.Errorf("error = %v, want DATE_OUT_OF_RANGE", err)
	}

	opts = testOptions()
	opts.Latitude = -91
	if _, err := r.Execute(context.Background(), opts); errors.KindOf(err) != errors.KindInput {
		t.Errorf("error kind = %v, want input", errors.KindOf(err))
	}
}

func TestSections(t *testing.T) {
	r, eph := testRunner()
	ctx := context.Background()
	opts := testOptions()
	opts.DashaDepth = 2
	opts.Charts = []string{"D9"}

	periods, hit, err := r.DashaWithCacheInfo(ctx, opts)
	if err != nil || hit {
		t.Fatalf("Dasha: hit=%v err=%v", hit, err)
	}
	if len(periods) != 9 || len(periods[0].Children) != 9 {
		t.Errorf("dasha depth 2 should give 9x9 periods")
	}
	cached, hit, err := r.DashaWithCacheInfo(ctx, opts)
	if err != nil || !hit {
		t.Fatalf("second Dasha: hit=%v err=%v", hit, err)
	}
	if !cached[0].Start.Equal(periods[0].Start) || cached[0].Lord != periods[0].Lord {
		t.Error("cached dasha differs")
	}

	set, err := r.DivisionalCharts(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Charts) != 1 || set.Charts[varga.D9] == nil {
		t.Errorf("want only D9, got %d charts", len(set.Charts))
	}

	if _, err := r.Yogas(ctx, opts); err != nil {
		t.Errorf("Yogas: %v", err)
	}
	s, err := r.Strengths(ctx, opts)
	if err != nil {
		t.Fatalf("Strengths: %v", err)
	}
	if got := s.Ashtakavarga.Total(); got != 72 {
		t.Errorf("ashtakavarga total = %d, want 72", got)
	}
	p, err := r.Panchanga(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if p.Vaara != "Monday" {
		t.Errorf("Vaara = %q, want Monday", p.Vaara)
	}

	if got := eph.contexts.Load(); got != 5 {
		t.Errorf("birth context resolved %d times, want 5 (one per uncached section)", got)
	}
}

func TestSectionsHonorParsedOptions(t *testing.T) {
	r, _ := testRunner()
	ctx := context.Background()
	kolkata, _ := time.LoadLocation("Asia/Kolkata")
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, kolkata)

	// Each call gets fresh options that have not been validated yet.
	fresh := func() Options {
		opts := testOptions()
		opts.Charts = []string{"D9"}
		opts.DashaFrom = "2020-01-01"
		return opts
	}

	for _, wantHit := range []bool{false, true} {
		set, hit, err := r.DivisionalChartsWithCacheInfo(ctx, fresh())
		if err != nil {
			t.Fatalf("DivisionalCharts: %v", err)
		}
		if hit != wantHit {
			t.Errorf("DivisionalCharts hit = %v, want %v", hit, wantHit)
		}
		if len(set.Charts) != 1 || set.Charts[varga.D9] == nil {
			t.Errorf("want only D9, got %d charts (hit=%v)", len(set.Charts), hit)
		}

		periods, hit, err := r.DashaWithCacheInfo(ctx, fresh())
		if err != nil {
			t.Fatalf("Dasha: %v", err)
		}
		if hit != wantHit {
			t.Errorf("Dasha hit = %v, want %v", hit, wantHit)
		}
		if len(periods) == 0 {
			t.Fatal("windowed dasha is empty")
		}
		if !periods[0].End.After(from) || periods[0].Start.Before(from) {
			t.Errorf("first period %v..%v not windowed to %v (hit=%v)", periods[0].Start, periods[0].End, from, hit)
		}
	}
}

func TestOptionsLoggerReceivesProgress(t *testing.T) {
	r, _ := testRunner()
	var buf strings.Builder
	opts := testOptions()
	opts.Logger = log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	if _, err := r.Panchanga(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "computed panchanga") {
		t.Errorf("run logger missing progress message:\n%s", buf.String())
	}
}

func TestRenderAspects(t *testing.T) {
	r, _ := testRunner()
	ctx := context.Background()

	dot, hit, err := r.RenderAspectsWithCacheInfo(ctx, testOptions(), RenderOptions{Format: "dot"})
	if err != nil || hit {
		t.Fatalf("RenderAspects: hit=%v err=%v", hit, err)
	}
	if !strings.HasPrefix(string(dot), "digraph aspects {") {
		t.Errorf("unexpected DOT: %.40s", dot)
	}

	_, hit, err = r.RenderAspectsWithCacheInfo(ctx, testOptions(), RenderOptions{Format: "dot"})
	if err != nil || !hit {
		t.Errorf("second render: hit=%v err=%v", hit, err)
	}

	if _, err := r.RenderAspects(ctx, testOptions(), RenderOptions{Format: "pdf"}); err == nil {
		t.Error("unsupported format should fail")
	}
}
