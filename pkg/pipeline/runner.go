package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/chart"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/observability"
	"github.com/matzehuels/jyotish/pkg/panchanga"
	"github.com/matzehuels/jyotish/pkg/varga"
	"github.com/matzehuels/jyotish/pkg/yoga"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the ephemeris, cache and logger - it
// doesn't store results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Ephemeris ephemeris.Adapter
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
}

// NewRunner creates a runner over eph.
// If eph is nil, the analytic Kepler ephemeris is used.
// If cache is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(eph ephemeris.Adapter, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if eph == nil {
		eph = ephemeris.NewKepler()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Ephemeris: eph,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Execute computes the chart with every selected section.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{CacheKey: r.Keyer.ChartKey(SectionChart, opts.ChartKeyOpts(SectionChart))}

	if c, ok := r.lookup(ctx, SectionChart, result.CacheKey, opts, new(chart.Chart)); ok {
		result.Chart = c.(*chart.Chart)
		result.CacheInfo.Hit = true
		r.logger(opts).Info("loaded chart from cache", "sections", opts.Sections)
		return result, nil
	}

	start := time.Now()
	bc, err := r.BirthContext(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ContextTime = time.Since(start)

	r.logger(opts).Info("resolved birth context",
		"jd", bc.JulianDay,
		"ayanamsa", bc.Ayanamsa,
		"ascendant", bc.AscendantSign(),
		"duration", result.Stats.ContextTime)

	start = time.Now()
	err = r.stage(ctx, "compute", func() error {
		result.Chart, err = chart.Compute(ctx, r.Ephemeris, bc, opts.ChartOptions())
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.ComputeTime = time.Since(start)

	r.logger(opts).Info("computed chart",
		"sections", opts.Sections,
		"duration", result.Stats.ComputeTime)

	r.store(ctx, SectionChart, result.CacheKey, result.Chart, cache.TTLChart)
	return result, nil
}

// BirthContext validates opts and resolves the birth moment through the ephemeris.
func (r *Runner) BirthContext(ctx context.Context, opts Options) (*chart.BirthContext, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	var bc *chart.BirthContext
	err := r.stage(ctx, "context", func() (err error) {
		bc, err = chart.NewBirthContext(ctx, r.Ephemeris, opts.Input())
		return err
	})
	return bc, err
}

// DivisionalChartsWithCacheInfo computes the selected divisional charts and reports a cache hit.
func (r *Runner) DivisionalChartsWithCacheInfo(ctx context.Context, opts Options) (varga.Set, bool, error) {
	return section(ctx, r, SectionDivisional, opts, func(bc *chart.BirthContext, o *Options) (varga.Set, error) {
		return chart.DivisionalChartsOnly(ctx, r.Ephemeris, bc, o.ChartIDs())
	})
}

// DivisionalCharts is a convenience wrapper that discards the cache hit info.
func (r *Runner) DivisionalCharts(ctx context.Context, opts Options) (varga.Set, error) {
	set, _, err := r.DivisionalChartsWithCacheInfo(ctx, opts)
	return set, err
}

// DashaWithCacheInfo computes the Vimshottari timeline and reports a cache hit.
func (r *Runner) DashaWithCacheInfo(ctx context.Context, opts Options) ([]dasha.Period, bool, error) {
	return section(ctx, r, SectionDasha, opts, func(bc *chart.BirthContext, o *Options) ([]dasha.Period, error) {
		return chart.DashaOnly(ctx, r.Ephemeris, bc, o.ChartOptions())
	})
}

// Dasha is a convenience wrapper that discards the cache hit info.
func (r *Runner) Dasha(ctx context.Context, opts Options) ([]dasha.Period, error) {
	periods, _, err := r.DashaWithCacheInfo(ctx, opts)
	return periods, err
}

// YogasWithCacheInfo detects yogas and reports a cache hit.
func (r *Runner) YogasWithCacheInfo(ctx context.Context, opts Options) (yoga.Result, bool, error) {
	return section(ctx, r, SectionYogas, opts, func(bc *chart.BirthContext, _ *Options) (yoga.Result, error) {
		return chart.YogasOnly(ctx, r.Ephemeris, bc)
	})
}

// Yogas is a convenience wrapper that discards the cache hit info.
func (r *Runner) Yogas(ctx context.Context, opts Options) (yoga.Result, error) {
	res, _, err := r.YogasWithCacheInfo(ctx, opts)
	return res, err
}

// StrengthsWithCacheInfo computes Shadbala, Bhava Bala and Ashtakavarga and reports a cache hit.
func (r *Runner) StrengthsWithCacheInfo(ctx context.Context, opts Options) (chart.Strengths, bool, error) {
	return section(ctx, r, SectionStrengths, opts, func(bc *chart.BirthContext, _ *Options) (chart.Strengths, error) {
		return chart.StrengthsOnly(ctx, r.Ephemeris, bc)
	})
}

// Strengths is a convenience wrapper that discards the cache hit info.
func (r *Runner) Strengths(ctx context.Context, opts Options) (chart.Strengths, error) {
	s, _, err := r.StrengthsWithCacheInfo(ctx, opts)
	return s, err
}

// PanchangaWithCacheInfo computes the birth panchanga and reports a cache hit.
func (r *Runner) PanchangaWithCacheInfo(ctx context.Context, opts Options) (panchanga.Snapshot, bool, error) {
	return section(ctx, r, SectionPanchanga, opts, func(bc *chart.BirthContext, _ *Options) (panchanga.Snapshot, error) {
		return chart.PanchangaOnly(ctx, r.Ephemeris, bc)
	})
}

// Panchanga is a convenience wrapper that discards the cache hit info.
func (r *Runner) Panchanga(ctx context.Context, opts Options) (panchanga.Snapshot, error) {
	p, _, err := r.PanchangaWithCacheInfo(ctx, opts)
	return p, err
}

// section runs one partial computation behind the cache. compute receives
// the validated options, so parsed chart ids and dates are available.
func section[T any](ctx context.Context, r *Runner, name string, opts Options, compute func(*chart.BirthContext, *Options) (T, error)) (T, bool, error) {
	var zero T
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return zero, false, err
	}
	key := r.Keyer.ChartKey(name, opts.ChartKeyOpts(name))
	if v, ok := r.lookup(ctx, name, key, opts, new(T)); ok {
		return *v.(*T), true, nil
	}

	bc, err := r.BirthContext(ctx, opts)
	if err != nil {
		return zero, false, err
	}
	var out T
	start := time.Now()
	err = r.stage(ctx, name, func() (err error) {
		out, err = compute(bc, &opts)
		return err
	})
	if err != nil {
		return zero, false, err
	}
	r.logger(opts).Info("computed "+name, "duration", time.Since(start))

	r.store(ctx, name, key, out, cache.TTLChart)
	return out, false, nil
}

// lookup decodes a cached value into dst. Decode failures count as misses.
func (r *Runner) lookup(ctx context.Context, section, key string, opts Options, dst any) (any, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.logger(opts).Warn("cache read failed", "section", section, "error", err)
	}
	if err == nil && hit {
		if err := json.Unmarshal(data, dst); err == nil {
			observability.Cache().OnCacheHit(ctx, section)
			return dst, true
		}
		r.logger(opts).Debug("discarding undecodable cache entry", "section", section)
	}
	observability.Cache().OnCacheMiss(ctx, section)
	return nil, false
}

// store writes v to the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, section, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "section", section, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "section", section, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, section, len(data))
}

// logger returns the per-run logger from opts, falling back to the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// stage reports fn to the pipeline hooks.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, time.Since(start), err)
	return err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
