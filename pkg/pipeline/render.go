package pipeline

import (
	"context"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/render/aspectgraph"
)

// ArtifactAspects names the aspect graph in artifact cache keys.
const ArtifactAspects = "aspects"

// RenderOptions configures aspect graph rendering.
type RenderOptions struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// RenderAspectsWithCacheInfo renders the aspect graph of the chart described
// by opts and reports whether the artifact came from the cache.
func (r *Runner) RenderAspectsWithCacheInfo(ctx context.Context, opts Options, ro RenderOptions) ([]byte, bool, error) {
	if ro.Format == "" {
		ro.Format = aspectgraph.FormatSVG
	}
	if err := aspectgraph.ValidateFormat(ro.Format); err != nil {
		return nil, false, err
	}

	// Only positions, houses and aspects feed the graph.
	opts.Sections = []string{}
	opts.Charts = nil
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	kind := ArtifactAspects
	if ro.Detailed {
		kind += ":detailed"
	}
	key := r.Keyer.ArtifactKey(res.CacheKey, cache.ArtifactKeyOpts{Format: ro.Format, Kind: kind})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	var out []byte
	err = r.stage(ctx, "render", func() (err error) {
		dot := aspectgraph.ToDOT(res.Chart, aspectgraph.Options{Detailed: ro.Detailed})
		out, err = aspectgraph.Render(ctx, dot, ro.Format)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	r.logger(opts).Info("rendered aspect graph", "format", ro.Format, "bytes", len(out))

	if err := r.Cache.Set(ctx, key, out, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "section", "artifact", "error", err)
	}
	return out, false, nil
}

// RenderAspects is a convenience wrapper that discards the cache hit info.
func (r *Runner) RenderAspects(ctx context.Context, opts Options, ro RenderOptions) ([]byte, error) {
	out, _, err := r.RenderAspectsWithCacheInfo(ctx, opts, ro)
	return out, err
}
