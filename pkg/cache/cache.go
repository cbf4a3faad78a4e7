// Package cache stores computed chart sections keyed by birth data and options.
//
// Backends:
//   - MemoryCache: bounded in-process cache with TTL expiry (server default)
//   - FileCache: JSON files under a directory (CLI default)
//   - RedisCache: shared cache for multi-instance deployments
//   - MongoCache: document store with a TTL index
//   - NullCache: never stores anything
//
// Keys are produced by a Keyer so callers never build them by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ChartKey("dasha", cache.ChartKeyOpts{Date: "1990-02-05", ...})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the backend default.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if the backend supports it and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}

// Default TTLs.
const (
	// TTLChart is how long computed chart sections stay cached.
	TTLChart = time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// ChartKey identifies one computed section ("chart", "dasha", ...) of a birth chart.
	ChartKey(section string, opts ChartKeyOpts) string

	// ArtifactKey identifies a rendering of a cached chart.
	ArtifactKey(chartKey string, opts ArtifactKeyOpts) string
}

// ChartKeyOpts are the inputs that determine a chart section.
type ChartKeyOpts struct {
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Timezone    string   `json:"timezone"`
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lon"`
	Ayanamsa    string   `json:"ayanamsa"`
	HouseSystem string   `json:"house_system"`
	Nodes       string   `json:"nodes"`
	DashaDepth  int      `json:"dasha_depth,omitempty"`
	DashaFrom   string   `json:"dasha_from,omitempty"`
	Charts      []string `json:"charts,omitempty"`
	Sections    []string `json:"sections,omitempty"`
}

// ArtifactKeyOpts are the inputs that determine a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Kind   string `json:"kind"`
}

// DefaultKeyer produces "chart:<section>:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ChartKey hashes the options under a section prefix.
func (DefaultKeyer) ChartKey(section string, opts ChartKeyOpts) string {
	return hashKey("chart:"+section, canonicalChartKey(opts))
}

// ArtifactKey hashes the chart key and rendering options.
func (DefaultKeyer) ArtifactKey(chartKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", chartKey, opts)
}
