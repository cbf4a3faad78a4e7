// Package pkg provides the core libraries for Jyotish, a sidereal birth chart
// calculator.
//
// # Overview
//
// Jyotish turns birth data (date, time, timezone and coordinates) into a Vedic
// chart: sidereal planet positions, houses, aspects, divisional charts, the
// Vimshottari dasha timeline, yogas, strengths and the panchanga. The pkg
// directory is organized into four areas:
//
//  1. Domain primitives - [zodiac], [errors]
//  2. Calculation - [ephemeris], [sidereal], [houses], [varga], [dasha],
//     [strength], [yoga], [panchanga]
//  3. Orchestration - [chart], [pipeline]
//  4. Infrastructure - [cache], [jobs], [observability], [render/aspectgraph]
//
// # Architecture
//
// The typical data flow:
//
//	Birth data
//	     ↓
//	[pipeline] validate options, look up cache
//	     ↓
//	[chart] build the birth context (Julian day, ayanamsa, ascendant, cusps)
//	     ↓
//	[sidereal] planet positions  →  [houses] occupancy and aspects
//	     ↓
//	optional sections: [varga], [dasha], [yoga], [strength], [panchanga]
//	     ↓
//	JSON / YAML / tables / aspect graph (SVG, PNG, DOT)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "time"
//	    "github.com/matzehuels/jyotish/pkg/cache"
//	    "github.com/matzehuels/jyotish/pkg/ephemeris"
//	    "github.com/matzehuels/jyotish/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(ephemeris.NewKepler(), cache.NewMemoryCache(100, time.Hour), cache.NewDefaultKeyer(), nil)
//	defer runner.Close()
//
//	res, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Date:      "1990-02-05",
//	    Time:      "14:30",
//	    Timezone:  "Asia/Kolkata",
//	    Latitude:  28.61,
//	    Longitude: 77.21,
//	})
//	fmt.Println(res.Chart.Context.Ascendant)
//
// # Main Packages
//
// [ephemeris] - The tropical ephemeris interface plus two implementations: an
// analytic Kepler model and a tabulated source loaded from JSON. Ayanamsa
// models and house cusps live here too.
//
// [sidereal] - Converts tropical longitudes to sidereal positions with sign,
// nakshatra, pada and retrograde state.
//
// [houses] - House occupancy, graha and rasi drishti, and mutual aspects.
//
// [varga] - The sixty divisional charts (D1-D60) and vargottama detection.
//
// [dasha] - The nested Vimshottari timeline down to prana level.
//
// [strength] - Shadbala, Bhava Bala and Ashtakavarga.
//
// [yoga] - Classical yoga detection.
//
// [panchanga] - Tithi, nakshatra, yoga, karana and vaara at birth.
//
// [pipeline] - The cached calculation pipeline used by both the CLI and the
// HTTP server. Ensures consistent behavior across all entry points.
//
// [cache] - Result cache backends: memory, file, Redis and MongoDB.
//
// [jobs] - Asynchronous chart jobs for the HTTP API, stored in memory or Redis.
package pkg
