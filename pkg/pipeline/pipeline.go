// Package pipeline provides the chart computation pipeline shared by the CLI
// and the HTTP API.
//
// This package wraps pkg/chart with option validation, result caching,
// observability hooks and logging, so every entry point behaves the same way.
//
// # Architecture
//
// A run has two stages:
//
//  1. Context: validate birth data and resolve the Julian day, ayanamsa and
//     house cusps through the ephemeris
//  2. Compute: derive positions, houses and aspects, then every requested
//     section (divisional charts, dasha, yogas, strengths, panchanga)
//
// Each section can also be computed on its own and is cached under its own key.
//
// # Usage
//
//	runner := pipeline.NewRunner(ephemeris.NewKepler(), cache, nil, logger)
//	opts := pipeline.Options{
//	    Date:      "1990-02-05",
//	    Time:      "14:30",
//	    Timezone:  "Asia/Kolkata",
//	    Latitude:  28.61,
//	    Longitude: 77.21,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Chart.Positions)
//
// Run individual sections:
//
//	periods, err := runner.Dasha(ctx, opts)
//	set, err := runner.DivisionalCharts(ctx, opts)
package pipeline

import (
	stderrors "errors"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/chart"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/varga"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	DefaultAyanamsa    = string(chart.DefaultAyanamsa)
	DefaultHouseSystem = string(chart.DefaultHouseSystem)
	DefaultNodes       = string(chart.DefaultNodes)
	DefaultDashaDepth  = dasha.DefaultDepth
)

// Section names. They double as cache key sections and HTTP route suffixes.
const (
	SectionChart      = "chart"
	SectionDivisional = "divisional"
	SectionDasha      = "dasha"
	SectionYogas      = "yogas"
	SectionStrengths  = "strengths"
	SectionPanchanga  = "panchanga"
)

// Sections lists the optional chart sections in computation order.
var Sections = []string{SectionDivisional, SectionDasha, SectionYogas, SectionStrengths, SectionPanchanga}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains everything needed to compute a chart.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Birth data
	Date      string  `json:"date"`
	Time      string  `json:"time,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Calculation settings
	Ayanamsa    string `json:"ayanamsa,omitempty" validate:"omitempty,oneof=lahiri raman kp fagan_bradley"`
	HouseSystem string `json:"house_system,omitempty" validate:"omitempty,oneof=whole_sign equal sripati"`
	Nodes       string `json:"nodes,omitempty" validate:"omitempty,oneof=mean true"`

	// Sections selects optional sections for Execute. Nil means all; an
	// empty list computes only positions, houses and aspects.
	Sections []string `json:"sections,omitempty" validate:"omitempty,dive,oneof=divisional dasha yogas strengths panchanga"`

	// Charts restricts divisional charts ("D9", "D10", ...); empty means all sixty.
	Charts []string `json:"charts,omitempty" validate:"omitempty,max=60"`

	DashaDepth int    `json:"dasha_depth,omitempty" validate:"min=0,max=5"`
	DashaFrom  string `json:"dasha_from,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)

	// Logger receives this run's progress messages. Nil uses the Runner's logger.
	Logger *log.Logger `json:"-" validate:"-"`

	chartIDs  []varga.ChartID
	dashaFrom time.Time

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Chart     *chart.Chart `json:"chart"`
	CacheKey  string       `json:"cache_key"`
	Stats     Stats        `json:"stats"`
	CacheInfo CacheInfo    `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ContextTime time.Duration `json:"context_ns"`
	ComputeTime time.Duration `json:"compute_ns"`
}

// CacheInfo tracks whether the result came from the cache.
type CacheInfo struct {
	Hit bool `json:"hit"`
}

// =============================================================================
// Validation
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// formatValidationError turns the first failed rule into an INVALID_OPTION error.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid options")
	}
	e := verrs[0]
	switch e.Tag() {
	case "oneof":
		return errors.New(errors.ErrCodeInvalidOption, "%s must be one of: %s (got %q)", e.Field(), e.Param(), e.Value())
	case "min":
		return errors.New(errors.ErrCodeInvalidOption, "%s must be at least %s", e.Field(), e.Param())
	case "max":
		return errors.New(errors.ErrCodeInvalidOption, "%s must be at most %s", e.Field(), e.Param())
	case "datetime":
		return errors.New(errors.ErrCodeInvalidOption, "%s must be a date in %s format", e.Field(), e.Param())
	}
	return errors.New(errors.ErrCodeInvalidOption, "%s is invalid", e.Field())
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
//
// Birth data is checked with the coded validators in pkg/errors so callers
// see INVALID_COORDINATES, INVALID_TIMEZONE or INVALID_DATE; calculation
// settings are checked against their struct tags.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	if err := errors.ValidateCoordinates(o.Latitude, o.Longitude); err != nil {
		return err
	}
	loc, err := errors.LoadTimezone(o.Timezone)
	if err != nil {
		return err
	}
	if _, err := errors.ParseBirthTime(o.Date, o.Time, loc); err != nil {
		return err
	}

	ids, err := varga.ParseChartIDs(o.Charts)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidOption, "%s", errors.UserMessage(err))
	}
	o.chartIDs = ids

	if o.DashaFrom != "" {
		from, err := time.ParseInLocation("2006-01-02", o.DashaFrom, loc)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidOption, "dasha_from must be a date in 2006-01-02 format")
		}
		o.dashaFrom = from
	}

	if o.Time == "" {
		o.Time = "12:00"
	}
	if o.Ayanamsa == "" {
		o.Ayanamsa = DefaultAyanamsa
	}
	if o.HouseSystem == "" {
		o.HouseSystem = DefaultHouseSystem
	}
	if o.Nodes == "" {
		o.Nodes = DefaultNodes
	}
	if o.DashaDepth == 0 {
		o.DashaDepth = DefaultDashaDepth
	}
	if o.Sections == nil {
		o.Sections = slices.Clone(Sections)
	}

	o.validated = true
	return nil
}

// HasSection reports whether s is among the selected sections.
func (o *Options) HasSection(s string) bool {
	return slices.Contains(o.Sections, s)
}

// ChartIDs returns the parsed divisional chart ids. Valid after ValidateAndSetDefaults.
func (o *Options) ChartIDs() []varga.ChartID { return o.chartIDs }

// Input returns the birth data for chart.NewBirthContext.
func (o *Options) Input() chart.Input {
	return chart.Input{
		Date:        o.Date,
		Time:        o.Time,
		Timezone:    o.Timezone,
		Latitude:    o.Latitude,
		Longitude:   o.Longitude,
		Ayanamsa:    ephemeris.AyanamsaMode(o.Ayanamsa),
		HouseSystem: ephemeris.HouseSystem(o.HouseSystem),
		Nodes:       ephemeris.NodeType(o.Nodes),
	}
}

// ChartOptions returns the section selection for chart.Compute.
func (o *Options) ChartOptions() chart.Options {
	return chart.Options{
		Divisional: o.HasSection(SectionDivisional),
		Dasha:      o.HasSection(SectionDasha),
		Yogas:      o.HasSection(SectionYogas),
		Strengths:  o.HasSection(SectionStrengths),
		Panchanga:  o.HasSection(SectionPanchanga),
		Charts:     o.chartIDs,
		DashaDepth: o.DashaDepth,
		DashaFrom:  o.dashaFrom,
	}
}

// ChartKeyOpts returns cache key options for section. Only the options that
// affect section are included, so unrelated settings share cache entries.
func (o *Options) ChartKeyOpts(section string) cache.ChartKeyOpts {
	k := cache.ChartKeyOpts{
		Date:        o.Date,
		Time:        o.Time,
		Timezone:    o.Timezone,
		Latitude:    o.Latitude,
		Longitude:   o.Longitude,
		Ayanamsa:    o.Ayanamsa,
		HouseSystem: o.HouseSystem,
		Nodes:       o.Nodes,
	}
	charts := make([]string, len(o.chartIDs))
	for i, id := range o.chartIDs {
		charts[i] = id.String()
	}
	switch section {
	case SectionChart:
		k.Sections = o.Sections
		if o.HasSection(SectionDivisional) {
			k.Charts = charts
		}
		if o.HasSection(SectionDasha) {
			k.DashaDepth = o.DashaDepth
			k.DashaFrom = o.DashaFrom
		}
	case SectionDivisional:
		k.Charts = charts
	case SectionDasha:
		k.DashaDepth = o.DashaDepth
		k.DashaFrom = o.DashaFrom
	}
	return k
}
