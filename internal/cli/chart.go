package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/chart"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// =============================================================================
// Birth Flags - shared by every chart command
// =============================================================================

// birthFlags binds the birth data and calculation flags to pipeline options.
type birthFlags struct {
	opts    pipeline.Options
	output  string
	noCache bool
}

func (b *birthFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.opts.Date, "date", "", "birth date (YYYY-MM-DD)")
	f.StringVar(&b.opts.Time, "time", "", "local birth time (HH:MM[:SS], default 12:00)")
	f.StringVar(&b.opts.Timezone, "tz", "", "IANA timezone of the birth place, e.g. Asia/Kolkata")
	f.Float64Var(&b.opts.Latitude, "lat", 0, "latitude in degrees, north positive")
	f.Float64Var(&b.opts.Longitude, "lon", 0, "longitude in degrees, east positive")
	f.StringVar(&b.opts.Ayanamsa, "ayanamsa", "", "ayanamsa: lahiri (default), raman, kp, fagan_bradley")
	f.StringVar(&b.opts.HouseSystem, "houses", "", "house system: whole_sign (default), equal, sripati")
	f.StringVar(&b.opts.Nodes, "nodes", "", "lunar node: mean (default), true")
	f.BoolVar(&b.opts.Refresh, "refresh", false, "recompute and overwrite cached results")
	f.BoolVar(&b.noCache, "no-cache", false, "disable caching")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("tz")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	registerBirthCompletions(cmd)
}

// registerOutput adds the -o flag for commands that print data.
func (b *birthFlags) registerOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.output, "output", "o", outputTable, "output format: table, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{outputTable, outputJSON, outputYAML}, cobra.ShellCompDirectiveNoFileComp))
}

// prepare applies config defaults and builds a runner.
func (c *CLI) prepare(ctx context.Context, b *birthFlags) (*pipeline.Runner, pipeline.Options, error) {
	if b.output != "" {
		if err := validateOutput(b.output); err != nil {
			return nil, pipeline.Options{}, err
		}
	}
	opts := b.opts
	c.Config.applyDefaults(&opts)
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, pipeline.Options{}, err
	}

	runner, err := c.newRunner(ctx, b.noCache)
	if err != nil {
		return nil, pipeline.Options{}, fmt.Errorf("initialize runner: %w", err)
	}
	return runner, opts, nil
}

// =============================================================================
// chart
// =============================================================================

func (c *CLI) chartCommand() *cobra.Command {
	var b birthFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a full birth chart",
		Long: `Compute a full birth chart.

Positions, houses and aspects are always included. Use --sections to limit the
optional sections (divisional, dasha, yogas, strengths, panchanga); all are
computed by default. Results are cached locally for faster subsequent runs.`,
		Example: `  jyotish chart --date 1990-02-05 --time 14:30 --tz Asia/Kolkata --lat 28.61 --lon 77.21
  jyotish chart --date 1990-02-05 --tz UTC --lat 51.5 --lon -0.12 --sections dasha,yogas -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChart(cmd.Context(), cmd.OutOrStdout(), &b)
		},
	}

	b.register(cmd)
	b.registerOutput(cmd)
	cmd.Flags().StringSliceVar(&b.opts.Sections, "sections", nil, "optional sections to compute (comma-separated, default all)")
	cmd.Flags().StringSliceVar(&b.opts.Charts, "charts", nil, "divisional charts, e.g. D9,D10 (default all)")
	cmd.Flags().IntVar(&b.opts.DashaDepth, "depth", 0, "dasha levels (1-5)")
	registerSectionCompletion(cmd)
	registerChartCompletion(cmd, false)

	return cmd
}

func (c *CLI) runChart(ctx context.Context, w io.Writer, b *birthFlags) error {
	runner, opts, err := c.prepare(ctx, b)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Computing chart...")
	defer spinner.Track()()
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Chart computation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed chart with %d sections", len(opts.Sections)))

	if b.output != outputTable {
		return writeData(w, b.output, res.Chart)
	}
	writeChart(w, res.Chart)
	printStats(w, []string{
		fmt.Sprintf("%d planets", len(res.Chart.Positions)),
		(res.Stats.ContextTime + res.Stats.ComputeTime).Round(time.Microsecond).String(),
	}, res.CacheInfo.Hit)
	return nil
}

// writeChart renders the chart as tables.
func writeChart(w io.Writer, ch *chart.Chart) {
	bc := ch.Context
	asc := zodiac.SignOf(bc.Ascendant)
	printKeyValue(w, "Birth", bc.Local.Format("2006-01-02 15:04:05 MST"))
	printKeyValue(w, "Ascendant", fmt.Sprintf("%s %s", asc, formatDegree(bc.Ascendant-float64(asc-1)*zodiac.SignSpan)))
	printKeyValue(w, "Ayanamsa", fmt.Sprintf("%s %.4f°", bc.AyanamsaMode, bc.Ayanamsa))
	printKeyValue(w, "Houses", string(bc.HouseSystem))
	fmt.Fprintln(w)

	placement := make(map[zodiac.Planet]int, len(ch.Houses))
	for _, h := range ch.Houses {
		for _, p := range h.Occupants {
			placement[p] = h.House
		}
	}
	printTable(w, "Positions", positionsTable(ch.Positions, placement))
	printTable(w, "Houses", housesTable(ch.Houses))
	printTable(w, "Aspects", aspectsTable(ch.Aspects.Graha))

	printKeyValue(w, "Elements", formatShares(ch.Elements.Elements, "Fire", "Earth", "Air", "Water"))
	printKeyValue(w, "Modalities", formatShares(ch.Elements.Modalities, "Movable", "Fixed", "Dual"))

	if len(ch.Dasha) > 0 {
		printKeyValue(w, "Dasha", formatChain(dasha.Current(ch.Dasha, time.Now())))
	}
	if ch.Divisional != nil {
		printKeyValue(w, "Vargottama", joinNames(ch.Divisional.Vargottama))
	}
	if ch.Yogas != nil {
		printKeyValue(w, "Yogas", strconv.Itoa(ch.Yogas.TotalCount))
	}
	if ch.Panchanga != nil {
		p := ch.Panchanga
		printKeyValue(w, "Panchanga", fmt.Sprintf("%s %s, %s, %s yoga, %s karana, %s",
			p.Tithi.Paksha, p.Tithi.Name, p.Nakshatra.Name, p.Yoga.Name, p.Karana.Name, p.Vaara))
	}
}

func positionsTable(positions []zodiac.Position, placement map[zodiac.Planet]int) *table.Table {
	t := newTable("Planet", "Sign", "Degree", "Nakshatra", "Pada", "House", "")
	for _, p := range positions {
		retro := ""
		if p.Retrograde {
			retro = "R"
		}
		house := ""
		if h, ok := placement[p.Planet]; ok {
			house = strconv.Itoa(h)
		}
		t.Row(string(p.Planet), p.Sign.String(), formatDegree(p.DegreeInSign),
			p.NakshatraName, strconv.Itoa(p.Pada), house, retro)
	}
	return t
}

func housesTable(occ []houses.Occupancy) *table.Table {
	t := newTable("House", "Sign", "Lord", "Occupants")
	for _, h := range occ {
		t.Row(strconv.Itoa(h.House), h.Sign.String(), string(h.Lord), joinNames(h.Occupants))
	}
	return t
}

func aspectsTable(records []houses.Record) *table.Table {
	t := newTable("Planet", "From", "To", "Strength", "Kind")
	for _, r := range records {
		for _, a := range r.Aspects {
			t.Row(string(r.Planet), strconv.Itoa(r.FromHouse), strconv.Itoa(a.House),
				fmt.Sprintf("%d%%", a.StrengthPct), a.Kind)
		}
	}
	return t
}

func formatShares(shares map[string]float64, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", k, shares[k]))
	}
	return strings.Join(parts, "  ")
}
