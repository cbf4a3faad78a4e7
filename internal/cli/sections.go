package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/chart"
	"github.com/matzehuels/jyotish/pkg/panchanga"
	"github.com/matzehuels/jyotish/pkg/varga"
	"github.com/matzehuels/jyotish/pkg/yoga"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// runSection computes one section with a spinner, then writes it as data or
// through table.
func runSection[T any](ctx context.Context, w io.Writer, b *birthFlags, label string,
	compute func(context.Context, *birthFlags) (T, bool, error), table func(io.Writer, T)) error {
	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s...", label))
	spinner.Start()
	v, hit, err := compute(ctx, b)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Computing %s failed", label))
		return err
	}
	spinner.Stop()
	prog.done("Computed " + label)

	if b.output != outputTable {
		return writeData(w, b.output, v)
	}
	table(w, v)
	printStats(w, nil, hit)
	return nil
}

// =============================================================================
// varga
// =============================================================================

func (c *CLI) vargaCommand() *cobra.Command {
	var b birthFlags

	cmd := &cobra.Command{
		Use:   "varga",
		Short: "Compute divisional charts (D1-D60)",
		Example: `  jyotish varga --date 1990-02-05 --time 14:30 --tz Asia/Kolkata --lat 28.61 --lon 77.21 --charts D9,D10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSection(cmd.Context(), cmd.OutOrStdout(), &b, "divisional charts",
				func(ctx context.Context, b *birthFlags) (varga.Set, bool, error) {
					if len(b.opts.Charts) == 1 && strings.EqualFold(b.opts.Charts[0], "all") {
						b.opts.Charts = nil
					}
					runner, opts, err := c.prepare(ctx, b)
					if err != nil {
						return varga.Set{}, false, err
					}
					defer runner.Close()
					return runner.DivisionalChartsWithCacheInfo(ctx, opts)
				},
				writeVarga)
		},
	}

	b.register(cmd)
	b.registerOutput(cmd)
	cmd.Flags().StringSliceVar(&b.opts.Charts, "charts", []string{"D1", "D9"}, "divisional charts (comma-separated), or \"all\"")
	registerChartCompletion(cmd, true)

	return cmd
}

func writeVarga(w io.Writer, set varga.Set) {
	ids := make([]varga.ChartID, 0, len(set.Charts))
	for _, id := range varga.All() {
		if _, ok := set.Charts[id]; ok {
			ids = append(ids, id)
		}
	}

	headers := []string{"Planet"}
	for _, id := range ids {
		headers = append(headers, id.String())
	}
	t := newTable(headers...)
	for _, p := range zodiac.Planets {
		row := []string{string(p)}
		for _, id := range ids {
			row = append(row, set.Charts[id][p].String())
		}
		t.Row(row...)
	}

	title := "Divisional Charts"
	if len(ids) == 1 {
		title = ids[0].Name()
	}
	printTable(w, title, t)
	printKeyValue(w, "Vargottama", joinNames(set.Vargottama))
}

// =============================================================================
// strength
// =============================================================================

func (c *CLI) strengthCommand() *cobra.Command {
	var b birthFlags

	cmd := &cobra.Command{
		Use:   "strength",
		Short: "Compute Shadbala, Bhava Bala and Ashtakavarga",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSection(cmd.Context(), cmd.OutOrStdout(), &b, "strengths",
				func(ctx context.Context, b *birthFlags) (chart.Strengths, bool, error) {
					runner, opts, err := c.prepare(ctx, b)
					if err != nil {
						return chart.Strengths{}, false, err
					}
					defer runner.Close()
					return runner.StrengthsWithCacheInfo(ctx, opts)
				},
				writeStrengths)
		},
	}

	b.register(cmd)
	b.registerOutput(cmd)
	return cmd
}

func writeStrengths(w io.Writer, s chart.Strengths) {
	sb := newTable("Planet", "Positional", "Directional", "Temporal", "Motional", "Natural", "Total", "Required", "Strong")
	for _, sc := range s.Shadbala.Ordered() {
		c := sc.Components
		sb.Row(string(sc.Planet), num(c.Positional), num(c.Directional), num(c.Temporal),
			num(c.Motional), num(c.Natural), num(sc.Total), num(sc.Required), yesNo(sc.IsStrong))
	}
	printTable(w, "Shadbala", sb)

	bb := newTable("House", "Sign", "Lord", "Occupants", "Value", "Strong")
	for _, h := range s.BhavaBala {
		bb.Row(strconv.Itoa(h.House), h.Sign.String(), string(h.Lord), joinNames(h.Occupants), num(h.Value), yesNo(h.IsStrong))
	}
	printTable(w, "Bhava Bala", bb)

	headers := []string{""}
	for _, sign := range zodiac.AllSigns() {
		headers = append(headers, sign.String()[:3])
	}
	av := newTable(append(headers, "Σ")...)
	for _, p := range zodiac.Classical {
		bindus, ok := s.Ashtakavarga.Bindus[p]
		if !ok {
			continue
		}
		row := []string{string(p)}
		sum := 0
		for _, n := range bindus {
			row = append(row, strconv.Itoa(n))
			sum += n
		}
		av.Row(append(row, strconv.Itoa(sum))...)
	}
	totals := []string{"Total"}
	for _, n := range s.Ashtakavarga.Totals {
		totals = append(totals, strconv.Itoa(n))
	}
	av.Row(append(totals, strconv.Itoa(s.Ashtakavarga.Total()))...)
	printTable(w, "Ashtakavarga", av)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func yesNo(b bool) string {
	if b {
		return iconSuccess
	}
	return ""
}

// =============================================================================
// yoga
// =============================================================================

func (c *CLI) yogaCommand() *cobra.Command {
	var b birthFlags

	cmd := &cobra.Command{
		Use:   "yoga",
		Short: "Detect planetary combinations (yogas)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSection(cmd.Context(), cmd.OutOrStdout(), &b, "yogas",
				func(ctx context.Context, b *birthFlags) (yoga.Result, bool, error) {
					runner, opts, err := c.prepare(ctx, b)
					if err != nil {
						return yoga.Result{}, false, err
					}
					defer runner.Close()
					return runner.YogasWithCacheInfo(ctx, opts)
				},
				writeYogas)
		},
	}

	b.register(cmd)
	b.registerOutput(cmd)
	return cmd
}

func writeYogas(w io.Writer, r yoga.Result) {
	if r.TotalCount == 0 {
		printKeyValue(w, "Yogas", "none detected")
		return
	}
	t := newTable("Yoga", "Category", "Planets", "Houses", "Effects")
	for _, y := range r.All() {
		name := y.Name
		if y.Negative {
			name += " " + iconWarning
		}
		t.Row(name, string(y.Category), joinNames(y.Planets), joinNames(y.Houses), y.Effects)
	}
	printTable(w, fmt.Sprintf("Yogas (%d)", r.TotalCount), t)
	for _, line := range r.Summary {
		printDetail("%s", line)
	}
}

// =============================================================================
// panchanga
// =============================================================================

func (c *CLI) panchangaCommand() *cobra.Command {
	var b birthFlags

	cmd := &cobra.Command{
		Use:   "panchanga",
		Short: "Compute the five limbs of the Vedic almanac",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSection(cmd.Context(), cmd.OutOrStdout(), &b, "panchanga",
				func(ctx context.Context, b *birthFlags) (panchanga.Snapshot, bool, error) {
					runner, opts, err := c.prepare(ctx, b)
					if err != nil {
						return panchanga.Snapshot{}, false, err
					}
					defer runner.Close()
					return runner.PanchangaWithCacheInfo(ctx, opts)
				},
				writePanchanga)
		},
	}

	b.register(cmd)
	b.registerOutput(cmd)
	return cmd
}

func writePanchanga(w io.Writer, p panchanga.Snapshot) {
	printKeyValue(w, "Tithi", fmt.Sprintf("%d %s (%s, %.0f%% elapsed)", p.Tithi.Index, p.Tithi.Name, p.Tithi.Paksha, p.Tithi.Fraction*100))
	printKeyValue(w, "Nakshatra", fmt.Sprintf("%d %s pada %d (lord %s)", p.Nakshatra.Index, p.Nakshatra.Name, p.Nakshatra.Pada, p.Nakshatra.Lord))
	printKeyValue(w, "Yoga", fmt.Sprintf("%d %s (%.0f%% elapsed)", p.Yoga.Index, p.Yoga.Name, p.Yoga.Fraction*100))
	printKeyValue(w, "Karana", fmt.Sprintf("%d %s (%.0f%% elapsed)", p.Karana.Index, p.Karana.Name, p.Karana.Fraction*100))
	printKeyValue(w, "Vaara", p.Vaara)
}
