package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/dasha"
)

const dateLayout = "2006-01-02"

// dashaCommand creates the dasha command for the Vimshottari timeline.
func (c *CLI) dashaCommand() *cobra.Command {
	var (
		b           birthFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "dasha",
		Short: "Compute the Vimshottari dasha timeline",
		Long: `Compute the Vimshottari dasha timeline.

Periods are nested to --depth levels (1 mahadasha ... 5 prana). Use --from to
drop periods that ended before a date, and -i to browse the tree interactively.`,
		Example: `  jyotish dasha --date 1990-02-05 --time 14:30 --tz Asia/Kolkata --lat 28.61 --lon 77.21 --depth 2
  jyotish dasha --date 1990-02-05 --tz Asia/Kolkata --lat 28.61 --lon 77.21 --depth 3 -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDasha(cmd.Context(), cmd.OutOrStdout(), &b, interactive)
		},
	}

	b.register(cmd)
	b.registerOutput(cmd)
	cmd.Flags().IntVar(&b.opts.DashaDepth, "depth", 0, "dasha levels (1-5)")
	cmd.Flags().StringVar(&b.opts.DashaFrom, "from", "", "drop periods ending before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the timeline interactively")

	return cmd
}

func (c *CLI) runDasha(ctx context.Context, w io.Writer, b *birthFlags, interactive bool) error {
	runner, opts, err := c.prepare(ctx, b)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Computing dasha timeline...")
	spinner.Start()
	periods, hit, err := runner.DashaWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Dasha computation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed %d mahadashas", len(periods)))

	if interactive {
		return browseDasha(periods)
	}
	if b.output != outputTable {
		return writeData(w, b.output, periods)
	}
	writeDasha(w, periods, time.Now())
	printStats(w, []string{fmt.Sprintf("%d levels", opts.DashaDepth)}, hit)
	return nil
}

// browseDasha runs the interactive tree browser.
func browseDasha(periods []dasha.Period) error {
	p := tea.NewProgram(NewDashaBrowserModel(periods, time.Now()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dasha browser: %w", err)
	}
	return nil
}

// writeDasha lists the timeline depth first, marking the periods active at now.
func writeDasha(w io.Writer, periods []dasha.Period, now time.Time) {
	t := newTable("", "Lord", "Level", "Start", "End")
	dasha.Walk(periods, func(p dasha.Period, depth int) {
		marker := ""
		if p.Contains(now) {
			marker = "●"
		}
		t.Row(marker, strings.Repeat("  ", depth-1)+string(p.Lord), levelName(depth),
			p.Start.Format(dateLayout), p.End.Format(dateLayout))
	})
	printTable(w, "Vimshottari Dasha", t)
	if chain := dasha.Current(periods, now); len(chain) > 0 {
		printKeyValue(w, "Current", formatChain(chain))
	}
}

func levelName(depth int) string {
	if depth >= 1 && depth <= len(dasha.Levels) {
		return dasha.Levels[depth-1]
	}
	return fmt.Sprintf("Level %d", depth)
}

// formatChain joins active lords outermost first, e.g. "Venus / Sun".
func formatChain(chain []dasha.Period) string {
	if len(chain) == 0 {
		return "—"
	}
	lords := make([]string, len(chain))
	for i, p := range chain {
		lords[i] = string(p.Lord)
	}
	return strings.Join(lords, " / ")
}
