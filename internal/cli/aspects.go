package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/render/aspectgraph"
)

// aspectsOpts holds the flags of the aspects command.
type aspectsOpts struct {
	format   string
	output   string
	detailed bool
}

// aspectsCommand creates the aspects command for rendering the aspect graph.
func (c *CLI) aspectsCommand() *cobra.Command {
	var (
		b  birthFlags
		ao = aspectsOpts{format: aspectgraph.FormatSVG}
	)

	cmd := &cobra.Command{
		Use:   "aspects",
		Short: "Render the planetary aspect graph",
		Long: `Render the planetary aspect graph.

Houses form a ring; each planet links to the house it occupies and to every
house it aspects, labeled with the aspect strength. Mutual aspects are drawn
as double-headed edges. Output is SVG, PNG or Graphviz DOT.`,
		Example: `  jyotish aspects --date 1990-02-05 --time 14:30 --tz Asia/Kolkata --lat 28.61 --lon 77.21 -f png -o chart.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := aspectgraph.ValidateFormat(ao.format); err != nil {
				return err
			}
			return c.runAspects(cmd.Context(), cmd.OutOrStdout(), &b, ao)
		},
	}

	b.register(cmd)
	cmd.Flags().StringVarP(&ao.format, "format", "f", ao.format, "image format: svg (default), png, dot")
	cmd.Flags().StringVarP(&ao.output, "output", "o", "", "output file (default aspects.<format>, - for stdout)")
	cmd.Flags().BoolVar(&ao.detailed, "detailed", false, "label planets with degree and nakshatra")

	return cmd
}

func (c *CLI) runAspects(ctx context.Context, w io.Writer, b *birthFlags, ao aspectsOpts) error {
	runner, opts, err := c.prepare(ctx, b)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering aspect graph...")
	spinner.Start()
	data, hit, err := runner.RenderAspectsWithCacheInfo(ctx, opts, pipeline.RenderOptions{
		Format:   ao.format,
		Detailed: ao.detailed,
	})
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered aspect graph")

	if ao.output == "-" {
		_, err := w.Write(data)
		return err
	}
	path := ao.output
	if path == "" {
		path = "aspects." + ao.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Wrote %s aspect graph", ao.format)
	printFile(path)
	printStats(w, []string{fmt.Sprintf("%d bytes", len(data))}, hit)
	return nil
}
