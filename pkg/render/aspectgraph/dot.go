package aspectgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jyotish/pkg/chart"
	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds degree, nakshatra and retrograde status to planet labels.
	Detailed bool

	// HideSpecial drops special (non-opposition) aspects.
	HideSpecial bool
}

// ToDOT converts the chart's houses and aspects to Graphviz DOT source.
func ToDOT(c *chart.Chart, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph aspects {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=9];\n")
	buf.WriteString("\n")

	for _, o := range c.Houses {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=%q];\n",
			houseID(o.House), fmt.Sprintf("%d\n%s", o.House, o.Sign), elementColor(o.Sign))
	}

	buf.WriteString("\n")
	placement := make(map[zodiac.Planet]int, len(c.Positions))
	for _, r := range c.Aspects.Graha {
		placement[r.Planet] = r.FromHouse
	}
	for _, p := range c.Positions {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=\"rounded,filled\", fillcolor=white];\n",
			string(p.Planet), planetLabel(p, opts.Detailed))
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none, color=grey];\n",
			string(p.Planet), houseID(placement[p.Planet]))
	}

	buf.WriteString("\n")
	for _, r := range c.Aspects.Graha {
		for _, a := range r.Aspects {
			if opts.HideSpecial && a.Kind == houses.KindSpecial {
				continue
			}
			attrs := []string{fmt.Sprintf("label=\"%d%%\"", a.StrengthPct)}
			if a.Kind == houses.KindSpecial {
				attrs = append(attrs, "color=steelblue")
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", string(r.Planet), houseID(a.House), strings.Join(attrs, ", "))
		}
	}

	if len(c.Aspects.Mutual) > 0 {
		buf.WriteString("\n")
	}
	for _, m := range c.Aspects.Mutual {
		fmt.Fprintf(&buf, "  %q -> %q [dir=both, penwidth=2.5, color=firebrick];\n", string(m.A), string(m.B))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func houseID(h int) string { return "H" + strconv.Itoa(h) }

func planetLabel(p zodiac.Position, detailed bool) string {
	label := string(p.Planet)
	if p.Retrograde && !p.Planet.IsNode() {
		label += " (R)"
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%.2f° %s\n%s %d", label, p.DegreeInSign, p.Sign, p.NakshatraName, p.Pada)
}

func elementColor(s zodiac.Sign) string {
	switch s.Element() {
	case zodiac.Fire:
		return "#fde2d4"
	case zodiac.Earth:
		return "#e6efd6"
	case zodiac.Air:
		return "#e0ecf7"
	default:
		return "#dcefef"
	}
}

// Render produces the diagram in format. FormatDOT returns the source as is.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return render(ctx, dot, graphviz.PNG)
	}
	return nil, ValidateFormat(format)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
