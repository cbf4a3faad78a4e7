// Package aspectgraph renders the aspect structure of a birth chart as a
// Graphviz diagram.
//
// # Overview
//
// The twelve houses appear as ellipses labelled with their sign, and each
// planet as a box attached to the house it occupies. Solid arrows run from a
// planet to every house it aspects, labelled with the aspect strength.
// Mutually aspecting planets are joined by a bold double-headed edge.
//
// # Usage
//
//	dot := aspectgraph.ToDOT(c, aspectgraph.Options{})
//	svg, err := aspectgraph.RenderSVG(ctx, dot)
//	png, err := aspectgraph.Render(ctx, dot, aspectgraph.FormatPNG)
//
// # Dependencies
//
// Rendering runs in-process through [github.com/goccy/go-graphviz]; no
// external Graphviz binaries are needed.
package aspectgraph
