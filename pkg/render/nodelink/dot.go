// Package nodelink exports a hierarchy as a Graphviz node-link diagram.
//
// [ToDOT] produces DOT text with one box per unit and one edge per resolved
// parent reference. [RenderSVG] and [RenderPNG] lay the DOT graph out with
// the embedded Graphviz engine from goccy/go-graphviz, which needs no
// external binaries.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/render/svg"
)

// DefaultDPI is the Graphviz output resolution at scale 1.
const DefaultDPI = 96.0

// Options configures DOT export.
type Options struct {
	// Detailed adds the unit type and id to each label.
	Detailed bool
	// Title is emitted as the graph label when set.
	Title string
	// Theme supplies box, link and font styling. Empty fields fall back to
	// [svg.DefaultTheme].
	Theme svg.Theme
	// DPI sets the graph resolution when positive.
	DPI float64
}

// ToDOT converts a hierarchy to Graphviz DOT. Nodes and edges are written in
// unit id order.
func ToDOT(h *org.Hierarchy, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph orgchart {\n")
	buf.WriteString("  rankdir=TB;\n")
	th := opts.Theme.WithDefaults()
	bg := "transparent"
	if th.Background != "" {
		bg = dotColor(th.Background)
	}
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	if opts.DPI > 0 {
		fmt.Fprintf(&buf, "  dpi=%s;\n", num(opts.DPI))
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, color=%q, penwidth=%s, fontname=%q, fontcolor=%q, fontsize=%s];\n",
		dotColor(th.BoxFill), dotColor(th.BoxStroke), num(th.BoxStrokeWidth),
		fontName(th.FontFamily), dotColor(th.TextColor), num(th.FontSize))
	fmt.Fprintf(&buf, "  edge [color=%q, arrowhead=none, penwidth=%s];\n", dotColor(th.LinkStroke), num(th.LinkWidth))
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	nodes := h.Nodes()
	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(n.ID), fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if p, ok := h.Parent(n); ok {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(p.ID), nodeID(n.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotColor expands CSS short hex (#rgb) to the #rrggbb form Graphviz parses.
// Other values pass through.
func dotColor(c string) string {
	if len(c) == 4 && c[0] == '#' {
		return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
	}
	return c
}

// fontName returns the first family of a CSS font list.
func fontName(family string) string {
	name, _, _ := strings.Cut(family, ",")
	return strings.Trim(strings.TrimSpace(name), `"'`)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nodeID(id int64) string {
	return fmt.Sprintf("u%d", id)
}

func fmtLabel(n *org.Node, detailed bool) string {
	var parts []string
	if n.Abbrev != "" {
		parts = append(parts, n.Abbrev)
	}
	parts = append(parts, n.Name)
	if detailed {
		parts = append(parts, fmt.Sprintf("%s #%d", n.UnitType, n.ID))
	} else if n.UnitType != "" {
		parts = append(parts, n.UnitType)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG lays out a DOT graph with Graphviz and returns PNG bytes.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
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
