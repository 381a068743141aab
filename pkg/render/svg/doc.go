// Package svg serializes a laid-out hierarchy into an SVG document.
//
// The document contains a header sized to the layout canvas, an embedded
// stylesheet built from a [Theme], one line per parent/child edge and one
// group per unit holding its box and up to three centered text lines:
// abbreviation (when set), name and unit type.
//
//	doc := svg.Render(h, l, svg.WithTheme(svg.DefaultTheme()))
//	os.WriteFile("org_chart.svg", doc, 0o644)
//
// Output is deterministic: edges and boxes are emitted in unit id order and
// coordinates use the shortest decimal form, so rendering the same input
// twice yields identical bytes.
package svg
