// Package render groups the output stages of an org chart run.
//
// # Overview
//
// A laid-out hierarchy is turned into artifacts by the subpackages:
//
//   - [svg]: the vector document (org_chart.svg), the primary artifact
//   - [raster]: sinks that produce the PNG image (org_chart.png)
//   - [nodelink]: a Graphviz DOT export of the hierarchy
//
// # Raster Sinks
//
// The default sink converts the SVG document with the external rsvg-convert
// tool from librsvg. Two in-process sinks exist for hosts without librsvg:
// a pure-Go painter built on golang.org/x/image and a Graphviz renderer.
//
//	doc := svg.Render(h, l)
//	sink, _ := raster.New(raster.SinkRSVG, 2.0)
//	png, err := sink.Rasterize(ctx, raster.Document{SVG: doc, Hierarchy: h, Layout: l})
//
// [svg]: github.com/matzehuels/orgchart/pkg/render/svg
// [raster]: github.com/matzehuels/orgchart/pkg/render/raster
// [nodelink]: github.com/matzehuels/orgchart/pkg/render/nodelink
package render
