// Package pkg provides the core libraries for orgchart.
//
// # Overview
//
// Orgchart turns a flat table of organizational units, each naming its
// parent, into a layered tree diagram. The pkg directory is organized by
// pipeline stage:
//
//  1. [source] - Fetch unit records (SQL drivers, JSON files, record cache)
//  2. [org] - Build the hierarchy (arena of nodes, roots, demoted units)
//  3. [layout] - Assign depths and centered box positions per layer
//  4. [render] - Serialize SVG, rasterize PNG, export DOT
//  5. [pipeline] - Orchestration (fetch → layout → render) used by CLI and server
//
// Supporting packages: [config] (TOML, .env and environment settings),
// [cache] (file and Redis backends), [errors] (codes and exit statuses),
// [observability] (stage hooks) and [buildinfo].
//
// # Architecture
//
//	units table (Postgres / SQLite) or units.json
//	         ↓
//	    [source] package (records)
//	         ↓
//	    [org] package (forest of units)
//	         ↓
//	    [layout] package (layers of boxes)
//	         ↓
//	    [render] packages (SVG/PNG/DOT/JSON)
//
// # Quick Start
//
//	records, _ := (&source.File{Path: "units.json"}).Fetch(ctx)
//	h, _ := org.Build(records)
//	l := layout.Compute(h, layout.DefaultOptions())
//	doc := svg.Render(h, l)
//
// Or run every stage at once:
//
//	runner := pipeline.NewRunner(src, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Formats: []string{"svg", "png"}})
//
// [source]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/source
// [org]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/org
// [layout]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/buildinfo
package pkg
