package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/render/raster"
	"github.com/matzehuels/orgchart/pkg/source"
)

// Runner executes chart runs against a source.
//
// The Runner holds no per-run state, so the HTTP server shares one Runner
// across requests.
type Runner struct {
	Source source.Source
	Sink   raster.Sink // nil selects the sink named in Options
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(src source.Source, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Source: src, Logger: logger}
}

// Execute runs fetch, layout and render.
//
// When rendering fails, Execute returns the error together with a Result
// whose Artifacts hold what was produced before the failure, so callers can
// still keep the SVG document when only the raster sink failed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])
	hooks := observability.Pipeline()

	// Stage 1: Fetch
	desc := source.Describe(r.Source)
	hooks.OnFetchStart(ctx, desc)
	start := time.Now()
	records, err := r.Fetch(ctx)
	result.Stats.FetchTime = time.Since(start)
	hooks.OnFetchComplete(ctx, desc, len(records), result.Stats.FetchTime, err)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	logger.Info("fetched units",
		"units", len(records),
		"source", desc,
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, len(records))
	start = time.Now()
	h, l, err := Arrange(records, opts.Layout, logger)
	result.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, len(l.Layers), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Hierarchy = h
	result.Layout = l
	Summarize(&result.Stats, h, l)
	logger.Info("computed layout",
		"roots", result.Stats.Roots,
		"layers", result.Stats.Layers,
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	sink, err := r.sink(opts)
	if err != nil {
		return nil, err
	}
	hooks.OnRenderStart(ctx, opts.Formats)
	start = time.Now()
	artifacts, err := Render(ctx, h, l, sink, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	result.Artifacts = artifacts
	if err != nil {
		return result, err
	}
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch reads records from the runner's source. Errors without a code are
// reported as FETCH_FAILURE; cancellation is passed through.
func (r *Runner) Fetch(ctx context.Context) ([]org.UnitRecord, error) {
	if r.Source == nil {
		return nil, errors.New(errors.ErrCodeFetchFailure, "no data source configured")
	}
	records, err := r.Source.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil || errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "fetch units")
	}
	return records, nil
}

func (r *Runner) sink(opts Options) (raster.Sink, error) {
	if r.Sink != nil || !opts.Wants(FormatPNG) {
		return r.Sink, nil
	}
	return raster.New(opts.Sink, opts.Scale)
}
