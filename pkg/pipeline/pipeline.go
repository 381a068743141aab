// Package pipeline runs the org chart stages end to end.
//
// # Architecture
//
// A run consists of four stages, each failing fast:
//
//  1. Fetch: read unit records from a [source.Source]
//  2. Layout: build the hierarchy and compute layered geometry
//  3. Serialize: write the SVG document
//  4. Rasterize: convert the document with a [raster.Sink]
//
// The DOT and JSON exports are produced alongside when requested.
//
// # Usage
//
//	runner := pipeline.NewRunner(src, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"slices"
	"time"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/render/raster"
	"github.com/matzehuels/orgchart/pkg/render/svg"
)

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// DefaultFormats are written when no formats are requested.
var DefaultFormats = []string{FormatSVG, FormatPNG}

// Options configures a run.
type Options struct {
	Layout  layout.Options `json:"layout"`
	Theme   svg.Theme      `json:"-"`
	Title   string         `json:"title,omitempty"`
	Formats []string       `json:"formats,omitempty"`

	// Sink names the raster sink used for png; Scale is its zoom factor.
	Sink  string  `json:"sink,omitempty"`
	Scale float64 `json:"scale,omitempty"`

	// Detailed adds unit types and ids to DOT labels.
	Detailed bool `json:"detailed,omitempty"`
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	Hierarchy *org.Hierarchy
	Layout    layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Units      int
	Roots      int
	Demoted    int
	Layers     int
	MaxCols    int
	Width      float64
	Height     float64
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Sink == "" {
		o.Sink = raster.SinkRSVG
	}
	if o.Scale <= 0 {
		o.Scale = raster.DefaultScale
	}
	o.Layout = o.Layout.WithDefaults()
	o.Theme = o.Theme.WithDefaults()
}

// Validate sets defaults and checks the options.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !slices.Contains(raster.Names(), o.Sink) {
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown raster sink %q (must be one of: rsvg, native, graphviz)", o.Sink)
	}
	return o.Layout.Validate()
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}
