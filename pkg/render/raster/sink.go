// Package raster converts a rendered org chart into a PNG image.
//
// A [Sink] receives the serialized SVG document together with the hierarchy
// and layout it was produced from. [RSVG] converts the SVG bytes with the
// external rsvg-convert tool; [Native] and [Graphviz] paint in-process from
// the geometry. Every failure is reported as a RENDER_FAILURE error and ends
// the run.
package raster

import (
	"context"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/render/svg"
)

// Sink names accepted by [New].
const (
	SinkRSVG     = "rsvg"
	SinkNative   = "native"
	SinkGraphviz = "graphviz"
)

// DefaultScale renders at 2x resolution.
const DefaultScale = 2.0

// Document is the input handed to a sink.
type Document struct {
	SVG       []byte
	Hierarchy *org.Hierarchy
	Layout    layout.Layout
	Theme     svg.Theme
}

// Sink produces raster image bytes from a document.
type Sink interface {
	Name() string
	Rasterize(ctx context.Context, doc Document) ([]byte, error)
}

// New returns the sink registered under name. An empty name selects rsvg.
func New(name string, scale float64) (Sink, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	switch name {
	case "", SinkRSVG:
		return &RSVG{Scale: scale}, nil
	case SinkNative:
		return &Native{Scale: scale}, nil
	case SinkGraphviz:
		return &Graphviz{Scale: scale}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown raster sink %q (must be one of: rsvg, native, graphviz)", name)
	}
}

// Names lists the supported sinks.
func Names() []string { return []string{SinkRSVG, SinkNative, SinkGraphviz} }
