package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/render/nodelink"
	"github.com/matzehuels/orgchart/pkg/render/raster"
	"github.com/matzehuels/orgchart/pkg/render/svg"
)

// Render generates the requested artifacts. The SVG document is always
// serialized because the raster sinks consume it; it is only included in the
// result when svg was requested.
//
// png is produced last. When it fails, the returned map still holds every
// other requested artifact alongside the error.
func Render(ctx context.Context, h *org.Hierarchy, l layout.Layout, sink raster.Sink, opts Options) (map[string][]byte, error) {
	doc := svg.Render(h, l, svg.WithTheme(opts.Theme), svg.WithTitle(opts.Title))
	artifacts := make(map[string][]byte, len(opts.Formats))

	formats := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		if format != FormatPNG {
			formats = append(formats, format)
		}
	}
	if opts.Wants(FormatPNG) {
		formats = append(formats, FormatPNG)
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = doc
		case FormatPNG:
			if sink == nil {
				err = errors.New(errors.ErrCodeRenderFailure, "no raster sink configured")
				break
			}
			data, err = sink.Rasterize(ctx, raster.Document{SVG: doc, Hierarchy: h, Layout: l, Theme: opts.Theme})
			if err != nil && !errors.Is(err, errors.ErrCodeRenderFailure) && ctx.Err() == nil {
				err = errors.Wrap(errors.ErrCodeRenderFailure, err, "%s sink", sink.Name())
			}
		case FormatDOT:
			data = []byte(nodelink.ToDOT(h, nodelink.Options{Detailed: opts.Detailed, Title: opts.Title, Theme: opts.Theme}))
		case FormatJSON:
			data, err = MarshalLayout(Export(h, l))
			if err != nil {
				err = errors.Wrap(errors.ErrCodeRenderFailure, err, "serialize layout")
			}
		default:
			return artifacts, ValidateFormat(format)
		}

		if err != nil {
			return artifacts, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
