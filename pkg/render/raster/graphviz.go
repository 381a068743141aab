package raster

import (
	"context"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/render/nodelink"
)

// Graphviz lays the hierarchy out again with the embedded Graphviz engine
// and renders that diagram. Box positions differ from the SVG document.
// Colors and fonts follow the document theme, and Scale multiplies the
// default 96 dpi.
type Graphviz struct {
	Scale    float64
	Detailed bool
}

// Name implements Sink.
func (g *Graphviz) Name() string { return SinkGraphviz }

// Rasterize implements Sink.
func (g *Graphviz) Rasterize(ctx context.Context, doc Document) ([]byte, error) {
	if doc.Hierarchy == nil {
		return nil, errors.New(errors.ErrCodeRenderFailure, "graphviz sink needs the hierarchy")
	}
	dot := nodelink.ToDOT(doc.Hierarchy, g.dotOptions(doc))
	data, err := nodelink.RenderPNG(ctx, dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "graphviz")
	}
	return data, nil
}

func (g *Graphviz) dotOptions(doc Document) nodelink.Options {
	scale := g.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	return nodelink.Options{
		Detailed: g.Detailed,
		Theme:    doc.Theme,
		DPI:      nodelink.DefaultDPI * scale,
	}
}
