package raster

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// RSVG converts the SVG document with rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	Scale  float64
	Binary string // defaults to "rsvg-convert" on PATH
}

// Name implements Sink.
func (r *RSVG) Name() string { return SinkRSVG }

// Rasterize implements Sink.
func (r *RSVG) Rasterize(ctx context.Context, doc Document) ([]byte, error) {
	if len(doc.SVG) == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailure, "empty SVG document")
	}
	bin := r.Binary
	if bin == "" {
		bin = "rsvg-convert"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailure,
			"png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin\nor use --sink native")
	}

	cmd := exec.CommandContext(ctx, bin, rsvgArgs(r.Scale)...)
	cmd.Stdin = bytes.NewReader(doc.SVG)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailure, "rsvg-convert produced no output")
	}
	return out.Bytes(), nil
}

// rsvgArgs returns the rsvg-convert arguments for a zoom factor. The factor
// is written with as many digits as it needs.
func rsvgArgs(scale float64) []string {
	if scale <= 0 {
		scale = DefaultScale
	}
	return []string{"-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64)}
}
