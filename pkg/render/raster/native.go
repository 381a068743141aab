package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/render/svg"
)

// Native paints the chart with golang.org/x/image from the layout geometry.
// It follows the SVG document's stylesheet but uses the Go fonts.
type Native struct {
	Scale float64
}

// Name implements Sink.
func (n *Native) Name() string { return SinkNative }

// Rasterize implements Sink.
func (n *Native) Rasterize(ctx context.Context, doc Document) ([]byte, error) {
	if doc.Hierarchy == nil {
		return nil, errors.New(errors.ErrCodeRenderFailure, "native sink needs the hierarchy")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scale := n.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	theme := doc.Theme.WithDefaults()

	p, err := newPainter(doc.Layout, theme, scale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "load fonts")
	}

	nodes := doc.Hierarchy.Nodes()
	for _, node := range nodes {
		parent, ok := doc.Hierarchy.Parent(node)
		if !ok {
			continue
		}
		from, okFrom := doc.Layout.Box(parent.ID)
		to, okTo := doc.Layout.Box(node.ID)
		if okFrom && okTo {
			p.line(from.CenterX(), from.Bottom(), to.CenterX(), to.Y, theme.LinkWidth, parseColor(theme.LinkStroke, color.Gray{0x99}))
		}
	}
	for _, node := range nodes {
		b, ok := doc.Layout.Box(node.ID)
		if !ok {
			continue
		}
		p.box(b)
		for _, line := range svg.TextLines(node.UnitRecord, b) {
			p.text(line, b.CenterX())
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "encode png")
	}
	return buf.Bytes(), nil
}

type painter struct {
	img   *image.RGBA
	scale float64
	theme svg.Theme

	regular, bold, small font.Face
}

func newPainter(l layout.Layout, theme svg.Theme, scale float64) (*painter, error) {
	w := int(math.Ceil(l.Width * scale))
	h := int(math.Ceil(l.Height * scale))
	p := &painter{
		img:   image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
		scale: scale,
		theme: theme,
	}

	if theme.Background != "" {
		bg := parseColor(theme.Background, color.White)
		draw.Draw(p.img, p.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	var err error
	if p.regular, err = newFace(goregular.TTF, theme.FontSize*scale); err != nil {
		return nil, err
	}
	if p.bold, err = newFace(gobold.TTF, theme.AbbrevFontSize*scale); err != nil {
		return nil, err
	}
	if p.small, err = newFace(goregular.TTF, theme.UnitTypeFontSize*scale); err != nil {
		return nil, err
	}
	return p, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// box draws a rounded rectangle: the stroke color at full size, then the
// fill inset by the stroke width.
func (p *painter) box(b layout.Box) {
	s := p.scale
	x, y := b.X*s, b.Y*s
	w, h := b.Width*s, b.Height*s
	r := p.theme.BoxRadius * s
	sw := math.Max(p.theme.BoxStrokeWidth*s, 1)

	p.roundedRect(x, y, w, h, r, parseColor(p.theme.BoxStroke, color.Gray{0x33}))
	p.roundedRect(x+sw, y+sw, w-2*sw, h-2*sw, math.Max(r-sw, 0), parseColor(p.theme.BoxFill, color.Gray{0xf5}))
}

func (p *painter) roundedRect(x, y, w, h, r float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Min(r, math.Min(w, h)/2)
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	x1, y1 := int(math.Round(x+w)), int(math.Round(y+h))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			if outsideCorner(float64(px)+0.5, float64(py)+0.5, x, y, w, h, r) {
				continue
			}
			p.set(px, py, c)
		}
	}
}

func outsideCorner(px, py, x, y, w, h, r float64) bool {
	if r <= 0 {
		return false
	}
	cx := math.Min(math.Max(px, x+r), x+w-r)
	cy := math.Min(math.Max(py, y+r), y+h-r)
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy > r*r
}

// line draws a segment by stamping squares of the scaled width along it.
func (p *painter) line(x1, y1, x2, y2, width float64, c color.Color) {
	s := p.scale
	x1, y1, x2, y2 = x1*s, y1*s, x2*s, y2*s
	half := math.Max(width*s, 1) / 2

	length := math.Hypot(x2-x1, y2-y1)
	steps := int(math.Ceil(length*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cx := x1 + (x2-x1)*t
		cy := y1 + (y2-y1)*t
		for py := int(math.Floor(cy - half)); py < int(math.Ceil(cy+half)); py++ {
			for px := int(math.Floor(cx - half)); px < int(math.Ceil(cx+half)); px++ {
				p.set(px, py, c)
			}
		}
	}
}

func (p *painter) text(line svg.TextLine, centerX float64) {
	if line.Text == "" {
		return
	}
	face, col := p.regular, parseColor(p.theme.TextColor, color.Gray{0x11})
	switch line.Class {
	case "abbrev":
		face = p.bold
	case "unit-type":
		face, col = p.small, parseColor(p.theme.UnitTypeColor, color.Gray{0x55})
	}

	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(line.Text)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(centerX*p.scale*64) - width/2,
		Y: fixed.Int26_6(line.Y * p.scale * 64),
	}
	d.DrawString(line.Text)
}

func (p *painter) set(x, y int, c color.Color) {
	if image.Pt(x, y).In(p.img.Bounds()) {
		p.img.Set(x, y, c)
	}
}

var namedColors = map[string]color.Color{
	"white": color.White,
	"black": color.Black,
	"gray":  color.Gray{0x80},
	"grey":  color.Gray{0x80},
}

// parseColor parses #rgb and #rrggbb hex colors and a few names, returning
// fallback for anything else.
func parseColor(s string, fallback color.Color) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return fallback
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
