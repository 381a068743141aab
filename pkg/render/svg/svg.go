package svg

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Text placement inside a box.
const (
	FirstLineOffset = 18.0 // baseline of the first line below the box top
	LineHeight      = 14.0 // distance between consecutive baselines
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	theme Theme
	title string
}

// WithTheme sets the stylesheet theme. Empty fields fall back to defaults.
func WithTheme(t Theme) Option { return func(r *renderer) { r.theme = t.WithDefaults() } }

// WithTitle adds a <title> element to the document.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// Render serializes h with the geometry in l.
//
// Units without a box in l are skipped. An edge is drawn for every unit whose
// parent id resolves, from the parent's bottom-center to the child's
// top-center.
func Render(h *org.Hierarchy, l layout.Layout, opts ...Option) []byte {
	r := renderer{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	w, hgt := num(l.Width), num(l.Height)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		w, hgt, w, hgt)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", Escape(r.title))
	}
	r.theme.renderStyle(&buf)
	if r.theme.Background != "" {
		fmt.Fprintf(&buf, `<rect class="background" width="100%%" height="100%%" fill="%s" />`+"\n",
			escapeAttr(r.theme.Background))
	}

	nodes := h.Nodes()
	for _, n := range nodes {
		renderEdge(&buf, h, l, n)
	}
	for _, n := range nodes {
		if b, ok := l.Box(n.ID); ok {
			renderNode(&buf, r.theme, n, b)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdge(buf *bytes.Buffer, h *org.Hierarchy, l layout.Layout, n *org.Node) {
	parent, ok := h.Parent(n)
	if !ok {
		return
	}
	from, okFrom := l.Box(parent.ID)
	to, okTo := l.Box(n.ID)
	if !okFrom || !okTo {
		return
	}
	fmt.Fprintf(buf, `<line class="link" x1="%s" y1="%s" x2="%s" y2="%s" />`+"\n",
		num(from.CenterX()), num(from.Bottom()), num(to.CenterX()), num(to.Y))
}

func renderNode(buf *bytes.Buffer, t Theme, n *org.Node, b layout.Box) {
	cx := num(b.CenterX())
	buf.WriteString(`<g class="node">` + "\n")
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" />`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height), num(t.BoxRadius), num(t.BoxRadius))

	for _, line := range TextLines(n.UnitRecord, b) {
		class := ""
		if line.Class != "" {
			class = ` class="` + line.Class + `"`
		}
		fmt.Fprintf(buf, `<text%s x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			class, cx, num(line.Y), Escape(line.Text))
	}
	buf.WriteString("</g>\n")
}

// TextLine is one centered label line of a unit box.
type TextLine struct {
	Class string // "abbrev", "" for the name, "unit-type"
	Text  string // unescaped
	Y     float64
}

// TextLines returns the label lines for a unit placed at b: the abbreviation
// when non-empty, then name, then unit type, stacked from
// b.Y+FirstLineOffset in LineHeight steps. Raster sinks use the same lines.
func TextLines(r org.UnitRecord, b layout.Box) []TextLine {
	y := b.Y + FirstLineOffset
	lines := make([]TextLine, 0, 3)
	if r.Abbrev != "" {
		lines = append(lines, TextLine{Class: "abbrev", Text: r.Abbrev, Y: y})
		y += LineHeight
	}
	lines = append(lines, TextLine{Text: r.Name, Y: y})
	y += LineHeight
	lines = append(lines, TextLine{Class: "unit-type", Text: r.UnitType, Y: y})
	return lines
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape replaces &, < and > with their entities. The replacement is a single
// pass, so entities produced for < and > are never escaped again.
//
// Invalid UTF-8 becomes U+FFFD and characters XML 1.0 does not allow in a
// document (C0 controls other than tab, newline and carriage return, and
// U+FFFE/U+FFFF) are dropped, so database text always yields a well-formed
// document.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return textEscaper.Replace(sanitize(s))
}

func sanitize(s string) string {
	if utf8.ValidString(s) && strings.IndexFunc(s, isIllegalXMLChar) < 0 {
		return s
	}
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.Map(func(r rune) rune {
		if isIllegalXMLChar(r) {
			return -1
		}
		return r
	}, s)
}

// isIllegalXMLChar reports whether r falls outside the XML 1.0 Char production.
func isIllegalXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return false
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(Escape(s), `"`, "&quot;")
}

// num formats v in its shortest decimal form ("300", "150.5").
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNumber formats v the way coordinates appear in the document.
func FormatNumber(v float64) string { return num(v) }
