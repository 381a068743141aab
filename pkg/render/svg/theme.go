package svg

import (
	"bytes"
	"fmt"
)

// Theme controls the stylesheet embedded in the document.
type Theme struct {
	Background string `toml:"background"` // empty for transparent

	LinkStroke string  `toml:"link_stroke"`
	LinkWidth  float64 `toml:"link_width"`

	BoxFill        string  `toml:"box_fill"`
	BoxStroke      string  `toml:"box_stroke"`
	BoxStrokeWidth float64 `toml:"box_stroke_width"`
	BoxRadius      float64 `toml:"box_radius"`

	FontFamily       string  `toml:"font_family"`
	FontSize         float64 `toml:"font_size"`
	TextColor        string  `toml:"text_color"`
	AbbrevFontSize   float64 `toml:"abbrev_font_size"`
	UnitTypeFontSize float64 `toml:"unit_type_font_size"`
	UnitTypeColor    string  `toml:"unit_type_color"`
}

// DefaultTheme returns the standard light theme.
func DefaultTheme() Theme {
	return Theme{
		LinkStroke:       "#999",
		LinkWidth:        2,
		BoxFill:          "#f5f5f5",
		BoxStroke:        "#333",
		BoxStrokeWidth:   1.5,
		BoxRadius:        6,
		FontFamily:       "Arial, sans-serif",
		FontSize:         11,
		TextColor:        "#111",
		AbbrevFontSize:   11,
		UnitTypeFontSize: 10,
		UnitTypeColor:    "#555",
	}
}

// WithDefaults returns a copy of t with empty fields taken from [DefaultTheme].
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	setStr := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	setNum := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setStr(&t.LinkStroke, d.LinkStroke)
	setNum(&t.LinkWidth, d.LinkWidth)
	setStr(&t.BoxFill, d.BoxFill)
	setStr(&t.BoxStroke, d.BoxStroke)
	setNum(&t.BoxStrokeWidth, d.BoxStrokeWidth)
	setNum(&t.BoxRadius, d.BoxRadius)
	setStr(&t.FontFamily, d.FontFamily)
	setNum(&t.FontSize, d.FontSize)
	setStr(&t.TextColor, d.TextColor)
	setNum(&t.AbbrevFontSize, d.AbbrevFontSize)
	setNum(&t.UnitTypeFontSize, d.UnitTypeFontSize)
	setStr(&t.UnitTypeColor, d.UnitTypeColor)
	return t
}

// renderStyle writes the <style> block. Theme values are escaped so a
// hostile config cannot break out of the element.
func (t Theme) renderStyle(buf *bytes.Buffer) {
	e := Escape
	buf.WriteString("  <style>\n")
	fmt.Fprintf(buf, "    .link { stroke: %s; stroke-width: %s; fill: none; }\n",
		e(t.LinkStroke), num(t.LinkWidth))
	fmt.Fprintf(buf, "    .node rect { fill: %s; stroke: %s; stroke-width: %s; }\n",
		e(t.BoxFill), e(t.BoxStroke), num(t.BoxStrokeWidth))
	fmt.Fprintf(buf, "    .node text { font-family: %s; font-size: %spx; fill: %s; }\n",
		e(t.FontFamily), num(t.FontSize), e(t.TextColor))
	fmt.Fprintf(buf, "    .node .abbrev { font-weight: bold; font-size: %spx; }\n",
		num(t.AbbrevFontSize))
	fmt.Fprintf(buf, "    .node .unit-type { font-size: %spx; fill: %s; }\n",
		num(t.UnitTypeFontSize), e(t.UnitTypeColor))
	buf.WriteString("  </style>\n")
}
