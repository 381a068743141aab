package layout

// Box is the placed rectangle of a single unit.
// X and Y are the top-left corner in SVG user units (y grows downward).
type Box struct {
	ID     int64   `json:"id"`
	Depth  int     `json:"depth"`
	Index  int     `json:"index"` // position within the layer
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// Bottom returns the y coordinate of the lower edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }
