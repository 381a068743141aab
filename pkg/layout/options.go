package layout

import "github.com/matzehuels/orgchart/pkg/errors"

// Default box and spacing constants in pixels.
const (
	DefaultNodeWidth  = 220.0
	DefaultNodeHeight = 60.0
	DefaultHGap       = 40.0
	DefaultVGap       = 80.0
	DefaultMarginX    = 40.0
	DefaultMarginY    = 40.0
)

// Options holds the fixed box dimensions, gaps and canvas margins.
//
// The zero Options selects [DefaultOptions]. Otherwise gaps and margins are
// taken as given, so zero is a valid spacing; see [Options.WithDefaults].
type Options struct {
	NodeWidth  float64 `toml:"node_width" json:"node_width"`
	NodeHeight float64 `toml:"node_height" json:"node_height"`
	HGap       float64 `toml:"h_gap" json:"h_gap"`
	VGap       float64 `toml:"v_gap" json:"v_gap"`
	MarginX    float64 `toml:"margin_x" json:"margin_x"`
	MarginY    float64 `toml:"margin_y" json:"margin_y"`
}

// DefaultOptions returns the standard chart geometry.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		HGap:       DefaultHGap,
		VGap:       DefaultVGap,
		MarginX:    DefaultMarginX,
		MarginY:    DefaultMarginY,
	}
}

// WithDefaults returns [DefaultOptions] for the zero Options. For any other
// value it only fills a zero box width or height. Zero gaps and margins are
// kept.
func (o Options) WithDefaults() Options {
	if o == (Options{}) {
		return DefaultOptions()
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	return o
}

// Validate rejects negative values and, unless o is the zero Options, a
// box width or height that is not positive.
func (o Options) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"node_width", o.NodeWidth},
		{"node_height", o.NodeHeight},
		{"h_gap", o.HGap},
		{"v_gap", o.VGap},
		{"margin_x", o.MarginX},
		{"margin_y", o.MarginY},
	}
	for _, f := range fields {
		if f.value < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layout %s must not be negative, got %v", f.name, f.value)
		}
	}
	if o == (Options{}) {
		return nil
	}
	for _, f := range fields[:2] {
		if f.value == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layout %s must be positive", f.name)
		}
	}
	return nil
}
