package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// ExportedLayout is the JSON form of a computed chart.
type ExportedLayout struct {
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	MaxCols int              `json:"max_cols"`
	Options layout.Options   `json:"options"`
	Layers  [][]ExportedUnit `json:"layers"`
}

// ExportedUnit is a positioned unit.
type ExportedUnit struct {
	org.UnitRecord
	Depth  int     `json:"depth"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Export combines the records of h with the boxes of l, layer by layer.
func Export(h *org.Hierarchy, l layout.Layout) ExportedLayout {
	out := ExportedLayout{
		Width:   l.Width,
		Height:  l.Height,
		MaxCols: l.MaxCols,
		Options: l.Options,
		Layers:  make([][]ExportedUnit, len(l.Layers)),
	}
	for depth, layer := range l.Layers {
		units := make([]ExportedUnit, 0, len(layer))
		for _, b := range layer {
			n, ok := h.Lookup(b.ID)
			if !ok {
				continue
			}
			units = append(units, ExportedUnit{
				UnitRecord: n.UnitRecord,
				Depth:      b.Depth,
				X:          b.X,
				Y:          b.Y,
				Width:      b.Width,
				Height:     b.Height,
			})
		}
		out.Layers[depth] = units
	}
	return out
}

// MarshalLayout encodes an exported layout as indented JSON.
func MarshalLayout(e ExportedLayout) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
