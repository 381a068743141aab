package layout

import (
	"github.com/matzehuels/orgchart/pkg/org"
)

// Layout is the positioned form of a hierarchy.
type Layout struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	MaxCols int     `json:"max_cols"`
	Options Options `json:"options"`

	// Layers maps depth to the boxes assigned to it, in traversal order.
	Layers [][]Box `json:"layers"`

	byID map[int64]Box
}

// MaxDepth returns the highest depth present, or -1 for an empty layout.
func (l Layout) MaxDepth() int { return len(l.Layers) - 1 }

// Len returns the number of placed boxes.
func (l Layout) Len() int {
	n := 0
	for _, row := range l.Layers {
		n += len(row)
	}
	return n
}

// Box returns the box of the unit with the given id.
func (l Layout) Box(id int64) (Box, bool) {
	if l.byID != nil {
		b, ok := l.byID[id]
		return b, ok
	}
	for _, row := range l.Layers {
		for _, b := range row {
			if b.ID == id {
				return b, true
			}
		}
	}
	return Box{}, false
}

// Compute assigns every node of h a depth, a position within its layer and
// pixel geometry.
//
// Layers are filled by a depth-first pre-order walk from each root in forest
// order, so a layer lists roots before descendants and siblings in record
// order. The canvas spans the widest layer plus margins:
//
//	Width  = 2*MarginX + maxCols*NodeWidth + (maxCols-1)*HGap
//	Height = 2*MarginY + (maxDepth+1)*NodeHeight + maxDepth*VGap
//
// and each layer is centered within that width.
func Compute(h *org.Hierarchy, opts Options) Layout {
	opts = opts.WithDefaults()
	l := Layout{Options: opts, byID: make(map[int64]Box, h.Len())}

	var layers [][]int64
	h.Walk(func(n *org.Node, depth int) bool {
		for len(layers) <= depth {
			layers = append(layers, nil)
		}
		layers[depth] = append(layers[depth], n.ID)
		return true
	})

	for _, ids := range layers {
		l.MaxCols = max(l.MaxCols, len(ids))
	}
	if l.MaxCols == 0 {
		l.Width = 2 * opts.MarginX
		l.Height = 2 * opts.MarginY
		return l
	}

	maxDepth := len(layers) - 1
	l.Width = 2*opts.MarginX + float64(l.MaxCols)*opts.NodeWidth + float64(l.MaxCols-1)*opts.HGap
	l.Height = 2*opts.MarginY + float64(maxDepth+1)*opts.NodeHeight + float64(maxDepth)*opts.VGap

	l.Layers = make([][]Box, len(layers))
	for depth, ids := range layers {
		count := float64(len(ids))
		total := count*opts.NodeWidth + (count-1)*opts.HGap
		startX := (l.Width - total) / 2
		y := opts.MarginY + float64(depth)*(opts.NodeHeight+opts.VGap)

		row := make([]Box, len(ids))
		for i, id := range ids {
			row[i] = Box{
				ID:     id,
				Depth:  depth,
				Index:  i,
				X:      startX + float64(i)*(opts.NodeWidth+opts.HGap),
				Y:      y,
				Width:  opts.NodeWidth,
				Height: opts.NodeHeight,
			}
			l.byID[id] = row[i]
		}
		l.Layers[depth] = row
	}
	return l
}
