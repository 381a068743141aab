// Package layout computes layered geometry for an organizational hierarchy.
//
// Every unit becomes a fixed-size [Box]. Units at the same depth share a row
// (layer); rows are stacked top to bottom with a vertical gap, and boxes in a
// row are spaced by a horizontal gap. The canvas is sized to the widest row
// plus margins, and every row is centered horizontally within it, so only
// the widest row touches the side margins.
//
//	l := layout.Compute(h, layout.DefaultOptions())
//	fmt.Println(l.Width, l.Height, l.MaxCols)
//	for depth, row := range l.Layers {
//	    for _, b := range row {
//	        fmt.Println(depth, b.ID, b.X, b.Y)
//	    }
//	}
//
// Geometry is always derived: [Compute] recomputes it in full from layer
// membership and the box constants in [Options], and identical input yields
// identical output.
package layout
