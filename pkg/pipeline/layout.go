package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Arrange builds the hierarchy from records and computes its layout.
// Units demoted to roots because of a dangling parent reference are logged
// at warn level.
func Arrange(records []org.UnitRecord, opts layout.Options, logger *log.Logger) (*org.Hierarchy, layout.Layout, error) {
	h, err := org.Build(records)
	if err != nil {
		return nil, layout.Layout{}, err
	}
	if logger != nil {
		for _, id := range h.Demoted() {
			n, _ := h.Lookup(id)
			logger.Warn("parent not found, drawing unit as a root",
				"unit", n.String(), "parent", *n.ParentID)
		}
	}
	return h, layout.Compute(h, opts), nil
}

// Summarize fills the hierarchy and layout fields of stats.
func Summarize(stats *Stats, h *org.Hierarchy, l layout.Layout) {
	stats.Units = h.Len()
	stats.Roots = len(h.Roots())
	stats.Demoted = len(h.Demoted())
	stats.Layers = len(l.Layers)
	stats.MaxCols = l.MaxCols
	stats.Width = l.Width
	stats.Height = l.Height
}
