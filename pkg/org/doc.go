// Package org builds an organizational hierarchy from flat unit records.
//
// # Overview
//
// A data source delivers units as (id, parent_id) records. [Build] turns them
// into a [Hierarchy]: an id-indexed arena of [Node] values where every node
// owns the ordered ids of its children and keeps its parent only as an id.
//
//	h, err := org.Build(records)
//	if err != nil {
//	    return err
//	}
//	for _, root := range h.Roots() {
//	    fmt.Println(root.Name, len(root.Children))
//	}
//
// # Roots and Demotion
//
// A unit without a parent id is a root. A unit whose parent id does not match
// any record (a dangling reference) is demoted to a root instead of being
// rejected, so a chart is always complete even when the data is not. Demoted
// ids are reported by [Hierarchy.Demoted].
//
// # Failure Modes
//
// Build fails with an EMPTY_DATASET error for zero records, INVALID_INPUT for
// duplicate ids, NO_ROOTS when no unit qualifies as a root and CYCLE_DETECTED
// when some units can only be reached through a parent cycle.
package org
