package org

import "strconv"

// UnitRecord is a single organizational unit as stored in the data source.
// Records are immutable once fetched.
type UnitRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Abbrev   string `json:"abbrev,omitempty"` // empty when NULL
	UnitType string `json:"unit_type"`
	ParentID *int64 `json:"parent_id"` // nil for top-level units
}

// HasParent reports whether the record references a parent unit.
func (r UnitRecord) HasParent() bool { return r.ParentID != nil }

// Label returns the abbreviation when set, otherwise the name.
func (r UnitRecord) Label() string {
	if r.Abbrev != "" {
		return r.Abbrev
	}
	return r.Name
}

// String returns "name (#id)".
func (r UnitRecord) String() string {
	return r.Name + " (#" + strconv.FormatInt(r.ID, 10) + ")"
}

// ParentOf returns a pointer to id for use as UnitRecord.ParentID.
func ParentOf(id int64) *int64 { return &id }

// Node is a unit placed in a [Hierarchy]. Children holds the ids of the
// node's direct subordinates in record order; the parent is only known by id.
type Node struct {
	UnitRecord
	Children []int64
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }
