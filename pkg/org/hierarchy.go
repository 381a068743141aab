package org

import (
	"cmp"
	"slices"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Hierarchy is a forest of units built by [Build].
//
// Nodes are stored in an arena ordered by id and referenced by id everywhere.
// A Hierarchy is read-only after construction and safe for concurrent reads.
type Hierarchy struct {
	nodes   []Node
	index   map[int64]int
	roots   []int64
	demoted []int64
}

// Build assembles a hierarchy from records.
//
// The records are sorted by id first so the result does not depend on
// delivery order. A node is appended to its parent's children in that order;
// nodes without a parent and nodes with a dangling parent id become roots in
// the same order.
func Build(records []UnitRecord) (*Hierarchy, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no unit records")
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b UnitRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})

	h := &Hierarchy{
		nodes: make([]Node, 0, len(sorted)),
		index: make(map[int64]int, len(sorted)),
	}
	for _, r := range sorted {
		if _, dup := h.index[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate unit id %d", r.ID)
		}
		h.index[r.ID] = len(h.nodes)
		h.nodes = append(h.nodes, Node{UnitRecord: r})
	}

	for i := range h.nodes {
		n := &h.nodes[i]
		if !n.HasParent() {
			h.roots = append(h.roots, n.ID)
			continue
		}
		pi, ok := h.index[*n.ParentID]
		if !ok {
			h.roots = append(h.roots, n.ID)
			h.demoted = append(h.demoted, n.ID)
			continue
		}
		h.nodes[pi].Children = append(h.nodes[pi].Children, n.ID)
	}

	if len(h.roots) == 0 {
		return nil, errors.New(errors.ErrCodeNoRoots,
			"none of %d units is a root (every parent_id resolves)", len(h.nodes))
	}
	if err := h.checkReachable(); err != nil {
		return nil, err
	}
	return h, nil
}

// checkReachable fails when a unit cannot be reached from any root. Every
// node has exactly one parent, so an unreachable node sits on or below a
// parent cycle.
func (h *Hierarchy) checkReachable() error {
	seen := make([]bool, len(h.nodes))
	visited := 0
	h.Walk(func(n *Node, _ int) bool {
		i := h.index[n.ID]
		if seen[i] {
			return false
		}
		seen[i] = true
		visited++
		return true
	})
	if visited == len(h.nodes) {
		return nil
	}

	var cyclic []int64
	for i, ok := range seen {
		if !ok {
			cyclic = append(cyclic, h.nodes[i].ID)
		}
	}
	return errors.New(errors.ErrCodeCycleDetected,
		"%d units are only reachable through a parent cycle (first: unit %d)", len(cyclic), cyclic[0])
}

// Len returns the number of units.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// Nodes returns all nodes in ascending id order.
func (h *Hierarchy) Nodes() []*Node {
	out := make([]*Node, len(h.nodes))
	for i := range h.nodes {
		out[i] = &h.nodes[i]
	}
	return out
}

// Lookup returns the node with the given id.
func (h *Hierarchy) Lookup(id int64) (*Node, bool) {
	i, ok := h.index[id]
	if !ok {
		return nil, false
	}
	return &h.nodes[i], true
}

// Roots returns the forest roots in id order, including demoted units.
func (h *Hierarchy) Roots() []*Node {
	out := make([]*Node, 0, len(h.roots))
	for _, id := range h.roots {
		n, _ := h.Lookup(id)
		out = append(out, n)
	}
	return out
}

// Demoted returns the ids of units whose parent id did not resolve.
func (h *Hierarchy) Demoted() []int64 { return slices.Clone(h.demoted) }

// Parent returns the node's parent if its parent id resolves.
func (h *Hierarchy) Parent(n *Node) (*Node, bool) {
	if n == nil || !n.HasParent() {
		return nil, false
	}
	return h.Lookup(*n.ParentID)
}

// Children returns the node's children in record order.
func (h *Hierarchy) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		c, _ := h.Lookup(id)
		out = append(out, c)
	}
	return out
}

// Walk visits every node reachable from the roots in depth-first pre-order:
// roots in forest order, each node before its children, siblings in record
// order. depth is the number of edges to the node's root. Returning false
// from fn skips the node's subtree.
//
// The traversal uses an explicit stack, so hierarchy depth is not bounded by
// the goroutine stack.
func (h *Hierarchy) Walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		id    int64
		depth int
	}
	stack := make([]frame, 0, len(h.roots))
	for i := len(h.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{h.roots[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, _ := h.Lookup(f.id)
		if !fn(n, f.depth) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.Children[i], f.depth + 1})
		}
	}
}
