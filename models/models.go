// Package models provides the graph data model for the spectragraph editor.
// It owns the node and edge sets, id allocation and every structural edit.
package models

import (
	"errors"
	"math"
)

// NodeID identifies a node. IDs are allocated monotonically and never reused.
type NodeID int

// Sentinel errors returned by edit operations.
var (
	ErrSelfLoop     = errors.New("models: self-loops are not allowed")
	ErrNodeNotFound = errors.New("models: node not found")
	ErrInvariant    = errors.New("models: graph invariant violated")
)

// Node represents a node in the graph
type Node struct {
	ID     NodeID  `json:"id"`
	Value  float64 `json:"-"` // eigenvector component, NaN until computed
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Pinned bool    `json:"pinned"` // position is externally authoritative
}

// HasValue reports whether spectral data has been applied to the node.
func (n *Node) HasValue() bool {
	return !math.IsNaN(n.Value)
}

// SetPosition sets the position of a node
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// Edge represents an undirected edge. Source is always the lower id.
type Edge struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// NewEdge returns the canonical edge between a and b.
func NewEdge(a, b NodeID) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{Source: a, Target: b}
}

// Touches reports whether id is one of the edge endpoints.
func (e Edge) Touches(id NodeID) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id NodeID) NodeID {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// State is a comparable snapshot of the node and edge sets.
type State struct {
	Nodes []NodeID `json:"nodes"`
	Edges []Edge   `json:"edges"`
}
