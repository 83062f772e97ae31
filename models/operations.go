package models

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Graph is the mutable graph model. All structural edits go through its
// methods; it is not safe for concurrent use.
type Graph struct {
	ID       string
	Name     string
	nodes    []*Node
	edges    []Edge
	lastID   NodeID
	revision uint64
}

// NewGraph creates an empty graph with a unique ID
func NewGraph(name string) *Graph {
	return &Graph{
		ID:     uuid.New().String(),
		Name:   name,
		nodes:  []*Node{},
		edges:  []Edge{},
		lastID: -1,
	}
}

// NewSeedGraph creates the 7-node, 8-edge graph the editor starts with.
func NewSeedGraph() *Graph {
	g := NewGraph("seed")
	for i := 0; i < 7; i++ {
		g.AddNode(0, 0)
	}
	for _, p := range [][2]NodeID{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 5}, {2, 5}, {3, 6}, {4, 6}} {
		_, _, _ = g.ToggleEdge(p[0], p[1])
	}
	return g
}

// AddNode allocates the next id and adds a node at (x, y).
func (g *Graph) AddNode(x, y float64) NodeID {
	g.lastID++
	g.nodes = append(g.nodes, &Node{
		ID:    g.lastID,
		Value: math.NaN(),
		X:     x,
		Y:     y,
	})
	g.revision++
	return g.lastID
}

// RemoveNode removes a node and all connected edges from the graph
func (g *Graph) RemoveNode(id NodeID) bool {
	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}
	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)

	kept := g.edges[:0]
	for _, e := range g.edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	g.revision++
	return true
}

// ToggleEdge returns the edge between a and b, creating it when absent.
// created is false when the edge already existed.
func (g *Graph) ToggleEdge(a, b NodeID) (edge Edge, created bool, err error) {
	if a == b {
		return Edge{}, false, ErrSelfLoop
	}
	if !g.HasNode(a) {
		return Edge{}, false, fmt.Errorf("source node %d: %w", a, ErrNodeNotFound)
	}
	if !g.HasNode(b) {
		return Edge{}, false, fmt.Errorf("target node %d: %w", b, ErrNodeNotFound)
	}

	edge = NewEdge(a, b)
	if g.HasEdge(edge) {
		return edge, false, nil
	}
	g.edges = append(g.edges, edge)
	g.revision++
	return edge, true, nil
}

// RemoveEdge removes an edge from the graph
func (g *Graph) RemoveEdge(e Edge) bool {
	e = NewEdge(e.Source, e.Target)
	for i, existing := range g.edges {
		if existing == e {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			g.revision++
			return true
		}
	}
	return false
}

// MoveNode sets the position of a node without touching its velocity.
func (g *Graph) MoveNode(id NodeID, x, y float64) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}
	n.SetPosition(x, y)
	return true
}

// Pin marks a node as externally positioned.
func (g *Graph) Pin(id NodeID) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}
	n.Pinned = true
	n.VX, n.VY = 0, 0
	return true
}

// Unpin hands a node back to the simulation.
func (g *Graph) Unpin(id NodeID) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}
	n.Pinned = false
	return true
}

// Revision is bumped on every structural edit.
func (g *Graph) Revision() uint64 {
	return g.revision
}

// LastID returns the most recently allocated id, -1 if none.
func (g *Graph) LastID() NodeID {
	return g.lastID
}

// Validate checks that no edge dangles and no undirected edge is duplicated.
func (g *Graph) Validate() error {
	seen := make(map[Edge]bool, len(g.edges))
	for _, e := range g.edges {
		if e.Source >= e.Target {
			return fmt.Errorf("edge %d-%d not canonical: %w", e.Source, e.Target, ErrInvariant)
		}
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			return fmt.Errorf("edge %d-%d dangles: %w", e.Source, e.Target, ErrInvariant)
		}
		if seen[e] {
			return fmt.Errorf("edge %d-%d duplicated: %w", e.Source, e.Target, ErrInvariant)
		}
		seen[e] = true
	}
	return nil
}

func (g *Graph) indexOf(id NodeID) int {
	for i, n := range g.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
