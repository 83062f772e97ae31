package models

import (
	"sort"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// Node returns a node by its ID
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if idx := g.indexOf(id); idx >= 0 {
		return g.nodes[idx], true
	}
	return nil, false
}

// HasNode reports whether id is in the node set.
func (g *Graph) HasNode(id NodeID) bool {
	return g.indexOf(id) >= 0
}

// HasEdge reports whether the undirected edge is present.
func (g *Graph) HasEdge(e Edge) bool {
	e = NewEdge(e.Source, e.Target)
	for _, existing := range g.edges {
		if existing == e {
			return true
		}
	}
	return false
}

// Nodes returns the nodes in id order. The slice is a copy; the nodes are not.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edge set in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgesOf returns all edges touching a node
func (g *Graph) EdgesOf(id NodeID) []Edge {
	var result []Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			result = append(result, e)
		}
	}
	return result
}

// Neighbors returns the ids of all nodes directly connected to a node
func (g *Graph) Neighbors(id NodeID) []NodeID {
	var result []NodeID
	for _, e := range g.edges {
		if e.Touches(id) {
			result = append(result, e.Other(id))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Degree returns the number of edges touching a node.
func (g *Graph) Degree(id NodeID) int {
	d := 0
	for _, e := range g.edges {
		if e.Touches(id) {
			d++
		}
	}
	return d
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, n := range g.nodes {
		if filter(n) {
			result = append(result, n)
		}
	}
	return result
}

// State returns the node ids and edges, both sorted.
func (g *Graph) State() State {
	s := State{
		Nodes: make([]NodeID, 0, len(g.nodes)),
		Edges: g.Edges(),
	}
	for _, n := range g.nodes {
		s.Nodes = append(s.Nodes, n.ID)
	}
	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i] < s.Nodes[j] })
	sort.Slice(s.Edges, func(i, j int) bool {
		if s.Edges[i].Source != s.Edges[j].Source {
			return s.Edges[i].Source < s.Edges[j].Source
		}
		return s.Edges[i].Target < s.Edges[j].Target
	})
	return s
}
