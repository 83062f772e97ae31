// Package interaction translates pointer and keyboard input into graph edits
// and eigenvector cursor moves.
//
// The Controller is an explicit state machine: idle, node selected or edge
// selected, plus the transient pointer state of an in-flight press or drag.
// It is not safe for concurrent use; the session loop serialises calls.
package interaction

import (
	"log"

	"github.com/TFMV/spectragraph/models"
	"github.com/TFMV/spectragraph/render"
	"github.com/TFMV/spectragraph/spectral"
)

// Hooks are called by the controller at the end of every action.
type Hooks interface {
	// RequestRender asks for a repaint from the current model.
	RequestRender()
	// RestartLayout reinjects energy into the simulation.
	RestartLayout()
}

// Key names a keyboard key. Letters are lower case.
type Key string

// Keys the controller reacts to.
const (
	KeyNone      Key = ""
	KeyBackspace Key = "Backspace"
	KeyDelete    Key = "Delete"
	KeyShift     Key = "Shift"
	KeyLaplacian Key = "l"
	KeyNext      Key = "n"
	KeyPrevious  Key = "p"
)

// SelectionKind tells which element is selected.
type SelectionKind int

// Selection kinds.
const (
	SelectNone SelectionKind = iota
	SelectNode
	SelectEdge
)

// Selection is the currently selected element, at most one.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	Node models.NodeID `json:"node"`
	Edge models.Edge   `json:"edge"`
}

// Controller owns selection and pointer state.
type Controller struct {
	graph    *models.Graph
	analyzer *spectral.Analyzer
	hooks    Hooks

	selection Selection

	downNode *models.NodeID
	downEdge *models.Edge
	hovered  *models.NodeID
	dragging *models.NodeID

	reposition bool
	lastKey    Key
}

// NewController wires a controller to the model it edits.
func NewController(g *models.Graph, a *spectral.Analyzer, hooks Hooks) *Controller {
	return &Controller{graph: g, analyzer: a, hooks: hooks}
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.selection
}

// Repositioning reports whether drags move nodes instead of creating edges.
func (c *Controller) Repositioning() bool {
	return c.reposition
}

// Highlight describes the selection and hover state for a frame.
func (c *Controller) Highlight() render.Highlight {
	var hl render.Highlight
	switch c.selection.Kind {
	case SelectNode:
		id := c.selection.Node
		hl.Node = &id
	case SelectEdge:
		e := c.selection.Edge
		hl.Edge = &e
	}
	if c.hovered != nil {
		id := *c.hovered
		hl.Hovered = &id
	}
	hl.Dragging = c.dragging != nil
	return hl
}

// PointerDownBackground creates a node at (x, y) unless a press on a node or
// edge is already in flight or reposition mode is on.
func (c *Controller) PointerDownBackground(x, y float64) {
	if c.reposition || c.downNode != nil || c.downEdge != nil {
		return
	}
	c.graph.AddNode(x, y)
	c.structural()
}

// PointerDownNode starts a drag in reposition mode, otherwise toggles the
// node selection.
func (c *Controller) PointerDownNode(id models.NodeID) {
	if !c.graph.HasNode(id) {
		return
	}
	if c.reposition {
		c.endDrag()
		c.graph.Pin(id)
		c.dragging = &id
		c.hooks.RestartLayout()
		c.hooks.RequestRender()
		return
	}

	c.downNode = &id
	if c.selection.Kind == SelectNode && c.selection.Node == id {
		c.selection = Selection{}
	} else {
		c.selection = Selection{Kind: SelectNode, Node: id}
	}
	c.hooks.RequestRender()
}

// PointerUpNode completes a link gesture started on another node.
func (c *Controller) PointerUpNode(id models.NodeID) {
	if c.downNode == nil {
		c.PointerUp()
		return
	}
	from := *c.downNode
	if from == id {
		c.resetPointer()
		return
	}

	edge, created, err := c.graph.ToggleEdge(from, id)
	c.resetPointer()
	if err != nil {
		c.hooks.RequestRender()
		return
	}

	c.selection = Selection{Kind: SelectEdge, Edge: edge}
	if created {
		c.structural()
		return
	}
	c.hooks.RequestRender()
}

// PointerOverNode highlights a potential link target.
func (c *Controller) PointerOverNode(id models.NodeID) {
	if c.downNode == nil || *c.downNode == id {
		return
	}
	c.hovered = &id
	c.hooks.RequestRender()
}

// PointerOutNode clears the link target highlight.
func (c *Controller) PointerOutNode(id models.NodeID) {
	if c.hovered == nil || *c.hovered != id {
		return
	}
	c.hovered = nil
	c.hooks.RequestRender()
}

// PointerDownEdge toggles the edge selection.
func (c *Controller) PointerDownEdge(e models.Edge) {
	e = models.NewEdge(e.Source, e.Target)
	if !c.graph.HasEdge(e) {
		return
	}
	c.downEdge = &e
	if c.selection.Kind == SelectEdge && c.selection.Edge == e {
		c.selection = Selection{}
	} else {
		c.selection = Selection{Kind: SelectEdge, Edge: e}
	}
	c.hooks.RequestRender()
}

// PointerMove drags the pinned node, if any.
func (c *Controller) PointerMove(x, y float64) {
	if c.dragging == nil {
		return
	}
	if !c.graph.MoveNode(*c.dragging, x, y) {
		c.dragging = nil
		return
	}
	c.hooks.RestartLayout()
	c.hooks.RequestRender()
}

// PointerUp ends every pointer gesture.
func (c *Controller) PointerUp() {
	c.resetPointer()
	c.hooks.RequestRender()
}

// KeyDown handles a key press. Repeats are ignored until KeyUp.
func (c *Controller) KeyDown(k Key) {
	if c.lastKey != KeyNone {
		return
	}
	c.lastKey = k

	switch k {
	case KeyShift:
		c.reposition = true
		c.hooks.RequestRender()
	case KeyBackspace, KeyDelete:
		c.DeleteSelection()
	case KeyLaplacian:
		c.Recompute()
	case KeyNext:
		if c.analyzer.Next(c.graph) {
			c.hooks.RequestRender()
		}
	case KeyPrevious:
		if c.analyzer.Previous(c.graph) {
			c.hooks.RequestRender()
		}
	}
}

// KeyUp releases the key lock and leaves reposition mode on Shift.
func (c *Controller) KeyUp(k Key) {
	c.lastKey = KeyNone
	if k != KeyShift {
		return
	}
	c.reposition = false
	c.endDrag()
	c.hooks.RequestRender()
}

// DeleteSelection removes the selected node, with its edges, or the selected edge.
func (c *Controller) DeleteSelection() {
	switch c.selection.Kind {
	case SelectNode:
		c.graph.RemoveNode(c.selection.Node)
	case SelectEdge:
		c.graph.RemoveEdge(c.selection.Edge)
	default:
		return
	}
	c.selection = Selection{}
	c.structural()
}

// Recompute rebuilds the Laplacian and shows the first eigenvector. A
// numerical failure keeps the previous colouring.
func (c *Controller) Recompute() {
	if err := c.analyzer.Recompute(c.graph); err != nil {
		log.Printf("interaction: %v", err)
		return
	}
	c.hooks.RequestRender()
}

func (c *Controller) structural() {
	c.hooks.RestartLayout()
	c.hooks.RequestRender()
}

func (c *Controller) resetPointer() {
	c.downNode = nil
	c.downEdge = nil
	c.hovered = nil
	c.endDrag()
}

func (c *Controller) endDrag() {
	if c.dragging == nil {
		return
	}
	c.graph.Unpin(*c.dragging)
	c.dragging = nil
}
