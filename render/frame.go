package render

import (
	"math"

	"github.com/TFMV/spectragraph/models"
)

// DefaultPadding is the distance edges stop short of a node centre.
const DefaultPadding = 12.0

// Highlight tells BuildFrame which elements the controller has singled out.
type Highlight struct {
	Node     *models.NodeID
	Edge     *models.Edge
	Hovered  *models.NodeID
	Dragging bool
}

// FrameNode is one node as the renderer sees it.
type FrameNode struct {
	ID       models.NodeID `json:"id"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Value    *float64      `json:"value"` // nil until spectral data exists
	Color    string        `json:"color"`
	Selected bool          `json:"selected"`
	Hovered  bool          `json:"hovered"`
	Pinned   bool          `json:"pinned"`
}

// FrameEdge is one edge with its inset rendering segment.
type FrameEdge struct {
	Source   models.NodeID `json:"source"`
	Target   models.NodeID `json:"target"`
	X1       float64       `json:"x1"`
	Y1       float64       `json:"y1"`
	X2       float64       `json:"x2"`
	Y2       float64       `json:"y2"`
	Selected bool          `json:"selected"`
}

// Frame is a snapshot of everything the renderer needs for one paint.
type Frame struct {
	GraphID  string      `json:"graph_id"`
	Revision uint64      `json:"revision"`
	Tick     int         `json:"tick"`
	Alpha    float64     `json:"alpha"`
	Dragging bool        `json:"dragging"`
	Nodes    []FrameNode `json:"nodes"`
	Edges    []FrameEdge `json:"edges"`
}

// FrameOptions configures BuildFrame.
type FrameOptions struct {
	Scale   ColorScale
	Padding float64
}

// DefaultFrameOptions returns the default scale and edge padding.
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{Scale: DefaultColorScale(), Padding: DefaultPadding}
}

// BuildFrame snapshots g. The result shares no memory with the graph.
func BuildFrame(g *models.Graph, hl Highlight, opts FrameOptions) Frame {
	nodes := g.Nodes()
	f := Frame{
		GraphID:  g.ID,
		Revision: g.Revision(),
		Dragging: hl.Dragging,
		Nodes:    make([]FrameNode, 0, len(nodes)),
		Edges:    make([]FrameEdge, 0, g.EdgeCount()),
	}

	byID := make(map[models.NodeID]*models.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n

		fn := FrameNode{
			ID:       n.ID,
			X:        n.X,
			Y:        n.Y,
			Selected: hl.Node != nil && *hl.Node == n.ID,
			Hovered:  hl.Hovered != nil && *hl.Hovered == n.ID,
			Pinned:   n.Pinned,
		}
		c := opts.Scale.At(n.Value)
		if n.HasValue() {
			v := n.Value
			fn.Value = &v
		}
		if fn.Selected {
			c = Brighter(c)
		}
		fn.Color = Hex(c)
		f.Nodes = append(f.Nodes, fn)
	}

	for _, e := range g.Edges() {
		src, dst := byID[e.Source], byID[e.Target]
		if src == nil || dst == nil {
			continue
		}
		x1, y1, x2, y2 := Segment(src.X, src.Y, dst.X, dst.Y, opts.Padding)
		f.Edges = append(f.Edges, FrameEdge{
			Source:   e.Source,
			Target:   e.Target,
			X1:       x1,
			Y1:       y1,
			X2:       x2,
			Y2:       y2,
			Selected: hl.Edge != nil && *hl.Edge == e,
		})
	}
	return f
}

// Segment returns the line between two centres shortened by padding at each
// end. Coincident centres give a zero-length segment at that point.
func Segment(sx, sy, tx, ty, padding float64) (x1, y1, x2, y2 float64) {
	dx, dy := tx-sx, ty-sy
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return sx, sy, tx, ty
	}
	nx, ny := dx/dist, dy/dist
	return sx + padding*nx, sy + padding*ny, tx - padding*nx, ty - padding*ny
}
