package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/spectragraph/models"
)

func TestNewSeedGraph(t *testing.T) {
	g := models.NewSeedGraph()

	require.Equal(t, 7, g.NodeCount())
	require.Equal(t, 8, g.EdgeCount())
	require.Equal(t, models.NodeID(6), g.LastID())
	require.NoError(t, g.Validate())
	assert.NotEmpty(t, g.ID)

	assert.Equal(t, 4, g.Degree(0))
	assert.Equal(t, []models.NodeID{1, 2, 3, 4}, g.Neighbors(0))
	for _, n := range g.Nodes() {
		assert.False(t, n.HasValue(), "node %d should start without spectral data", n.ID)
	}
}

func TestAddNodeAllocatesMonotonicIDs(t *testing.T) {
	g := models.NewGraph("ids")

	a := g.AddNode(1, 2)
	b := g.AddNode(3, 4)
	require.Equal(t, models.NodeID(0), a)
	require.Equal(t, models.NodeID(1), b)

	require.True(t, g.RemoveNode(b))
	c := g.AddNode(5, 6)
	assert.Equal(t, models.NodeID(2), c, "removed ids are not recycled")

	n, ok := g.Node(c)
	require.True(t, ok)
	assert.Equal(t, 5.0, n.X)
	assert.Equal(t, 6.0, n.Y)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	for id := models.NodeID(0); id <= 7; id++ {
		g := models.NewSeedGraph()
		removed := g.RemoveNode(id)

		assert.Equal(t, id <= 6, removed, "RemoveNode(%d)", id)
		for _, e := range g.Edges() {
			assert.False(t, e.Touches(id), "edge %v still references %d", e, id)
		}
		require.NoError(t, g.Validate())
	}
}

func TestRemoveNodeMissingIsNoop(t *testing.T) {
	g := models.NewSeedGraph()
	before := g.State()
	rev := g.Revision()

	assert.False(t, g.RemoveNode(42))
	assert.Equal(t, before, g.State())
	assert.Equal(t, rev, g.Revision())
}

func TestAddThenRemoveRestoresState(t *testing.T) {
	g := models.NewSeedGraph()
	before := g.State()

	id := g.AddNode(100, 100)
	require.True(t, g.RemoveNode(id))

	assert.Equal(t, before, g.State())
}

func TestToggleEdge(t *testing.T) {
	g := models.NewGraph("toggle")
	a := g.AddNode(0, 0)
	b := g.AddNode(10, 10)

	e, created, err := g.ToggleEdge(b, a)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, models.Edge{Source: a, Target: b}, e)

	again, created, err := g.ToggleEdge(a, b)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, e, again)
	assert.Equal(t, 1, g.EdgeCount())

	_, _, err = g.ToggleEdge(b, a)
	require.NoError(t, err)
	assert.Equal(t, 1, g.EdgeCount())
	require.NoError(t, g.Validate())
}

func TestToggleEdgeRejects(t *testing.T) {
	tests := []struct {
		name string
		a, b models.NodeID
		want error
	}{
		{name: "self loop", a: 1, b: 1, want: models.ErrSelfLoop},
		{name: "missing source", a: 99, b: 1, want: models.ErrNodeNotFound},
		{name: "missing target", a: 1, b: 99, want: models.ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := models.NewSeedGraph()
			before := g.State()

			_, created, err := g.ToggleEdge(tt.a, tt.b)
			require.ErrorIs(t, err, tt.want)
			assert.False(t, created)
			assert.Equal(t, before, g.State())
		})
	}
}

func TestToggleEdgeIdempotentForAllPairs(t *testing.T) {
	g := models.NewSeedGraph()
	for a := models.NodeID(0); a <= 6; a++ {
		for b := models.NodeID(0); b <= 6; b++ {
			if a == b {
				continue
			}
			_, _, err := g.ToggleEdge(a, b)
			require.NoError(t, err)
			count := g.EdgeCount()
			_, created, err := g.ToggleEdge(a, b)
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, count, g.EdgeCount())
		}
	}
	assert.Equal(t, 21, g.EdgeCount(), "complete graph on 7 nodes")
	require.NoError(t, g.Validate())
}

func TestRemoveEdge(t *testing.T) {
	g := models.NewSeedGraph()

	require.True(t, g.RemoveEdge(models.Edge{Source: 5, Target: 1}), "reversed endpoints are canonicalised")
	assert.False(t, g.HasEdge(models.NewEdge(1, 5)))
	assert.Equal(t, 7, g.EdgeCount())

	assert.False(t, g.RemoveEdge(models.NewEdge(1, 5)))
	assert.Equal(t, 7, g.EdgeCount())
}

func TestRevisionTracksStructuralEdits(t *testing.T) {
	g := models.NewGraph("rev")
	r0 := g.Revision()

	a := g.AddNode(0, 0)
	b := g.AddNode(0, 0)
	r1 := g.Revision()
	assert.Greater(t, r1, r0)

	g.MoveNode(a, 3, 4)
	g.Pin(a)
	assert.Equal(t, r1, g.Revision(), "position changes are not structural")

	_, _, _ = g.ToggleEdge(a, b)
	assert.Greater(t, g.Revision(), r1)
}

func TestPinUnpin(t *testing.T) {
	g := models.NewGraph("pin")
	id := g.AddNode(0, 0)
	n, _ := g.Node(id)
	n.VX, n.VY = 3, 4

	require.True(t, g.Pin(id))
	assert.True(t, n.Pinned)
	assert.Zero(t, n.VX)
	assert.Zero(t, n.VY)

	require.True(t, g.Unpin(id))
	assert.False(t, n.Pinned)
	assert.False(t, g.Pin(99))
}

func TestNodesReturnsCopy(t *testing.T) {
	g := models.NewSeedGraph()
	nodes := g.Nodes()
	nodes[0] = nil

	first, ok := g.Node(0)
	require.True(t, ok)
	assert.NotNil(t, first)
	assert.Len(t, g.FilterNodes(func(n *models.Node) bool { return n.ID%2 == 0 }), 4)
}
