// Package spectral builds the combinatorial Laplacian of a models.Graph and
// exposes a cursor over its eigenvectors for colouring nodes.
//
// The eigendecomposition is dense and O(n³); it runs synchronously and is the
// scalability ceiling of the editor.
package spectral

import (
	"gonum.org/v1/gonum/mat"

	"github.com/TFMV/spectragraph/models"
)

// Laplacian returns D = Degree - Adjacency for g, together with the node id
// that owns each row. Rows follow node id order. An empty graph yields a nil
// matrix.
func Laplacian(g *models.Graph) (*mat.SymDense, []models.NodeID) {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return nil, nil
	}

	ids := make([]models.NodeID, n)
	row := make(map[models.NodeID]int, n)
	for i, node := range nodes {
		ids[i] = node.ID
		row[node.ID] = i
	}

	d := mat.NewSymDense(n, nil)
	for _, e := range g.Edges() {
		s, t := row[e.Source], row[e.Target]
		d.SetSym(s, s, d.At(s, s)+1)
		d.SetSym(t, t, d.At(t, t)+1)
		d.SetSym(s, t, -1)
	}
	return d, ids
}
