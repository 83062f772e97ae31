package spectral

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/TFMV/spectragraph/models"
)

// ErrNoSpectralData is returned when the eigendecomposition fails.
var ErrNoSpectralData = errors.New("spectral: no spectral data available")

// Cursor holds the eigenvectors of one Laplacian and the current position.
// Entry i of every vector belongs to node IDs[i].
type Cursor struct {
	Vectors  [][]float64
	Values   []float64
	IDs      []models.NodeID
	Revision uint64
	Index    int
}

// Len returns the number of eigenvectors.
func (c *Cursor) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Vectors)
}

// Eigenvalue returns the eigenvalue of the current vector.
func (c *Cursor) Eigenvalue() float64 {
	if c.Len() == 0 {
		return math.NaN()
	}
	return c.Values[c.Index]
}

// ComponentCount returns how many eigenvalues are within tol of zero, which
// is the number of connected components of the graph.
func (c *Cursor) ComponentCount(tol float64) int {
	if c == nil {
		return 0
	}
	count := 0
	for _, v := range c.Values {
		if math.Abs(v) <= tol {
			count++
		}
	}
	return count
}

// Analyzer owns the eigen cursor for a graph.
type Analyzer struct {
	cursor *Cursor
}

// NewAnalyzer returns an analyzer with no spectral data.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Cursor returns the current cursor, nil before the first Recompute.
func (a *Analyzer) Cursor() *Cursor {
	return a.cursor
}

// Reset discards the cursor.
func (a *Analyzer) Reset() {
	a.cursor = nil
}

// Recompute factorizes the Laplacian of g, replaces the cursor and applies
// the first eigenvector. Eigenpairs are kept in ascending eigenvalue order.
// On failure the previous cursor and node values are left untouched.
func (a *Analyzer) Recompute(g *models.Graph) error {
	lap, ids := Laplacian(g)
	if lap == nil {
		a.cursor = &Cursor{Revision: g.Revision()}
		return nil
	}

	values, ev, ok := factorize(lap)
	if !ok {
		return fmt.Errorf("factorize %dx%d laplacian: %w", len(ids), len(ids), ErrNoSpectralData)
	}

	vectors := make([][]float64, len(values))
	for k := range vectors {
		vectors[k] = mat.Col(nil, k, ev)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite eigenvalue: %w", ErrNoSpectralData)
		}
	}

	a.cursor = &Cursor{
		Vectors:  vectors,
		Values:   values,
		IDs:      ids,
		Revision: g.Revision(),
	}
	a.Apply(g, 0)
	return nil
}

// factorize returns the ascending eigenvalues of lap and the matching
// eigenvectors as columns.
var factorize = func(lap *mat.SymDense) ([]float64, *mat.Dense, bool) {
	var es mat.EigenSym
	if !es.Factorize(lap, true) {
		return nil, nil, false
	}
	var ev mat.Dense
	es.VectorsTo(&ev)
	return es.Values(nil), &ev, true
}

// Stale reports whether g was structurally edited since the last Recompute.
func (a *Analyzer) Stale(g *models.Graph) bool {
	return a.cursor == nil || a.cursor.Revision != g.Revision()
}

// Next moves to the following eigenvector, wrapping around, and applies it.
func (a *Analyzer) Next(g *models.Graph) bool {
	return a.step(g, 1)
}

// Previous moves to the preceding eigenvector, wrapping around, and applies it.
func (a *Analyzer) Previous(g *models.Graph) bool {
	return a.step(g, -1)
}

func (a *Analyzer) step(g *models.Graph, delta int) bool {
	n := a.cursor.Len()
	if n == 0 || a.Stale(g) {
		return false
	}
	a.cursor.Index = (a.cursor.Index + delta + n) % n
	return a.Apply(g, a.cursor.Index)
}

// Apply writes vector index into the value of every node it covers.
// Nodes are matched by id; nodes unknown to the cursor are left alone.
func (a *Analyzer) Apply(g *models.Graph, index int) bool {
	if index < 0 || index >= a.cursor.Len() {
		return false
	}
	vec := a.cursor.Vectors[index]
	for i, id := range a.cursor.IDs {
		if n, ok := g.Node(id); ok {
			n.Value = vec[i]
		}
	}
	return true
}

// ZeroTolerance is the magnitude below which an eigenvalue counts as zero.
const ZeroTolerance = 1e-9

// Spectrum is a serialisable summary of the analyzer state.
type Spectrum struct {
	Values     []float64       `json:"values"`
	Vectors    [][]float64     `json:"vectors,omitempty"`
	IDs        []models.NodeID `json:"ids"`
	Index      int             `json:"index"`
	Components int             `json:"components"`
	Stale      bool            `json:"stale"`
}

// Spectrum summarises the cursor against g. The result shares no memory
// with the analyzer.
func (a *Analyzer) Spectrum(g *models.Graph) Spectrum {
	s := Spectrum{Stale: a.Stale(g)}
	c := a.cursor
	if c == nil {
		return s
	}
	s.Values = append([]float64(nil), c.Values...)
	s.IDs = append([]models.NodeID(nil), c.IDs...)
	s.Vectors = make([][]float64, len(c.Vectors))
	for i, v := range c.Vectors {
		s.Vectors[i] = append([]float64(nil), v...)
	}
	s.Index = c.Index
	s.Components = c.ComponentCount(ZeroTolerance)
	return s
}
