package spectral

import "gonum.org/v1/gonum/mat"

// SetFactorize swaps the eigendecomposition for the duration of a test.
func SetFactorize(f func(*mat.SymDense) ([]float64, *mat.Dense, bool)) (restore func()) {
	prev := factorize
	factorize = f
	return func() { factorize = prev }
}
