package translate

import (
	"github.com/parkerwray/smuthi-1/tmatrix"
	"github.com/parkerwray/smuthi-1/wigner"
)

// Rotate conjugates t by the Wigner D rotation matrix for z-y-z Euler
// angles (alpha, beta, gamma): T' = D·T·D⁻¹, with D⁻¹ = D(-gamma, -beta,
// -alpha). The rotation is block diagonal in polarization and degree and
// mixes only azimuthal orders, so orders beyond the basis truncation are
// silently dropped.
func Rotate(t *tmatrix.TMatrix, alpha, beta, gamma float64) (*tmatrix.TMatrix, error) {
	if t == nil {
		return nil, ErrNilMatrix
	}
	if alpha == 0 && beta == 0 && gamma == 0 {
		return t.Clone(), nil
	}

	left := rotateRows(t, alpha, beta, gamma)
	return rotateCols(left, -gamma, -beta, -alpha), nil
}

// rotateRows applies the rotation from the left: each output row is the
// D-weighted sum over rows sharing its polarization and degree.
func rotateRows(t *tmatrix.TMatrix, alpha, beta, gamma float64) *tmatrix.TMatrix {
	b := t.Basis()
	out := tmatrix.New(b)
	size := t.Size()

	for _, ri := range b.Indices() {
		orow := out.Row(b.Position(ri))
		src := ri
		for m := -ri.N; m <= ri.N; m++ {
			src.M = m
			if !b.Contains(src) {
				continue
			}
			w := wigner.D(ri.N, ri.M, m, alpha, beta, gamma)
			if w == 0 {
				continue
			}
			srow := t.Row(b.Position(src))
			for j := 0; j < size; j++ {
				orow[j] += w * srow[j]
			}
		}
	}
	return out
}

// rotateCols applies the rotation from the right.
func rotateCols(t *tmatrix.TMatrix, alpha, beta, gamma float64) *tmatrix.TMatrix {
	b := t.Basis()
	out := tmatrix.New(b)
	size := t.Size()

	for _, ci := range b.Indices() {
		col := b.Position(ci)
		src := ci
		for m := -ci.N; m <= ci.N; m++ {
			src.M = m
			if !b.Contains(src) {
				continue
			}
			w := wigner.D(ci.N, m, ci.M, alpha, beta, gamma)
			if w == 0 {
				continue
			}
			srcCol := b.Position(src)
			for i := 0; i < size; i++ {
				out.Row(i)[col] += t.Row(i)[srcCol] * w
			}
		}
	}
	return out
}
