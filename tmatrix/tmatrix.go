package tmatrix

import (
	"math"
	"math/cmplx"

	"github.com/parkerwray/smuthi-1/spw"
)

// TMatrix is a dense complex matrix over the canonical enumeration of a
// partial-wave basis, with symmetry metadata. The zero value is not usable;
// construct through New.
type TMatrix struct {
	basis  spw.Basis
	data   []complex128 // row-major, len = Size²
	mirror bool
	axisym bool
	chiral bool
}

// Option tags symmetry metadata onto a freshly constructed TMatrix.
type Option func(*TMatrix)

// WithMirrorSymmetry marks the scatterer as mirror-symmetric about the
// equatorial plane (cross-parity blocks structurally zero).
func WithMirrorSymmetry() Option { return func(t *TMatrix) { t.mirror = true } }

// WithAxisymmetric marks the scatterer as rotationally symmetric about z.
func WithAxisymmetric() Option { return func(t *TMatrix) { t.axisym = true } }

// WithChiral marks the scatterer as chiral (no improper-rotation symmetry).
func WithChiral() Option { return func(t *TMatrix) { t.chiral = true } }

// New allocates a zero TMatrix over basis b.
func New(b spw.Basis, opts ...Option) *TMatrix {
	t := &TMatrix{
		basis: b,
		data:  make([]complex128, b.Size()*b.Size()),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Basis returns the truncation this matrix is indexed by.
func (t *TMatrix) Basis() spw.Basis { return t.basis }

// Size returns the matrix dimension.
func (t *TMatrix) Size() int { return t.basis.Size() }

// Mirror reports the mirror-symmetry tag.
func (t *TMatrix) Mirror() bool { return t.mirror }

// Axisymmetric reports the axisymmetry tag.
func (t *TMatrix) Axisymmetric() bool { return t.axisym }

// Chiral reports the chirality tag.
func (t *TMatrix) Chiral() bool { return t.chiral }

// At returns entry (i, j).
//
// Errors: ErrOutOfRange.
func (t *TMatrix) At(i, j int) (complex128, error) {
	if t == nil {
		return 0, ErrNilMatrix
	}
	n := t.Size()
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, ErrOutOfRange
	}

	return t.data[i*n+j], nil
}

// Set writes entry (i, j).
//
// Errors: ErrOutOfRange.
func (t *TMatrix) Set(i, j int, v complex128) error {
	if t == nil {
		return ErrNilMatrix
	}
	n := t.Size()
	if i < 0 || i >= n || j < 0 || j >= n {
		return ErrOutOfRange
	}
	t.data[i*n+j] = v

	return nil
}

// Row returns the backing slice of row i, unchecked. Hot paths (assembly,
// combination, observables) read and write through rows; the caller owns
// bounds discipline.
func (t *TMatrix) Row(i int) []complex128 {
	n := t.Size()

	return t.data[i*n : (i+1)*n]
}

// Clone returns a deep copy, metadata included.
func (t *TMatrix) Clone() *TMatrix {
	c := &TMatrix{
		basis:  t.basis,
		data:   append([]complex128(nil), t.data...),
		mirror: t.mirror,
		axisym: t.axisym,
		chiral: t.chiral,
	}

	return c
}

// Trace returns the matrix trace. The extinction-like convergence detector
// is built on -Re Trace.
func (t *TMatrix) Trace() complex128 {
	n := t.Size()
	var tr complex128
	for i := 0; i < n; i++ {
		tr += t.data[i*n+i]
	}

	return tr
}

// FrobeniusNorm returns sqrt(Σ|t_ij|²).
func (t *TMatrix) FrobeniusNorm() float64 {
	sum := 0.0
	for _, v := range t.data {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}

	return math.Sqrt(sum)
}

// MaxAbs returns max|t_ij|, a cheap scale estimate.
func (t *TMatrix) MaxAbs() float64 {
	m := 0.0
	for _, v := range t.data {
		if a := cmplx.Abs(v); a > m {
			m = a
		}
	}

	return m
}

// CrossParityMax returns the largest magnitude found in entries forbidden
// by the equatorial mirror selection rule: same-polarization entries need
// n + n' even, cross-polarization entries need n + n' odd. For a
// mirror-symmetric scatterer these entries are structurally zero, so the
// return value measures numerical leakage (or a computation defect).
func (t *TMatrix) CrossParityMax() float64 {
	indices := t.basis.Indices()
	m := 0.0
	for i, ri := range indices {
		row := t.Row(i)
		pi := mirrorClass(ri)
		for j, rj := range indices {
			if mirrorClass(rj) == pi {
				continue
			}
			if a := cmplx.Abs(row[j]); a > m {
				m = a
			}
		}
	}

	return m
}

// mirrorClass assigns each partial wave its parity class under reflection
// about the equatorial plane. TE waves of degree n belong to class n mod 2,
// TM waves to the opposite class; the mirror selection rule forbids any
// coupling across classes.
func mirrorClass(idx spw.Index) int {
	c := idx.N & 1
	if idx.Pol == spw.TM {
		c = 1 - c
	}

	return c
}

// Embed re-indexes t into the target basis: entries whose row and column
// indices exist in both bases are copied, everything else is zero. That is
// the truncation policy for mismatched expansions: truncate to the common
// (min) azimuthal range, zero-pad the remainder, no energy rebalancing.
// Symmetry metadata carries over from t; opts may extend it.
func (t *TMatrix) Embed(target spw.Basis, opts ...Option) *TMatrix {
	out := New(target)
	out.mirror = t.mirror
	out.axisym = t.axisym
	out.chiral = t.chiral
	for _, opt := range opts {
		opt(out)
	}

	srcIdx := t.basis.Indices()
	for i, ri := range srcIdx {
		if !target.Contains(ri) {
			continue
		}
		di := target.Position(ri)
		srow := t.Row(i)
		drow := out.Row(di)
		for j, rj := range srcIdx {
			if !target.Contains(rj) {
				continue
			}
			drow[target.Position(rj)] = srow[j]
		}
	}

	return out
}
