package ebcm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/parkerwray/smuthi-1/geom"
	"github.com/parkerwray/smuthi-1/linsolve"
	"github.com/parkerwray/smuthi-1/quadrature"
	"github.com/parkerwray/smuthi-1/spw"
	"github.com/parkerwray/smuthi-1/tmatrix"
)

// Params describes one homogeneous axisymmetric scatterer in a lossless
// ambient medium.
type Params struct {
	// Wavelength is the vacuum wavelength, in the same length unit as the
	// surface parameters.
	Wavelength float64
	// IndexMedium is the (real) refractive index of the ambient medium.
	IndexMedium float64
	// IndexRel is the refractive index of the particle relative to the
	// medium. A nonzero imaginary part models absorption.
	IndexRel complex128
	// Surface is the particle boundary.
	Surface geom.Surface
}

func (p Params) validate() error {
	if p.Wavelength <= 0 || math.IsNaN(p.Wavelength) {
		return fmt.Errorf("%w: wavelength %v", ErrInvalidParams, p.Wavelength)
	}
	if p.IndexMedium <= 0 || math.IsNaN(p.IndexMedium) {
		return fmt.Errorf("%w: medium index %v", ErrInvalidParams, p.IndexMedium)
	}
	if p.IndexRel == 0 {
		return fmt.Errorf("%w: zero relative index", ErrInvalidParams)
	}
	return nil
}

// Option adjusts the assembler.
type Option func(*assembler)

// WithWorkers bounds the number of azimuthal orders processed concurrently.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *assembler) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithConditionCeiling forwards a condition-number ceiling to the per-order
// solves. See linsolve.WithConditionCeiling.
func WithConditionCeiling(c float64) Option {
	return func(a *assembler) { a.ceiling = c }
}

type assembler struct {
	params  Params
	nint    int
	nrank   int
	mrank   int
	workers int
	ceiling float64

	k, ks complex128
	nodes []quadrature.Node
}

// HostTMatrix computes the T-matrix of the particle described by p,
// truncated at (nrank, mrank), with nint quadrature nodes over the
// generatrix.
//
// Errors: ErrInvalidParams on bad inputs; ErrNumericalInstability when a
// boundary matrix is too close to singular or a wave evaluation is not
// representable (retryable with a different truncation); ctx errors on
// cancellation.
func HostTMatrix(ctx context.Context, p Params, nint, nrank, mrank int, opts ...Option) (*tmatrix.TMatrix, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	basis, err := spw.NewBasis(nrank, mrank)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	a := &assembler{
		params:  p,
		nint:    nint,
		nrank:   nrank,
		mrank:   mrank,
		workers: runtime.GOMAXPROCS(0),
		ceiling: linsolve.DefaultConditionCeiling,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.k = complex(2*math.Pi*p.IndexMedium/p.Wavelength, 0)
	a.ks = a.k * p.IndexRel
	a.nodes, err = quadrature.Nodes(nint, p.Surface.Breakpoints())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	tOpts := []tmatrix.Option{tmatrix.WithAxisymmetric()}
	if p.Surface.Mirror() {
		tOpts = append(tOpts, tmatrix.WithMirrorSymmetry())
	}
	result := tmatrix.New(basis, tOpts...)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for m := 0; m <= mrank; m++ {
		m := m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			block, err := a.orderBlock(m)
			if err != nil {
				return fmt.Errorf("order m=%d: %w", m, err)
			}
			a.scatter(result, basis, m, block)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// orderBlock assembles and solves one azimuthal order. The returned slice
// is the dense 2Nm×2Nm block over degrees nlo..nrank, TE rows/cols first.
func (a *assembler) orderBlock(m int) ([]complex128, error) {
	nlo := max(1, m)
	nm := a.nrank - nlo + 1
	dim := 2 * nm

	q31 := make([]complex128, dim*dim)
	q11 := make([]complex128, dim*dim)

	for _, node := range a.nodes {
		r, dr, err := a.params.Surface.Radius(node.Theta)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		c, s := math.Cos(node.Theta), math.Sin(node.Theta)

		// Components of the unnormalized surface element n̂ dS, with the
		// quadrature weight folded in: dS⃗ = (r²·r̂ − r·r'·θ̂)·sinθ dθ.
		nrW := complex(node.Weight*r*r*s, 0)
		ntW := complex(-node.Weight*r*dr*s, 0)

		kr := a.k * complex(r, 0)
		ksr := a.ks * complex(r, 0)

		// Interior regular waves carry order +m, exterior test waves -m;
		// the azimuthal phases then cancel and the φ integral is 2π.
		intTE, intTM, err := spw.ModeFields(spw.Regular, a.nrank, m, ksr, c, s)
		if err != nil {
			return nil, wrapWave(err)
		}
		outTE, outTM, err := spw.ModeFields(spw.Radiating, a.nrank, -m, kr, c, s)
		if err != nil {
			return nil, wrapWave(err)
		}
		regTE, regTM, err := spw.ModeFields(spw.Regular, a.nrank, -m, kr, c, s)
		if err != nil {
			return nil, wrapWave(err)
		}

		a.accumulate(q31, nlo, nm, nrW, ntW, intTE, intTM, outTE, outTM)
		a.accumulate(q11, nlo, nm, nrW, ntW, intTE, intTM, regTE, regTM)
	}

	return a.solveBlock(q31, q11, nlo, nm)
}

// accumulate adds one quadrature node's contribution to a Q matrix. The
// element combinations follow the null-field equations: each exterior test
// function brings its curl partner, as does each interior expansion
// function, so every block mixes two surface integrals.
func (a *assembler) accumulate(q []complex128, nlo, nm int, nrW, ntW complex128, intTE, intTM, extTE, extTM []spw.WaveField) {
	dim := 2 * nm
	kks := a.k * a.ks
	k2 := a.k * a.k

	for i := 0; i < nm; i++ {
		bm, bn := extTE[nlo+i], extTM[nlo+i]
		for j := 0; j < nm; j++ {
			am, an := intTE[nlo+j], intTM[nlo+j]

			xmm := crossDot(am, bm, nrW, ntW)
			xmn := crossDot(am, bn, nrW, ntW)
			xnm := crossDot(an, bm, nrW, ntW)
			xnn := crossDot(an, bn, nrW, ntW)

			q[i*dim+j] += kks*xnm + k2*xmn
			q[i*dim+nm+j] += kks*xmm + k2*xnn
			q[(nm+i)*dim+j] += kks*xnn + k2*xmm
			q[(nm+i)*dim+nm+j] += kks*xmn + k2*xnm
		}
	}
}

// crossDot is n̂·[a × b] against the weighted surface element (nrW, ntW),
// with no azimuthal normal component on a surface of revolution.
func crossDot(a, b spw.WaveField, nrW, ntW complex128) complex128 {
	return nrW*(a.Etheta*b.Ephi-a.Ephi*b.Etheta) + ntW*(a.Ephi*b.Er-a.Er*b.Ephi)
}

// solveBlock computes T = -Q11·(Q31)⁻¹ for one order, splitting into the
// two parity subspaces when the surface is mirror-symmetric.
func (a *assembler) solveBlock(q31, q11 []complex128, nlo, nm int) ([]complex128, error) {
	dim := 2 * nm
	t := make([]complex128, dim*dim)

	if !a.params.Surface.Mirror() {
		return t, a.solveInto(t, q31, q11, identityPick(dim), dim)
	}

	// Index i < nm is the TE wave of degree nlo+i, i >= nm the TM wave of
	// degree nlo+i-nm. TE functions of degree n have parity n mod 2, TM
	// functions the opposite, and the boundary integrals never couple the
	// two classes on a mirror-symmetric generatrix.
	var even, odd []int
	for i := 0; i < dim; i++ {
		n := nlo + i%nm
		parity := n % 2
		if i >= nm {
			parity = 1 - parity
		}
		if parity == 0 {
			even = append(even, i)
		} else {
			odd = append(odd, i)
		}
	}

	for _, pick := range [][]int{even, odd} {
		if len(pick) == 0 {
			continue
		}
		if err := a.solveInto(t, q31, q11, pick, dim); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func identityPick(n int) []int {
	pick := make([]int, n)
	for i := range pick {
		pick[i] = i
	}
	return pick
}

// solveInto solves the sub-system restricted to the picked indices and
// scatters the result into t (dim×dim, row-major).
func (a *assembler) solveInto(t, q31, q11 []complex128, pick []int, dim int) error {
	n := len(pick)
	subQ := make([]complex128, n*n)
	subRg := make([]complex128, n*n)
	for i, pi := range pick {
		for j, pj := range pick {
			// Transposed: the factorization solves Q31ᵀ·Tᵀ = -Q11ᵀ.
			subQ[i*n+j] = q31[pj*dim+pi]
			subRg[i*n+j] = -q11[pj*dim+pi]
		}
	}

	solver, err := linsolve.New(subQ, n, linsolve.WithConditionCeiling(a.ceiling))
	if err != nil {
		if errors.Is(err, linsolve.ErrIllConditioned) || errors.Is(err, linsolve.ErrSingular) {
			return fmt.Errorf("%w: %v", ErrNumericalInstability, err)
		}
		return err
	}
	tt, err := solver.SolveMatrix(subRg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNumericalInstability, err)
	}

	for i, pi := range pick {
		for j, pj := range pick {
			t[pj*dim+pi] = tt[i*n+j]
		}
	}
	return nil
}

// scatter writes the solved block for order m (and, for m > 0, the mirror
// block for -m) into the result matrix. On a body of revolution the -m
// block repeats the +m block with the cross-polarized entries negated.
func (a *assembler) scatter(result *tmatrix.TMatrix, basis spw.Basis, m int, block []complex128) {
	nlo := max(1, m)
	nm := a.nrank - nlo + 1
	dim := 2 * nm

	pol := func(i int) spw.Polarization {
		if i < nm {
			return spw.TE
		}
		return spw.TM
	}
	deg := func(i int) int { return nlo + i%nm }

	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			v := block[i*dim+j]
			if v == 0 {
				continue
			}
			row := basis.Position(spw.Index{Pol: pol(i), N: deg(i), M: m})
			col := basis.Position(spw.Index{Pol: pol(j), N: deg(j), M: m})
			result.Row(row)[col] = v

			if m > 0 {
				if pol(i) != pol(j) {
					v = -v
				}
				row = basis.Position(spw.Index{Pol: pol(i), N: deg(i), M: -m})
				col = basis.Position(spw.Index{Pol: pol(j), N: deg(j), M: -m})
				result.Row(row)[col] = v
			}
		}
	}
}

func wrapWave(err error) error {
	if errors.Is(err, spw.ErrUnstableEvaluation) {
		return fmt.Errorf("%w: %v", ErrNumericalInstability, err)
	}
	return err
}
