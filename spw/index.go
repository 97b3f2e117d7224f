package spw

// Polarization selects the spherical polarization of a partial wave.
type Polarization int

const (
	// TE is the transverse-electric (magnetic-type, M) spherical wave.
	TE Polarization = iota
	// TM is the transverse-magnetic (electric-type, N) spherical wave.
	TM
)

// String implements fmt.Stringer for diagnostics.
func (p Polarization) String() string {
	if p == TE {
		return "TE"
	}

	return "TM"
}

// Index identifies a single partial wave (pol, n, m).
type Index struct {
	Pol Polarization // TE or TM
	N   int          // multipole degree, n >= 1
	M   int          // azimuthal order, |m| <= min(n, Mrank)
}

// Basis fixes the truncation (Nrank, Mrank) and defines the canonical
// ordering of partial-wave indices. The zero value is not valid; construct
// through NewBasis.
type Basis struct {
	nrank int
	mrank int
}

// NewBasis validates the truncation pair and returns the basis.
//
// Errors:
//   - ErrInvalidTruncation when nrank < 1, mrank < 0 or mrank > nrank.
func NewBasis(nrank, mrank int) (Basis, error) {
	if nrank < 1 || mrank < 0 || mrank > nrank {
		return Basis{}, ErrInvalidTruncation
	}

	return Basis{nrank: nrank, mrank: mrank}, nil
}

// MustBasis is NewBasis that panics on invalid input. Reserved for tests and
// literal constructions where the truncation is known-good.
func MustBasis(nrank, mrank int) Basis {
	b, err := NewBasis(nrank, mrank)
	if err != nil {
		panic(err)
	}

	return b
}

// Nrank returns the maximal multipole degree.
func (b Basis) Nrank() int { return b.nrank }

// Mrank returns the maximal azimuthal order.
func (b Basis) Mrank() int { return b.mrank }

// blockSize is the number of (n, m) pairs for one polarization:
//
//	sum_{n=1}^{Nrank} (2·min(n, Mrank) + 1)
//	  = Mrank(Mrank+2) + (Nrank-Mrank)(2·Mrank+1)
func (b Basis) blockSize() int {
	return b.mrank*(b.mrank+2) + (b.nrank-b.mrank)*(2*b.mrank+1)
}

// Size is the total number of partial waves (both polarizations); every
// T-matrix over this basis is Size×Size.
func (b Basis) Size() int { return 2 * b.blockSize() }

// Contains reports whether idx is a member of this basis.
func (b Basis) Contains(idx Index) bool {
	if idx.Pol != TE && idx.Pol != TM {
		return false
	}
	if idx.N < 1 || idx.N > b.nrank {
		return false
	}
	limit := min(idx.N, b.mrank)

	return idx.M >= -limit && idx.M <= limit
}

// Position maps idx to its unique offset in a coefficient vector ordered
// canonically: polarization outermost, then degree ascending, then order
// ascending. Callers must ensure Contains(idx); out-of-basis indices yield
// an undefined position.
func (b Basis) Position(idx Index) int {
	pos := int(idx.Pol) * b.blockSize()
	if idx.N-1 <= b.mrank {
		pos += (idx.N - 1) * (idx.N + 1)
	} else {
		pos += b.mrank*(b.mrank+2) + (idx.N-1-b.mrank)*(2*b.mrank+1)
	}

	return pos + idx.M + min(idx.N, b.mrank)
}

// Indices returns the full enumeration in canonical order. The slice is
// freshly allocated; callers may keep or mutate it.
func (b Basis) Indices() []Index {
	out := make([]Index, 0, b.Size())
	for _, pol := range []Polarization{TE, TM} {
		for n := 1; n <= b.nrank; n++ {
			limit := min(n, b.mrank)
			for m := -limit; m <= limit; m++ {
				out = append(out, Index{Pol: pol, N: n, M: m})
			}
		}
	}

	return out
}

// IndicesForOrder returns, in canonical order, the basis members with fixed
// azimuthal order m. Per-azimuthal-mode assembly iterates these blocks.
func (b Basis) IndicesForOrder(m int) []Index {
	if m < -b.mrank || m > b.mrank {
		return nil
	}
	out := make([]Index, 0, 2*b.nrank)
	for _, pol := range []Polarization{TE, TM} {
		for n := max(1, abs(m)); n <= b.nrank; n++ {
			out = append(out, Index{Pol: pol, N: n, M: m})
		}
	}

	return out
}

// abs returns the absolute value of an int.
func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
