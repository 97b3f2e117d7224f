package geom

import (
	"fmt"
	"math"
)

// Kind enumerates the supported generatrix shapes.
type Kind int

const (
	// Sphere of radius params[0].
	Sphere Kind = iota
	// Spheroid with semi-axis params[0] along z and params[1] transverse.
	Spheroid
	// RoundedCylinder with radius params[0], half-length params[1] and
	// edge radius params[2].
	RoundedCylinder
)

// String implements fmt.Stringer for configuration echo and errors.
func (k Kind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Spheroid:
		return "spheroid"
	case RoundedCylinder:
		return "rounded-cylinder"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// paramCount returns the Nsurf demanded by the kind, or -1 if unknown.
func (k Kind) paramCount() int {
	switch k {
	case Sphere:
		return 1
	case Spheroid:
		return 2
	case RoundedCylinder:
		return 3
	default:
		return -1
	}
}

// Surface is an immutable axisymmetric host geometry. Construct through
// NewSurface so the invariants hold for the lifetime of the value.
type Surface struct {
	kind   Kind
	params []float64
	anorm  float64 // normalization length for cross sections
	rcirc  float64 // circumscribing sphere radius
	mirror bool
}

// NewSurface validates and builds a Surface.
//
// Invariants enforced:
//   - params has exactly the count demanded by kind, all entries positive;
//   - anorm, rcirc positive and rcirc >= max radius of the shape;
//   - RoundedCylinder: edge radius strictly smaller than both the cylinder
//     radius and the half-length, and mirror must be set (the shape is
//     defined symmetric about the equatorial plane).
//
// Errors: ErrInvalidGeometry, wrapped with the failing detail.
func NewSurface(kind Kind, params []float64, anorm, rcirc float64, mirror bool) (Surface, error) {
	want := kind.paramCount()
	if want < 0 {
		return Surface{}, fmt.Errorf("unknown kind %d: %w", int(kind), ErrInvalidGeometry)
	}
	if len(params) != want {
		return Surface{}, fmt.Errorf("%s needs %d surface parameters, got %d: %w",
			kind, want, len(params), ErrInvalidGeometry)
	}
	for i, p := range params {
		if !(p > 0) || math.IsInf(p, 0) {
			return Surface{}, fmt.Errorf("surf[%d] = %v must be positive finite: %w", i, p, ErrInvalidGeometry)
		}
	}
	if !(anorm > 0) || !(rcirc > 0) {
		return Surface{}, fmt.Errorf("anorm/rcirc must be positive: %w", ErrInvalidGeometry)
	}
	if kind == RoundedCylinder {
		a, h, e := params[0], params[1], params[2]
		if e >= a || e >= h {
			return Surface{}, fmt.Errorf("edge radius %v must be smaller than radius %v and half-length %v: %w",
				e, a, h, ErrInvalidGeometry)
		}
		if !mirror {
			return Surface{}, fmt.Errorf("rounded cylinder requires mirror symmetry: %w", ErrInvalidGeometry)
		}
	}

	s := Surface{
		kind:   kind,
		params: append([]float64(nil), params...),
		anorm:  anorm,
		rcirc:  rcirc,
		mirror: mirror,
	}
	if mr := s.MaxRadius(); rcirc < mr-1e-12 {
		return Surface{}, fmt.Errorf("rcirc %v smaller than max radius %v: %w", rcirc, mr, ErrInvalidGeometry)
	}

	return s, nil
}

// Kind returns the shape kind.
func (s Surface) Kind() Kind { return s.kind }

// Mirror reports equatorial mirror symmetry.
func (s Surface) Mirror() bool { return s.mirror }

// Anorm returns the cross-section normalization length.
func (s Surface) Anorm() float64 { return s.anorm }

// Rcirc returns the circumscribing sphere radius.
func (s Surface) Rcirc() float64 { return s.rcirc }

// Params returns a copy of the surface parameters.
func (s Surface) Params() []float64 { return append([]float64(nil), s.params...) }

// Nparam is the number of smooth arcs composing the generatrix on [0, π].
func (s Surface) Nparam() int {
	if s.kind == RoundedCylinder {
		return 6 // three arcs per hemisphere
	}

	return 1
}

// Radius evaluates r(θ) and dr/dθ at the polar angle theta.
//
// Errors: ErrAngleOutOfRange for theta outside [0, π].
func (s Surface) Radius(theta float64) (r, dr float64, err error) {
	if theta < 0 || theta > math.Pi || math.IsNaN(theta) {
		return 0, 0, ErrAngleOutOfRange
	}

	switch s.kind {
	case Sphere:
		return s.params[0], 0, nil

	case Spheroid:
		a, b := s.params[0], s.params[1]
		c, sn := math.Cos(theta), math.Sin(theta)
		den := math.Sqrt(a*a*sn*sn + b*b*c*c)
		r = a * b / den
		// dr/dθ = -ab·(a²-b²)·sinθ·cosθ / den³
		dr = -a * b * (a*a - b*b) * sn * c / (den * den * den)

		return r, dr, nil

	case RoundedCylinder:
		return s.roundedCylinderRadius(theta)

	default:
		return 0, 0, ErrInvalidGeometry
	}
}

// Normal returns the outward unit normal at theta in the spherical basis
// (n_r, n_θ). For a generatrix r(θ) the unnormalized normal is (r, -r').
func (s Surface) Normal(theta float64) (nr, ntheta float64, err error) {
	r, dr, err := s.Radius(theta)
	if err != nil {
		return 0, 0, err
	}
	norm := math.Hypot(r, dr)

	return r / norm, -dr / norm, nil
}

// Breakpoints returns, ascending, the polar angles delimiting the smooth
// arcs of the generatrix, including the 0 and π endpoints. Quadrature rules
// must not straddle these angles.
func (s Surface) Breakpoints() []float64 {
	if s.kind != RoundedCylinder {
		return []float64{0, math.Pi}
	}

	a, h, e := s.params[0], s.params[1], s.params[2]
	t1 := math.Atan2(a-e, h)   // flat top -> rounded edge
	t2 := math.Atan2(a, h-e)   // rounded edge -> side wall
	half := math.Pi / 2

	return []float64{0, t1, t2, half, math.Pi - t2, math.Pi - t1, math.Pi}
}

// MaxRadius returns max over θ of r(θ).
func (s Surface) MaxRadius() float64 {
	switch s.kind {
	case Sphere:
		return s.params[0]
	case Spheroid:
		return math.Max(s.params[0], s.params[1])
	case RoundedCylinder:
		a, h := s.params[0], s.params[1]

		return math.Hypot(a, h) // bounded by the corner distance
	default:
		return 0
	}
}

// MinRadius returns min over θ of r(θ); used by placement checks.
func (s Surface) MinRadius() float64 {
	switch s.kind {
	case Sphere:
		return s.params[0]
	case Spheroid:
		return math.Min(s.params[0], s.params[1])
	case RoundedCylinder:
		return math.Min(s.params[0], s.params[1])
	default:
		return 0
	}
}

// roundedCylinderRadius solves r(θ) piecewise: flat end caps, circular edge
// arcs and a straight side wall, mirrored about the equator.
func (s Surface) roundedCylinderRadius(theta float64) (r, dr float64, err error) {
	a, h, e := s.params[0], s.params[1], s.params[2]

	// Fold into the upper hemisphere; dr flips sign under the fold.
	sign := 1.0
	if theta > math.Pi/2 {
		theta = math.Pi - theta
		sign = -1
	}

	t1 := math.Atan2(a-e, h)
	t2 := math.Atan2(a, h-e)

	switch {
	case theta <= t1:
		// Flat cap z = h: r = h/cosθ.
		c := math.Cos(theta)
		r = h / c
		dr = h * math.Sin(theta) / (c * c)

	case theta <= t2:
		// Edge arc: circle of radius e centered at (ρ, z) = (a-e, h-e).
		cx, cz := a-e, h-e
		d := math.Hypot(cx, cz)
		alpha := math.Atan2(cx, cz) // center direction measured from z axis
		u := theta - alpha
		root := math.Sqrt(e*e - d*d*math.Sin(u)*math.Sin(u))
		r = d*math.Cos(u) + root
		dr = -d*math.Sin(u) - d*d*math.Sin(u)*math.Cos(u)/root

	default:
		// Side wall ρ = a: r = a/sinθ.
		sn := math.Sin(theta)
		r = a / sn
		dr = -a * math.Cos(theta) / (sn * sn)
	}

	return r, sign * dr, nil
}
