package quadrature

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
)

// MinNodesPerArc is the smallest Gauss rule admitted on a smooth arc; fewer
// points cannot resolve the integrand's angular structure at all.
const MinNodesPerArc = 3

// ErrTooFewNodes indicates that Nint is below the geometry-dependent
// minimum MinNodesPerArc × number of arcs.
var ErrTooFewNodes = errors.New("quadrature: too few integration nodes for the arc count")

// Node is one integration point in the polar parameter with its weight.
// Weights carry the dθ measure only; surface Jacobians are the caller's.
type Node struct {
	Theta  float64
	Weight float64
}

// Nodes builds a composite Gauss–Legendre rule with a total of nint points
// over the domain delimited by breakpoints (ascending, including both
// endpoints). Each sub-arc receives a share of nint proportional to its
// extent, never below MinNodesPerArc; leftovers from rounding go to the
// longest arcs first so the split is deterministic.
//
// Errors:
//   - ErrTooFewNodes when nint < MinNodesPerArc × (len(breakpoints)-1).
func Nodes(nint int, breakpoints []float64) ([]Node, error) {
	if len(breakpoints) < 2 {
		return nil, fmt.Errorf("need at least one arc: %w", ErrTooFewNodes)
	}
	arcs := len(breakpoints) - 1
	if nint < MinNodesPerArc*arcs {
		return nil, fmt.Errorf("nint=%d below minimum %d for %d arcs: %w",
			nint, MinNodesPerArc*arcs, arcs, ErrTooFewNodes)
	}

	total := breakpoints[arcs] - breakpoints[0]
	counts := make([]int, arcs)
	assigned := 0
	for i := 0; i < arcs; i++ {
		span := breakpoints[i+1] - breakpoints[i]
		counts[i] = int(float64(nint) * span / total)
		if counts[i] < MinNodesPerArc {
			counts[i] = MinNodesPerArc
		}
		assigned += counts[i]
	}

	// Distribute the remaining budget to the longest arcs, deterministically.
	order := make([]int, arcs)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa := breakpoints[order[a]+1] - breakpoints[order[a]]
		sb := breakpoints[order[b]+1] - breakpoints[order[b]]

		return sa > sb
	})
	for k := 0; assigned < nint; k = (k + 1) % arcs {
		counts[order[k]]++
		assigned++
	}

	out := make([]Node, 0, nint)
	var rule quad.Legendre
	for i := 0; i < arcs; i++ {
		x := make([]float64, counts[i])
		w := make([]float64, counts[i])
		rule.FixedLocations(x, w, breakpoints[i], breakpoints[i+1])
		// FixedLocations emits the rule descending; the contract here is
		// ascending θ across the whole composite rule.
		for k := len(x) - 1; k >= 0; k-- {
			out = append(out, Node{Theta: x[k], Weight: w[k]})
		}
	}

	return out, nil
}
