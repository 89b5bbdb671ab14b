// Package lp holds the normalized linear-program representation the
// pdlp core solves: primal/dual sizes, objective and bound vectors, the
// constraint matrix and its transpose, constraint-sense index ranges,
// and the scalar quantities preprocessing precomputes once so the core
// never has to.
package lp

import (
	"math"

	"github.com/pkg/errors"
	"github.com/gonum-community/pdlp/sparse"
)

// epsilon is the small numerical floor below which an objective/RHS norm
// is treated as zero when deciding the initial primal weight.
const epsilon = 1e-20

// Instance is a normalized LP in standard-sense form:
//
//	min/max  cᵀx  s.t.  A x {≤,=,≥} b,  ℓ ≤ x ≤ u
//
// with rows partitioned into a "less-or-equal" block, an "equality"
// block, and a "greater-or-equal" block, each a contiguous index range.
// Less-type rows are expected to already have been reflected by the
// caller so every violation test compares against zero from the same
// side; Instance does not re-derive this, it only records the ranges.
type Instance struct {
	N int // primal variable count
	M int // primal constraint count (dual variable count)

	C     *sparse.Vector // primal objective coefficients, size N
	Lower *sparse.Vector // primal lower bounds, size N
	Upper *sparse.Vector // primal upper bounds, size N

	A  *sparse.Matrix // primal constraint matrix, M x N
	AT *sparse.Matrix // dual constraint matrix, N x M (A transposed)

	B         *sparse.Vector // dual objective coefficients, size M
	DualLower *sparse.Vector // dual lower bounds, size M
	DualUpper *sparse.Vector // dual upper bounds, size M

	// LessRange, EqualRange, GreaterRange are contiguous [begin, end)
	// row ranges into A/B/dual bounds for each constraint sense.
	LessRange    [2]int
	EqualRange   [2]int
	GreaterRange [2]int

	Minimize        bool
	ObjectiveOffset float64

	// UpperUnbounded/LowerUnbounded flag, per primal variable, whether
	// that bound is +/-inf; the reduced-cost box-polar projection (§4.10)
	// uses these rather than comparing against math.Inf directly.
	UpperUnbounded []bool
	LowerUnbounded []bool

	PrimalInitial *sparse.Vector // size N
	DualInitial   *sparse.Vector // size M

	// CNorm, BNorm are ‖c‖ and ‖b‖, precomputed once by preprocessing.
	CNorm, BNorm float64
	// ObjectiveLowerBound, ObjectiveUpperBound are trivial bound-based
	// bounds on the primal objective, used by the infeasibility
	// heuristic (§4.11(e)).
	ObjectiveLowerBound, ObjectiveUpperBound float64
}

// NewInstance builds an Instance from its raw fields, validating shapes
// and the bound invariant ℓ ≤ u, and precomputing CNorm/BNorm/objective
// bounds. Validation failures are caller-correctable and are returned as
// errors, not panics, unlike the sparse substrate's internal shape
// contract.
func NewInstance(
	c, lower, upper *sparse.Vector,
	a *sparse.Matrix,
	b, dualLower, dualUpper *sparse.Vector,
	lessRange, equalRange, greaterRange [2]int,
	minimize bool,
	objectiveOffset float64,
	upperUnbounded, lowerUnbounded []bool,
	primalInitial, dualInitial *sparse.Vector,
) (*Instance, error) {
	n := c.Len()
	m := b.Len()

	if lower.Len() != n || upper.Len() != n {
		return nil, errors.Errorf("lp: bound vectors must have length %d, got lower=%d upper=%d", n, lower.Len(), upper.Len())
	}
	rows, cols := a.Dims()
	if rows != m || cols != n {
		return nil, errors.Errorf("lp: constraint matrix must be %dx%d, got %dx%d", m, n, rows, cols)
	}
	if dualLower.Len() != m || dualUpper.Len() != m {
		return nil, errors.Errorf("lp: dual bound vectors must have length %d, got lower=%d upper=%d", m, dualLower.Len(), dualUpper.Len())
	}
	if len(upperUnbounded) != n || len(lowerUnbounded) != n {
		return nil, errors.Errorf("lp: unbounded-flag slices must have length %d, got upper=%d lower=%d", n, len(upperUnbounded), len(lowerUnbounded))
	}
	if primalInitial.Len() != n {
		return nil, errors.Errorf("lp: primal initial solution must have length %d, got %d", n, primalInitial.Len())
	}
	if dualInitial.Len() != m {
		return nil, errors.Errorf("lp: dual initial solution must have length %d, got %d", m, dualInitial.Len())
	}
	for i := 0; i < n; i++ {
		if lower.At(i) > upper.At(i) {
			return nil, errors.Errorf("lp: bound violation at index %d: lower %g > upper %g", i, lower.At(i), upper.At(i))
		}
	}
	if err := validateRange(lessRange, m); err != nil {
		return nil, errors.Wrap(err, "lp: less-range")
	}
	if err := validateRange(equalRange, m); err != nil {
		return nil, errors.Wrap(err, "lp: equal-range")
	}
	if err := validateRange(greaterRange, m); err != nil {
		return nil, errors.Wrap(err, "lp: greater-range")
	}

	inst := &Instance{
		N: n, M: m,
		C: c, Lower: lower, Upper: upper,
		A: a, AT: a.Transpose(),
		B: b, DualLower: dualLower, DualUpper: dualUpper,
		LessRange: lessRange, EqualRange: equalRange, GreaterRange: greaterRange,
		Minimize:        minimize,
		ObjectiveOffset: objectiveOffset,
		UpperUnbounded:  upperUnbounded,
		LowerUnbounded:  lowerUnbounded,
		PrimalInitial:   primalInitial,
		DualInitial:     dualInitial,
	}
	inst.precompute()
	return inst, nil
}

func validateRange(r [2]int, m int) error {
	if r[0] < 0 || r[1] < r[0] || r[1] > m {
		return errors.Errorf("invalid range [%d, %d) for size %d", r[0], r[1], m)
	}
	return nil
}

// precompute fills CNorm, BNorm, and the trivial bound-based objective
// bounds, mirroring the "caller pre-computes" contract of §4.2.
func (inst *Instance) precompute() {
	inst.CNorm = inst.C.Norm()
	inst.BNorm = inst.B.Norm()

	lowerBound, upperBound := 0.0, 0.0
	for i := 0; i < inst.N; i++ {
		ci := inst.C.At(i)
		switch {
		case ci > 0:
			if inst.LowerUnbounded[i] {
				lowerBound = math.Inf(-1)
			} else {
				lowerBound += ci * inst.Lower.At(i)
			}
			if inst.UpperUnbounded[i] {
				upperBound = math.Inf(1)
			} else {
				upperBound += ci * inst.Upper.At(i)
			}
		case ci < 0:
			if inst.UpperUnbounded[i] {
				lowerBound = math.Inf(-1)
			} else {
				lowerBound += ci * inst.Upper.At(i)
			}
			if inst.LowerUnbounded[i] {
				upperBound = math.Inf(1)
			} else {
				upperBound += ci * inst.Lower.At(i)
			}
		}
	}
	inst.ObjectiveLowerBound = lowerBound + inst.ObjectiveOffset
	inst.ObjectiveUpperBound = upperBound + inst.ObjectiveOffset
}

// InitialPrimalWeight returns ‖c‖/‖b‖ when both exceed epsilon, else 1,
// per §4.3.
func (inst *Instance) InitialPrimalWeight() float64 {
	if inst.CNorm > epsilon && inst.BNorm > epsilon {
		return inst.CNorm / inst.BNorm
	}
	return 1
}
