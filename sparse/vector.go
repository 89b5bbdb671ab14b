package sparse

import (
	"gonum.org/v1/gonum/floats"
)

// Vector is a dense vector of float64 values. Its length changes only
// through Extend. Storage is a single contiguous, unit-stride
// []float64 slice, the same convention mat.VecDense uses internally
// (see gonum.org/v1/gonum/mat/vector.go): Dot, Norm, NormP, Distance,
// Scale, AddConst and HasNaN call straight into
// gonum.org/v1/gonum/floats; the other kernels are plain loops.
type Vector struct {
	values []float64
}

// NewVector returns a zero-valued vector of length n.
func NewVector(n int) *Vector {
	return &Vector{values: make([]float64, n)}
}

// NewVectorFromSlice wraps data directly; data is not copied.
func NewVectorFromSlice(data []float64) *Vector {
	return &Vector{values: data}
}

// Len returns the vector's length.
func (v *Vector) Len() int { return len(v.values) }

// RawVector exposes the backing slice. Callers must not change its
// length.
func (v *Vector) RawVector() []float64 { return v.values }

// At returns the i-th element.
func (v *Vector) At(i int) float64 { return v.values[i] }

// Set assigns the i-th element.
func (v *Vector) Set(i int, value float64) { v.values[i] = value }

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return &Vector{values: out}
}

// CopyFrom overwrites the receiver's elements with src's. Panics if the
// lengths differ.
func (v *Vector) CopyFrom(src *Vector) {
	if len(v.values) != len(src.values) {
		shapeErrorf(ErrLengthMismatch, "CopyFrom", len(v.values), len(src.values))
	}
	copy(v.values, src.values)
}

// Reset sets every element to zero.
func (v *Vector) Reset() {
	for i := range v.values {
		v.values[i] = 0
	}
}

// Extend appends other's elements to the receiver, growing its length.
func (v *Vector) Extend(other *Vector) {
	v.values = append(v.values, other.values...)
}

// Clamp clamps the receiver componentwise into [lower, upper], in
// place. lower and upper must have the receiver's length and satisfy
// lower[i] <= upper[i]; the latter is the caller's responsibility (the
// spec invariant ‖ℓ‖ ≤ ‖u‖ is not re-verified on every call).
func (v *Vector) Clamp(lower, upper *Vector) {
	if len(v.values) != len(lower.values) {
		shapeErrorf(ErrLengthMismatch, "Clamp(lower)", len(v.values), len(lower.values))
	}
	if len(v.values) != len(upper.values) {
		shapeErrorf(ErrLengthMismatch, "Clamp(upper)", len(v.values), len(upper.values))
	}
	for i, x := range v.values {
		lo, hi := lower.values[i], upper.values[i]
		switch {
		case x < lo:
			v.values[i] = lo
		case x > hi:
			v.values[i] = hi
		}
	}
}

// Learn performs the exponential-average update v <- (1-alpha)*v + alpha*w.
func (v *Vector) Learn(w *Vector, alpha float64) {
	if len(v.values) != len(w.values) {
		shapeErrorf(ErrLengthMismatch, "Learn", len(v.values), len(w.values))
	}
	forget := 1 - alpha
	for i, wi := range w.values {
		v.values[i] = forget*v.values[i] + alpha*wi
	}
}

// Dot returns the inner product of v and other.
func (v *Vector) Dot(other *Vector) float64 {
	if len(v.values) != len(other.values) {
		shapeErrorf(ErrLengthMismatch, "Dot", len(v.values), len(other.values))
	}
	return floats.Dot(v.values, other.values)
}

// Norm returns the Euclidean (L2) norm.
func (v *Vector) Norm() float64 {
	return floats.Norm(v.values, 2)
}

// NormP returns the Lp norm for p > 0.
func (v *Vector) NormP(p float64) float64 {
	return floats.Norm(v.values, p)
}

// Distance returns the Euclidean distance between v and other.
func (v *Vector) Distance(other *Vector) float64 {
	if len(v.values) != len(other.values) {
		shapeErrorf(ErrLengthMismatch, "Distance", len(v.values), len(other.values))
	}
	return floats.Distance(v.values, other.values, 2)
}

// Scale multiplies every element by c, in place.
func (v *Vector) Scale(c float64) {
	floats.Scale(c, v.values)
}

// AddConst adds c to every element, in place.
func (v *Vector) AddConst(c float64) {
	floats.AddConst(c, v.values)
}

// HasNaN reports whether any element is NaN.
func (v *Vector) HasNaN() bool {
	return floats.HasNaN(v.values)
}

// EqualApprox reports whether v and other are elementwise equal within
// absolute-or-relative tol, per gonum's floats.EqualWithinAbsOrRel. Used
// by tests, not by the solver's hot path.
func (v *Vector) EqualApprox(other *Vector, tol float64) bool {
	if len(v.values) != len(other.values) {
		return false
	}
	for i, x := range v.values {
		if !floats.EqualWithinAbsOrRel(x, other.values[i], tol, tol) {
			return false
		}
	}
	return true
}

// Sum computes dst = a + b, elementwise.
func Sum(dst, a, b *Vector) {
	n := len(a.values)
	if len(b.values) != n {
		shapeErrorf(ErrLengthMismatch, "Sum", n, len(b.values))
	}
	if len(dst.values) != n {
		shapeErrorf(ErrLengthMismatch, "Sum(dst)", n, len(dst.values))
	}
	for i := range dst.values {
		dst.values[i] = a.values[i] + b.values[i]
	}
}

// Subtract computes dst = a - b, elementwise.
func Subtract(dst, a, b *Vector) {
	n := len(a.values)
	if len(b.values) != n {
		shapeErrorf(ErrLengthMismatch, "Subtract", n, len(b.values))
	}
	if len(dst.values) != n {
		shapeErrorf(ErrLengthMismatch, "Subtract(dst)", n, len(dst.values))
	}
	for i := range dst.values {
		dst.values[i] = a.values[i] - b.values[i]
	}
}

// LinearCombination2 computes dst = c1*v1 + c2*v2.
func LinearCombination2(dst *Vector, c1 float64, v1 *Vector, c2 float64, v2 *Vector) {
	n := len(v1.values)
	if len(v2.values) != n {
		shapeErrorf(ErrLengthMismatch, "LinearCombination2", n, len(v2.values))
	}
	if len(dst.values) != n {
		shapeErrorf(ErrLengthMismatch, "LinearCombination2(dst)", n, len(dst.values))
	}
	for i := range dst.values {
		dst.values[i] = c1*v1.values[i] + c2*v2.values[i]
	}
}

// LinearCombination3 computes dst = c1*v1 + c2*v2 + c3*v3.
func LinearCombination3(dst *Vector, c1 float64, v1 *Vector, c2 float64, v2 *Vector, c3 float64, v3 *Vector) {
	n := len(v1.values)
	if len(v2.values) != n {
		shapeErrorf(ErrLengthMismatch, "LinearCombination3(v2)", n, len(v2.values))
	}
	if len(v3.values) != n {
		shapeErrorf(ErrLengthMismatch, "LinearCombination3(v3)", n, len(v3.values))
	}
	if len(dst.values) != n {
		shapeErrorf(ErrLengthMismatch, "LinearCombination3(dst)", n, len(dst.values))
	}
	for i := range dst.values {
		dst.values[i] = c1*v1.values[i] + c2*v2.values[i] + c3*v3.values[i]
	}
}
