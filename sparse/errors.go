// Package sparse provides the dense-vector, diagonal, and CSR sparse
// matrix substrate used by the pdlp solver: fused AXPY-family kernels,
// componentwise clamping, and the Ruiz / Pock-Chambolle equilibration
// passes used during preprocessing.
package sparse

import "fmt"

// Error represents a programming error raised by the sparse substrate:
// a shape or size mismatch between operands. These are never recovered
// internally; callers that hit one have a bug to fix, not a condition
// to handle.
type Error string

func (err Error) Error() string { return string(err) }

const (
	// ErrLengthMismatch is raised when two vectors participating in an
	// elementwise operation (dot, distance, learn, sum, subtract,
	// linear combination, clamp) do not share the same length.
	ErrLengthMismatch = Error("sparse: vector length mismatch")
	// ErrDimensionMismatch is raised when a matrix and a vector (or two
	// diagonals) participating in an operation have inconsistent sizes.
	ErrDimensionMismatch = Error("sparse: dimension mismatch")
)

// shapeErrorf panics with a Error-typed value naming the offending
// operation and sizes, per the substrate's shape-mismatch contract.
func shapeErrorf(base Error, op string, want, got int) {
	panic(Error(fmt.Sprintf("%s: %s: want length %d, got %d", base, op, want, got)))
}
