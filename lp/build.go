package lp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/gonum-community/pdlp/sparse"
)

// NewInstanceFromDense builds an Instance from a dense mat.Matrix
// constraint matrix, for callers (tests, cmd/pdlpsolve, worked
// examples) that already hold a small dense LP rather than a
// pre-assembled CSR one. Zero entries of a are dropped (no explicit
// zeros are introduced by this constructor).
func NewInstanceFromDense(
	c, lower, upper []float64,
	a mat.Matrix,
	b, dualLower, dualUpper []float64,
	lessRange, equalRange, greaterRange [2]int,
	minimize bool,
	objectiveOffset float64,
	upperUnbounded, lowerUnbounded []bool,
	primalInitial, dualInitial []float64,
) (*Instance, error) {
	rows, cols := a.Dims()
	var values []float64
	var rowIdx, colIdx []int
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := a.At(i, j)
			if v == 0 {
				continue
			}
			values = append(values, v)
			rowIdx = append(rowIdx, i)
			colIdx = append(colIdx, j)
		}
	}
	m := sparse.NewMatrix(values, rowIdx, colIdx, rows, cols)

	return NewInstance(
		sparse.NewVectorFromSlice(c),
		sparse.NewVectorFromSlice(lower),
		sparse.NewVectorFromSlice(upper),
		m,
		sparse.NewVectorFromSlice(b),
		sparse.NewVectorFromSlice(dualLower),
		sparse.NewVectorFromSlice(dualUpper),
		lessRange, equalRange, greaterRange,
		minimize, objectiveOffset,
		upperUnbounded, lowerUnbounded,
		sparse.NewVectorFromSlice(primalInitial),
		sparse.NewVectorFromSlice(dualInitial),
	)
}

// Block is one constraint-sense block (less-or-equal, equality, or
// greater-or-equal) of rows, supplied separately and assembled into a
// single Instance by NewInstanceFromBlocks. Row i of A has A[i] and
// right-hand side B[i]; less-or-equal rows are expected to already be
// reflected by the caller so DualLower/DualUpper follow the same
// {0,+inf} convention as the greater-or-equal block (equality rows
// use {-inf,+inf}).
type Block struct {
	A         [][]float64
	B         []float64
	DualLower []float64
	DualUpper []float64
}

// NewInstanceFromBlocks assembles an Instance from separate
// less/equal/greater row blocks, mirroring the preprocessing step the
// original implementation's surrounding model-building code performs
// before handing a CSR matrix to the core: building A incrementally,
// block by block, rather than requiring the caller to pre-flatten rows
// and track contiguous ranges by hand.
func NewInstanceFromBlocks(
	c, lower, upper []float64,
	less, equal, greater Block,
	minimize bool,
	objectiveOffset float64,
	upperUnbounded, lowerUnbounded []bool,
	primalInitial []float64,
) (*Instance, error) {
	n := len(c)
	for _, blk := range []Block{less, equal, greater} {
		for _, row := range blk.A {
			if len(row) != n {
				return nil, errors.Errorf("lp: block row has length %d, want %d", len(row), n)
			}
		}
	}

	b := sparse.NewVector(0)
	dualLower := sparse.NewVector(0)
	dualUpper := sparse.NewVector(0)

	var values []float64
	var rowIdx, colIdx []int
	row := 0

	appendBlock := func(blk Block) [2]int {
		begin := row
		for r, coeffs := range blk.A {
			for j, v := range coeffs {
				if v == 0 {
					continue
				}
				values = append(values, v)
				rowIdx = append(rowIdx, row)
				colIdx = append(colIdx, j)
			}
			b.Extend(sparse.NewVectorFromSlice([]float64{blk.B[r]}))
			dualLower.Extend(sparse.NewVectorFromSlice([]float64{blk.DualLower[r]}))
			dualUpper.Extend(sparse.NewVectorFromSlice([]float64{blk.DualUpper[r]}))
			row++
		}
		return [2]int{begin, row}
	}

	lessRange := appendBlock(less)
	equalRange := appendBlock(equal)
	greaterRange := appendBlock(greater)

	m := sparse.NewMatrix(values, rowIdx, colIdx, row, n)

	dualInitial := sparse.NewVector(row)

	return NewInstance(
		sparse.NewVectorFromSlice(c),
		sparse.NewVectorFromSlice(lower),
		sparse.NewVectorFromSlice(upper),
		m,
		b, dualLower, dualUpper,
		lessRange, equalRange, greaterRange,
		minimize, objectiveOffset,
		upperUnbounded, lowerUnbounded,
		sparse.NewVectorFromSlice(primalInitial),
		dualInitial,
	)
}
