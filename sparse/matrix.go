package sparse

import "math"

// epsilon10 is the numerical floor below which a scaling accumulator is
// treated as zero (the "EPSILON_10" guard throughout the substrate).
const epsilon10 = 1e-10

// Matrix is a sparse matrix in compressed-row (CSR) format. It
// persistently carries the composite row/column scaling factors applied
// by successive Ruiz / Pock-Chambolle passes, so the original matrix is
// always recoverable as stored*rowScaler*columnScaler.
type Matrix struct {
	values        []float64
	rowIndices    []int
	columnIndices []int
	rowPtrs       []int

	rows, cols int

	rowScaler    *Diagonal
	columnScaler *Diagonal

	norm1   float64
	normInf float64
}

// NewMatrix builds a CSR matrix from parallel nonzero arrays. rowPtrs is
// derived with a single histogram pass over rowIndices followed by a
// prefix sum, exactly as described for the substrate's construction
// contract.
func NewMatrix(values []float64, rowIndices, columnIndices []int, rows, cols int) *Matrix {
	if len(values) != len(rowIndices) || len(values) != len(columnIndices) {
		shapeErrorf(ErrDimensionMismatch, "NewMatrix", len(values), len(rowIndices))
	}

	m := &Matrix{
		values:        values,
		rowIndices:    rowIndices,
		columnIndices: columnIndices,
		rows:          rows,
		cols:          cols,
		rowScaler:     NewDiagonal(rows),
		columnScaler:  NewDiagonal(cols),
	}
	m.buildRowPtrs()
	m.setupNorm()
	return m
}

func (m *Matrix) buildRowPtrs() {
	rowPtrs := make([]int, m.rows+1)
	for _, r := range m.rowIndices {
		rowPtrs[r+1]++
	}
	for i := 0; i < m.rows; i++ {
		rowPtrs[i+1] += rowPtrs[i]
	}
	m.rowPtrs = rowPtrs
}

// Dims returns the matrix's shape.
func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored (explicit) nonzeros.
func (m *Matrix) NNZ() int { return len(m.values) }

// RowScaler returns the persistent row scaler accumulated by successive
// scaling passes.
func (m *Matrix) RowScaler() *Diagonal { return m.rowScaler }

// ColumnScaler returns the persistent column scaler accumulated by
// successive scaling passes.
func (m *Matrix) ColumnScaler() *Diagonal { return m.columnScaler }

// Norm1 returns the cached ‖M‖₁ (the maximum absolute column sum).
func (m *Matrix) Norm1() float64 { return m.norm1 }

// NormInf returns the cached ‖M‖∞. Per the source this is the maximum
// absolute *entry*, not the maximum absolute row sum; this is preserved
// exactly, including for the initial step size 1/‖A‖∞, because the
// contraction property the solver relies on was derived against this
// exact (non-operator-norm) definition. See spec §9 Open Questions.
func (m *Matrix) NormInf() float64 { return m.normInf }

// setupNorm recomputes norm1 and normInf from the current values.
func (m *Matrix) setupNorm() {
	rowSums := make([]float64, m.rows)
	colSums := make([]float64, m.cols)
	normInf := 0.0
	for i, v := range m.values {
		av := math.Abs(v)
		rowSums[m.rowIndices[i]] += av
		colSums[m.columnIndices[i]] += av
		if av > normInf {
			normInf = av
		}
	}
	norm1 := 0.0
	for _, s := range colSums {
		if s > norm1 {
			norm1 = s
		}
	}
	m.norm1 = norm1
	m.normInf = normInf
}

// SpMV computes dst = M*x.
func (m *Matrix) SpMV(dst, x *Vector) {
	if x.Len() != m.cols {
		shapeErrorf(ErrDimensionMismatch, "SpMV", m.cols, x.Len())
	}
	if dst.Len() != m.rows {
		shapeErrorf(ErrDimensionMismatch, "SpMV(dst)", m.rows, dst.Len())
	}
	xs := x.values
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		for j := m.rowPtrs[i]; j < m.rowPtrs[i+1]; j++ {
			sum += m.values[j] * xs[m.columnIndices[j]]
		}
		dst.values[i] = sum
	}
}

// Dot returns M*x as a freshly allocated vector.
func (m *Matrix) Dot(x *Vector) *Vector {
	out := NewVector(m.rows)
	m.SpMV(out, x)
	return out
}

// Transpose returns a new matrix with swapped dimensions representing
// Mᵀ. It copies the currently stored (possibly already scaled) values;
// the persistent scalers of the result start at identity and are not
// derived from M's.
func (m *Matrix) Transpose() *Matrix {
	nnz := len(m.values)
	values := make([]float64, nnz)
	rowIndices := make([]int, nnz)
	columnIndices := make([]int, nnz)
	for i := range m.values {
		values[i] = m.values[i]
		rowIndices[i] = m.columnIndices[i]
		columnIndices[i] = m.rowIndices[i]
	}
	return NewMatrix(values, rowIndices, columnIndices, m.cols, m.rows)
}

// ScaleRows returns a new matrix with each row i multiplied by d[i].
// This does not touch the persistent row/column scalers; use RuizScale
// or PockChambolleScale for the scaling passes that must.
func (m *Matrix) ScaleRows(d *Diagonal) *Matrix {
	if d.Size() != m.rows {
		shapeErrorf(ErrDimensionMismatch, "ScaleRows", m.rows, d.Size())
	}
	out := m.clone()
	for i := 0; i < m.rows; i++ {
		s := d.At(i)
		for j := m.rowPtrs[i]; j < m.rowPtrs[i+1]; j++ {
			out.values[j] *= s
		}
	}
	out.setupNorm()
	return out
}

// ScaleColumns returns a new matrix with each column j multiplied by
// d[j].
func (m *Matrix) ScaleColumns(d *Diagonal) *Matrix {
	if d.Size() != m.cols {
		shapeErrorf(ErrDimensionMismatch, "ScaleColumns", m.cols, d.Size())
	}
	out := m.clone()
	for i := range out.values {
		out.values[i] *= d.At(out.columnIndices[i])
	}
	out.setupNorm()
	return out
}

func (m *Matrix) clone() *Matrix {
	values := make([]float64, len(m.values))
	copy(values, m.values)
	rowIndices := make([]int, len(m.rowIndices))
	copy(rowIndices, m.rowIndices)
	columnIndices := make([]int, len(m.columnIndices))
	copy(columnIndices, m.columnIndices)
	rowPtrs := make([]int, len(m.rowPtrs))
	copy(rowPtrs, m.rowPtrs)
	return &Matrix{
		values:        values,
		rowIndices:    rowIndices,
		columnIndices: columnIndices,
		rowPtrs:       rowPtrs,
		rows:          m.rows,
		cols:          m.cols,
		rowScaler:     m.rowScaler.Clone(),
		columnScaler:  m.columnScaler.Clone(),
		norm1:         m.norm1,
		normInf:       m.normInf,
	}
}

// RuizScale performs `iterations` passes of Ruiz equilibration in
// place: each pass computes per-row and per-column max-abs
// accumulators, floors small accumulators to 1 (replacing values below
// epsilon10 with 1 rather than the square root), divides every nonzero
// by the product of its row and column factor, folds the factors into
// the persistent row/column scalers, and refreshes the cached norms.
func (m *Matrix) RuizScale(iterations int) {
	for k := 0; k < iterations; k++ {
		rowFactor := make([]float64, m.rows)
		columnFactor := make([]float64, m.cols)
		for i, v := range m.values {
			av := math.Abs(v)
			if av > rowFactor[m.rowIndices[i]] {
				rowFactor[m.rowIndices[i]] = av
			}
			if av > columnFactor[m.columnIndices[i]] {
				columnFactor[m.columnIndices[i]] = av
			}
		}
		floorAndSqrt(rowFactor)
		floorAndSqrt(columnFactor)

		for i := range m.values {
			m.values[i] /= rowFactor[m.rowIndices[i]] * columnFactor[m.columnIndices[i]]
		}

		m.composeScalers(rowFactor, columnFactor)
		m.setupNorm()
	}
}

// PockChambolleScale performs a single pass of Pock-Chambolle
// equilibration in place: identical to one Ruiz pass except the
// accumulators are sum-of-abs rather than max-abs.
func (m *Matrix) PockChambolleScale() {
	rowFactor := make([]float64, m.rows)
	columnFactor := make([]float64, m.cols)
	for i, v := range m.values {
		av := math.Abs(v)
		rowFactor[m.rowIndices[i]] += av
		columnFactor[m.columnIndices[i]] += av
	}
	floorAndSqrt(rowFactor)
	floorAndSqrt(columnFactor)

	for i := range m.values {
		m.values[i] /= rowFactor[m.rowIndices[i]] * columnFactor[m.columnIndices[i]]
	}

	m.composeScalers(rowFactor, columnFactor)
	m.setupNorm()
}

func (m *Matrix) composeScalers(rowFactor, columnFactor []float64) {
	for i, f := range rowFactor {
		m.rowScaler.Set(i, m.rowScaler.At(i)*f)
	}
	for j, f := range columnFactor {
		m.columnScaler.Set(j, m.columnScaler.At(j)*f)
	}
}

// floorAndSqrt replaces accumulators below epsilon10 with 1 and all
// others with their square root, in place.
func floorAndSqrt(accumulators []float64) {
	for i, a := range accumulators {
		if a < epsilon10 {
			accumulators[i] = 1
		} else {
			accumulators[i] = math.Sqrt(a)
		}
	}
}
