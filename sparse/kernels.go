package sparse

// LinearCombinationSpMV2 computes dst = c1*(M*v1) + c2*v2, fusing the
// SpMV into the same pass rather than materializing M*v1 first.
func LinearCombinationSpMV2(dst *Vector, c1 float64, m *Matrix, v1 *Vector, c2 float64, v2 *Vector) {
	rows, cols := m.Dims()
	if v1.Len() != cols {
		shapeErrorf(ErrDimensionMismatch, "LinearCombinationSpMV2(v1)", cols, v1.Len())
	}
	if v2.Len() != rows {
		shapeErrorf(ErrLengthMismatch, "LinearCombinationSpMV2(v2)", rows, v2.Len())
	}
	if dst.Len() != rows {
		shapeErrorf(ErrLengthMismatch, "LinearCombinationSpMV2(dst)", rows, dst.Len())
	}
	xs := v1.values
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := m.rowPtrs[i]; j < m.rowPtrs[i+1]; j++ {
			sum += m.values[j] * xs[m.columnIndices[j]]
		}
		dst.values[i] = c1*sum + c2*v2.values[i]
	}
}

// LinearCombinationSpMV3 computes dst = c1*(M*v1) + c2*v2 + c3*v3.
func LinearCombinationSpMV3(dst *Vector, c1 float64, m *Matrix, v1 *Vector, c2 float64, v2 *Vector, c3 float64, v3 *Vector) {
	rows, cols := m.Dims()
	if v1.Len() != cols {
		shapeErrorf(ErrDimensionMismatch, "LinearCombinationSpMV3(v1)", cols, v1.Len())
	}
	if v2.Len() != rows {
		shapeErrorf(ErrLengthMismatch, "LinearCombinationSpMV3(v2)", rows, v2.Len())
	}
	if v3.Len() != rows {
		shapeErrorf(ErrLengthMismatch, "LinearCombinationSpMV3(v3)", rows, v3.Len())
	}
	if dst.Len() != rows {
		shapeErrorf(ErrLengthMismatch, "LinearCombinationSpMV3(dst)", rows, dst.Len())
	}
	xs := v1.values
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := m.rowPtrs[i]; j < m.rowPtrs[i+1]; j++ {
			sum += m.values[j] * xs[m.columnIndices[j]]
		}
		dst.values[i] = c1*sum + c2*v2.values[i] + c3*v3.values[i]
	}
}

// DotDot computes uᵀ(M v), using buf as scratch storage for M*v.
func DotDot(buf *Vector, u *Vector, m *Matrix, v *Vector) float64 {
	m.SpMV(buf, v)
	return u.Dot(buf)
}
