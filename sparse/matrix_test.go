package sparse

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func denseToCSR(d *mat.Dense) *Matrix {
	rows, cols := d.Dims()
	var values []float64
	var rowIdx, colIdx []int
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := d.At(i, j)
			if v == 0 {
				continue
			}
			values = append(values, v)
			rowIdx = append(rowIdx, i)
			colIdx = append(colIdx, j)
		}
	}
	return NewMatrix(values, rowIdx, colIdx, rows, cols)
}

func TestSpMVMatchesDense(t *testing.T) {
	d := mat.NewDense(3, 2, []float64{1, 2, 0, 3, 4, 0})
	m := denseToCSR(d)

	x := NewVectorFromSlice([]float64{5, 7})
	got := m.Dot(x)

	var want mat.VecDense
	want.MulVec(d, mat.NewVecDense(2, []float64{5, 7}))

	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbsOrRel(got.At(i), want.AtVec(i), 1e-9, 1e-9) {
			t.Errorf("row %d: got %v, want %v", i, got.At(i), want.AtVec(i))
		}
	}
}

func TestTransposeMatchesDenseTranspose(t *testing.T) {
	d := mat.NewDense(2, 3, []float64{1, 0, 2, 0, 3, 4})
	m := denseToCSR(d)
	mt := m.Transpose()

	x := NewVectorFromSlice([]float64{1, 1})
	got := mt.Dot(x)

	var dt mat.Dense
	dt.CloneFrom(d.T())
	var want mat.VecDense
	want.MulVec(&dt, mat.NewVecDense(2, []float64{1, 1}))

	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbsOrRel(got.At(i), want.AtVec(i), 1e-9, 1e-9) {
			t.Errorf("row %d: got %v, want %v", i, got.At(i), want.AtVec(i))
		}
	}
}

func TestNormInfIsMaxAbsEntryNotRowSum(t *testing.T) {
	// A row with several moderate entries should NOT make NormInf exceed
	// the single largest entry, per the preserved (non-operator-norm)
	// ‖M‖∞ semantics.
	m := NewMatrix([]float64{3, 3, 3}, []int{0, 0, 0}, []int{0, 1, 2}, 1, 3)
	if m.NormInf() != 3 {
		t.Errorf("NormInf() = %v, want 3 (max abs entry, not row sum 9)", m.NormInf())
	}
}

func TestScalingRoundTrip(t *testing.T) {
	d := mat.NewDense(2, 2, []float64{4, 0, 0, 9})
	m := denseToCSR(d)

	original := make([]float64, len(m.values))
	copy(original, m.values)
	rowIdx := append([]int(nil), m.rowIndices...)
	colIdx := append([]int(nil), m.columnIndices...)

	m.RuizScale(3)

	for i := range m.values {
		reconstructed := m.values[i] * m.rowScaler.At(rowIdx[i]) * m.columnScaler.At(colIdx[i])
		if !floats.EqualWithinAbsOrRel(reconstructed, original[i], 1e-8, 1e-8) {
			t.Errorf("nonzero %d: reconstructed %v, want %v", i, reconstructed, original[i])
		}
	}
}

func TestRuizScalingReducesNormSpread(t *testing.T) {
	d := mat.NewDense(2, 2, []float64{100, 1, 1, 0.01})
	m := denseToCSR(d)
	before := m.NormInf()
	m.RuizScale(5)
	after := m.NormInf()
	if after >= before {
		t.Errorf("RuizScale did not reduce NormInf: before=%v after=%v", before, after)
	}
}
