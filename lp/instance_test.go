package lp

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewInstanceFromDenseRejectsBoundViolation(t *testing.T) {
	a := mat.NewDense(1, 1, []float64{1})
	_, err := NewInstanceFromDense(
		[]float64{1}, []float64{5}, []float64{1}, // lower > upper
		a,
		[]float64{1}, []float64{0}, []float64{math.Inf(1)},
		[2]int{0, 1}, [2]int{1, 1}, [2]int{1, 1},
		true, 0,
		[]bool{false}, []bool{false},
		[]float64{0}, []float64{0},
	)
	if err == nil {
		t.Fatal("expected an error for lower > upper, got nil")
	}
}

func TestNewInstanceFromDenseRejectsShapeMismatch(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err := NewInstanceFromDense(
		[]float64{1, 1}, []float64{0, 0}, []float64{1, 1},
		a,
		[]float64{1}, []float64{0}, []float64{math.Inf(1)}, // b has length 1, want 2
		[2]int{0, 2}, [2]int{2, 2}, [2]int{2, 2},
		true, 0,
		[]bool{false, false}, []bool{false, false},
		[]float64{0, 0}, []float64{0, 0},
	)
	if err == nil {
		t.Fatal("expected an error for mismatched row count, got nil")
	}
}

func TestNewInstancePrecomputesNorms(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 1})
	inst, err := NewInstanceFromDense(
		[]float64{3, 4}, []float64{0, 0}, []float64{1, 1},
		a,
		[]float64{0}, []float64{-math.Inf(1)}, []float64{math.Inf(1)},
		[2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1},
		true, 0,
		[]bool{false, false}, []bool{false, false},
		[]float64{0, 0}, []float64{0},
	)
	if err != nil {
		t.Fatalf("NewInstanceFromDense: %v", err)
	}
	wantCNorm := math.Hypot(3, 4)
	if math.Abs(inst.CNorm-wantCNorm) > 1e-12 {
		t.Errorf("CNorm = %v, want %v", inst.CNorm, wantCNorm)
	}
	if inst.InitialPrimalWeight() <= 0 {
		t.Errorf("InitialPrimalWeight() = %v, want > 0", inst.InitialPrimalWeight())
	}
}

func TestNewInstanceFromBlocksAssemblesRanges(t *testing.T) {
	// x1 <= 5, passed reflected (-x1 >= -5) per the Block doc comment's
	// contract: less-or-equal rows are reflected by the caller so their
	// dual bounds follow the same {0,+inf} range as greater-or-equal rows.
	less := Block{
		A:         [][]float64{{-1, 0}},
		B:         []float64{-5},
		DualLower: []float64{0},
		DualUpper: []float64{math.Inf(1)},
	}
	equal := Block{
		A:         [][]float64{{1, 1}},
		B:         []float64{3},
		DualLower: []float64{math.Inf(-1)},
		DualUpper: []float64{math.Inf(1)},
	}
	greater := Block{
		A:         [][]float64{{0, 1}},
		B:         []float64{1},
		DualLower: []float64{0},
		DualUpper: []float64{math.Inf(1)},
	}

	inst, err := NewInstanceFromBlocks(
		[]float64{1, 1}, []float64{0, 0}, []float64{10, 10},
		less, equal, greater,
		true, 0,
		[]bool{false, false}, []bool{false, false},
		[]float64{0, 0},
	)
	if err != nil {
		t.Fatalf("NewInstanceFromBlocks: %v", err)
	}
	if inst.M != 3 {
		t.Fatalf("M = %d, want 3", inst.M)
	}
	if inst.LessRange != [2]int{0, 1} {
		t.Errorf("LessRange = %v, want {0,1}", inst.LessRange)
	}
	if inst.EqualRange != [2]int{1, 2} {
		t.Errorf("EqualRange = %v, want {1,2}", inst.EqualRange)
	}
	if inst.GreaterRange != [2]int{2, 3} {
		t.Errorf("GreaterRange = %v, want {2,3}", inst.GreaterRange)
	}
}
