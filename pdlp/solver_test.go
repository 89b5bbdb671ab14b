package pdlp

import (
	"context"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/gonum-community/pdlp/lp"
)

// trivialInstance builds spec scenario S1: min x s.t. x >= 1, 0 <= x <= 10.
// The unique optimum is x* = 1 with objective 1.
func trivialInstance(t *testing.T) *lp.Instance {
	t.Helper()
	a := mat.NewDense(1, 1, []float64{1})
	inst, err := lp.NewInstanceFromDense(
		[]float64{1}, []float64{0}, []float64{10},
		a,
		[]float64{1}, []float64{0}, []float64{math.Inf(1)},
		[2]int{0, 0}, [2]int{0, 0}, [2]int{0, 1},
		true, 0,
		[]bool{false}, []bool{false},
		[]float64{0}, []float64{0},
	)
	if err != nil {
		t.Fatalf("trivialInstance: %v", err)
	}
	return inst
}

// equalityInstance builds spec scenario S2: min x1+x2 s.t. x1+x2=3,
// 0<=xi<=5. The optimum objective is 3 and x1+x2 must equal 3.
func equalityInstance(t *testing.T) *lp.Instance {
	t.Helper()
	a := mat.NewDense(1, 2, []float64{1, 1})
	inst, err := lp.NewInstanceFromDense(
		[]float64{1, 1}, []float64{0, 0}, []float64{5, 5},
		a,
		[]float64{3}, []float64{math.Inf(-1)}, []float64{math.Inf(1)},
		[2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1},
		true, 0,
		[]bool{false, false}, []bool{false, false},
		[]float64{0, 0}, []float64{0},
	)
	if err != nil {
		t.Fatalf("equalityInstance: %v", err)
	}
	return inst
}

// packingInstance builds spec scenario S3: max x1+x2 (written as
// min -(x1+x2)) s.t. x1+x2<=1, x1-x2<=0.5, 0<=xi<=1. The optimum
// objective is -1 (x1+x2 = 1 at the binding packing constraint).
//
// Both rows are less-or-equal, so per the reflected-row convention
// (lp/build.go's Block doc comment: less-type rows are reflected by
// the caller so DualLower/DualUpper follow the same {0,+inf} range as
// greater-or-equal rows) they are passed negated: x1+x2<=1 becomes
// -x1-x2>=-1, and x1-x2<=0.5 becomes -x1+x2>=-0.5.
func packingInstance(t *testing.T) *lp.Instance {
	t.Helper()
	a := mat.NewDense(2, 2, []float64{-1, -1, -1, 1})
	inst, err := lp.NewInstanceFromDense(
		[]float64{-1, -1}, []float64{0, 0}, []float64{1, 1},
		a,
		[]float64{-1, -0.5}, []float64{0, 0}, []float64{math.Inf(1), math.Inf(1)},
		[2]int{0, 2}, [2]int{2, 2}, [2]int{2, 2},
		true, 0,
		[]bool{false, false}, []bool{false, false},
		[]float64{0, 0}, []float64{0, 0},
	)
	if err != nil {
		t.Fatalf("packingInstance: %v", err)
	}
	return inst
}

// infeasibleInstance builds spec scenario S4: x <= 1 and x >= 2
// simultaneously, with 0<=x<=10 — no feasible point exists.
//
// Row 0 is less-or-equal (x<=1) and so is passed reflected, per the
// same convention: -x>=-1. Row 1 is genuinely greater-or-equal (x>=2)
// and needs no reflection.
func infeasibleInstance(t *testing.T) *lp.Instance {
	t.Helper()
	a := mat.NewDense(2, 1, []float64{-1, 1})
	inst, err := lp.NewInstanceFromDense(
		[]float64{1}, []float64{0}, []float64{10},
		a,
		[]float64{-1, 2}, []float64{0, 0}, []float64{math.Inf(1), math.Inf(1)},
		[2]int{0, 1}, [2]int{1, 1}, [2]int{1, 2},
		true, 0,
		[]bool{false}, []bool{false},
		[]float64{0}, []float64{0, 0},
	)
	if err != nil {
		t.Fatalf("infeasibleInstance: %v", err)
	}
	return inst
}

func solve(t *testing.T, inst *lp.Instance, mutate func(*Options)) *Result {
	t.Helper()
	opt := DefaultOptions()
	opt.IterationMax = 20000
	opt.TimeMax = 10 * time.Second
	if mutate != nil {
		mutate(&opt)
	}
	solver, err := NewSolver(inst, opt, nil)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	solver.Run(context.Background())
	return solver.Result()
}

func TestSolverTrivialScalar(t *testing.T) {
	result := solve(t, trivialInstance(t), nil)
	if result.TerminationStatus != Optimal {
		t.Fatalf("termination = %s, want Optimal", result.TerminationStatus)
	}
	if !floats.EqualWithinAbsOrRel(result.Primal.Objective, 1, 1e-3, 1e-3) {
		t.Errorf("primal objective = %v, want ~1", result.Primal.Objective)
	}
}

func TestSolverEqualityConstraint(t *testing.T) {
	result := solve(t, equalityInstance(t), nil)
	if result.TerminationStatus != Optimal {
		t.Fatalf("termination = %s, want Optimal", result.TerminationStatus)
	}
	if !floats.EqualWithinAbsOrRel(result.Primal.Objective, 3, 1e-3, 1e-3) {
		t.Errorf("primal objective = %v, want ~3", result.Primal.Objective)
	}
}

func TestSolverDegeneratePacking(t *testing.T) {
	result := solve(t, packingInstance(t), nil)
	if result.TerminationStatus != Optimal {
		t.Fatalf("termination = %s, want Optimal", result.TerminationStatus)
	}
	if !floats.EqualWithinAbsOrRel(result.Primal.Objective, -1, 1e-3, 1e-3) {
		t.Errorf("primal objective = %v, want ~-1", result.Primal.Objective)
	}
}

func TestSolverInfeasibleHeuristicOrIterationCap(t *testing.T) {
	result := solve(t, infeasibleInstance(t), func(o *Options) {
		o.IterationMax = 5000
	})
	if result.TerminationStatus != Infeasible && result.TerminationStatus != IterationOver {
		t.Errorf("termination = %s, want Infeasible or IterationOver on an infeasible instance", result.TerminationStatus)
	}
}

func TestSolverIterationCap(t *testing.T) {
	result := solve(t, equalityInstance(t), func(o *Options) {
		o.IterationMax = 1
		o.Tolerance = 0 // unreachable, forces the iteration cap to decide
	})
	if result.TerminationStatus != IterationOver {
		t.Fatalf("termination = %s, want IterationOver", result.TerminationStatus)
	}
	if result.Iterations > 1 {
		t.Errorf("Iterations = %d, want <= 1", result.Iterations)
	}
}

func TestSolverZeroIterationMaxTerminatesImmediately(t *testing.T) {
	result := solve(t, trivialInstance(t), func(o *Options) {
		o.IterationMax = 0
	})
	if result.TerminationStatus != IterationOver {
		t.Fatalf("termination = %s, want IterationOver", result.TerminationStatus)
	}
	if result.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", result.Iterations)
	}
}

func TestSolverZeroTimeMaxTerminatesImmediately(t *testing.T) {
	result := solve(t, trivialInstance(t), func(o *Options) {
		o.TimeMax = 0
	})
	if result.TerminationStatus != TimeOver {
		t.Fatalf("termination = %s, want TimeOver", result.TerminationStatus)
	}
}

func TestSolverContextCancellationInterrupts(t *testing.T) {
	opt := DefaultOptions()
	opt.IterationMax = 1000000
	opt.Tolerance = 0 // unreachable, so only cancellation can end the run
	solver, err := NewSolver(equalityInstance(t), opt, nil)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	solver.Run(ctx)
	result := solver.Result()
	if result.TerminationStatus != Interruption {
		t.Fatalf("termination = %s, want Interruption", result.TerminationStatus)
	}
}

func TestSolverRejectsInvalidOptions(t *testing.T) {
	inst := trivialInstance(t)
	opt := DefaultOptions()
	opt.RestartCheckInterval = 0
	if _, err := NewSolver(inst, opt, nil); err == nil {
		t.Error("expected an error for RestartCheckInterval = 0")
	}

	opt = DefaultOptions()
	opt.StepSizeReduceExponent = 0.3
	if _, err := NewSolver(inst, opt, nil); err == nil {
		t.Error("expected an error for a non-negative step-size exponent")
	}
}

func TestSolverUnscaledSolutionRespectsBounds(t *testing.T) {
	inst := trivialInstance(t)
	result := solve(t, inst, nil)
	unscaled := result.UnscaledPrimalSolution(inst)
	x := unscaled.At(0)
	if x < -1e-3 || x > 10+1e-3 {
		t.Errorf("unscaled x = %v, want within [0, 10]", x)
	}
}
