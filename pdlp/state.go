package pdlp

import (
	"math"
	"time"

	"github.com/gonum-community/pdlp/sparse"
)

// PrimalDualState holds one side's (primal or dual) iteration-local
// vectors and scalars. All vectors share the block's size (N for
// primal, M for dual) and are allocated once in Setup and reused for
// the run's lifetime, so steady-state allocation is zero.
type PrimalDualState struct {
	Solution                *sparse.Vector // current iterate
	Lhs                      *sparse.Vector // the other block's A/Aᵀ product feeding this block's update
	Trial                    *sparse.Vector // x̃ / ỹ produced by one update attempt
	Move                     *sparse.Vector // Δ = trial - solution
	Direction                *sparse.Vector // normalized-gap direction d (primal and dual)
	LagrangianCoefficients   *sparse.Vector // normalized-gap gradient: c - Aᵀy_c (primal), b - A x_c (dual)
	ReducedCostCoefficients  *sparse.Vector // reduced costs (primal only; always-allocated on dual too)
	Baseline                 *sparse.Vector // iterate at the start of the current inner loop
	Average                  *sparse.Vector // step-size-weighted running average
	Scratch                  *sparse.Vector // temporary for SpMV results and violation buffers

	Objective                 float64
	AbsoluteViolationNorm     float64
	RelativeViolationNorm     float64
	ObjectiveCoefficientsNorm float64
	ObjectiveLowerBound       float64
	ObjectiveUpperBound       float64
}

func newPrimalDualState(size int) *PrimalDualState {
	return &PrimalDualState{
		Solution:                sparse.NewVector(size),
		Lhs:                     sparse.NewVector(size),
		Trial:                   sparse.NewVector(size),
		Move:                    sparse.NewVector(size),
		Direction:               sparse.NewVector(size),
		LagrangianCoefficients:  sparse.NewVector(size),
		ReducedCostCoefficients: sparse.NewVector(size),
		Baseline:                sparse.NewVector(size),
		Average:                 sparse.NewVector(size),
		Scratch:                 sparse.NewVector(size),
	}
}

// State holds every iteration-local quantity the manager mutates:
// the primal and dual blocks, iteration counters, step sizes, the
// primal weight, the normalized-gap history, the restart flag/mode,
// and the termination status. It is owned exclusively by the
// StateManager for the lifetime of a run.
type State struct {
	Primal *PrimalDualState
	Dual   *PrimalDualState

	InnerIteration                 int
	OuterIteration                 int
	TotalIteration                 int
	NumberOfSolutionUpdateAttempts int

	StartedAt   time.Time
	ElapsedTime time.Duration

	AbsoluteGap float64
	RelativeGap float64

	StepSizeCurrent       float64
	StepSizePrevious      float64
	StepSizeCumulativeSum float64

	PrimalWeight float64

	NormalizedGapInnerCurrent  float64
	NormalizedGapInnerPrevious float64
	NormalizedGapOuterCurrent  float64
	NormalizedGapOuterPrevious float64

	IsEnabledRestart bool
	RestartMode      RestartMode

	TerminationStatus TerminationStatus
}

func newState(n, m int) *State {
	return &State{
		Primal:             newPrimalDualState(n),
		Dual:               newPrimalDualState(m),
		TerminationStatus:  IterationOver,
		NormalizedGapInnerCurrent:  math.Inf(1),
		NormalizedGapInnerPrevious: math.Inf(1),
		NormalizedGapOuterCurrent:  math.Inf(1),
		NormalizedGapOuterPrevious: math.Inf(1),
	}
}
