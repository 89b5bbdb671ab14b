package pdlp

import (
	"math"

	"go.uber.org/zap"

	"github.com/gonum-community/pdlp/lp"
	"github.com/gonum-community/pdlp/sparse"
)

// epsilonWeight is the small numerical floor (distinct from the
// sparse substrate's 1e-10 "EPSILON_10") used when deciding whether the
// step-size interaction term, or a primal/dual weight-update distance,
// is numerically meaningful.
const epsilonWeight = 1e-20

// machineEpsilon approximates the unit roundoff used by the
// infeasibility heuristic's relative slack term.
const machineEpsilon = 2.220446049250313e-16

// StateManager owns a State for the lifetime of one Solver run: it
// implements setup, the adaptive primal-dual update with step-size
// backtracking, the running average, the normalized-gap computation,
// the restart controller, primal-weight rebalancing, and convergence-
// metric refresh.
type StateManager struct {
	instance *lp.Instance
	options  Options
	state    *State
	logger   *zap.SugaredLogger
}

// NewStateManager allocates a StateManager's State from instance and
// performs the initial step-size and primal-weight computation,
// exactly the "setup" operation of §4.3.
func NewStateManager(instance *lp.Instance, options Options, logger *zap.SugaredLogger) *StateManager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	sm := &StateManager{instance: instance, options: options, logger: logger}
	sm.setup()
	return sm
}

// State exposes the manager's owned state for read access by the
// Solver's loop and Result construction.
func (sm *StateManager) State() *State { return sm.state }

func (sm *StateManager) setup() {
	inst := sm.instance

	if sm.options.CountsOfRuizScaling > 0 {
		inst.A.RuizScale(sm.options.CountsOfRuizScaling)
	}
	if sm.options.IsEnabledPockChambolleScaling {
		inst.A.PockChambolleScale()
	}
	// AT was cached at NewInstance time, before any scaling; rebuild it
	// from the now-scaled A rather than carry a stale transpose.
	inst.AT = inst.A.Transpose()

	sm.state = newState(inst.N, inst.M)
	st := sm.state

	st.Primal.Solution.CopyFrom(inst.PrimalInitial)
	st.Dual.Solution.CopyFrom(inst.DualInitial)

	st.Primal.Average.CopyFrom(inst.PrimalInitial)
	st.Dual.Average.CopyFrom(inst.DualInitial)

	st.Primal.ObjectiveCoefficientsNorm = inst.CNorm
	st.Dual.ObjectiveCoefficientsNorm = inst.BNorm
	st.Primal.ObjectiveLowerBound = inst.ObjectiveLowerBound
	st.Primal.ObjectiveUpperBound = inst.ObjectiveUpperBound

	st.StepSizeCumulativeSum = 0

	sm.setupInitialStepSize()
	sm.setupInitialPrimalWeight()

	sm.logger.Infow("pdlp state manager set up",
		"n", inst.N, "m", inst.M,
		"step_size", st.StepSizeCurrent,
		"primal_weight", st.PrimalWeight)
}

// setupInitialStepSize sets τ₀ = 1/‖A‖∞, using the cached L∞ of the
// (already scaled, by preprocessing) constraint matrix.
func (sm *StateManager) setupInitialStepSize() {
	st := sm.state
	st.StepSizeCurrent = 1 / sm.instance.A.NormInf()
	st.StepSizePrevious = st.StepSizeCurrent
}

// setupInitialPrimalWeight sets ω₀ = ‖c‖/‖b‖ when both exceed the
// 1e-20 floor applied by lp.Instance.InitialPrimalWeight, else 1.
func (sm *StateManager) setupInitialPrimalWeight() {
	sm.state.PrimalWeight = sm.instance.InitialPrimalWeight()
}

// computeWeightedNorm returns √(ω‖primal‖² + ω⁻¹‖dual‖²).
func (sm *StateManager) computeWeightedNorm(primal, dual *sparse.Vector) float64 {
	omega := sm.state.PrimalWeight
	pn := primal.Norm()
	dn := dual.Norm()
	return math.Sqrt(omega*pn*pn + dn*dn/omega)
}

// computeWeightedDistance returns the ω-weighted norm of the distance
// between (primalA, primalB) and (dualA, dualB) pairs.
func (sm *StateManager) computeWeightedDistance(primalA, primalB, dualA, dualB *sparse.Vector) float64 {
	omega := sm.state.PrimalWeight
	pd := primalA.Distance(primalB)
	dd := dualA.Distance(dualB)
	return math.Sqrt(omega*pd*pd + dd*dd/omega)
}

// UpdateSolution performs the adaptive primal-dual update with
// step-size backtracking (§4.4). The dual-side Aᵀy product is constant
// across retries (y is unchanged until the step is accepted) so it is
// computed once before the loop; the primal-side Az product changes
// every retry (z depends on the trial primal iterate) so it is
// recomputed per attempt.
func (sm *StateManager) UpdateSolution() {
	inst := sm.instance
	st := sm.state

	stepSizeTrial := st.StepSizeCurrent
	inst.AT.SpMV(st.Primal.Lhs, st.Dual.Solution)

	const maxAttempts = 1 << 20 // defensive cap; see §4.4 failure model
	for attempt := 0; ; attempt++ {
		st.NumberOfSolutionUpdateAttempts++

		primalStepSize := stepSizeTrial / st.PrimalWeight
		sparse.LinearCombination3(st.Primal.Trial,
			1.0, st.Primal.Solution,
			-primalStepSize, inst.C,
			primalStepSize, st.Primal.Lhs)
		st.Primal.Trial.Clamp(inst.Lower, inst.Upper)

		dualStepSize := stepSizeTrial * st.PrimalWeight
		sparse.LinearCombination2(st.Primal.Scratch,
			2.0, st.Primal.Trial,
			-1.0, st.Primal.Solution)
		inst.A.SpMV(st.Dual.Lhs, st.Primal.Scratch)

		sparse.LinearCombination3(st.Dual.Trial,
			1.0, st.Dual.Solution,
			dualStepSize, inst.B,
			-dualStepSize, st.Dual.Lhs)
		st.Dual.Trial.Clamp(inst.DualLower, inst.DualUpper)

		sparse.Subtract(st.Primal.Move, st.Primal.Trial, st.Primal.Solution)
		sparse.Subtract(st.Dual.Move, st.Dual.Trial, st.Dual.Solution)

		move := sm.computeWeightedNorm(st.Primal.Move, st.Dual.Move)

		inst.A.SpMV(st.Dual.Scratch, st.Primal.Move)
		interaction := math.Abs(st.Dual.Move.Dot(st.Dual.Scratch))

		var stepSizeLimit float64
		if interaction > epsilonWeight {
			stepSizeLimit = 0.5 * move * move / interaction
		} else {
			stepSizeLimit = math.MaxFloat64
		}

		k := float64(st.NumberOfSolutionUpdateAttempts) + 1.0
		stepSizeCandidate := math.Min(
			(1-math.Pow(k, sm.options.StepSizeReduceExponent))*stepSizeLimit,
			(1+math.Pow(k, sm.options.StepSizeExtendExponent))*stepSizeTrial,
		)

		if stepSizeTrial < stepSizeLimit {
			st.Primal.Solution.CopyFrom(st.Primal.Trial)
			st.Dual.Solution.CopyFrom(st.Dual.Trial)
			st.StepSizePrevious = stepSizeTrial
			st.StepSizeCurrent = stepSizeCandidate
			return
		}
		stepSizeTrial = stepSizeCandidate

		if attempt >= maxAttempts {
			sm.logger.Warnw("update_solution exceeded defensive attempt cap, accepting current trial",
				"attempts", attempt, "step_size_limit", stepSizeLimit)
			st.Primal.Solution.CopyFrom(st.Primal.Trial)
			st.Dual.Solution.CopyFrom(st.Dual.Trial)
			st.StepSizePrevious = stepSizeTrial
			st.StepSizeCurrent = stepSizeCandidate
			return
		}
	}
}

// UpdateAveragedSolution folds the just-accepted iterate into the
// step-size-weighted running average (§4.5).
func (sm *StateManager) UpdateAveragedSolution() {
	st := sm.state
	st.StepSizeCumulativeSum += st.StepSizePrevious
	learningRate := st.StepSizePrevious / st.StepSizeCumulativeSum
	st.Primal.Average.Learn(st.Primal.Solution, learningRate)
	st.Dual.Average.Learn(st.Dual.Solution, learningRate)
}

// ComputeNormalizedGap evaluates Φ(x_c, y_c, r) per §4.6, including the
// dual active-set branch that (per the source, flagged as a likely
// bug) compares against DualUpper in both the upper- and lower-bound
// tests. This is preserved verbatim rather than "fixed".
func (sm *StateManager) ComputeNormalizedGap(primalCenter, dualCenter *sparse.Vector, radius float64) float64 {
	inst := sm.instance
	st := sm.state
	omega := st.PrimalWeight

	gPrimal := st.Primal.LagrangianCoefficients
	gDual := st.Dual.LagrangianCoefficients
	sparse.LinearCombinationSpMV2(gPrimal, -1.0, inst.AT, dualCenter, 1.0, inst.C)
	sparse.LinearCombinationSpMV2(gDual, -1.0, inst.A, primalCenter, 1.0, inst.B)

	dPrimal := st.Primal.Direction
	for i := 0; i < inst.N; i++ {
		dPrimal.Set(i, 0)
		if primalCenter.At(i) >= inst.Upper.At(i) && gPrimal.At(i) <= 0 {
			continue
		}
		if primalCenter.At(i) <= inst.Lower.At(i) && gPrimal.At(i) >= 0 {
			continue
		}
		dPrimal.Set(i, -gPrimal.At(i)*omega)
	}

	dDual := st.Dual.Direction
	for i := 0; i < inst.M; i++ {
		dDual.Set(i, 0)
		// NOTE: both branches compare against DualUpper; this mirrors the
		// source exactly (see spec open questions) and is not a typo here.
		if dualCenter.At(i) >= inst.DualUpper.At(i) && gDual.At(i) <= 0 {
			continue
		}
		if dualCenter.At(i) <= inst.DualUpper.At(i) && gDual.At(i) >= 0 {
			continue
		}
		dDual.Set(i, gDual.At(i)/omega)
	}

	directionNorm := sm.computeWeightedNorm(dPrimal, dDual)
	if directionNorm < epsilon10 {
		return 0
	}

	dPrimal.Scale(radius / directionNorm)
	dDual.Scale(radius / directionNorm)

	primalTrial := st.Primal.Trial
	dualTrial := st.Dual.Trial
	sparse.Sum(primalTrial, primalCenter, dPrimal)
	sparse.Sum(dualTrial, dualCenter, dDual)

	normalizedGap := -inst.C.Dot(dPrimal) + inst.B.Dot(dDual) -
		sparse.DotDot(st.Primal.Scratch, primalCenter, inst.AT, dualTrial) +
		sparse.DotDot(st.Dual.Scratch, dualCenter, inst.A, primalTrial)

	return normalizedGap / radius
}

// epsilon10 is the numerical floor shared with the sparse substrate's
// scaling passes ("EPSILON_10" throughout the source).
const epsilon10 = 1e-10

// UpdateRestartInformation evaluates the restart check (§4.7); it is a
// no-op unless inner_iteration > 1. The Solver only calls this on the
// RestartCheckInterval cadence (calling SkipRestart the rest of the
// time), matching the source's split between the core loop's cadence
// test and this method's own inner_iteration guard.
func (sm *StateManager) UpdateRestartInformation() {
	st := sm.state
	st.IsEnabledRestart = false
	if st.InnerIteration <= 1 {
		return
	}

	radiusAverage := sm.computeWeightedDistance(
		st.Primal.Average, st.Primal.Baseline,
		st.Dual.Average, st.Dual.Baseline)
	radiusCurrent := sm.computeWeightedDistance(
		st.Primal.Solution, st.Primal.Baseline,
		st.Dual.Solution, st.Dual.Baseline)

	normalizedGapAverage := sm.ComputeNormalizedGap(st.Primal.Average, st.Dual.Average, radiusAverage)
	normalizedGapCurrent := sm.ComputeNormalizedGap(st.Primal.Solution, st.Dual.Solution, radiusCurrent)

	st.NormalizedGapInnerPrevious = st.NormalizedGapInnerCurrent

	if normalizedGapCurrent < normalizedGapAverage {
		st.RestartMode = RestartCurrent
		st.NormalizedGapInnerCurrent = normalizedGapCurrent
	} else {
		st.RestartMode = RestartAverage
		st.NormalizedGapInnerCurrent = normalizedGapAverage
	}

	opt := sm.options
	if st.OuterIteration > 0 &&
		st.NormalizedGapInnerCurrent < opt.RestartThresholdSufficient*st.NormalizedGapOuterPrevious {
		st.IsEnabledRestart = true
		return
	}

	if st.OuterIteration > 0 &&
		st.NormalizedGapInnerCurrent < opt.RestartThresholdNecessary*st.NormalizedGapOuterPrevious &&
		st.NormalizedGapInnerCurrent > st.NormalizedGapInnerPrevious {
		st.IsEnabledRestart = true
		return
	}

	if float64(st.InnerIteration) > opt.RestartThresholdArtificial*float64(st.TotalIteration) {
		st.IsEnabledRestart = true
		return
	}
}

// SkipRestart clears the restart flag without evaluating the restart
// conditions, used on iterations that are not a restart-check cadence.
func (sm *StateManager) SkipRestart() {
	sm.state.IsEnabledRestart = false
}

// UpdateRestartSolution adopts the recorded restart candidate (Current
// or Average) for both primal and dual blocks, per §4.7/§9's
// enum-tag-replaces-pointer design.
func (sm *StateManager) UpdateRestartSolution() {
	st := sm.state
	switch st.RestartMode {
	case RestartCurrent:
		// solution already holds the current iterate; nothing to adopt.
	case RestartAverage:
		st.Primal.Solution.CopyFrom(st.Primal.Average)
		st.Dual.Solution.CopyFrom(st.Dual.Average)
	}
}

// UpdatePrimalWeight rebalances ω using the baseline-to-average
// distances, when both lie in (epsilonWeight, 1/epsilonWeight) (§4.8).
func (sm *StateManager) UpdatePrimalWeight() {
	st := sm.state
	primalDistance := st.Primal.Average.Distance(st.Primal.Baseline)
	dualDistance := st.Dual.Average.Distance(st.Dual.Baseline)

	if primalDistance > epsilonWeight && dualDistance > epsilonWeight &&
		primalDistance < 1/epsilonWeight && dualDistance < 1/epsilonWeight {
		st.PrimalWeight = math.Exp(0.5*math.Log(dualDistance/primalDistance) + 0.5*math.Log(st.PrimalWeight))
	}
}

// SetupNewInnerLoop seeds the averages and step-size-cumulative-sum for
// a new inner loop, advances the outer-iteration bookkeeping, snapshots
// the baseline, and rotates the normalized-gap history (§4.9).
func (sm *StateManager) SetupNewInnerLoop() {
	st := sm.state
	if st.OuterIteration == 0 {
		st.Primal.Average.Reset()
		st.Dual.Average.Reset()
		st.StepSizeCumulativeSum = 0
	} else {
		st.Primal.Average.CopyFrom(st.Primal.Solution)
		st.Dual.Average.CopyFrom(st.Dual.Solution)
		st.StepSizeCumulativeSum = 1
	}

	st.OuterIteration++
	st.InnerIteration = 0

	st.Primal.Baseline.CopyFrom(st.Primal.Solution)
	st.Dual.Baseline.CopyFrom(st.Dual.Solution)

	st.NormalizedGapOuterPrevious = st.NormalizedGapOuterCurrent
	st.NormalizedGapOuterCurrent = st.NormalizedGapInnerCurrent

	st.NormalizedGapInnerCurrent = math.Inf(1)
	st.NormalizedGapInnerPrevious = math.Inf(1)
}

// ResetIteration zeros inner_iteration, outer_iteration, and
// total_iteration. The Solver calls this immediately after the first
// SetupNewInnerLoop at the start of Run, which (faithfully, per the
// source) wipes out the outer_iteration increment SetupNewInnerLoop
// just performed; this ordering is preserved exactly.
func (sm *StateManager) ResetIteration() {
	st := sm.state
	st.InnerIteration = 0
	st.OuterIteration = 0
	st.TotalIteration = 0
}

// NextInnerIteration increments inner_iteration.
func (sm *StateManager) NextInnerIteration() { sm.state.InnerIteration++ }

// NextTotalIteration increments total_iteration.
func (sm *StateManager) NextTotalIteration() { sm.state.TotalIteration++ }

// RefreshConvergenceInformation recomputes reduced costs, primal/dual
// objectives, violation norms, and the duality gap (§4.10).
func (sm *StateManager) RefreshConvergenceInformation() {
	sm.refreshObjective()
	sm.refreshViolation()
	sm.refreshGap()
}

func (sm *StateManager) refreshObjective() {
	inst := sm.instance
	st := sm.state

	r := st.Primal.ReducedCostCoefficients
	sparse.LinearCombinationSpMV2(r, -1.0, inst.AT, st.Dual.Average, 1.0, inst.C)

	for i := 0; i < inst.N; i++ {
		if inst.UpperUnbounded[i] {
			r.Set(i, math.Max(r.At(i), 0))
		}
		if inst.LowerUnbounded[i] {
			r.Set(i, math.Min(r.At(i), 0))
		}
	}

	reducedCostObjective := 0.0
	for i := 0; i < inst.N; i++ {
		ri := r.At(i)
		if ri > 0 {
			reducedCostObjective += ri * inst.Lower.At(i)
		} else {
			reducedCostObjective += ri * inst.Upper.At(i)
		}
	}

	st.Primal.Objective = st.Primal.Average.Dot(inst.C) + inst.ObjectiveOffset
	st.Dual.Objective = st.Dual.Average.Dot(inst.B) + reducedCostObjective + inst.ObjectiveOffset
}

func (sm *StateManager) refreshViolation() {
	inst := sm.instance
	st := sm.state

	primalViolation := st.Dual.Scratch
	sparse.LinearCombinationSpMV2(primalViolation, -1.0, inst.A, st.Primal.Average, 1.0, inst.B)
	for i := inst.LessRange[0]; i < inst.LessRange[1]; i++ {
		primalViolation.Set(i, math.Max(primalViolation.At(i), 0))
	}
	for i := inst.GreaterRange[0]; i < inst.GreaterRange[1]; i++ {
		primalViolation.Set(i, math.Max(primalViolation.At(i), 0))
	}

	st.Primal.AbsoluteViolationNorm = primalViolation.Norm()
	st.Primal.RelativeViolationNorm = st.Primal.AbsoluteViolationNorm / (1 + st.Dual.ObjectiveCoefficientsNorm)

	dualViolation := st.Primal.Scratch
	sparse.LinearCombinationSpMV3(dualViolation,
		-1.0, inst.AT, st.Dual.Average,
		1.0, inst.C,
		-1.0, st.Primal.ReducedCostCoefficients)

	st.Dual.AbsoluteViolationNorm = dualViolation.Norm()
	st.Dual.RelativeViolationNorm = st.Dual.AbsoluteViolationNorm / (1 + st.Primal.ObjectiveCoefficientsNorm)
}

func (sm *StateManager) refreshGap() {
	st := sm.state
	st.AbsoluteGap = math.Abs(st.Primal.Objective - st.Dual.Objective)
	st.RelativeGap = st.AbsoluteGap / (1 + math.Abs(st.Dual.Objective) + math.Abs(st.Primal.Objective))
}
