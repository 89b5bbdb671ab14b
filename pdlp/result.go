package pdlp

import (
	"time"

	"github.com/gonum-community/pdlp/lp"
	"github.com/gonum-community/pdlp/sparse"
)

// ResultBlock is an immutable snapshot of one side's (primal or dual)
// terminal convergence metrics and averaged solution.
type ResultBlock struct {
	Solution              *sparse.Vector
	Objective             float64
	AbsoluteViolationNorm float64
	RelativeViolationNorm float64
}

// Result is the immutable snapshot of a completed Solver run: terminal
// iteration count, elapsed time, both convergence blocks, the
// termination status, and the options the run was configured with
// (§4.12). LastRestartMode additionally exposes which candidate
// {Current, Average} the last restart check chose, whether or not that
// check fired a restart (RestartNone if no check ran), a detail the
// distilled spec's Result bullet drops but the source's controller
// layer surfaces for diagnostics.
type Result struct {
	Iterations        int
	ElapsedTime       time.Duration
	Primal            ResultBlock
	Dual              ResultBlock
	AbsoluteGap       float64
	RelativeGap       float64
	TerminationStatus TerminationStatus
	Options           Options
	LastRestartMode   RestartMode
}

func newResult(sm *StateManager) *Result {
	st := sm.state
	return &Result{
		Iterations:  st.TotalIteration,
		ElapsedTime: st.ElapsedTime,
		Primal: ResultBlock{
			Solution:              st.Primal.Average.Clone(),
			Objective:             st.Primal.Objective,
			AbsoluteViolationNorm: st.Primal.AbsoluteViolationNorm,
			RelativeViolationNorm: st.Primal.RelativeViolationNorm,
		},
		Dual: ResultBlock{
			Solution:              st.Dual.Average.Clone(),
			Objective:             st.Dual.Objective,
			AbsoluteViolationNorm: st.Dual.AbsoluteViolationNorm,
			RelativeViolationNorm: st.Dual.RelativeViolationNorm,
		},
		AbsoluteGap:       st.AbsoluteGap,
		RelativeGap:       st.RelativeGap,
		TerminationStatus: st.TerminationStatus,
		Options:           sm.options,
		LastRestartMode:   st.RestartMode,
	}
}

// UnscaledPrimalSolution reverses the composite column scaling
// accumulated on inst.A during preprocessing, reconstructing the
// user-space primal solution C·x̄ (§4.12).
func (r *Result) UnscaledPrimalSolution(inst *lp.Instance) *sparse.Vector {
	return inst.A.ColumnScaler().Apply(r.Primal.Solution)
}

// UnscaledDualSolution reverses the composite row scaling accumulated
// on inst.A during preprocessing, reconstructing the user-space dual
// solution R·ȳ (§4.12).
func (r *Result) UnscaledDualSolution(inst *lp.Instance) *sparse.Vector {
	return inst.A.RowScaler().Apply(r.Dual.Solution)
}
