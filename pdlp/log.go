package pdlp

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// iterationLog renders the §6 human-readable iteration table. It is a
// data-output concern, deliberately separate from the zap diagnostics
// StateManager/Solver emit: the teacher's own tools keep tabular output
// off the structured-logging path, and this preserves that split.
type iterationLog struct {
	writer table.Writer
	sign   float64
}

func newIterationLog(minimize bool) *iterationLog {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.AppendHeader(table.Row{"Iteration", "step_size", "Primal objective (violation)", "Dual objective (violation)", "Gap"})
	sign := 1.0
	if !minimize {
		sign = -1.0
	}
	return &iterationLog{writer: w, sign: sign}
}

func marker(ok bool) string {
	if ok {
		return "*"
	}
	return " "
}

func (l *iterationLog) row(label string, restartMark byte, st *State, tolerance float64) {
	primalOK := st.Primal.RelativeViolationNorm <= tolerance
	dualOK := st.Dual.RelativeViolationNorm <= tolerance
	gapOK := st.RelativeGap <= tolerance

	dualRelative := st.Dual.RelativeViolationNorm
	if dualOK {
		dualRelative = 0
	}

	iterCell := label
	if restartMark != ' ' {
		iterCell = fmt.Sprintf("%s%c", label, restartMark)
	}

	l.writer.AppendRow(table.Row{
		iterCell,
		fmt.Sprintf("%.2e", st.StepSizeCurrent),
		fmt.Sprintf("%s%.4e (%.2e)%s", marker(primalOK), st.Primal.Objective*l.sign, st.Primal.RelativeViolationNorm, marker(primalOK)),
		fmt.Sprintf("%s%.4e (%.2e)%s", marker(dualOK), st.Dual.Objective*l.sign, dualRelative, marker(dualOK)),
		fmt.Sprintf("%.3e%s", st.RelativeGap, marker(gapOK)),
	})
}

func (l *iterationLog) initial(st *State, tolerance float64) {
	l.row("INITIAL", ' ', st, tolerance)
}

func (l *iterationLog) body(st *State, tolerance float64) {
	mark := byte(' ')
	if st.IsEnabledRestart {
		mark = st.RestartMode.marker()
	}
	l.row(fmt.Sprintf("%d", st.TotalIteration), mark, st, tolerance)
}

func (l *iterationLog) render() {
	l.writer.Render()
}
