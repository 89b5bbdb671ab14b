package pdlp

// TerminationStatus reports why a Solver run ended. The zero value is
// IterationOver, so a run that exits the loop without any termination
// check firing still reports a meaningful status.
type TerminationStatus int

const (
	IterationOver TerminationStatus = iota
	Interruption
	TimeOver
	Optimal
	Infeasible
)

func (s TerminationStatus) String() string {
	return terminationStatusNames[s]
}

var terminationStatusNames = map[TerminationStatus]string{
	Interruption:  "INTERRUPTION",
	TimeOver:      "TIME_OVER",
	IterationOver: "ITERATION_OVER",
	Optimal:       "OPTIMAL",
	Infeasible:    "INFEASIBLE",
}

var terminationStatusByName = map[string]TerminationStatus{
	"INTERRUPTION":   Interruption,
	"TIME_OVER":      TimeOver,
	"ITERATION_OVER": IterationOver,
	"OPTIMAL":        Optimal,
	"INFEASIBLE":     Infeasible,
}

// ParseTerminationStatus maps a canonical status string back to its
// TerminationStatus, the inverse of String, reporting ok=false for any
// unrecognized name.
func ParseTerminationStatus(s string) (status TerminationStatus, ok bool) {
	status, ok = terminationStatusByName[s]
	return status, ok
}
