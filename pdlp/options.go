package pdlp

import "time"

// Options configures a Solver. Fields correspond to the configuration
// record's option table, plus GeneralTimeMax: tolerances, budgets, interval
// cadences, scaling parameters, and step-size/restart tuning
// parameters. Construct with DefaultOptions and mutate the fields of
// interest before calling NewSolver; there is no functional-options
// indirection.
type Options struct {
	// Tolerance bounds primal/dual relative violation and relative gap
	// for an OPTIMAL termination.
	Tolerance float64

	// TimeMax is the internal wall-clock cap.
	TimeMax time.Duration
	// TimeOffset is added to elapsed time before comparing against a
	// surrounding global time budget; zero if there is none.
	TimeOffset time.Duration
	// GeneralTimeMax is that surrounding global time budget (the
	// enclosing, out-of-scope controller's own wall-clock cap, named
	// "general.time_max" in the source). Defaults to an effectively
	// unbounded value so a standalone Solver run is never cut short by
	// a budget it wasn't given.
	GeneralTimeMax time.Duration

	// IterationMax caps total_iteration.
	IterationMax int

	// RestartCheckInterval is the number of iterations between restart
	// evaluations.
	RestartCheckInterval int
	// ConvergenceCheckInterval is the number of iterations between
	// convergence-metric refreshes.
	ConvergenceCheckInterval int
	// LogInterval is the number of iterations between log row
	// emissions; it also forces a convergence refresh.
	LogInterval int

	// CountsOfRuizScaling is the number of Ruiz equilibration passes
	// performed during preprocessing.
	CountsOfRuizScaling int
	// IsEnabledPockChambolleScaling enables a Pock-Chambolle pass after
	// Ruiz scaling.
	IsEnabledPockChambolleScaling bool

	// StepSizeReduceExponent, StepSizeExtendExponent are the (negative)
	// exponents p_red, p_ext used in the step-size candidate formula.
	StepSizeReduceExponent float64
	StepSizeExtendExponent float64

	// RestartThresholdSufficient, RestartThresholdNecessary,
	// RestartThresholdArtificial are β_suff, β_nec, β_art in the
	// restart controller.
	RestartThresholdSufficient float64
	RestartThresholdNecessary  float64
	RestartThresholdArtificial float64

	// Verbose enables the human-readable iteration log: a table with a
	// header and one row per logged iteration, printed when Run ends.
	Verbose bool
}

// DefaultOptions returns the conventional PDLP tuning used throughout
// the literature and the original implementation's default
// configuration.
func DefaultOptions() Options {
	return Options{
		Tolerance:                     1e-6,
		TimeMax:                       600 * time.Second,
		TimeOffset:                    0,
		GeneralTimeMax:                100000 * time.Hour,
		IterationMax:                  100000,
		RestartCheckInterval:          40,
		ConvergenceCheckInterval:      40,
		LogInterval:                   200,
		CountsOfRuizScaling:           10,
		IsEnabledPockChambolleScaling: true,
		StepSizeReduceExponent:        -0.3,
		StepSizeExtendExponent:        -0.6,
		RestartThresholdSufficient:    0.1,
		RestartThresholdNecessary:     0.9,
		RestartThresholdArtificial:    0.5,
		Verbose:                       false,
	}
}
