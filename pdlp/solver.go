package pdlp

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gonum-community/pdlp/lp"
)

// Solver drives a StateManager through the core loop of §4.11: on each
// iteration it checks the four termination conditions, updates the
// solution and its average, runs the restart and convergence checks on
// their configured cadences, optionally emits a log row, and either
// restarts or advances the inner loop.
type Solver struct {
	instance *lp.Instance
	options  Options
	manager  *StateManager
	logger   *zap.SugaredLogger
	log      *iterationLog
	result   *Result
}

// NewSolver validates options and constructs a Solver over instance.
// Validation failures (negative IterationMax, non-positive cadences,
// negative Tolerance, non-negative step-size exponents) are
// caller-correctable and returned as errors, not panics. TimeMax is
// not validated.
func NewSolver(instance *lp.Instance, options Options, logger *zap.SugaredLogger) (*Solver, error) {
	if options.IterationMax < 0 {
		return nil, errors.New("pdlp: IterationMax must be non-negative")
	}
	if options.RestartCheckInterval <= 0 {
		return nil, errors.New("pdlp: RestartCheckInterval must be positive")
	}
	if options.ConvergenceCheckInterval <= 0 {
		return nil, errors.New("pdlp: ConvergenceCheckInterval must be positive")
	}
	if options.LogInterval <= 0 {
		return nil, errors.New("pdlp: LogInterval must be positive")
	}
	if options.Tolerance < 0 {
		return nil, errors.New("pdlp: Tolerance must be non-negative")
	}
	if options.StepSizeReduceExponent >= 0 || options.StepSizeExtendExponent >= 0 {
		return nil, errors.New("pdlp: step-size exponents must be negative")
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Solver{
		instance: instance,
		options:  options,
		manager:  NewStateManager(instance, options, logger),
		logger:   logger,
		log:      newIterationLog(instance.Minimize),
	}, nil
}

// Run executes the core loop (§4.11) to completion: the loop ends when
// one of the time, iteration, optimality, or infeasibility-heuristic
// conditions fires, or when ctx is cancelled (reported as Interruption
// — a pragmatic stand-in for the source's externally-owned controller,
// which polls a caller-supplied predicate and sets INTERRUPTION itself
// rather than the core doing so; ctx.Done() plays that role here).
func (s *Solver) Run(ctx context.Context) {
	sm := s.manager
	st := sm.state
	opt := s.options

	startedAt := time.Now()

	sm.RefreshConvergenceInformation()

	if opt.Verbose {
		s.log.initial(st, opt.Tolerance)
	}

	sm.SetupNewInnerLoop()
	sm.ResetIteration()

	previousIterationLogged := false

	for {
		st.ElapsedTime = time.Since(startedAt)

		if ctx.Err() != nil {
			st.TerminationStatus = Interruption
			s.logTerminationRow(&previousIterationLogged)
			break
		}

		if st.ElapsedTime > opt.TimeMax {
			st.TerminationStatus = TimeOver
			s.logTerminationRow(&previousIterationLogged)
			break
		}
		if st.ElapsedTime+opt.TimeOffset > opt.GeneralTimeMax {
			st.TerminationStatus = TimeOver
			s.logTerminationRow(&previousIterationLogged)
			break
		}

		if st.TotalIteration >= opt.IterationMax {
			st.TerminationStatus = IterationOver
			s.logTerminationRow(&previousIterationLogged)
			break
		}

		if st.Primal.RelativeViolationNorm <= opt.Tolerance &&
			st.Dual.RelativeViolationNorm <= opt.Tolerance &&
			st.RelativeGap <= opt.Tolerance {
			st.TerminationStatus = Optimal
			s.logTerminationRow(&previousIterationLogged)
			break
		}

		if st.Dual.RelativeViolationNorm <= opt.Tolerance &&
			st.Dual.Objective >= st.Primal.ObjectiveUpperBound+math.Max(1, math.Abs(st.Primal.ObjectiveUpperBound)*machineEpsilon) {
			st.TerminationStatus = Infeasible
			s.logTerminationRow(&previousIterationLogged)
			break
		}

		sm.UpdateSolution()
		sm.UpdateAveragedSolution()

		if st.TotalIteration%opt.RestartCheckInterval == 0 {
			sm.UpdateRestartInformation()
		} else {
			sm.SkipRestart()
		}

		if st.TotalIteration%opt.ConvergenceCheckInterval == 0 || st.TotalIteration%opt.LogInterval == 0 {
			sm.RefreshConvergenceInformation()
		}

		if st.TotalIteration%opt.LogInterval == 0 {
			if opt.Verbose {
				s.log.body(st, opt.Tolerance)
			}
			previousIterationLogged = true
		} else {
			previousIterationLogged = false
		}

		if st.IsEnabledRestart {
			sm.UpdateRestartSolution()
			sm.UpdatePrimalWeight()
			sm.SetupNewInnerLoop()
		} else {
			sm.NextInnerIteration()
		}
		sm.NextTotalIteration()
	}

	if opt.Verbose {
		s.log.render()
	}

	s.logger.Infow("pdlp run finished",
		"termination_status", st.TerminationStatus.String(),
		"total_iteration", st.TotalIteration,
		"elapsed_time", st.ElapsedTime)

	s.result = newResult(sm)
}

// logTerminationRow emits the final log row unless one was already
// emitted this iteration, so the user sees the terminal state (§4.11
// final paragraph).
func (s *Solver) logTerminationRow(previousIterationLogged *bool) {
	if !s.options.Verbose {
		return
	}
	if !*previousIterationLogged {
		s.log.body(s.manager.state, s.options.Tolerance)
	}
}

// Result returns the immutable snapshot built at the end of Run. It
// must only be called after Run has returned.
func (s *Solver) Result() *Result {
	return s.result
}
