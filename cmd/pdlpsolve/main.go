// Command pdlpsolve runs the pdlp core on one of a few small built-in
// example linear programs and prints the terminal result. It exists to
// exercise the solver end-to-end from the command line; it is not a
// general-purpose LP file reader (the core defines no wire or on-disk
// format).
package main // import "github.com/gonum-community/pdlp/cmd/pdlpsolve"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/gonum-community/pdlp/lp"
	"github.com/gonum-community/pdlp/pdlp"
)

func main() {
	log.SetPrefix("pdlpsolve: ")
	log.SetFlags(0)

	example := flag.String("example", "s2", "built-in example to solve: s1, s2, or s3")
	tolerance := flag.Float64("tolerance", 1e-8, "relative tolerance for OPTIMAL termination")
	iterationMax := flag.Int("iteration-max", 20000, "cap on total iterations")
	timeMax := flag.Duration("time-max", 30*time.Second, "wall-clock cap")
	verbose := flag.Bool("verbose", false, "print the per-iteration log table")

	flag.Parse()

	inst, err := builtinExample(*example)
	if err != nil {
		log.Fatalf("%v", err)
	}

	options := pdlp.DefaultOptions()
	options.Tolerance = *tolerance
	options.IterationMax = *iterationMax
	options.TimeMax = *timeMax
	options.Verbose = *verbose

	logger := zap.NewExample().Sugar()
	defer logger.Sync()

	solver, err := pdlp.NewSolver(inst, options, logger)
	if err != nil {
		log.Fatalf("constructing solver: %v", err)
	}

	solver.Run(context.Background())
	result := solver.Result()

	fmt.Printf("termination: %s\n", result.TerminationStatus)
	fmt.Printf("iterations:  %d\n", result.Iterations)
	fmt.Printf("elapsed:     %s\n", result.ElapsedTime)
	fmt.Printf("primal obj:  %.10g (relative violation %.3e)\n", result.Primal.Objective, result.Primal.RelativeViolationNorm)
	fmt.Printf("dual obj:    %.10g (relative violation %.3e)\n", result.Dual.Objective, result.Dual.RelativeViolationNorm)
	fmt.Printf("relative gap: %.3e\n", result.RelativeGap)

	unscaled := result.UnscaledPrimalSolution(inst)
	fmt.Printf("x̄ (unscaled):")
	for i := 0; i < unscaled.Len(); i++ {
		fmt.Printf(" %.6g", unscaled.At(i))
	}
	fmt.Println()
}

// builtinExample builds one of spec scenarios S1-S3: small, literal LPs
// useful for smoke-testing a build.
func builtinExample(name string) (*lp.Instance, error) {
	switch name {
	case "s1":
		// min x s.t. x >= 1, 0 <= x <= 10.
		a := mat.NewDense(1, 1, []float64{1})
		return lp.NewInstanceFromDense(
			[]float64{1}, []float64{0}, []float64{10},
			a,
			[]float64{1}, []float64{0}, []float64{math.Inf(1)},
			[2]int{0, 0}, [2]int{0, 0}, [2]int{0, 1},
			true, 0,
			[]bool{false}, []bool{false},
			[]float64{0}, []float64{0},
		)
	case "s2":
		// min x1+x2 s.t. x1+x2 = 3, 0 <= xi <= 5.
		a := mat.NewDense(1, 2, []float64{1, 1})
		return lp.NewInstanceFromDense(
			[]float64{1, 1}, []float64{0, 0}, []float64{5, 5},
			a,
			[]float64{3}, []float64{-math.Inf(1)}, []float64{math.Inf(1)},
			[2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1},
			true, 0,
			[]bool{false, false}, []bool{false, false},
			[]float64{0, 0}, []float64{0},
		)
	case "s3":
		// min -(x1+x2) s.t. x1+x2 <= 1, x1-x2 <= 0.5, 0 <= xi <= 1.
		// Both rows are less-or-equal and are passed reflected:
		// -x1-x2 >= -1 and -x1+x2 >= -0.5.
		a := mat.NewDense(2, 2, []float64{-1, -1, -1, 1})
		return lp.NewInstanceFromDense(
			[]float64{-1, -1}, []float64{0, 0}, []float64{1, 1},
			a,
			[]float64{-1, -0.5}, []float64{0, 0}, []float64{math.Inf(1), math.Inf(1)},
			[2]int{0, 2}, [2]int{2, 2}, [2]int{2, 2},
			true, 0,
			[]bool{false, false}, []bool{false, false},
			[]float64{0, 0}, []float64{0, 0},
		)
	default:
		return nil, fmt.Errorf("unknown example %q (want s1, s2, or s3)", name)
	}
}
