package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/anneal/internal/opt"
	"github.com/cwbudde/anneal/internal/problems"
	"github.com/spf13/cobra"
)

var (
	benchDim   int
	benchSteps int
	benchPop   int
	benchSeed  int64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare annealing against the mayfly optimizer",
	Long: `Runs simulated annealing and the mayfly algorithm on the continuous
benchmark functions with a matched evaluation budget and prints the results
side by side.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchDim, "dim", 3, "Problem dimensionality")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 30000, "Evaluation budget per optimizer")
	benchCmd.Flags().IntVar(&benchPop, "pop", 30, "Mayfly population size")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "Random seed")

	rootCmd.AddCommand(benchCmd)
}

// benchCase is one benchmark function with its search box.
type benchCase struct {
	name  string
	eval  func([]float64) float64
	bound float64
}

func runBench(cmd *cobra.Command, args []string) error {
	cases := []benchCase{
		{name: problems.ProblemSphere, eval: problems.Sphere, bound: 5.12},
		{name: problems.ProblemRastrigin, eval: problems.Rastrigin, bound: 5.12},
	}

	// Give mayfly the same evaluation budget: iters * pop ~= steps.
	mayflyIters := benchSteps / benchPop
	if mayflyIters < 1 {
		mayflyIters = 1
	}

	optimizers := []struct {
		name string
		opt  opt.Optimizer
	}{
		{"anneal", opt.NewAnneal(benchSteps, benchSeed, 1.0)},
		{"mayfly", opt.NewMayfly(mayflyIters, benchPop, benchSeed)},
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tOPTIMIZER\tBEST COST\tDISTANCE\tELAPSED")
	fmt.Fprintln(w, "-------\t---------\t---------\t--------\t-------")

	for _, bc := range cases {
		lower := make([]float64, benchDim)
		upper := make([]float64, benchDim)
		for i := range lower {
			lower[i] = -bc.bound
			upper[i] = bc.bound
		}

		for _, o := range optimizers {
			start := time.Now()
			best, cost := o.opt.Run(bc.eval, lower, upper, benchDim)
			elapsed := time.Since(start)

			// Distance of the found optimum from the origin, where both
			// benchmark functions have their global minimum.
			dist := 0.0
			for _, x := range best {
				dist += x * x
			}
			dist = math.Sqrt(dist)

			fmt.Fprintf(w, "%s\t%s\t%.6f\t%.4f\t%s\n",
				bc.name, o.name, cost, dist, elapsed.Round(time.Millisecond))
		}
	}

	return w.Flush()
}
