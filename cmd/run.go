package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/anneal/internal/anneal"
	"github.com/cwbudde/anneal/internal/problems"
	"github.com/cwbudde/anneal/internal/store"
	"github.com/spf13/cobra"
)

var (
	runProblem  string
	runSize     int
	runSteps    int
	runSeed     int64
	runSchedule string
	runTemp     float64
	runRecord   bool
	runTraceOut string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single annealing run",
	Long: `Runs simulated annealing on one of the built-in problems and prints
the outcome. With --trace-out the full energy trajectory is written as JSONL.`,
	RunE: runAnnealing,
}

func init() {
	runCmd.Flags().StringVar(&runProblem, "problem", "sort", "Problem to solve (sort, sphere, rastrigin)")
	runCmd.Flags().IntVar(&runSize, "size", 0, "Problem instance size (0 = problem default)")
	runCmd.Flags().IntVar(&runSteps, "steps", 10000, "Annealing step budget")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&runSchedule, "schedule", "linear", "Cooling schedule (linear, quadratic, cosine, exponential)")
	runCmd.Flags().Float64Var(&runTemp, "temp", 0, "Initial temperature (0 = problem default)")
	runCmd.Flags().BoolVar(&runRecord, "record", false, "Record the full energy trajectory")
	runCmd.Flags().StringVar(&runTraceOut, "trace-out", "", "Write the trajectory as JSONL to this file (implies --record)")

	rootCmd.AddCommand(runCmd)
}

func runAnnealing(cmd *cobra.Command, args []string) error {
	record := runRecord || runTraceOut != ""

	slog.Info("Starting run", "problem", runProblem, "steps", runSteps, "seed", runSeed)

	start := time.Now()
	summary, err := problems.Run(runProblem, runSize, problems.RunParams{
		Steps:    runSteps,
		Seed:     runSeed,
		Schedule: runSchedule,
		Temp:     runTemp,
		Record:   record,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	sps := float64(0)
	if elapsed.Seconds() > 0 {
		sps = float64(runSteps) / elapsed.Seconds()
	}

	slog.Info("Run complete",
		"elapsed", elapsed,
		"initial_energy", summary.InitialEnergy,
		"final_energy", summary.FinalEnergy,
		"steps_per_second", fmt.Sprintf("%.0f", sps),
	)

	if runTraceOut != "" {
		if err := writeTraceFile(runTraceOut, summary); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
		fmt.Printf("Wrote trace to %s (%d entries)\n", runTraceOut, len(summary.Energies))
	}

	fmt.Printf("%s (n=%d): energy %.4f -> %.4f in %d steps (%.0f steps/sec)\n",
		summary.Problem, summary.Size, summary.InitialEnergy, summary.FinalEnergy, summary.Steps, sps)
	fmt.Printf("final state: %s\n", summary.FinalState)

	return nil
}

// writeTraceFile writes the recorded trajectory as JSONL, one entry per
// step with the schedule temperature of that step.
func writeTraceFile(path string, summary *problems.Summary) error {
	sched, err := anneal.ScheduleByName(summary.Schedule, summary.Temp)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	maxSteps := len(summary.Energies) - 1
	for i, energy := range summary.Energies {
		frac := float64(0)
		if maxSteps > 0 {
			frac = float64(i) / float64(maxSteps)
		}
		entry := store.TraceEntry{Step: i, Energy: energy, Temperature: sched(frac)}
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}
