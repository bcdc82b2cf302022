package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/anneal/internal/config"
	"github.com/cwbudde/anneal/internal/store"
	"github.com/spf13/cobra"
)

var (
	resultsDataDir string
	resultsBackend string
	keepLast       int
	olderThanDays  int
	forceClean     bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage persisted run records",
	Long: `Manage persisted annealing runs including listing, inspecting and
cleaning old records. Records are written when a run completes; deleting a
record also removes its trace file where one exists.`,
}

var listResultsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all persisted runs",
	Long:  `Display all run records with problem, final energy, timestamp and on-disk size.`,
	RunE:  runListResults,
}

var showResultsCmd = &cobra.Command{
	Use:   "show [job-id]",
	Short: "Show one run record in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowResult,
}

var cleanResultsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old run records",
	Long: `Delete old run records based on retention policy. You can keep the
last N runs or delete runs older than N days.`,
	RunE: runCleanResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.AddCommand(listResultsCmd)
	resultsCmd.AddCommand(showResultsCmd)
	resultsCmd.AddCommand(cleanResultsCmd)

	resultsCmd.PersistentFlags().StringVar(&resultsDataDir, "data-dir", "./data", "Base directory for run storage")
	resultsCmd.PersistentFlags().StringVar(&resultsBackend, "store", "fs", "Store backend: fs or sqlite")

	cleanResultsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the last N runs (0 = keep all)")
	cleanResultsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
	cleanResultsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func resultsStore() (store.Store, func(), error) {
	return openStore(config.StoreConfig{Backend: resultsBackend, DataDir: resultsDataDir})
}

func runListResults(cmd *cobra.Command, args []string) error {
	runStore, closeStore, err := resultsStore()
	if err != nil {
		return err
	}
	defer closeStore()

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB ID\tPROBLEM\tSIZE\tSTEPS\tFINAL ENERGY\tCOMPLETED\tSIZE")
	fmt.Fprintln(w, "------\t-------\t----\t-----\t------------\t---------\t----")

	for _, info := range infos {
		runDir := filepath.Join(resultsDataDir, "runs", info.JobID)
		size, err := getDirSize(runDir)
		sizeStr := "-"
		if err == nil {
			sizeStr = formatBytes(size)
		}

		displayID := info.JobID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.6f\t%s\t%s\n",
			displayID,
			info.Problem,
			info.Size,
			info.Steps,
			info.FinalEnergy,
			info.Timestamp.Format("2006-01-02 15:04:05"),
			sizeStr,
		)
	}

	w.Flush()

	fmt.Printf("\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowResult(cmd *cobra.Command, args []string) error {
	runStore, closeStore, err := resultsStore()
	if err != nil {
		return err
	}
	defer closeStore()

	record, err := runStore.LoadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Job: %s\n", record.JobID)
	fmt.Printf("Completed: %s\n\n", record.Timestamp.Format("2006-01-02 15:04:05"))

	fmt.Println("Configuration:")
	fmt.Printf("  Problem: %s\n", record.Config.Problem)
	fmt.Printf("  Size: %d\n", record.Config.Size)
	fmt.Printf("  Steps: %d\n", record.Config.Steps)
	fmt.Printf("  Seed: %d\n", record.Config.Seed)
	if record.Config.Schedule != "" {
		fmt.Printf("  Schedule: %s\n", record.Config.Schedule)
	}
	if record.Config.Temp > 0 {
		fmt.Printf("  Temperature: %g\n", record.Config.Temp)
	}
	fmt.Println()

	fmt.Println("Outcome:")
	fmt.Printf("  Initial Energy: %.6f\n", record.InitialEnergy)
	fmt.Printf("  Final Energy: %.6f\n", record.FinalEnergy)
	if record.InitialEnergy > 0 {
		improvement := record.InitialEnergy - record.FinalEnergy
		fmt.Printf("  Improvement: %.6f (%.1f%%)\n", improvement, improvement/record.InitialEnergy*100)
	}
	fmt.Printf("  Final State: %s\n", record.FinalState)

	// Trace files exist only for runs recorded with a trajectory.
	if reader, err := store.NewTraceReader(resultsDataDir, record.JobID); err == nil {
		entries, err := reader.ReadAll()
		reader.Close()
		if err == nil {
			fmt.Printf("\nTrace: %d entries\n", len(entries))
		}
	}

	return nil
}

func runCleanResults(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	runStore, closeStore, err := resultsStore()
	if err != nil {
		return err
	}
	defer closeStore()

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No runs to clean.")
		return nil
	}

	toDelete := selectRunsForDeletion(infos, keepLast, olderThanDays)
	if len(toDelete) == 0 {
		fmt.Println("No runs match deletion criteria.")
		return nil
	}

	fmt.Printf("Found %d run(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		displayID := info.JobID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}
		fmt.Printf("  - %s (%s, %s)\n",
			displayID,
			info.Problem,
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := runStore.DeleteRun(info.JobID); err != nil {
			slog.Error("Failed to delete run", "job_id", info.JobID, "error", err)
			failed++
		} else {
			slog.Info("Deleted run", "job_id", info.JobID)
			deleted++
		}
	}

	fmt.Printf("\nDeleted %d run(s), %d failed.\n", deleted, failed)
	return nil
}

// selectRunsForDeletion applies the retention policy: runs older than the
// age cutoff go, then the oldest beyond the keep-last count.
func selectRunsForDeletion(infos []store.RunInfo, keepLast int, olderThanDays int) []store.RunInfo {
	var toDelete []store.RunInfo
	selected := make(map[string]bool)

	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		for _, info := range infos {
			if info.Timestamp.Before(cutoff) {
				toDelete = append(toDelete, info)
				selected[info.JobID] = true
			}
		}
	}

	if keepLast > 0 && len(infos) > keepLast {
		sorted := make([]store.RunInfo, len(infos))
		copy(sorted, infos)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})

		for _, info := range sorted[:len(sorted)-keepLast] {
			if !selected[info.JobID] {
				toDelete = append(toDelete, info)
				selected[info.JobID] = true
			}
		}
	}

	return toDelete
}

// getDirSize calculates the total size of a directory
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
