package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Query server status or specific job",
	Long: `Queries the server for job status information.
If no job-id is provided, lists all jobs.
If job-id is provided, shows detailed status for that job.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listServerJobs(fmt.Sprintf("%s/api/v1/jobs", serverURL))
	}
	jobID := args[0]
	return getServerJobStatus(fmt.Sprintf("%s/api/v1/jobs/%s/status", serverURL, jobID), jobID)
}

func listServerJobs(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var jobs []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("Found %d job(s):\n\n", len(jobs))
	for _, job := range jobs {
		fmt.Printf("Job ID: %s\n", job["id"])
		fmt.Printf("  State: %s\n", job["state"])
		if cfg, ok := job["config"].(map[string]interface{}); ok {
			fmt.Printf("  Problem: %v\n", cfg["problem"])
			fmt.Printf("  Steps: %v\n", cfg["steps"])
		}
		if job["state"] == "completed" {
			fmt.Printf("  Energy: %.4f -> %.4f\n", job["initialEnergy"], job["finalEnergy"])
		}
		fmt.Println()
	}

	return nil
}

func getServerJobStatus(url, jobID string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Job: %s\n", status["id"])
	fmt.Printf("State: %s\n", status["state"])
	fmt.Println()

	if cfg, ok := status["config"].(map[string]interface{}); ok {
		fmt.Println("Configuration:")
		fmt.Printf("  Problem: %v\n", cfg["problem"])
		fmt.Printf("  Size: %v\n", cfg["size"])
		fmt.Printf("  Steps: %v\n", cfg["steps"])
		fmt.Printf("  Seed: %v\n", cfg["seed"])
		if cfg["schedule"] != nil {
			fmt.Printf("  Schedule: %v\n", cfg["schedule"])
		}
		fmt.Println()
	}

	fmt.Println("Progress:")
	if status["state"] == "completed" {
		initial, _ := status["initialEnergy"].(float64)
		final, _ := status["finalEnergy"].(float64)
		fmt.Printf("  Initial Energy: %.4f\n", initial)
		fmt.Printf("  Final Energy: %.4f\n", final)
		if initial > 0 {
			improvement := initial - final
			fmt.Printf("  Improvement: %.4f (%.1f%%)\n", improvement, improvement/initial*100)
		}
	}

	if v, ok := status["elapsed"].(float64); ok {
		elapsed := time.Duration(v * float64(time.Second))
		fmt.Printf("  Elapsed: %s\n", elapsed.Round(time.Millisecond))
	}

	if v, ok := status["stepsPerSec"].(float64); ok && v > 0 {
		fmt.Printf("  Throughput: %.0f steps/sec\n", v)
	}

	if v, ok := status["error"].(string); ok && v != "" {
		fmt.Printf("\nError: %s\n", v)
	}

	return nil
}
