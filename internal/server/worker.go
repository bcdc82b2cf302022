package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/anneal/internal/anneal"
	"github.com/cwbudde/anneal/internal/problems"
	"github.com/cwbudde/anneal/internal/store"
)

// runJob executes an annealing job in the background. The run itself is
// a single uninterrupted sequence of steps on this goroutine; the job is
// persisted (record plus trajectory, if recorded) only after it
// completes. runStore may be nil to disable persistence.
func runJob(ctx context.Context, jm *JobManager, runStore store.Store, dataDir string, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	jobsStarted.Inc()
	slog.Info("Starting job", "job_id", jobID, "problem", job.Config.Problem, "steps", job.Config.Steps)

	// Check for cancellation before the uninterruptible run.
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	start := time.Now()
	summary, err := problems.Run(job.Config.Problem, job.Config.Size, problems.RunParams{
		Steps:    job.Config.Steps,
		Seed:     job.Config.Seed,
		Schedule: job.Config.Schedule,
		Temp:     job.Config.Temp,
		Record:   job.Config.Record,
	})
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	elapsed := time.Since(start)

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.InitialEnergy = summary.InitialEnergy
		j.FinalEnergy = summary.FinalEnergy
		j.FinalState = summary.FinalState
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	jobsCompleted.Inc()
	runDuration.Observe(elapsed.Seconds())

	sps := float64(0)
	if elapsed.Seconds() > 0 {
		sps = float64(job.Config.Steps) / elapsed.Seconds()
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"initial_energy", summary.InitialEnergy,
		"final_energy", summary.FinalEnergy,
		"steps_per_second", sps,
	)

	if runStore != nil {
		if err := persistRun(runStore, dataDir, jobID, job.Config, summary); err != nil {
			// The run still succeeded; keep the job completed but log it.
			slog.Error("Failed to persist run", "job_id", jobID, "error", err)
		}
	}

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		FinalEnergy: summary.FinalEnergy,
		Elapsed:     elapsed.Seconds(),
		Timestamp:   time.Now(),
	})

	return nil
}

// persistRun saves the completed run's record and, when a trajectory was
// recorded, its trace file.
func persistRun(runStore store.Store, dataDir, jobID string, config JobConfig, summary *problems.Summary) error {
	record := store.NewRunRecord(jobID, config.runConfig(), summary.InitialEnergy, summary.FinalEnergy, summary.FinalState)
	if err := runStore.SaveRun(jobID, record); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	if summary.Energies == nil {
		return nil
	}
	return writeTrace(dataDir, jobID, summary)
}

// writeTrace writes the recorded trajectory as trace.jsonl, pairing each
// energy with the schedule temperature of its step.
func writeTrace(dataDir, jobID string, summary *problems.Summary) error {
	sched, err := anneal.ScheduleByName(summary.Schedule, summary.Temp)
	if err != nil {
		return err
	}

	tw, err := store.NewTraceWriter(dataDir, jobID)
	if err != nil {
		return err
	}

	maxSteps := len(summary.Energies) - 1
	for i, energy := range summary.Energies {
		frac := float64(0)
		if maxSteps > 0 {
			frac = float64(i) / float64(maxSteps)
		}
		entry := store.TraceEntry{Step: i, Energy: energy, Temperature: sched(frac)}
		if err := tw.Write(entry); err != nil {
			tw.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	slog.Debug("Trace written", "job_id", jobID, "entries", len(summary.Energies))
	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	jobsFailed.Inc()
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
