package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/anneal/internal/store"
	"github.com/google/uuid"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// JobConfig holds the parameters of an annealing job.
type JobConfig struct {
	Problem  string  `json:"problem"`
	Size     int     `json:"size"`
	Steps    int     `json:"steps"`
	Seed     int64   `json:"seed"`
	Schedule string  `json:"schedule,omitempty"`
	Temp     float64 `json:"temp,omitempty"`

	// Record requests the full energy trajectory; it is persisted next
	// to the run record when the job completes.
	Record bool `json:"record,omitempty"`
}

// runConfig converts to the store's record copy of the configuration.
func (c JobConfig) runConfig() store.RunConfig {
	return store.RunConfig{
		Problem:  c.Problem,
		Size:     c.Size,
		Steps:    c.Steps,
		Seed:     c.Seed,
		Schedule: c.Schedule,
		Temp:     c.Temp,
	}
}

// Job represents one annealing run managed by the server. Each job owns
// its run exclusively; jobs never share run state.
type Job struct {
	ID            string     `json:"id"`
	State         JobState   `json:"state"`
	Config        JobConfig  `json:"config"`
	InitialEnergy float64    `json:"initialEnergy"`
	FinalEnergy   float64    `json:"finalEnergy"`
	FinalState    string     `json:"finalState,omitempty"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a job by ID
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	return job, exists
}

// ListJobs returns all jobs
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// DeleteJob removes a job from the manager and releases its SSE clients.
func (jm *JobManager) DeleteJob(id string) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if _, exists := jm.jobs[id]; !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	delete(jm.jobs, id)
	jm.broadcaster.CleanupJob(id)
	return nil
}

// GetRunningJobs returns all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			runningJobs = append(runningJobs, job)
		}
	}
	return runningJobs
}
