package store

import "time"

// RunConfig holds the parameters an annealing run was started with
// (record copy). This avoids import cycles with the server package.
type RunConfig struct {
	Problem  string  `json:"problem"`
	Size     int     `json:"size"`
	Steps    int     `json:"steps"`
	Seed     int64   `json:"seed"`
	Schedule string  `json:"schedule,omitempty"`
	Temp     float64 `json:"temp,omitempty"`
}

// RunRecord is the persisted outcome of a completed run. Nothing is
// written while a run is in flight; records exist only for finished runs,
// so there is no notion of resuming from one.
type RunRecord struct {
	// JobID is the unique identifier of the run.
	JobID string `json:"jobId"`

	// Config is the run configuration, kept so records are
	// self-describing and reproducible (same config + seed replays the
	// run).
	Config RunConfig `json:"config"`

	// InitialEnergy is the energy of the initial state.
	InitialEnergy float64 `json:"initialEnergy"`

	// FinalEnergy is the energy of the final state.
	FinalEnergy float64 `json:"finalEnergy"`

	// FinalState is the problem's rendering of the final state.
	FinalState string `json:"finalState"`

	// Timestamp records when the run completed.
	Timestamp time.Time `json:"timestamp"`
}

// RunInfo is run metadata without the final state payload, used for
// listings.
type RunInfo struct {
	JobID       string    `json:"jobId"`
	Problem     string    `json:"problem"`
	Size        int       `json:"size"`
	Steps       int       `json:"steps"`
	FinalEnergy float64   `json:"finalEnergy"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRunRecord builds a record from a finished run's outcome.
func NewRunRecord(jobID string, config RunConfig, initialEnergy, finalEnergy float64, finalState string) *RunRecord {
	return &RunRecord{
		JobID:         jobID,
		Config:        config,
		InitialEnergy: initialEnergy,
		FinalEnergy:   finalEnergy,
		FinalState:    finalState,
		Timestamp:     time.Now(),
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		JobID:       r.JobID,
		Problem:     r.Config.Problem,
		Size:        r.Config.Size,
		Steps:       r.Config.Steps,
		FinalEnergy: r.FinalEnergy,
		Timestamp:   r.Timestamp,
	}
}

// Validate checks that the record has the fields every persisted run
// must carry.
func (r *RunRecord) Validate() error {
	if r.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if r.Config.Problem == "" {
		return &ValidationError{Field: "Config.Problem", Reason: "cannot be empty"}
	}
	if r.Config.Steps < 0 {
		return &ValidationError{Field: "Config.Steps", Reason: "cannot be negative"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
