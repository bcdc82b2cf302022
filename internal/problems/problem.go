// Package problems hosts the built-in annealing problems and runs them by
// name. Each problem is a thin adapter: a state representation plus the
// energy and neighbor callbacks the annealing core consumes. No problem
// logic leaks into internal/anneal.
package problems

import (
	"fmt"

	"github.com/cwbudde/anneal/internal/anneal"
)

// RunParams are the problem-independent knobs of a one-shot run.
type RunParams struct {
	// Steps is the annealing step budget.
	Steps int

	// Seed seeds the run's random stream. The same seed replays the
	// identical run.
	Seed int64

	// Schedule names the cooling schedule (see anneal.ScheduleByName).
	Schedule string

	// Temp is the initial temperature; defaults per problem when <= 0.
	Temp float64

	// Record requests the full per-step energy trajectory.
	Record bool
}

// Summary is the problem-agnostic outcome of a run, shaped for JSON
// responses and run records.
type Summary struct {
	Problem       string    `json:"problem"`
	Size          int       `json:"size"`
	Steps         int       `json:"steps"`
	Seed          int64     `json:"seed"`
	Schedule      string    `json:"schedule"`
	Temp          float64   `json:"temp"`
	InitialEnergy float64   `json:"initialEnergy"`
	FinalEnergy   float64   `json:"finalEnergy"`
	FinalState    string    `json:"finalState"`
	Energies      []float64 `json:"energies,omitempty"`
}

// Known problem names.
const (
	ProblemSort      = "sort"
	ProblemSphere    = "sphere"
	ProblemRastrigin = "rastrigin"
)

// Names lists the built-in problems in display order.
func Names() []string {
	return []string{ProblemSort, ProblemSphere, ProblemRastrigin}
}

// Run executes the named problem with the given instance size. Unknown
// names and bad schedules fail before any annealing step runs.
func Run(name string, size int, params RunParams) (*Summary, error) {
	switch name {
	case ProblemSort:
		return runSort(size, params)
	case ProblemSphere:
		return runVector(name, Sphere, size, params)
	case ProblemRastrigin:
		return runVector(name, Rastrigin, size, params)
	default:
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
}

// schedule resolves the named schedule with a problem-chosen default
// initial temperature, returning the temperature actually used so it can
// be reported in the summary.
func schedule(params RunParams, defaultTemp float64) (anneal.ScheduleFunc, float64, error) {
	temp := params.Temp
	if temp <= 0 {
		temp = defaultTemp
	}
	s, err := anneal.ScheduleByName(params.Schedule, temp)
	if err != nil {
		return nil, 0, err
	}
	return s, temp, nil
}
