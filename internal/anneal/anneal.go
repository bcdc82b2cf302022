// Package anneal implements a generic simulated-annealing driver.
//
// The driver is polymorphic over the state type: callers supply an energy
// function, a neighbor generator and a cooling schedule, and the driver
// walks the state space with the Metropolis acceptance rule until a fixed
// step budget is exhausted. The package contains no problem-specific
// logic; see internal/problems for concrete adapters.
package anneal

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// ScheduleFunc maps the fraction of the step budget already used (in
// [0,1]) to a temperature. Schedules must be non-negative and must reach
// exactly 0 at fraction 1; this contract is the adapter's responsibility
// and is not validated per step.
type ScheduleFunc func(frac float64) float64

// EnergyFunc scores a state; lower is better. It must be deterministic
// for a given state.
type EnergyFunc[S any] func(s S) float64

// NeighborFunc derives a candidate state from the current one. It must
// not mutate its input: the driver keeps the current state across
// accept/reject decisions while also holding the candidate. The rng is
// the run's single random stream, shared with the acceptance draw, so a
// fixed seed replays an identical run.
type NeighborFunc[S any] func(rng *rand.Rand, s S) S

// Config bundles the parameters of one annealing run.
type Config[S any] struct {
	// Schedule is the cooling schedule over fraction-of-budget-used.
	Schedule ScheduleFunc

	// Energy evaluates a state.
	Energy EnergyFunc[S]

	// Neighbor generates a candidate from the current state.
	Neighbor NeighborFunc[S]

	// MaxSteps is the fixed step budget. Zero is a legal degenerate run
	// that returns the initial state untouched; negative is an error.
	MaxSteps int

	// Rand is the run's random source. Inject a seeded source for
	// reproducible runs; nil falls back to a time-seeded one.
	Rand *rand.Rand
}

// Result is the immutable outcome of a run.
type Result[S any] struct {
	// FinalState is the state held when the step budget ran out.
	FinalState S

	// FinalEnergy equals Energy(FinalState); the driver maintains this
	// equality as an invariant of every step.
	FinalEnergy float64

	// Energies is the per-step energy trajectory, one entry per step
	// from 0 through MaxSteps inclusive (length MaxSteps+1). It is nil
	// unless recording was requested, so "not recorded" and "zero-step
	// run" stay distinguishable.
	Energies []float64
}

var (
	// ErrNegativeSteps reports a configuration with MaxSteps < 0.
	ErrNegativeSteps = errors.New("anneal: max steps must not be negative")

	// ErrNilFunc reports a configuration missing one of the three
	// required callbacks.
	ErrNilFunc = errors.New("anneal: schedule, energy and neighbor functions are required")
)

// Acceptance returns the Metropolis probability of replacing a state of
// energy current with a candidate of energy candidate at the given
// temperature.
//
// An improving candidate (candidate < current) is always accepted. At
// temperature <= 0 a non-improving candidate is never accepted; the zero
// case is guarded explicitly rather than left to division semantics. A
// non-finite energy propagates into the returned probability (typically
// NaN); the driver's draw comparison is false for NaN, so such
// candidates are rejected, never silently accepted.
func Acceptance(current, candidate, temp float64) float64 {
	if candidate < current {
		return 1
	}
	if temp <= 0 {
		return 0
	}
	return math.Exp(-(candidate - current) / temp)
}

// runState is the driver-owned mutable state of a run in progress.
type runState[S any] struct {
	state  S
	energy float64 // cached Energy(state)
	step   int     // 0..MaxSteps
}

// transition performs one annealing step: generate a candidate, advance
// the step counter, derive the temperature for the new step, and accept
// or reject the candidate. The acceptance draw is taken every step, even
// when acceptance is certain, so the random stream advances in a fixed
// order regardless of outcomes.
func transition[S any](rs *runState[S], cfg *Config[S]) {
	candidate := cfg.Neighbor(cfg.Rand, rs.state)
	rs.step++
	temp := cfg.Schedule(float64(rs.step) / float64(cfg.MaxSteps))
	candidateEnergy := cfg.Energy(candidate)
	p := Acceptance(rs.energy, candidateEnergy, temp)
	if cfg.Rand.Float64() <= p {
		rs.state = candidate
		rs.energy = candidateEnergy
	}
}

// Run executes one annealing run from the given initial state and returns
// the final state, its energy and, when record is true, the full energy
// trajectory. Configuration errors are reported before any step executes;
// panics from the adapter's callbacks are not caught.
func Run[S any](initial S, cfg Config[S], record bool) (Result[S], error) {
	if cfg.MaxSteps < 0 {
		return Result[S]{}, ErrNegativeSteps
	}
	if cfg.Schedule == nil || cfg.Energy == nil || cfg.Neighbor == nil {
		return Result[S]{}, ErrNilFunc
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	rs := runState[S]{state: initial, energy: cfg.Energy(initial)}

	var energies []float64
	if record {
		energies = make([]float64, cfg.MaxSteps+1)
		energies[0] = rs.energy
	}

	for rs.step < cfg.MaxSteps {
		transition(&rs, &cfg)
		if record {
			energies[rs.step] = rs.energy
		}
	}

	return Result[S]{
		FinalState:  rs.state,
		FinalEnergy: rs.energy,
		Energies:    energies,
	}, nil
}
