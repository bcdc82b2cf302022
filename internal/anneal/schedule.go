package anneal

import (
	"fmt"
	"math"
)

// Cooling schedules over the fraction of the step budget already used.
// Every constructor returns a schedule that starts at t0 and reaches
// exactly 0 at fraction 1, as the driver's temperature contract requires.

// Linear decays linearly from t0 to 0.
func Linear(t0 float64) ScheduleFunc {
	return func(frac float64) float64 {
		return t0 * (1 - frac)
	}
}

// Quadratic decays as (1-frac)^2, spending more of the budget at low
// temperature than Linear.
func Quadratic(t0 float64) ScheduleFunc {
	return func(frac float64) float64 {
		return t0 * (1 - frac) * (1 - frac)
	}
}

// Cosine follows a half cosine wave from t0 to 0.
func Cosine(t0 float64) ScheduleFunc {
	return func(frac float64) float64 {
		return 0.5 * t0 * (1 + math.Cos(math.Pi*frac))
	}
}

// Exponential decays geometrically with the given rate, shifted and
// rescaled so the temperature still hits exactly 0 at fraction 1 instead
// of the usual asymptotic tail.
func Exponential(t0, rate float64) ScheduleFunc {
	floor := math.Exp(-rate)
	scale := 1 / (1 - floor)
	return func(frac float64) float64 {
		return t0 * (math.Exp(-rate*frac) - floor) * scale
	}
}

// defaultExpRate matches a roughly 20x drop over the run before rescaling.
const defaultExpRate = 3.0

// ScheduleByName resolves a schedule name used by the CLI and the job
// server. Known names: linear, quadratic, cosine, exponential.
func ScheduleByName(name string, t0 float64) (ScheduleFunc, error) {
	switch name {
	case "", "linear":
		return Linear(t0), nil
	case "quadratic":
		return Quadratic(t0), nil
	case "cosine":
		return Cosine(t0), nil
	case "exponential":
		return Exponential(t0, defaultExpRate), nil
	default:
		return nil, fmt.Errorf("unknown schedule: %s", name)
	}
}
