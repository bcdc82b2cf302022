package problems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/anneal/internal/anneal"
)

// Continuous benchmark problems over bounded vectors. Both objectives are
// standard test functions with their global minimum of 0 at the origin.

// Sphere is f(x) = sum(x_i^2).
func Sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rastrigin is the classic multimodal benchmark
// f(x) = 10n + sum(x_i^2 - 10*cos(2*pi*x_i)).
func Rastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// Standard search domain for the benchmark functions.
const (
	vectorLower = -5.12
	vectorUpper = 5.12
)

// GaussianNeighbor perturbs one random coordinate by a Gaussian step of
// the given sigma, clamped to [lower, upper]. The input vector is copied,
// never mutated.
func GaussianNeighbor(lower, upper, sigma float64) anneal.NeighborFunc[[]float64] {
	return func(rng *rand.Rand, x []float64) []float64 {
		next := append([]float64(nil), x...)
		i := rng.Intn(len(next))
		next[i] += rng.NormFloat64() * sigma
		if next[i] < lower {
			next[i] = lower
		} else if next[i] > upper {
			next[i] = upper
		}
		return next
	}
}

const defaultVectorSize = 3

// runVector anneals a random point in the benchmark domain.
func runVector(name string, eval func([]float64) float64, size int, params RunParams) (*Summary, error) {
	if size <= 0 {
		size = defaultVectorSize
	}

	sched, temp, err := schedule(params, 1)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(params.Seed))
	initial := make([]float64, size)
	for i := range initial {
		initial[i] = vectorLower + rng.Float64()*(vectorUpper-vectorLower)
	}
	initialEnergy := eval(initial)

	sigma := 0.1 * (vectorUpper - vectorLower)
	cfg := anneal.Config[[]float64]{
		Schedule: sched,
		Energy:   eval,
		Neighbor: GaussianNeighbor(vectorLower, vectorUpper, sigma),
		MaxSteps: params.Steps,
		Rand:     rng,
	}

	result, err := anneal.Run(initial, cfg, params.Record)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Problem:       name,
		Size:          size,
		Steps:         params.Steps,
		Seed:          params.Seed,
		Schedule:      params.Schedule,
		Temp:          temp,
		InitialEnergy: initialEnergy,
		FinalEnergy:   result.FinalEnergy,
		FinalState:    fmt.Sprintf("%.4f", result.FinalState),
		Energies:      result.Energies,
	}, nil
}
