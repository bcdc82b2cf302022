package problems

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/anneal/internal/anneal"
)

// Permutation is an ordering of 0..n-1; the sorted order has energy 0.
type Permutation []int

// NewShuffled returns a random permutation of 0..n-1 drawn from rng.
func NewShuffled(n int, rng *rand.Rand) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})
	return p
}

// AdjacentInversions counts adjacent pairs that are out of order. This is
// the default sorting energy: cheap and zero exactly for sorted input.
func AdjacentInversions(p Permutation) float64 {
	count := 0
	for i := 0; i+1 < len(p); i++ {
		if p[i] > p[i+1] {
			count++
		}
	}
	return float64(count)
}

// TotalInversions counts all out-of-order pairs. A smoother energy
// variant: every swap of an inverted pair lowers it, so the landscape has
// fewer plateaus than AdjacentInversions.
func TotalInversions(p Permutation) float64 {
	count := 0
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			if p[i] > p[j] {
				count++
			}
		}
	}
	return float64(count)
}

// SwapNeighbor copies the permutation and swaps two random positions.
// The input is never mutated.
func SwapNeighbor(rng *rand.Rand, p Permutation) Permutation {
	next := append(Permutation(nil), p...)
	i := rng.Intn(len(next))
	j := rng.Intn(len(next))
	next[i], next[j] = next[j], next[i]
	return next
}

// AdjacentSwapNeighbor copies the permutation and swaps one random
// adjacent pair, a tighter move than SwapNeighbor.
func AdjacentSwapNeighbor(rng *rand.Rand, p Permutation) Permutation {
	next := append(Permutation(nil), p...)
	i := rng.Intn(len(next) - 1)
	next[i], next[i+1] = next[i+1], next[i]
	return next
}

const defaultSortSize = 20

// runSort anneals a shuffled permutation toward sorted order.
func runSort(size int, params RunParams) (*Summary, error) {
	if size <= 0 {
		size = defaultSortSize
	}
	if size < 2 {
		return nil, fmt.Errorf("sort problem needs at least 2 elements, got %d", size)
	}

	sched, temp, err := schedule(params, float64(size)/4)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(params.Seed))
	initial := NewShuffled(size, rng)
	initialEnergy := TotalInversions(initial)

	cfg := anneal.Config[Permutation]{
		Schedule: sched,
		Energy:   TotalInversions,
		Neighbor: SwapNeighbor,
		MaxSteps: params.Steps,
		Rand:     rng,
	}

	result, err := anneal.Run(initial, cfg, params.Record)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Problem:       ProblemSort,
		Size:          size,
		Steps:         params.Steps,
		Seed:          params.Seed,
		Schedule:      params.Schedule,
		Temp:          temp,
		InitialEnergy: initialEnergy,
		FinalEnergy:   result.FinalEnergy,
		FinalState:    fmt.Sprint([]int(result.FinalState)),
		Energies:      result.Energies,
	}, nil
}
