package problems

import (
	"math"
	"math/rand"
	"testing"
)

func TestSphereAtOrigin(t *testing.T) {
	if got := Sphere([]float64{0, 0, 0}); got != 0 {
		t.Errorf("Sphere(0) = %v, want 0", got)
	}
	if got := Sphere([]float64{1, 2}); got != 5 {
		t.Errorf("Sphere([1 2]) = %v, want 5", got)
	}
}

func TestRastriginAtOrigin(t *testing.T) {
	if got := Rastrigin([]float64{0, 0, 0}); math.Abs(got) > 1e-12 {
		t.Errorf("Rastrigin(0) = %v, want 0", got)
	}
}

func TestGaussianNeighborStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	neighbor := GaussianNeighbor(-1, 1, 10) // huge sigma forces clamping

	x := []float64{0, 0, 0}
	for i := 0; i < 200; i++ {
		x = neighbor(rng, x)
		for j, v := range x {
			if v < -1 || v > 1 {
				t.Fatalf("coordinate %d = %v out of bounds", j, v)
			}
		}
	}
}

func TestGaussianNeighborDoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	neighbor := GaussianNeighbor(vectorLower, vectorUpper, 1)

	x := []float64{1, 2, 3}
	neighbor(rng, x)
	if x[0] != 1 || x[1] != 2 || x[2] != 3 {
		t.Errorf("input mutated: %v", x)
	}
}

func TestRunSphereConverges(t *testing.T) {
	summary, err := Run(ProblemSphere, 2, RunParams{Steps: 20000, Seed: 42})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Should get well below a random point's cost (up to ~52 in 2D).
	if summary.FinalEnergy > 1.0 {
		t.Errorf("FinalEnergy = %v, expected near 0", summary.FinalEnergy)
	}
}

func TestRunUnknownProblem(t *testing.T) {
	if _, err := Run("knapsack", 5, RunParams{Steps: 10}); err == nil {
		t.Error("expected error for unknown problem")
	}
}

func TestRunUnknownSchedule(t *testing.T) {
	if _, err := Run(ProblemSphere, 2, RunParams{Steps: 10, Schedule: "bogus"}); err == nil {
		t.Error("expected error for unknown schedule")
	}
}

func TestRunDeterministicAcrossProblems(t *testing.T) {
	for _, name := range Names() {
		first, err := Run(name, 6, RunParams{Steps: 500, Seed: 9, Record: true})
		if err != nil {
			t.Fatalf("Run(%s) failed: %v", name, err)
		}
		second, err := Run(name, 6, RunParams{Steps: 500, Seed: 9, Record: true})
		if err != nil {
			t.Fatalf("Run(%s) failed: %v", name, err)
		}

		if first.FinalEnergy != second.FinalEnergy || first.FinalState != second.FinalState {
			t.Errorf("Run(%s) not deterministic: %v vs %v", name, first, second)
		}
	}
}
