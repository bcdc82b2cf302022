package opt

// Optimizer is the common interface for vector optimizers so the bench
// command can swap algorithms over the same objectives.
type Optimizer interface {
	// Run minimizes eval over the box [lower, upper] in dim dimensions
	// and returns the best parameters found and their cost.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}
