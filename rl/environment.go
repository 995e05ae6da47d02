package rl

import "gorgonia.org/tensor"

// Environment is a discrete-action environment observed through dense
// tensors.
type Environment interface {
	// Reset starts a new episode and returns the first observation.
	Reset() (*tensor.Dense, error)
	// Step applies an action and returns the next observation, the reward,
	// and whether the episode ended.
	Step(action int) (*tensor.Dense, float64, bool, error)
	// ObservationShape is the shape of a single observation.
	ObservationShape() tensor.Shape
	// NumActions is the size of the discrete action space.
	NumActions() int
}
