package dqn

import "gorgonia.org/tensor"

// Snapshot is an opaque copy of a value function's parameter state. The
// trainer only moves snapshots between the online and target networks; it
// never inspects them.
type Snapshot interface{}

// ValueFunction is the external collaborator that predicts action values and
// applies training updates. Implementations own the network architecture,
// the optimizer, and any checkpoint format.
//
// TrainStep must compute loss only on the taken action's output coordinate;
// the other action outputs receive no gradient from the label. A numeric
// failure (NaN loss, divergence) must be returned, not swallowed.
type ValueFunction interface {
	// Predict returns one row of action values per observation in the batch.
	Predict(batch []*tensor.Dense) ([][]float64, error)

	// TrainStep applies a single optimizer update toward the given targets
	// on the taken actions' outputs.
	TrainStep(batch []*tensor.Dense, targets []float64, actions []int) error

	// Export copies out the full parameter state.
	Export() Snapshot

	// Import replaces the full parameter state with a previously exported
	// snapshot. The replacement is atomic from the caller's point of view.
	Import(Snapshot) error
}
