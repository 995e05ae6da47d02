package dqn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Linear is a minimal value function collaborator: one weight row and bias
// per action over the flattened observation, trained by plain SGD on the
// squared error of the taken action's output. It exists for tests and small
// demos; anything resembling a real network lives outside this module.
type Linear struct {
	weights  *mat.Dense // numActions x features
	bias     *mat.VecDense
	lr       float64
	features int
}

type linearSnapshot struct {
	weights *mat.Dense
	bias    *mat.VecDense
}

// NewLinear builds a zero-initialized linear value function.
func NewLinear(obsShape tensor.Shape, numActions int, learningRate float64) (*Linear, error) {
	if numActions <= 0 {
		return nil, fmt.Errorf("%w: num actions %d", ErrInvalidArgument, numActions)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("%w: learning rate %f", ErrInvalidArgument, learningRate)
	}
	features := obsShape.TotalSize()
	if features <= 0 {
		return nil, fmt.Errorf("%w: observation shape %v", ErrInvalidArgument, obsShape)
	}
	return &Linear{
		weights:  mat.NewDense(numActions, features, nil),
		bias:     mat.NewVecDense(numActions, nil),
		lr:       learningRate,
		features: features,
	}, nil
}

var _ ValueFunction = &Linear{}

// Predict returns one row of action values per observation.
func (l *Linear) Predict(batch []*tensor.Dense) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for i, obs := range batch {
		x, err := l.flatten(obs)
		if err != nil {
			return nil, err
		}
		rows, _ := l.weights.Dims()
		values := make([]float64, rows)
		for a := 0; a < rows; a++ {
			values[a] = mat.Dot(l.weights.RowView(a), x) + l.bias.AtVec(a)
		}
		out[i] = values
	}
	return out, nil
}

// TrainStep applies one SGD update per transition in the batch. Only the
// taken action's row receives gradient.
func (l *Linear) TrainStep(batch []*tensor.Dense, targets []float64, actions []int) error {
	if len(batch) != len(targets) || len(batch) != len(actions) {
		return fmt.Errorf("%w: batch of %d observations, %d targets, %d actions",
			ErrInvalidArgument, len(batch), len(targets), len(actions))
	}
	rows, _ := l.weights.Dims()
	for i, obs := range batch {
		if math.IsNaN(targets[i]) || math.IsInf(targets[i], 0) {
			return fmt.Errorf("%w: non-finite target %f", ErrTraining, targets[i])
		}
		if actions[i] < 0 || actions[i] >= rows {
			return fmt.Errorf("%w: action %d outside [0, %d)", ErrInvalidArgument, actions[i], rows)
		}
		x, err := l.flatten(obs)
		if err != nil {
			return err
		}
		a := actions[i]
		q := mat.Dot(l.weights.RowView(a), x) + l.bias.AtVec(a)
		grad := targets[i] - q
		if math.IsNaN(grad) || math.IsInf(grad, 0) {
			return fmt.Errorf("%w: diverged on action %d", ErrTraining, a)
		}
		for j := 0; j < l.features; j++ {
			l.weights.Set(a, j, l.weights.At(a, j)+l.lr*grad*x.AtVec(j))
		}
		l.bias.SetVec(a, l.bias.AtVec(a)+l.lr*grad)
	}
	return nil
}

// Export copies out the parameters.
func (l *Linear) Export() Snapshot {
	return linearSnapshot{
		weights: mat.DenseCopyOf(l.weights),
		bias:    mat.VecDenseCopyOf(l.bias),
	}
}

// Import replaces the parameters with an exported snapshot.
func (l *Linear) Import(s Snapshot) error {
	snap, ok := s.(linearSnapshot)
	if !ok {
		return fmt.Errorf("%w: snapshot of type %T", ErrInvalidArgument, s)
	}
	r1, c1 := snap.weights.Dims()
	r2, c2 := l.weights.Dims()
	if r1 != r2 || c1 != c2 {
		return fmt.Errorf("%w: snapshot is %dx%d, network is %dx%d", ErrShapeMismatch, r1, c1, r2, c2)
	}
	l.weights = mat.DenseCopyOf(snap.weights)
	l.bias = mat.VecDenseCopyOf(snap.bias)
	return nil
}

func (l *Linear) flatten(obs *tensor.Dense) (*mat.VecDense, error) {
	if obs == nil {
		return nil, fmt.Errorf("%w: nil observation", ErrInvalidArgument)
	}
	data, ok := obs.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("%w: observation dtype %v, want float64", ErrShapeMismatch, obs.Dtype())
	}
	if len(data) != l.features {
		return nil, fmt.Errorf("%w: observation of %d values, network expects %d",
			ErrShapeMismatch, len(data), l.features)
	}
	return mat.NewVecDense(l.features, data), nil
}
