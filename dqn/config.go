package dqn

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Config carries the hyper-parameters of the trainer. Validate fills zero
// values of the structural fields with the defaults; the exploration fields
// are taken as given so that a zero epsilon means greedy.
type Config struct {
	Capacity         int          // replay memory slots
	ObservationShape tensor.Shape // shape of a single observation
	NumActions       int          // size of the discrete action space

	MinibatchSize    int     // transitions per training step
	LearnFreq        int     // train every LearnFreq observed steps
	TargetUpdateFreq int     // sync the target network every TargetUpdateFreq steps
	ReplayStart      int     // steps to observe before the first training step
	DiscountFactor   float64 // in (0, 1]

	ExplorationInitial float64 // epsilon at step 0
	ExplorationFinal   float64 // epsilon after the decay window
	ExplorationSteps   int     // length of the linear decay window

	// ExplorationSoftmax switches action selection from epsilon-greedy to
	// Boltzmann sampling over the predicted values.
	ExplorationSoftmax bool
}

// DefaultConfig is the classic Atari hyper-parameter set.
func DefaultConfig(obsShape tensor.Shape, numActions int) Config {
	return Config{
		Capacity:           1 << 16,
		ObservationShape:   obsShape,
		NumActions:         numActions,
		MinibatchSize:      32,
		LearnFreq:          4,
		TargetUpdateFreq:   10000,
		ReplayStart:        50000,
		DiscountFactor:     0.99,
		ExplorationInitial: 1.0,
		ExplorationFinal:   0.1,
		ExplorationSteps:   1000000,
	}
}

// Validate fills defaults for zero fields and rejects out-of-range values.
func (c *Config) Validate() error {
	def := DefaultConfig(c.ObservationShape, c.NumActions)
	if c.Capacity == 0 {
		c.Capacity = def.Capacity
	}
	if c.MinibatchSize == 0 {
		c.MinibatchSize = def.MinibatchSize
	}
	if c.LearnFreq == 0 {
		c.LearnFreq = def.LearnFreq
	}
	if c.TargetUpdateFreq == 0 {
		c.TargetUpdateFreq = def.TargetUpdateFreq
	}
	if c.DiscountFactor == 0 {
		c.DiscountFactor = def.DiscountFactor
	}

	switch {
	case c.Capacity < 0:
		return fmt.Errorf("%w: capacity %d", ErrInvalidArgument, c.Capacity)
	case len(c.ObservationShape) == 0:
		return fmt.Errorf("%w: empty observation shape", ErrInvalidArgument)
	case c.NumActions <= 0:
		return fmt.Errorf("%w: num actions %d", ErrInvalidArgument, c.NumActions)
	case c.MinibatchSize < 0:
		return fmt.Errorf("%w: minibatch size %d", ErrInvalidArgument, c.MinibatchSize)
	case c.LearnFreq < 0:
		return fmt.Errorf("%w: learn freq %d", ErrInvalidArgument, c.LearnFreq)
	case c.TargetUpdateFreq < 0:
		return fmt.Errorf("%w: target update freq %d", ErrInvalidArgument, c.TargetUpdateFreq)
	case c.ReplayStart < 0:
		return fmt.Errorf("%w: replay start %d", ErrInvalidArgument, c.ReplayStart)
	case c.DiscountFactor <= 0 || c.DiscountFactor > 1:
		return fmt.Errorf("%w: discount factor %f", ErrInvalidArgument, c.DiscountFactor)
	case c.ExplorationInitial < 0 || c.ExplorationInitial > 1:
		return fmt.Errorf("%w: initial exploration %f", ErrInvalidArgument, c.ExplorationInitial)
	case c.ExplorationFinal < 0 || c.ExplorationFinal > 1:
		return fmt.Errorf("%w: final exploration %f", ErrInvalidArgument, c.ExplorationFinal)
	case c.ExplorationSteps < 0:
		return fmt.Errorf("%w: exploration steps %d", ErrInvalidArgument, c.ExplorationSteps)
	}
	return nil
}
