package rl

import (
	"time"

	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Policy selects actions and learns from observed transitions. Act and
// Observe are called strictly alternately by the agent loop.
type Policy interface {
	Act(obs *tensor.Dense) (int, error)
	Observe(oldObs *tensor.Dense, action int, newObs *tensor.Dense, reward float64, done bool) error
	Reset()
}

// RandomPolicy plays uniformly at random and learns nothing. It is the
// baseline in comparisons.
type RandomPolicy struct {
	numActions int
	rand       *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(numActions int) *RandomPolicy {
	return &RandomPolicy{
		numActions: numActions,
		rand:       rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (r *RandomPolicy) Act(_ *tensor.Dense) (int, error) {
	return r.rand.Intn(r.numActions), nil
}

func (r *RandomPolicy) Observe(_ *tensor.Dense, _ int, _ *tensor.Dense, _ float64, _ bool) error {
	return nil
}

func (r *RandomPolicy) Reset() {}
