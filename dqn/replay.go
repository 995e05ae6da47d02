package dqn

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Transition is one observed environment step. Slots are value records and
// are only overwritten when their ring-buffer slot is reused.
type Transition struct {
	OldObs *tensor.Dense
	NewObs *tensor.Dense
	Action int
	Reward float64
	Done   bool
}

// ReplayMemory is a fixed-capacity ring buffer of transitions with uniform
// random sampling. Writes overwrite the oldest entry once the buffer is full.
type ReplayMemory struct {
	slots    []Transition
	obsShape tensor.Shape
	index    int
	length   int
	rand     *rand.Rand
}

// NewReplayMemory allocates the full arena of capacity slots up front.
func NewReplayMemory(capacity int, obsShape tensor.Shape) (*ReplayMemory, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d, must be positive", ErrInvalidArgument, capacity)
	}
	if len(obsShape) == 0 {
		return nil, fmt.Errorf("%w: empty observation shape", ErrInvalidArgument)
	}
	return &ReplayMemory{
		slots:    make([]Transition, capacity),
		obsShape: obsShape.Clone(),
		rand:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

// Len is the number of valid entries, saturating at capacity.
func (m *ReplayMemory) Len() int {
	return m.length
}

// Cap is the fixed slot count.
func (m *ReplayMemory) Cap() int {
	return len(m.slots)
}

// Push writes a transition at the cursor and advances it modulo capacity.
func (m *ReplayMemory) Push(oldObs, newObs *tensor.Dense, action int, reward float64, done bool) error {
	if err := m.checkShape(oldObs); err != nil {
		return err
	}
	if err := m.checkShape(newObs); err != nil {
		return err
	}
	if action < 0 {
		return fmt.Errorf("%w: negative action %d", ErrInvalidArgument, action)
	}
	m.slots[m.index] = Transition{
		OldObs: oldObs,
		NewObs: newObs,
		Action: action,
		Reward: reward,
		Done:   done,
	}
	m.index = (m.index + 1) % len(m.slots)
	if m.length < len(m.slots) {
		m.length++
	}
	return nil
}

// Sample draws n transitions uniformly at random with replacement from the
// valid slots. With-replacement sampling is the contract: a minibatch may
// contain the same transition twice.
func (m *ReplayMemory) Sample(n int) ([]Transition, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample size %d, must be positive", ErrInvalidArgument, n)
	}
	if m.length == 0 {
		return nil, fmt.Errorf("%w: sampling an empty replay memory", ErrInvalidArgument)
	}
	batch := make([]Transition, n)
	for i := range batch {
		batch[i] = m.slots[m.rand.Intn(m.length)]
	}
	return batch, nil
}

func (m *ReplayMemory) checkShape(obs *tensor.Dense) error {
	if obs == nil {
		return fmt.Errorf("%w: nil observation", ErrInvalidArgument)
	}
	if !obs.Shape().Eq(m.obsShape) {
		return fmt.Errorf("%w: observation shape %v, memory configured with %v",
			ErrShapeMismatch, obs.Shape(), m.obsShape)
	}
	return nil
}
