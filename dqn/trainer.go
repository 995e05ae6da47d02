package dqn

import (
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
	"gorgonia.org/tensor"
)

// Trainer drives Double-DQN learning over a replay memory and a pair of
// value functions. The online network acts and is trained; the target
// network is a periodically-synced snapshot used for stable bootstrapped
// targets.
//
// Act and Observe are meant to be called strictly alternately by a single
// driving loop. Stats may be read concurrently.
type Trainer struct {
	config Config
	memory *ReplayMemory
	online ValueFunction
	target ValueFunction
	init   Snapshot
	rand   *rand.Rand

	mu          sync.Mutex
	globalStep  int
	trainSteps  int
	targetSyncs int
}

// Stats is a point-in-time view of the trainer's progress.
type Stats struct {
	GlobalStep  int     `json:"global_step"`
	Exploration float64 `json:"exploration"`
	MemoryLen   int     `json:"memory_len"`
	MemoryCap   int     `json:"memory_cap"`
	TrainSteps  int     `json:"train_steps"`
	TargetSyncs int     `json:"target_syncs"`
}

// NewTrainer validates the configuration and builds the replay memory. The
// initial online parameters are snapshotted so that Reset can restore them.
func NewTrainer(config Config, online, target ValueFunction) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if online == nil || target == nil {
		return nil, fmt.Errorf("%w: nil value function", ErrInvalidArgument)
	}
	memory, err := NewReplayMemory(config.Capacity, config.ObservationShape)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		config: config,
		memory: memory,
		online: online,
		target: target,
		init:   online.Export(),
		rand:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

// Exploration is the current epsilon: a linear decay from the initial to the
// final rate over ExplorationSteps global steps, constant afterwards.
func (t *Trainer) Exploration() float64 {
	t.mu.Lock()
	step := t.globalStep
	t.mu.Unlock()

	c := t.config
	if c.ExplorationSteps == 0 || step >= c.ExplorationSteps {
		return c.ExplorationFinal
	}
	frac := float64(step) / float64(c.ExplorationSteps)
	return c.ExplorationInitial + (c.ExplorationFinal-c.ExplorationInitial)*frac
}

// GlobalStep is the number of Observe calls so far.
func (t *Trainer) GlobalStep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalStep
}

// Stats snapshots the trainer's counters.
func (t *Trainer) Stats() Stats {
	eps := t.Exploration()
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		GlobalStep:  t.globalStep,
		Exploration: eps,
		MemoryLen:   t.memory.Len(),
		MemoryCap:   t.memory.Cap(),
		TrainSteps:  t.trainSteps,
		TargetSyncs: t.targetSyncs,
	}
}

// Act selects an action for the observation. The policy plays uniformly at
// random until the replay memory is full, then epsilon-greedy (or Boltzmann
// when configured) over the online network's predictions. Greedy ties break
// to the first maximum.
func (t *Trainer) Act(obs *tensor.Dense) (int, error) {
	if t.memory.Len() < t.memory.Cap() {
		return t.rand.Intn(t.config.NumActions), nil
	}
	if !t.config.ExplorationSoftmax && t.rand.Float64() < t.Exploration() {
		return t.rand.Intn(t.config.NumActions), nil
	}

	values, err := t.online.Predict([]*tensor.Dense{obs})
	if err != nil {
		return 0, err
	}
	if len(values) != 1 || len(values[0]) != t.config.NumActions {
		return 0, fmt.Errorf("%w: predict returned %d rows of %d values, want 1 row of %d",
			ErrShapeMismatch, len(values), rowLen(values), t.config.NumActions)
	}
	if t.config.ExplorationSoftmax {
		return t.softmaxAction(values[0])
	}
	return floats.MaxIdx(values[0]), nil
}

// softmaxAction samples an action with probability proportional to the
// exponential of its predicted value.
func (t *Trainer) softmaxAction(values []float64) (int, error) {
	sum := 0.0
	weights := make([]float64, len(values))
	for i, v := range values {
		weights[i] = math.Exp(v)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	i, ok := sampleuv.NewWeighted(weights, nil).Take()
	if !ok {
		return 0, fmt.Errorf("%w: degenerate action weights %v", ErrTraining, weights)
	}
	return i, nil
}

// Observe records a transition and performs the periodic target sync and
// training work. The global step is incremented exactly once per call, and
// the reward is clamped to [-1, 1] before storage.
func (t *Trainer) Observe(oldObs *tensor.Dense, action int, newObs *tensor.Dense, reward float64, done bool) error {
	t.mu.Lock()
	t.globalStep++
	step := t.globalStep
	t.mu.Unlock()

	if reward > 1 {
		reward = 1
	} else if reward < -1 {
		reward = -1
	}

	if err := t.memory.Push(oldObs, newObs, action, reward, done); err != nil {
		return err
	}

	if step%t.config.TargetUpdateFreq == 0 {
		if err := t.target.Import(t.online.Export()); err != nil {
			return err
		}
		t.mu.Lock()
		t.targetSyncs++
		t.mu.Unlock()
	}

	if step > t.config.ReplayStart && step%t.config.LearnFreq == 0 {
		return t.trainStep()
	}
	return nil
}

// trainStep samples a minibatch and applies one Double-DQN update: the next
// action is chosen by the online network, its value is estimated by the
// target network, and bootstrapping is masked to zero on terminal
// transitions.
func (t *Trainer) trainStep() error {
	batch, err := t.memory.Sample(t.config.MinibatchSize)
	if err != nil {
		return err
	}

	oldObs := make([]*tensor.Dense, len(batch))
	newObs := make([]*tensor.Dense, len(batch))
	actions := make([]int, len(batch))
	for i, tr := range batch {
		oldObs[i] = tr.OldObs
		newObs[i] = tr.NewObs
		actions[i] = tr.Action
	}

	onlineNext, err := t.online.Predict(newObs)
	if err != nil {
		return err
	}
	targetNext, err := t.target.Predict(newObs)
	if err != nil {
		return err
	}
	if len(onlineNext) != len(batch) || len(targetNext) != len(batch) {
		return fmt.Errorf("%w: predict returned %d and %d rows for a batch of %d",
			ErrShapeMismatch, len(onlineNext), len(targetNext), len(batch))
	}

	targets := make([]float64, len(batch))
	for i, tr := range batch {
		if len(onlineNext[i]) == 0 || len(targetNext[i]) != len(onlineNext[i]) {
			return fmt.Errorf("%w: predict rows of %d and %d values",
				ErrShapeMismatch, len(onlineNext[i]), len(targetNext[i]))
		}
		future := 0.0
		if !tr.Done {
			best := floats.MaxIdx(onlineNext[i])
			future = targetNext[i][best]
		}
		targets[i] = tr.Reward + t.config.DiscountFactor*future
	}

	if err := t.online.TrainStep(oldObs, targets, actions); err != nil {
		return err
	}
	t.mu.Lock()
	t.trainSteps++
	t.mu.Unlock()
	return nil
}

// Reset restores the initial parameters into both networks and clears the
// replay memory and counters.
func (t *Trainer) Reset() {
	memory, err := NewReplayMemory(t.config.Capacity, t.config.ObservationShape)
	if err != nil {
		panic(err)
	}
	t.memory = memory
	if err := t.online.Import(t.init); err != nil {
		panic(err)
	}
	if err := t.target.Import(t.init); err != nil {
		panic(err)
	}
	t.mu.Lock()
	t.globalStep = 0
	t.trainSteps = 0
	t.targetSyncs = 0
	t.mu.Unlock()
}

func rowLen(values [][]float64) int {
	if len(values) == 0 {
		return 0
	}
	return len(values[0])
}
