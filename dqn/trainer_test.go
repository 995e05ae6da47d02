package dqn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// stubValue is a scripted collaborator: it returns the same row of action
// values for every observation and records training calls. Its "parameters"
// are a single float so that target syncs are observable.
type stubValue struct {
	row        []float64
	predictErr error
	trainErr   error

	params  float64
	imports int
	calls   []trainCall
}

type trainCall struct {
	size    int
	targets []float64
	actions []int
}

var _ ValueFunction = &stubValue{}

func (s *stubValue) Predict(batch []*tensor.Dense) ([][]float64, error) {
	if s.predictErr != nil {
		return nil, s.predictErr
	}
	out := make([][]float64, len(batch))
	for i := range out {
		out[i] = append([]float64(nil), s.row...)
	}
	return out, nil
}

func (s *stubValue) TrainStep(batch []*tensor.Dense, targets []float64, actions []int) error {
	if s.trainErr != nil {
		return s.trainErr
	}
	s.calls = append(s.calls, trainCall{
		size:    len(batch),
		targets: append([]float64(nil), targets...),
		actions: append([]int(nil), actions...),
	})
	return nil
}

func (s *stubValue) Export() Snapshot {
	return s.params
}

func (s *stubValue) Import(v Snapshot) error {
	p, ok := v.(float64)
	if !ok {
		return errors.New("bad snapshot")
	}
	s.params = p
	s.imports++
	return nil
}

func testConfig() Config {
	return Config{
		Capacity:           8,
		ObservationShape:   tensor.Shape{1},
		NumActions:         3,
		MinibatchSize:      4,
		LearnFreq:          1,
		TargetUpdateFreq:   1 << 20,
		ReplayStart:        1 << 20,
		DiscountFactor:     0.99,
		ExplorationInitial: 1.0,
		ExplorationFinal:   0.1,
		ExplorationSteps:   100,
	}
}

func newTestTrainer(t *testing.T, config Config, online, target *stubValue) *Trainer {
	t.Helper()
	trainer, err := NewTrainer(config, online, target)
	require.NoError(t, err)
	return trainer
}

func TestConfigValidate(t *testing.T) {
	valid := testConfig()
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"negative capacity":  func(c *Config) { c.Capacity = -1 },
		"empty shape":        func(c *Config) { c.ObservationShape = nil },
		"zero actions":       func(c *Config) { c.NumActions = 0 },
		"discount above one": func(c *Config) { c.DiscountFactor = 1.5 },
		"negative replay":    func(c *Config) { c.ReplayStart = -1 },
		"epsilon above one":  func(c *Config) { c.ExplorationInitial = 1.5 },
	} {
		config := testConfig()
		mutate(&config)
		require.ErrorIs(t, config.Validate(), ErrInvalidArgument, name)
	}

	// Zero structural fields take the reference defaults.
	minimal := Config{ObservationShape: tensor.Shape{4}, NumActions: 2}
	require.NoError(t, minimal.Validate())
	require.Equal(t, 1<<16, minimal.Capacity)
	require.Equal(t, 32, minimal.MinibatchSize)
	require.Equal(t, 4, minimal.LearnFreq)
	require.Equal(t, 10000, minimal.TargetUpdateFreq)
	require.Equal(t, 0.99, minimal.DiscountFactor)
}

func TestExplorationDecay(t *testing.T) {
	trainer := newTestTrainer(t, testConfig(), &stubValue{}, &stubValue{})

	require.Equal(t, 1.0, trainer.Exploration())
	prev := trainer.Exploration()
	for i := 0; i < 150; i++ {
		require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
		eps := trainer.Exploration()
		require.LessOrEqual(t, eps, prev)
		prev = eps
	}
	require.Equal(t, 0.1, trainer.Exploration())
	require.Equal(t, 150, trainer.GlobalStep())
}

func TestObserveIncrementsStepOnce(t *testing.T) {
	config := testConfig()
	config.TargetUpdateFreq = 2
	trainer := newTestTrainer(t, config, &stubValue{}, &stubValue{})

	for i := 1; i <= 10; i++ {
		require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, i%2 == 0))
		require.Equal(t, i, trainer.GlobalStep())
	}
}

func TestRewardClipping(t *testing.T) {
	trainer := newTestTrainer(t, testConfig(), &stubValue{}, &stubValue{})

	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 5.0, false))
	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), -3.0, false))
	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0.25, false))

	require.Equal(t, 1.0, trainer.memory.slots[0].Reward)
	require.Equal(t, -1.0, trainer.memory.slots[1].Reward)
	require.Equal(t, 0.25, trainer.memory.slots[2].Reward)
}

func TestTargetSync(t *testing.T) {
	config := testConfig()
	config.TargetUpdateFreq = 10
	online := &stubValue{params: 42}
	target := &stubValue{params: 0}
	trainer := newTestTrainer(t, config, online, target)

	for i := 1; i <= 9; i++ {
		require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
		require.Equal(t, 0, target.imports)
		require.Equal(t, 0.0, target.params)
	}
	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
	require.Equal(t, 1, target.imports)
	require.Equal(t, 42.0, target.params)
	require.Equal(t, 1, trainer.Stats().TargetSyncs)
}

// The next action comes from the online network's argmax, its value from the
// target network's row.
func TestDoubleDQNTargets(t *testing.T) {
	config := testConfig()
	config.Capacity = 1
	config.ReplayStart = 1
	config.DiscountFactor = 0.5
	online := &stubValue{row: []float64{1, 5, 3}}
	target := &stubValue{row: []float64{10, 20, 30}}
	trainer := newTestTrainer(t, config, online, target)

	// Fill the single slot, then trigger a training step.
	require.NoError(t, trainer.Observe(obs(0), 2, obs(1), 0.5, false))
	require.NoError(t, trainer.Observe(obs(1), 2, obs(2), 0.5, false))

	require.Len(t, online.calls, 1)
	call := online.calls[0]
	require.Equal(t, 4, call.size)
	for i := range call.targets {
		// 0.5 + 0.5 * target.row[argmax(online.row)]
		require.Equal(t, 0.5+0.5*20, call.targets[i])
		require.Equal(t, 2, call.actions[i])
	}
	require.Equal(t, 1, trainer.Stats().TrainSteps)
}

func TestTerminalMasking(t *testing.T) {
	config := testConfig()
	config.Capacity = 1
	config.ReplayStart = 1
	online := &stubValue{row: []float64{1, 5, 3}}
	target := &stubValue{row: []float64{100, 100, 100}}
	trainer := newTestTrainer(t, config, online, target)

	require.NoError(t, trainer.Observe(obs(0), 1, obs(1), 0.5, true))
	require.NoError(t, trainer.Observe(obs(1), 1, obs(2), 0.5, true))

	require.Len(t, online.calls, 1)
	for _, label := range online.calls[0].targets {
		require.Equal(t, 0.5, label)
	}
}

func TestTrainingWaitsForReplayStart(t *testing.T) {
	config := testConfig()
	config.ReplayStart = 5
	config.LearnFreq = 1
	online := &stubValue{row: []float64{0, 0, 0}}
	trainer := newTestTrainer(t, config, online, &stubValue{row: []float64{0, 0, 0}})

	for i := 1; i <= 5; i++ {
		require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
		require.Empty(t, online.calls)
	}
	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
	require.Len(t, online.calls, 1)
}

func TestActWarmupIsRandom(t *testing.T) {
	online := &stubValue{predictErr: errors.New("predict must not be called during warmup")}
	trainer := newTestTrainer(t, testConfig(), online, &stubValue{})

	for i := 0; i < 50; i++ {
		action, err := trainer.Act(obs(0))
		require.NoError(t, err)
		require.GreaterOrEqual(t, action, 0)
		require.Less(t, action, 3)
	}
}

func TestActGreedyFirstMaxTie(t *testing.T) {
	config := testConfig()
	config.Capacity = 1
	config.ExplorationInitial = 0
	config.ExplorationFinal = 0
	config.ExplorationSteps = 0
	online := &stubValue{row: []float64{3, 7, 7}}
	trainer := newTestTrainer(t, config, online, &stubValue{})

	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
	action, err := trainer.Act(obs(0))
	require.NoError(t, err)
	require.Equal(t, 1, action)
}

func TestCollaboratorErrorsPropagate(t *testing.T) {
	boom := errors.New("nan loss")

	config := testConfig()
	config.Capacity = 1
	config.ExplorationInitial = 0
	config.ExplorationFinal = 0
	config.ExplorationSteps = 0

	online := &stubValue{predictErr: boom}
	trainer := newTestTrainer(t, config, online, &stubValue{})
	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
	_, err := trainer.Act(obs(0))
	require.ErrorIs(t, err, boom)

	config.ReplayStart = 1
	online = &stubValue{row: []float64{0, 0, 0}, trainErr: boom}
	trainer = newTestTrainer(t, config, online, &stubValue{row: []float64{0, 0, 0}})
	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
	require.ErrorIs(t, trainer.Observe(obs(0), 0, obs(0), 0, false), boom)
}

func TestObserveShapeMismatch(t *testing.T) {
	trainer := newTestTrainer(t, testConfig(), &stubValue{}, &stubValue{})
	require.ErrorIs(t, trainer.Observe(obs(0, 0), 0, obs(0), 0, false), ErrShapeMismatch)
	require.Equal(t, 1, trainer.GlobalStep())
}

func TestTrainerReset(t *testing.T) {
	online := &stubValue{params: 7}
	target := &stubValue{params: 7}
	trainer := newTestTrainer(t, testConfig(), online, target)

	require.NoError(t, trainer.Observe(obs(0), 0, obs(0), 0, false))
	online.params = 99
	target.params = 99

	trainer.Reset()
	require.Equal(t, 0, trainer.GlobalStep())
	require.Equal(t, 0, trainer.memory.Len())
	require.Equal(t, 7.0, online.params)
	require.Equal(t, 7.0, target.params)
}
