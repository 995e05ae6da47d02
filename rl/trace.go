package rl

import (
	"encoding/json"

	"gorgonia.org/tensor"
)

// Step is one transition of an episode.
type Step struct {
	Obs     *tensor.Dense
	Action  int
	NextObs *tensor.Dense
	Reward  float64
	Done    bool
}

// Trace of an episode as an ordered sequence of steps.
type Trace struct {
	steps []Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]Step, 0),
	}
}

func (t *Trace) Append(s Step) {
	t.steps = append(t.steps, s)
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (Step, bool) {
	if i >= len(t.steps) {
		return Step{}, false
	}
	return t.steps[i], true
}

func (t *Trace) Last() (Step, bool) {
	if len(t.steps) < 1 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

// MarshalJSON emits the action and reward sequences of the episode. The
// observation tensors are deliberately left out of the record.
func (t *Trace) MarshalJSON() ([]byte, error) {
	out := struct {
		Actions []int     `json:"actions"`
		Rewards []float64 `json:"rewards"`
		Return  float64   `json:"return"`
	}{
		Actions: make([]int, len(t.steps)),
		Rewards: make([]float64, len(t.steps)),
		Return:  t.Return(),
	}
	for i, s := range t.steps {
		out.Actions[i] = s.Action
		out.Rewards[i] = s.Reward
	}
	return json.Marshal(out)
}

// Return is the undiscounted sum of rewards over the episode.
func (t *Trace) Return() float64 {
	total := 0.0
	for _, s := range t.steps {
		total += s.Reward
	}
	return total
}
