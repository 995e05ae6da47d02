package gridworld

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/cbarrick/csb/rl"
)

const (
	Up = iota
	Down
	Left
	Right
	numActions
)

// Environment is a small deterministic grid: the agent starts in the corner
// opposite the goal, pays a step penalty, and the episode ends on the goal
// cell. Observations are the normalized coordinates of the current cell.
type Environment struct {
	Height int
	Width  int
	Goal   Position

	StepPenalty float64
	GoalReward  float64

	pos Position
}

var _ rl.Environment = &Environment{}

type Position struct {
	I int
	J int
}

func (p Position) Eq(o Position) bool {
	return p.I == o.I && p.J == o.J
}

func New(height, width int) (*Environment, error) {
	if height < 2 || width < 2 {
		return nil, fmt.Errorf("grid of %dx%d is too small", height, width)
	}
	return &Environment{
		Height:      height,
		Width:       width,
		Goal:        Position{height - 1, width - 1},
		StepPenalty: -0.01,
		GoalReward:  1.0,
	}, nil
}

func (g *Environment) ObservationShape() tensor.Shape {
	return tensor.Shape{2}
}

func (g *Environment) NumActions() int {
	return numActions
}

func (g *Environment) Reset() (*tensor.Dense, error) {
	g.pos = Position{0, 0}
	return g.observation(), nil
}

func (g *Environment) Step(action int) (*tensor.Dense, float64, bool, error) {
	if action < 0 || action >= numActions {
		return nil, 0, false, fmt.Errorf("action %d outside [0, %d)", action, numActions)
	}
	next := g.pos
	switch action {
	case Up:
		next.I = min(g.Height-1, g.pos.I+1)
	case Down:
		next.I = max(0, g.pos.I-1)
	case Left:
		next.J = max(0, g.pos.J-1)
	case Right:
		next.J = min(g.Width-1, g.pos.J+1)
	}
	g.pos = next

	if next.Eq(g.Goal) {
		return g.observation(), g.GoalReward, true, nil
	}
	return g.observation(), g.StepPenalty, false, nil
}

func (g *Environment) observation() *tensor.Dense {
	return tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{
			float64(g.pos.I) / float64(g.Height-1),
			float64(g.pos.J) / float64(g.Width-1),
		}),
	)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
