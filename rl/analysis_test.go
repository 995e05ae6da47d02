package rl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func traceWithRewards(rewards ...float64) *Trace {
	trace := NewTrace()
	for i, r := range rewards {
		trace.Append(Step{
			Obs:     obs(float64(i)),
			Action:  i % 2,
			NextObs: obs(float64(i + 1)),
			Reward:  r,
			Done:    i == len(rewards)-1,
		})
	}
	return trace
}

func TestEpisodeReturns(t *testing.T) {
	traces := []*Trace{
		traceWithRewards(1, 2, 3),
		traceWithRewards(-1, -1),
		traceWithRewards(),
	}
	returns := EpisodeReturns()(traces).([]float64)
	require.Equal(t, []float64{6, -2, 0}, returns)
}

func TestMeanReturns(t *testing.T) {
	traces := []*Trace{
		traceWithRewards(2),
		traceWithRewards(4),
		traceWithRewards(6),
		traceWithRewards(8),
	}
	means := MeanReturns(2)(traces).([]float64)
	require.Equal(t, []float64{2, 3, 5, 7}, means)
}

func TestTraceMarshalJSON(t *testing.T) {
	bs, err := json.Marshal(traceWithRewards(0.5, -0.5, 1))
	require.NoError(t, err)

	var out struct {
		Actions []int     `json:"actions"`
		Rewards []float64 `json:"rewards"`
		Return  float64   `json:"return"`
	}
	require.NoError(t, json.Unmarshal(bs, &out))
	require.Equal(t, []int{0, 1, 0}, out.Actions)
	require.Equal(t, []float64{0.5, -0.5, 1}, out.Rewards)
	require.Equal(t, 1.0, out.Return)
}
