package rl

import "fmt"

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// Agent drives the interaction loop between a policy and an environment,
// alternating Act and Observe once per timestep.
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes and horizon. A policy
// or environment error aborts the run immediately.
func (a *Agent) Run() error {
	for i := 0; i < a.config.Episodes; i++ {
		trace, err := a.RunEpisode()
		if err != nil {
			return fmt.Errorf("episode %d: %w", i, err)
		}
		a.traces[i] = trace
	}
	return nil
}

// Traces of the completed episodes.
func (a *Agent) Traces() []*Trace {
	return a.traces
}

// RunEpisode runs a single episode and returns the resulting trace.
func (a *Agent) RunEpisode() (*Trace, error) {
	obs, err := a.environment.Reset()
	if err != nil {
		return nil, err
	}
	trace := NewTrace()

	for i := 0; i < a.config.Horizon; i++ {
		action, err := a.policy.Act(obs)
		if err != nil {
			return nil, err
		}
		next, reward, done, err := a.environment.Step(action)
		if err != nil {
			return nil, err
		}
		if err := a.policy.Observe(obs, action, next, reward, done); err != nil {
			return nil, err
		}
		trace.Append(Step{
			Obs:     obs,
			Action:  action,
			NextObs: next,
			Reward:  reward,
			Done:    done,
		})
		if done {
			break
		}
		obs = next
	}
	return trace, nil
}
