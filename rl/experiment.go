package rl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/aunum/log"

	"github.com/cbarrick/csb/util"
)

// Experiment names a policy/environment pairing and collects the traces of
// its episodes.
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
	Result      []*Trace
}

func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
		Result:      make([]*Trace, 0),
	}
}

// Run executes the experiment for the given number of episodes, keeping a
// running mean of recent returns for the progress display.
func (e *Experiment) Run(episodes, horizon int) error {
	log.Infof("running experiment %s", e.Name)
	agent := NewAgent(&AgentConfig{
		Episodes:    episodes,
		Horizon:     horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})
	window := util.NewMeanWindow(100)
	for i := 0; i < episodes; i++ {
		trace, err := agent.RunEpisode()
		if err != nil {
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		e.Result = append(e.Result, trace)
		window.Push(trace.Return())
		fmt.Printf("\rExperiment: %s, Episode: %d/%d, MeanReturn: %8.3f", e.Name, i+1, episodes, window.Mean())
	}
	fmt.Println("")
	return nil
}

// recordTraces appends the collected traces to a per-run JSONL file.
func (e *Experiment) recordTraces(dir string, run int) error {
	file := path.Join(dir, e.Name+"_"+strconv.Itoa(run)+".jsonl")
	for _, trace := range e.Result {
		bs, err := json.Marshal(trace)
		if err != nil {
			return err
		}
		if err := util.AppendToFile(file, string(bs)); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the collected traces and resets the policy for the next run.
func (e *Experiment) Reset() {
	e.Result = make([]*Trace, 0)
	e.policy.Reset()
}

// Generic DataSet that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer func([]*Trace) DataSet

// Comparator differentiates between datasets with associated names
type Comparator func(run int, names []string, datasets []DataSet)

func NoopComparator() Comparator {
	return func(int, []string, []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs         int    // number of runs
	Episodes     int    // number of episodes per run
	Horizon      int    // number of steps per episode
	RecordPath   string // path to store the results
	RecordTraces bool   // append per-episode trace records under RecordPath
}

// Comparison runs the configured experiments side by side, analyzes their
// traces, and hands the resulting datasets to the comparators.
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	config      *ComparisonConfig
}

func NewComparison(config *ComparisonConfig) *Comparison {
	if config.RecordPath != "" {
		if err := os.MkdirAll(config.RecordPath, 0755); err != nil {
			panic(err)
		}
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		config:      config,
	}
}

// AddAnalysis adds an analyzer and comparator pair to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	for run := 0; run < c.config.Runs; run++ {
		log.Infof("run %d/%d", run+1, c.config.Runs)

		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := e.Run(c.config.Episodes, c.config.Horizon); err != nil {
				return err
			}
			if c.config.RecordTraces && c.config.RecordPath != "" {
				if err := e.recordTraces(path.Join(c.config.RecordPath, "traces"), run); err != nil {
					return err
				}
			}
			for name, a := range c.analyzers {
				datasets[name][i] = a(e.Result)
			}
			names[i] = e.Name
			e.Reset()
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
	return nil
}
