package main

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/aunum/log"

	"github.com/cbarrick/csb/dqn"
	"github.com/cbarrick/csb/gridworld"
	"github.com/cbarrick/csb/monitor"
	"github.com/cbarrick/csb/rl"
)

// Demo run: Double-DQN with a linear value function against a random
// baseline on a small gridworld. Configuration is fixed; there is no flag
// surface.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	env, err := gridworld.New(8, 8)
	if err != nil {
		log.Fatal(err)
	}

	config := dqn.Config{
		Capacity:           512,
		ObservationShape:   env.ObservationShape(),
		NumActions:         env.NumActions(),
		MinibatchSize:      32,
		LearnFreq:          1,
		TargetUpdateFreq:   256,
		ReplayStart:        512,
		DiscountFactor:     0.99,
		ExplorationInitial: 1.0,
		ExplorationFinal:   0.05,
		ExplorationSteps:   20000,
	}

	online, err := dqn.NewLinear(config.ObservationShape, config.NumActions, 0.05)
	if err != nil {
		log.Fatal(err)
	}
	target, err := dqn.NewLinear(config.ObservationShape, config.NumActions, 0.05)
	if err != nil {
		log.Fatal(err)
	}
	trainer, err := dqn.NewTrainer(config, online, target)
	if err != nil {
		log.Fatal(err)
	}

	server := monitor.NewServer(ctx, "127.0.0.1:7878", trainer)
	server.Start()
	log.Infof("training status at http://%s/status", server.Addr)

	randomEnv, err := gridworld.New(8, 8)
	if err != nil {
		log.Fatal(err)
	}

	comparison := rl.NewComparison(&rl.ComparisonConfig{
		Runs:         1,
		Episodes:     2000,
		Horizon:      100,
		RecordPath:   "results",
		RecordTraces: false,
	})
	comparison.AddExperiment(rl.NewExperiment("dqn", trainer, env))
	comparison.AddExperiment(rl.NewExperiment("random", rl.NewRandomPolicy(randomEnv.NumActions()), randomEnv))
	comparison.AddAnalysis("returns", rl.MeanReturns(50), rl.ReturnsPlotter(path.Join("results", "plots")))

	if err := comparison.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
