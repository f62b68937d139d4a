package evolve

import (
	"context"

	"github.com/XiaoConstantine/evoprompt/pkg/logging"
	"github.com/XiaoConstantine/evoprompt/pkg/storage"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// Runner drives a full run: optional pre-round mutation pass, numbered
// rounds, and a snapshot after each numbered round.
type Runner struct {
	engine        *Engine
	numRounds     int
	mutateOnStart bool
	snapshotPath  string
}

// NewRunner wires an engine to the round count and snapshot destination.
func NewRunner(engine *Engine, numRounds int, mutateOnStart bool, snapshotPath string) *Runner {
	return &Runner{
		engine:        engine,
		numRounds:     numRounds,
		mutateOnStart: mutateOnStart,
		snapshotPath:  snapshotPath,
	}
}

// Run executes the configured rounds over the seed population and returns
// the final population. The pre-round pass, when enabled, produces no
// snapshot.
func (r *Runner) Run(ctx context.Context, population []*variant.Variant) ([]*variant.Variant, error) {
	logger := logging.GetLogger()

	if r.mutateOnStart {
		logger.Info(ctx, "Running mutation pass before round 1")
		next, err := r.engine.ProcessRound(ctx, population)
		if err != nil {
			return nil, err
		}
		population = next
	}

	for round := 1; round <= r.numRounds; round++ {
		logger.Info(ctx, "Processing round %d/%d", round, r.numRounds)

		next, err := r.engine.ProcessRound(ctx, population)
		if err != nil {
			return nil, err
		}
		population = next

		if r.snapshotPath != "" {
			snapshot := storage.NewSnapshot(round, population)
			if err := storage.WriteSnapshot(r.snapshotPath, snapshot); err != nil {
				return nil, err
			}
		}
	}

	return population, nil
}
