// Package evolve drives the evolutionary selection loop: sample, mutate,
// score, merge, truncate.
package evolve

import (
	"context"
	"math/rand"
	"sort"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/logging"
	"github.com/XiaoConstantine/evoprompt/pkg/mutation"
	"github.com/XiaoConstantine/evoprompt/pkg/scoring"
	"github.com/XiaoConstantine/evoprompt/pkg/storage"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// Options configures the selection loop.
type Options struct {
	// SampleSize is the number of variants mutated per round (capped at the
	// population size).
	SampleSize int
	// TopK is the number of variants retained at the end of each round.
	// Must not exceed SampleSize.
	TopK int
	// Strategies is the set mutation types are drawn from uniformly at
	// random. Defaults to mutation.BaselineTypes().
	Strategies []mutation.Type
	// RNG is the single random stream driving both candidate sampling and
	// strategy choice. Injecting it keeps rounds reproducible. Defaults to
	// a stream seeded with 0.
	RNG *rand.Rand
	// Index, when set, records every scored child for later lineage queries.
	Index *storage.Index
}

// Engine runs rounds of the selection loop. Work within a round is strictly
// sequential: one variant at a time, the backend call being the only
// suspend point.
type Engine struct {
	sampleSize int
	topK       int
	strategies []mutation.Type
	mutator    *mutation.Mutator
	store      *storage.Store
	index      *storage.Index
	rng        *rand.Rand
	round      int // number of rounds processed so far
}

// NewEngine validates the options and builds an Engine. Parameter violations
// are reported before any round runs.
func NewEngine(mutator *mutation.Mutator, store *storage.Store, opts Options) (*Engine, error) {
	if opts.SampleSize < 1 {
		return nil, errors.New(errors.ValidationFailed, "sample size must be positive")
	}
	if opts.TopK < 1 {
		return nil, errors.New(errors.ValidationFailed, "topK must be positive")
	}
	if opts.TopK > opts.SampleSize {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "topK cannot exceed sample size"),
			errors.Fields{"top_k": opts.TopK, "sample_size": opts.SampleSize})
	}

	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = mutation.BaselineTypes()
	}

	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}

	return &Engine{
		sampleSize: opts.SampleSize,
		topK:       opts.TopK,
		strategies: strategies,
		mutator:    mutator,
		store:      store,
		index:      opts.Index,
		rng:        rng,
	}, nil
}

// ProcessRound runs one full cycle over the population and returns the next
// population: at most topK variants, sorted descending by score. A mutation
// failure never aborts the round; the failed variant simply contributes no
// child.
func (e *Engine) ProcessRound(ctx context.Context, population []*variant.Variant) ([]*variant.Variant, error) {
	logger := logging.GetLogger()
	e.round++
	logger.Info(ctx, "Starting processing round with %d variants", len(population))

	if err := errors.CheckContext(ctx, "round"); err != nil {
		return nil, err
	}

	sampled := e.sample(population)

	children := make([]*variant.Variant, 0, len(sampled))
	for _, parent := range sampled {
		mutationType := e.strategies[e.rng.Intn(len(e.strategies))]

		child, err := e.mutator.Mutate(ctx, parent, mutationType)
		if err != nil {
			logger.Warn(ctx, "Error processing variant %s: %v", parent.ID, err)
			continue
		}

		child.SetScore(scoring.Score(child))
		if err := e.store.Save(child); err != nil {
			return nil, err
		}
		e.record(ctx, child)

		children = append(children, child)
	}

	logger.Info(ctx, "Round completed. Generated %d new variants", len(children))

	// Guard against never-scored variants (seeds on their first round).
	for _, v := range population {
		if !v.Scored() {
			v.SetScore(scoring.Score(v))
		}
	}

	merged := make([]*variant.Variant, 0, len(children)+len(population))
	merged = append(merged, children...)
	merged = append(merged, population...)

	// Stable sort: ties keep merge order, children before carried-over
	// originals.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score() > merged[j].Score()
	})

	if len(merged) > e.topK {
		merged = merged[:e.topK]
	}
	return merged, nil
}

// sample draws min(sampleSize, len(population)) variants uniformly at random
// without replacement.
func (e *Engine) sample(population []*variant.Variant) []*variant.Variant {
	n := e.sampleSize
	if n > len(population) {
		n = len(population)
	}

	selected := make([]*variant.Variant, 0, n)
	for _, idx := range e.rng.Perm(len(population))[:n] {
		selected = append(selected, population[idx])
	}
	return selected
}

// record writes a child to the lineage index. Index failures are logged and
// tolerated; the index is a convenience, not part of the round contract.
func (e *Engine) record(ctx context.Context, v *variant.Variant) {
	if e.index == nil {
		return
	}
	if err := e.index.Record(e.round, v); err != nil {
		logging.GetLogger().Warn(ctx, "Failed to index variant %s: %v", v.ID, err)
	}
}
