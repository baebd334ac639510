package service

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/maze"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

// Bench runs every algorithm on every variant.
type Bench struct {
	factory     *Factory
	runner      *Runner
	leaderboard i.Leaderboard
	logger      game.Logger
}

// BenchConfig holds the dependencies of a Bench.
type BenchConfig struct {
	Factory     *Factory
	Runner      *Runner
	Leaderboard i.Leaderboard // Optional
	Logger      game.Logger
}

// NewBench creates a Bench with the given configuration.
func NewBench(c *BenchConfig) *Bench {
	return &Bench{
		factory:     c.Factory,
		runner:      c.Runner,
		leaderboard: c.Leaderboard,
		logger:      game.LoggerOrNop(c.Logger),
	}
}

// Plan selects the runs of a benchmark.
type Plan struct {
	Variants   []string
	Algorithms []game.Algorithm
	Runs       int   // Runs per pair, at least one
	Seed       int64 // Seed of generated variants
	WarmStart  bool  // Learners start from stored tables
	SaveTables bool  // Learners store their tables after each run
}

// Run executes p in variant, algorithm, run order. Successful scores go to
// the leaderboard. It stops at the first build error or cancellation and
// returns the outcomes gathered so far.
func (b *Bench) Run(ctx context.Context, p Plan) ([]*Outcome, error) {
	runs := max(p.Runs, 1)
	var outcomes []*Outcome

	for _, name := range p.Variants {
		v, err := maze.NewVariant(name, p.Seed)
		if err != nil {
			return outcomes, err
		}

		for _, a := range p.Algorithms {
			for range runs {
				nav, err := b.factory.Build(ctx, a, v.Grid, v.Name, p.WarmStart)
				if err != nil {
					return outcomes, err
				}

				out, err := b.runner.Run(ctx, nav, v)
				outcomes = append(outcomes, out)
				if err != nil {
					return outcomes, err
				}

				b.record(ctx, out)
				if p.SaveTables {
					if err := b.factory.SaveTable(ctx, nav, v.Name); err != nil {
						b.logger.Error(err.Error())
					}
				}
			}
		}
	}
	return outcomes, nil
}

func (b *Bench) record(ctx context.Context, out *Outcome) {
	if b.leaderboard == nil || !out.Success {
		return
	}
	if err := b.leaderboard.Submit(ctx, out.Maze, out.Algorithm, out.Score); err != nil {
		b.logger.Error(fmt.Sprintf("submitting %s score on %s: %s", out.Algorithm, out.Maze, err))
	}
}
