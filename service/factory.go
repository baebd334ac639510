package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/game/search"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Factory builds navigators by algorithm name.
type Factory struct {
	params  func(game.Algorithm) learning.Params
	qtables i.QTableStore
	logger  game.Logger
	seed    int64
}

// FactoryConfig holds what a Factory needs to build learners.
type FactoryConfig struct {
	Params  func(game.Algorithm) learning.Params // Defaults to learning.DefaultParams for every learner
	QTables i.QTableStore                        // Optional, enables warm starts and SaveTable
	Logger  game.Logger
	Seed    int64 // Overrides the learners' seed when non zero
}

// NewFactory creates a Factory with the given configuration.
func NewFactory(c *FactoryConfig) *Factory {
	f := &Factory{
		params:  c.Params,
		qtables: c.QTables,
		logger:  game.LoggerOrNop(c.Logger),
		seed:    c.Seed,
	}
	if f.params == nil {
		f.params = func(game.Algorithm) learning.Params { return learning.DefaultParams() }
	}
	return f
}

// Build returns a navigator for algorithm a over world. Learners start from
// the stored snapshot of (a, maze) when warm is set and one exists.
func (f *Factory) Build(ctx context.Context, a game.Algorithm, world game.GridWorld, maze string, warm bool) (game.Navigator, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
	if !a.IsLearner() {
		return search.New(a, world)
	}

	params := f.params(a)
	if f.seed != 0 {
		params.Seed = f.seed
	}
	opts := []learning.Option{learning.WithLogger(f.logger)}

	if warm && f.qtables != nil {
		entries, ok, err := f.qtables.Load(ctx, a, maze)
		switch {
		case err != nil:
			f.logger.Warning(fmt.Sprintf("loading %s table for %s, starting cold: %s", a, maze, err))
		case ok:
			t := learning.NewQTable()
			t.Restore(entries)
			opts = append(opts, learning.WithTable(t))
			f.logger.Info(fmt.Sprintf("warm start of %s on %s with %d states", a, maze, t.Len()))
		}
	}

	return learning.New(a, world, params, opts...)
}

// SaveTable stores the table of nav when it is a learner. Search strategies
// and a factory without a store are a no-op.
func (f *Factory) SaveTable(ctx context.Context, nav game.Navigator, maze string) error {
	l, ok := nav.(learning.Learner)
	if !ok || f.qtables == nil {
		return nil
	}
	if err := f.qtables.Save(ctx, l.Algorithm(), maze, l.Table().Entries()); err != nil {
		return fmt.Errorf("saving %s table for %s: %w", l.Algorithm(), maze, err)
	}
	return nil
}
