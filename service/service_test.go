package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/game/maze"
	"github.com/beka-birhanu/vinom-nav/game/search"
	"github.com/beka-birhanu/vinom-nav/metrics"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

type fakeQTables struct {
	stored  map[string][]learning.Entry
	loadErr error
	saves   int
}

func (f *fakeQTables) Save(_ context.Context, a game.Algorithm, maze string, entries []learning.Entry) error {
	if f.stored == nil {
		f.stored = make(map[string][]learning.Entry)
	}
	f.saves++
	f.stored[string(a)+"/"+maze] = entries
	return nil
}

func (f *fakeQTables) Load(_ context.Context, a game.Algorithm, maze string) ([]learning.Entry, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	e, ok := f.stored[string(a)+"/"+maze]
	return e, ok, nil
}

type fakeLeaderboard struct {
	submits []i.LeaderboardEntry
}

func (f *fakeLeaderboard) Submit(_ context.Context, _ string, a game.Algorithm, score float64) error {
	f.submits = append(f.submits, i.LeaderboardEntry{Algorithm: a, Score: score})
	return nil
}

func (f *fakeLeaderboard) Top(context.Context, string, int) ([]i.LeaderboardEntry, error) {
	return f.submits, nil
}

type tickClock struct {
	t    time.Time
	tick time.Duration
}

func (c *tickClock) now() time.Time {
	c.t = c.t.Add(c.tick)
	return c.t
}

func variant(t *testing.T, name string) *maze.Variant {
	t.Helper()
	v, err := maze.NewVariant(name, 0)
	require.NoError(t, err)
	return v
}

func smallVariant(t *testing.T) *maze.Variant {
	t.Helper()
	g, err := maze.ParseLayout([]string{
		"S....",
		".....",
		".....",
		".....",
		"....G",
	})
	require.NoError(t, err)
	return &maze.Variant{Name: "small", Grid: g}
}

func newRunner(t *testing.T, m *metrics.Manager, c RunnerConfig) *Runner {
	t.Helper()
	c.Recorder = m
	r, err := NewRunner(&c)
	require.NoError(t, err)
	return r
}

func TestOptimal(t *testing.T) {
	assert.Equal(t, 18, Optimal(variant(t, maze.VariantOpen)))
	assert.Equal(t, 16, Optimal(variant(t, maze.VariantDiagonal)))
	assert.Equal(t, -1, Optimal(variant(t, maze.VariantWall)))
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(&RunnerConfig{})
	assert.ErrorIs(t, err, ErrNilRecorder)
}

func TestRunSearch(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewManager(ctx, &metrics.Config{})
	r := newRunner(t, m, RunnerConfig{})
	v := variant(t, maze.VariantDiagonal)

	nav := search.NewAStar(v.Grid)
	out, err := r.Run(ctx, nav, v)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, StopGoalReached, out.StopReason)
	assert.Equal(t, 16, out.Optimal)
	assert.Equal(t, 16, out.Steps)
	assert.Len(t, out.Path, 17)
	assert.Equal(t, v.Start(), out.Path[0])
	assert.Equal(t, v.Goal(), out.Path[16])
	assert.Positive(t, out.NodesExplored)
	assert.Positive(t, out.Score)
	assert.Nil(t, out.Training)

	agg, ok := m.GetAverageMetrics(game.AStar, maze.VariantDiagonal)
	require.True(t, ok)
	assert.Equal(t, 1, agg.SuccessfulRuns)
	assert.Equal(t, 16.0, agg.AvgPathLength)
	assert.Equal(t, float64(out.NodesExplored), agg.AvgNodesExplored)
	assert.Equal(t, out.Score, agg.BestScore)

	history := m.History(game.AStar, maze.VariantDiagonal)
	require.Len(t, history, 1)
	assert.Equal(t, out.RunID, history[0].ID)
}

func TestRunUnreachable(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewManager(ctx, &metrics.Config{})
	r := newRunner(t, m, RunnerConfig{})
	v := variant(t, maze.VariantWall)

	out, err := r.Run(ctx, search.NewBFS(v.Grid), v)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, StopStuck, out.StopReason)
	assert.Equal(t, -1, out.Optimal)
	assert.Zero(t, out.Steps)
	assert.Zero(t, out.Score)

	_, ok := m.GetAverageMetrics(game.BFS, maze.VariantWall)
	assert.False(t, ok)
	agg, _ := m.Table().Get(metrics.Key{Maze: maze.VariantWall, Algorithm: game.BFS})
	assert.Equal(t, 1, agg.TotalRuns)
}

func TestRunBudgets(t *testing.T) {
	ctx := context.Background()
	v := variant(t, maze.VariantOpen)

	t.Run("step limit", func(t *testing.T) {
		m := metrics.NewManager(ctx, &metrics.Config{})
		r := newRunner(t, m, RunnerConfig{MaxSteps: 5})
		out, err := r.Run(ctx, search.NewBFS(v.Grid), v)
		require.NoError(t, err)
		assert.Equal(t, StopStepLimit, out.StopReason)
		assert.Equal(t, 5, out.Steps)
		assert.False(t, out.Success)
	})

	t.Run("time limit", func(t *testing.T) {
		m := metrics.NewManager(ctx, &metrics.Config{})
		clock := &tickClock{t: time.Unix(0, 0), tick: time.Second}
		r := newRunner(t, m, RunnerConfig{TimeLimit: 5 * time.Second, Clock: clock.now})
		out, err := r.Run(ctx, search.NewBFS(v.Grid), v)
		require.NoError(t, err)
		assert.Equal(t, StopTimeLimit, out.StopReason)
		assert.Less(t, out.Steps, 18)
		assert.False(t, out.Success)
	})

	t.Run("canceled", func(t *testing.T) {
		m := metrics.NewManager(ctx, &metrics.Config{})
		r := newRunner(t, m, RunnerConfig{})
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		out, err := r.Run(canceled, search.NewBFS(v.Grid), v)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StopCanceled, out.StopReason)

		_, open := m.OpenRun()
		assert.False(t, open)
		agg, _ := m.Table().Get(metrics.Key{Maze: maze.VariantOpen, Algorithm: game.BFS})
		assert.Equal(t, 1, agg.TotalRuns)
	})
}

func TestRunLearner(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewManager(ctx, &metrics.Config{})
	r := newRunner(t, m, RunnerConfig{TrainingEpisodes: 1000})
	v := smallVariant(t)

	f := NewFactory(&FactoryConfig{
		Params: func(game.Algorithm) learning.Params {
			p := learning.DefaultParams()
			p.EpsilonDecay = 0.99
			return p
		},
		Seed: 3,
	})
	for _, a := range []game.Algorithm{game.QLearning, game.SARSA} {
		t.Run(string(a), func(t *testing.T) {
			nav, err := f.Build(ctx, a, v.Grid, v.Name, false)
			require.NoError(t, err)

			out, err := r.Run(ctx, nav, v)
			require.NoError(t, err)
			require.NotNil(t, out.Training)
			assert.Positive(t, out.Training.Summary.TotalEpisodes)
			assert.True(t, out.Success)
			assert.GreaterOrEqual(t, out.Steps, 8)
			assert.Positive(t, out.NodesExplored)
		})
	}
}

func TestFactory(t *testing.T) {
	ctx := context.Background()
	v := smallVariant(t)

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := NewFactory(&FactoryConfig{}).Build(ctx, "dqn", v.Grid, v.Name, false)
		assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	})

	t.Run("search algorithms", func(t *testing.T) {
		f := NewFactory(&FactoryConfig{})
		for _, a := range []game.Algorithm{game.BFS, game.Dijkstra, game.AStar, game.Greedy} {
			nav, err := f.Build(ctx, a, v.Grid, v.Name, true)
			require.NoError(t, err)
			assert.Equal(t, a, nav.Algorithm())
			assert.NoError(t, f.SaveTable(ctx, nav, v.Name))
		}
	})

	t.Run("warm start round trip", func(t *testing.T) {
		store := &fakeQTables{}
		f := NewFactory(&FactoryConfig{QTables: store, Seed: 9})

		nav, err := f.Build(ctx, game.SARSA, v.Grid, v.Name, true)
		require.NoError(t, err)
		l := nav.(learning.Learner)
		l.Train(v.Start(), v.Goal(), 50, 0)
		require.NoError(t, f.SaveTable(ctx, nav, v.Name))
		assert.Equal(t, 1, store.saves)

		warm, err := f.Build(ctx, game.SARSA, v.Grid, v.Name, true)
		require.NoError(t, err)
		assert.Equal(t, l.Table().Len(), warm.(learning.Learner).Table().Len())

		cold, err := f.Build(ctx, game.SARSA, v.Grid, v.Name, false)
		require.NoError(t, err)
		assert.Zero(t, cold.(learning.Learner).Table().Len())
	})

	t.Run("load failure starts cold", func(t *testing.T) {
		f := NewFactory(&FactoryConfig{QTables: &fakeQTables{loadErr: errors.New("closed")}})
		nav, err := f.Build(ctx, game.QLearning, v.Grid, v.Name, true)
		require.NoError(t, err)
		assert.Zero(t, nav.(learning.Learner).Table().Len())
	})
}

func TestBench(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewManager(ctx, &metrics.Config{})
	board := &fakeLeaderboard{}
	b := NewBench(&BenchConfig{
		Factory:     NewFactory(&FactoryConfig{}),
		Runner:      newRunner(t, m, RunnerConfig{}),
		Leaderboard: board,
	})

	outcomes, err := b.Run(ctx, Plan{
		Variants:   []string{maze.VariantOpen, maze.VariantWall},
		Algorithms: []game.Algorithm{game.BFS, game.Greedy},
		Runs:       2,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 8)
	assert.Len(t, board.submits, 4)

	for _, a := range []game.Algorithm{game.BFS, game.Greedy} {
		agg, ok := m.GetAverageMetrics(a, maze.VariantOpen)
		require.True(t, ok)
		assert.Equal(t, 2, agg.TotalRuns)
		assert.Equal(t, 18.0, agg.AvgPathLength)

		agg, _ = m.Table().Get(metrics.Key{Maze: maze.VariantWall, Algorithm: a})
		assert.Equal(t, 2, agg.TotalRuns)
		assert.Zero(t, agg.SuccessfulRuns)
	}

	_, err = b.Run(ctx, Plan{Variants: []string{"spiral"}, Algorithms: []game.Algorithm{game.BFS}})
	assert.ErrorIs(t, err, maze.ErrUnknownVariant)
}
