package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/vinom-nav/game"
)

type memStore struct {
	table   Table
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(context.Context) (Table, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.table, nil
}

func (s *memStore) Save(_ context.Context, t Table) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.table = t
	return nil
}

type captureLogger struct {
	warnings []string
	errors   []string
}

func (l *captureLogger) Info(string)        {}
func (l *captureLogger) Warning(msg string) { l.warnings = append(l.warnings, msg) }
func (l *captureLogger) Error(msg string)   { l.errors = append(l.errors, msg) }

type observer struct{ runs []RunMetrics }

func (o *observer) RunEnded(r RunMetrics) { o.runs = append(o.runs, r) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func completeRun(t *testing.T, m *Manager, success bool, path int, score float64) RunMetrics {
	t.Helper()
	ctx := context.Background()
	m.StartRun(ctx, game.AStar, "diagonal")
	require.NoError(t, m.UpdateRun(RunUpdate{PathLength: path, NodesExplored: path * 2, Elapsed: Duration(time.Second)}))
	run, err := m.EndRun(ctx, success, score)
	require.NoError(t, err)
	return run
}

func TestAverageMetrics(t *testing.T) {
	store := &memStore{}
	m := NewManager(context.Background(), &Config{Store: store})

	_, ok := m.GetAverageMetrics(game.AStar, "diagonal")
	assert.False(t, ok)

	for i, path := range []int{10, 12, 14} {
		completeRun(t, m, true, path, float64(80+i))
	}

	agg, ok := m.GetAverageMetrics(game.AStar, "diagonal")
	require.True(t, ok)
	assert.Equal(t, 3, agg.TotalRuns)
	assert.Equal(t, 3, agg.SuccessfulRuns)
	assert.InDelta(t, 12, agg.AvgPathLength, 1e-9)
	assert.InDelta(t, 24, agg.AvgNodesExplored, 1e-9)
	assert.Equal(t, 10, agg.MinPathLength)
	assert.Equal(t, 14, agg.MaxPathLength)
	assert.Equal(t, 82.0, agg.BestScore)
	assert.Equal(t, 80.0, agg.WorstScore)
	assert.Equal(t, 1.0, agg.SuccessRate)
	assert.Equal(t, 3, store.saves)

	persisted, ok := store.table.Get(Key{Maze: "diagonal", Algorithm: game.AStar})
	require.True(t, ok)
	assert.Equal(t, agg, persisted)

	_, ok = m.GetAverageMetrics(game.BFS, "diagonal")
	assert.False(t, ok)
}

func TestFailedRunsOnlyCount(t *testing.T) {
	m := NewManager(context.Background(), &Config{})

	completeRun(t, m, false, 50, 5)
	_, ok := m.GetAverageMetrics(game.AStar, "diagonal")
	assert.False(t, ok, "no successful run yet")

	completeRun(t, m, true, 16, 90)
	completeRun(t, m, false, 3, 1)

	agg, ok := m.GetAverageMetrics(game.AStar, "diagonal")
	require.True(t, ok)
	assert.Equal(t, 3, agg.TotalRuns)
	assert.Equal(t, 1, agg.SuccessfulRuns)
	assert.InDelta(t, 1.0/3, agg.SuccessRate, 1e-9)
	assert.Equal(t, 16, agg.MinPathLength)
	assert.Equal(t, 16, agg.MaxPathLength)
	assert.Equal(t, 90.0, agg.WorstScore)
	assert.Len(t, m.History(game.AStar, "diagonal"), 3)
}

func TestUpdateRun(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, &Config{})

	assert.ErrorIs(t, m.UpdateRun(RunUpdate{PathLength: 1}), ErrNoOpenRun)
	_, err := m.EndRun(ctx, true, 0)
	assert.ErrorIs(t, err, ErrNoOpenRun)

	m.StartRun(ctx, game.BFS, "open")
	require.NoError(t, m.UpdateRun(RunUpdate{PathLength: 5, NodesExplored: 20, Elapsed: Duration(3 * time.Second), TimeRemaining: Duration(57 * time.Second)}))
	require.NoError(t, m.UpdateRun(RunUpdate{PathLength: 4, NodesExplored: 18, Elapsed: Duration(2 * time.Second), TimeRemaining: Duration(58 * time.Second)}))

	open, ok := m.OpenRun()
	require.True(t, ok)
	assert.Equal(t, 5, open.PathLength, "counters never decrease")
	assert.Equal(t, 20, open.NodesExplored)
	assert.Equal(t, 2.0, open.Elapsed, "times are last write wins")
	assert.Equal(t, 58.0, open.TimeRemaining)

	run, err := m.EndRun(ctx, true, 70)
	require.NoError(t, err)
	assert.Equal(t, 2.0, run.Elapsed)
	_, ok = m.OpenRun()
	assert.False(t, ok)
}

func TestUpdateRunKeepsOmittedTimes(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, &Config{})

	m.StartRun(ctx, game.AStar, "open")
	require.NoError(t, m.UpdateRun(RunUpdate{
		PathLength:    3,
		Elapsed:       Duration(2 * time.Second),
		TimeRemaining: Duration(58 * time.Second),
		TotalTime:     Duration(time.Minute),
	}))
	require.NoError(t, m.UpdateRun(RunUpdate{PathLength: 5}))

	open, ok := m.OpenRun()
	require.True(t, ok)
	assert.Equal(t, 5, open.PathLength)
	assert.Equal(t, 2.0, open.Elapsed)
	assert.Equal(t, 58.0, open.TimeRemaining)
	assert.Equal(t, 60.0, open.TotalTime)

	run, err := m.EndRun(ctx, true, 50)
	require.NoError(t, err)
	assert.Equal(t, 2.0, run.Elapsed)
}

func TestElapsedFromClock(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(ctx, &Config{Clock: clock.now})

	m.StartRun(ctx, game.Dijkstra, "open")
	clock.advance(1500 * time.Millisecond)
	run, err := m.EndRun(ctx, true, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.5, run.Elapsed)
	assert.Equal(t, clock.t, run.EndedAt)

	t.Run("counter only updates keep the clock", func(t *testing.T) {
		m.StartRun(ctx, game.Dijkstra, "open")
		require.NoError(t, m.UpdateRun(RunUpdate{PathLength: 4, NodesExplored: 9}))
		clock.advance(4 * time.Second)

		run, err := m.EndRun(ctx, true, 10)
		require.NoError(t, err)
		assert.Equal(t, 4.0, run.Elapsed)
		assert.Equal(t, 4, run.PathLength)

		agg, ok := m.GetAverageMetrics(game.Dijkstra, "open")
		require.True(t, ok)
		assert.Equal(t, 1.5, agg.FastestTime)
		assert.Equal(t, 4.0, agg.SlowestTime)
	})
}

func TestStartRunClosesOpenRun(t *testing.T) {
	ctx := context.Background()
	obs := &observer{}
	logger := &captureLogger{}
	m := NewManager(ctx, &Config{Observers: []Observer{obs}, Logger: logger})

	first := m.StartRun(ctx, game.Greedy, "wall")
	second := m.StartRun(ctx, game.Greedy, "wall")
	assert.NotEqual(t, first, second)

	require.Len(t, obs.runs, 1)
	assert.Equal(t, first, obs.runs[0].ID)
	assert.False(t, obs.runs[0].Success)
	assert.Len(t, logger.warnings, 1)

	agg, _ := m.Table().Get(Key{Maze: "wall", Algorithm: game.Greedy})
	assert.Equal(t, 1, agg.TotalRuns)
	assert.Zero(t, agg.SuccessfulRuns)

	open, ok := m.OpenRun()
	require.True(t, ok)
	assert.Equal(t, second, open.ID)
}

func TestStoreFailures(t *testing.T) {
	t.Run("load failure starts empty", func(t *testing.T) {
		logger := &captureLogger{}
		m := NewManager(context.Background(), &Config{Store: &memStore{loadErr: errors.New("corrupt")}, Logger: logger})
		assert.Empty(t, m.Table())
		assert.Len(t, logger.warnings, 1)
	})

	t.Run("loaded table is used", func(t *testing.T) {
		table := Table{"open": {game.BFS: {TotalRuns: 2, SuccessfulRuns: 2, AvgPathLength: 18}}}
		m := NewManager(context.Background(), &Config{Store: &memStore{table: table}})
		agg, ok := m.GetAverageMetrics(game.BFS, "open")
		require.True(t, ok)
		assert.Equal(t, 18.0, agg.AvgPathLength)
	})

	t.Run("save failure is logged", func(t *testing.T) {
		logger := &captureLogger{}
		store := &memStore{saveErr: errors.New("disk full")}
		m := NewManager(context.Background(), &Config{Store: store, Logger: logger})
		run := completeRun(t, m, true, 12, 50)
		assert.True(t, run.Success)
		assert.Len(t, logger.errors, 1)
		_, ok := m.GetAverageMetrics(game.AStar, "diagonal")
		assert.True(t, ok)
	})
}

func TestTableClone(t *testing.T) {
	m := NewManager(context.Background(), &Config{})
	completeRun(t, m, true, 12, 50)

	c := m.Table()
	c["diagonal"][game.AStar] = AlgorithmMetrics{}
	agg, ok := m.GetAverageMetrics(game.AStar, "diagonal")
	require.True(t, ok)
	assert.Equal(t, 12, agg.MinPathLength)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name                 string
		optimal, path, nodes int
		elapsed              time.Duration
		want                 float64
	}{
		{"perfect", 10, 10, 10, time.Second, 100},
		{"twice as long", 10, 20, 40, time.Second, 39.62},
		{"diagonal astar", 16, 16, 72, 2500 * time.Millisecond, 96.95},
		{"tiny time is capped", 10, 10, 10, 10 * time.Millisecond, 100},
		{"time score floors at zero", 10, 10, 10, time.Duration(1 << 62), 90},
		{"no nodes", 10, 10, 0, time.Second, 100},
		{"unknown optimum", 0, 10, 10, time.Second, 35},
		{"already at goal", 0, 0, 1, time.Second, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.optimal, tt.path, tt.nodes, tt.elapsed), 1e-9)
		})
	}

	t.Run("shorter than optimal is capped", func(t *testing.T) {
		assert.LessOrEqual(t, Score(20, 10, 10, time.Second), 100.0)
	})
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	runs := []RunMetrics{
		{Success: true, PathLength: 10, NodesExplored: 30, Elapsed: 1, Score: 80},
		{Success: true, PathLength: 12, NodesExplored: 40, Elapsed: 2, Score: 70},
		{Success: true, PathLength: 14, NodesExplored: 50, Elapsed: 3, Score: 60},
		{Success: false, PathLength: 99, NodesExplored: 99, Elapsed: 9, Score: 1},
	}
	s := Summarize(runs)
	assert.Equal(t, 4, s.Runs)
	assert.Equal(t, 0.75, s.SuccessRate)
	assert.InDelta(t, 12, s.PathLength.Mean, 1e-9)
	assert.InDelta(t, 12, s.PathLength.Median, 1e-9)
	assert.Equal(t, 10.0, s.PathLength.Min)
	assert.Equal(t, 14.0, s.PathLength.Max)
	assert.InDelta(t, 40, s.NodesExplored.Mean, 1e-9)
	assert.InDelta(t, 70, s.Score.Mean, 1e-9)
	assert.Greater(t, s.Elapsed.StdDev, 0.0)

	s = Summarize(runs[3:])
	assert.Zero(t, s.SuccessRate)
	assert.Equal(t, Distribution{}, s.PathLength)
}
