package metrics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/beka-birhanu/vinom-nav/game"
)

var (
	ErrNoOpenRun = errors.New("no open run")
)

// Store persists the aggregate table.
type Store interface {
	Load(ctx context.Context) (Table, error)
	Save(ctx context.Context, t Table) error
}

// Observer is notified after every closed run.
type Observer interface {
	RunEnded(r RunMetrics)
}

// Manager tracks at most one open run and the aggregates of closed ones.
// It holds no lock; callers sharing a Manager serialize access themselves.
type Manager struct {
	store     Store
	logger    game.Logger
	observers []Observer
	now       func() time.Time

	table      Table
	history    map[Key][]RunMetrics
	open       *RunMetrics
	elapsedSet bool
}

// Config holds the dependencies of a Manager. Every field is optional.
type Config struct {
	Store     Store // Optional, aggregates stay in memory without it
	Logger    game.Logger
	Observers []Observer
	Clock     func() time.Time // Defaults to time.Now
}

// NewManager creates a Manager and loads the persisted table. A missing or
// unreadable table starts the manager empty.
func NewManager(ctx context.Context, c *Config) *Manager {
	m := &Manager{
		store:     c.Store,
		logger:    game.LoggerOrNop(c.Logger),
		observers: c.Observers,
		now:       c.Clock,
		table:     make(Table),
		history:   make(map[Key][]RunMetrics),
	}
	if m.now == nil {
		m.now = time.Now
	}

	if m.store == nil {
		return m
	}
	t, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warning(fmt.Sprintf("loading metrics, starting empty: %s", err))
		return m
	}
	if t != nil {
		m.table = t
	}
	return m
}

// StartRun opens a run of algorithm on maze. A run that is still open is
// closed as a failure first.
func (m *Manager) StartRun(ctx context.Context, algorithm game.Algorithm, maze string) uuid.UUID {
	if m.open != nil {
		m.logger.Warning(fmt.Sprintf("run %s of %s on %s was left open, closing it as failed", m.open.ID, m.open.Algorithm, m.open.Maze))
		if _, err := m.EndRun(ctx, false, m.open.Score); err != nil {
			m.logger.Error(fmt.Sprintf("closing stale run: %s", err))
		}
	}

	m.open = &RunMetrics{
		ID:        uuid.New(),
		Algorithm: algorithm,
		Maze:      maze,
		StartedAt: m.now(),
	}
	m.elapsedSet = false
	return m.open.ID
}

// UpdateRun merges u into the open run. Once an update carries Elapsed,
// EndRun keeps the reported time instead of measuring it.
func (m *Manager) UpdateRun(u RunUpdate) error {
	if m.open == nil {
		return ErrNoOpenRun
	}
	m.open.apply(u)
	if u.Elapsed != nil {
		m.elapsedSet = true
	}
	return nil
}

// OpenRun returns a copy of the open run.
func (m *Manager) OpenRun() (RunMetrics, bool) {
	if m.open == nil {
		return RunMetrics{}, false
	}
	return *m.open, true
}

// EndRun closes the open run, folds it into its aggregate and persists the
// table. Persistence failures are logged and do not fail the call.
func (m *Manager) EndRun(ctx context.Context, success bool, score float64) (RunMetrics, error) {
	if m.open == nil {
		return RunMetrics{}, ErrNoOpenRun
	}
	run := *m.open
	m.open = nil

	run.EndedAt = m.now()
	if !m.elapsedSet {
		run.Elapsed = run.EndedAt.Sub(run.StartedAt).Seconds()
	}
	run.Success = success
	run.Score = score

	k := run.key()
	m.history[k] = append(m.history[k], run)
	agg, _ := m.table.Get(k)
	agg.add(run)
	m.table.set(k, agg)

	if m.store != nil {
		if err := m.store.Save(ctx, m.table.Clone()); err != nil {
			m.logger.Error(fmt.Sprintf("saving metrics: %s", err))
		}
	}
	for _, o := range m.observers {
		o.RunEnded(run)
	}
	return run, nil
}

// GetAverageMetrics returns the aggregate of algorithm on maze. It reports
// false until at least one run has succeeded.
func (m *Manager) GetAverageMetrics(algorithm game.Algorithm, maze string) (AlgorithmMetrics, bool) {
	agg, ok := m.table.Get(Key{Maze: maze, Algorithm: algorithm})
	if !ok || agg.SuccessfulRuns == 0 {
		return AlgorithmMetrics{}, false
	}
	return agg, true
}

// Table returns a copy of every aggregate.
func (m *Manager) Table() Table {
	return m.table.Clone()
}

// History returns the runs of algorithm on maze closed by this manager.
func (m *Manager) History(algorithm game.Algorithm, maze string) []RunMetrics {
	return slices.Clone(m.history[Key{Maze: maze, Algorithm: algorithm}])
}
