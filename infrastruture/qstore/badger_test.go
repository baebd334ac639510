package qstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/game/maze"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func trainedTable(t *testing.T) *learning.QTable {
	t.Helper()
	g, err := maze.ParseLayout([]string{
		"S...",
		".#..",
		"...G",
	})
	require.NoError(t, err)

	p := learning.DefaultParams()
	p.Seed = 4
	l := learning.NewQLearner(g, p)
	goal, _ := g.GoalPos()
	l.Train(g.Spawn(), goal, 100, 0)
	require.Positive(t, l.Table().Len())
	return l.Table()
}

func TestOpen(t *testing.T) {
	_, err := Open(Config{})
	assert.ErrorIs(t, err, ErrPathRequired)

	s, err := Open(Config{Path: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)
	table := trainedTable(t)

	_, ok, err := s.Load(ctx, game.QLearning, "small")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, game.QLearning, "small", table.Entries()))
	entries, ok, err := s.Load(ctx, game.QLearning, "small")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, table.Entries(), entries)

	restored := learning.NewQTable()
	restored.Restore(entries)
	assert.Equal(t, table.Len(), restored.Len())

	_, ok, err = s.Load(ctx, game.SARSA, "small")
	require.NoError(t, err)
	assert.False(t, ok, "snapshots are per algorithm")

	require.NoError(t, s.Delete(game.QLearning, "small"))
	_, ok, err = s.Load(ctx, game.QLearning, "small")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	entries := trainedTable(t).Entries()

	s, err := Open(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, game.SARSA, "wilson", entries))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	loaded, ok, err := s.Load(ctx, game.SARSA, "wilson")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entries, loaded)
}

func TestCanceledContext(t *testing.T) {
	s := openInMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, game.SARSA, "open", nil), context.Canceled)
	_, _, err := s.Load(ctx, game.SARSA, "open")
	assert.ErrorIs(t, err, context.Canceled)
}
