package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
)

func TestLoadHyperparams(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		h, err := LoadHyperparams(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultHyperparams(), h)
	})

	t.Run("partial override", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		content := "sarsa:\n  epsilon_decay: 0.9\n  rewards:\n    goal: 500\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		h, err := LoadHyperparams(path)
		require.NoError(t, err)
		assert.Equal(t, 0.9, h.For(game.SARSA).EpsilonDecay)
		assert.Equal(t, 500.0, h.For(game.SARSA).Rewards.Goal)
		assert.Equal(t, learning.DefaultParams().Rewards.Wall, h.For(game.SARSA).Rewards.Wall)
		assert.Equal(t, learning.DefaultParams(), h.For(game.QLearning))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("qlearning: [unclosed"), 0o600))

		h, err := LoadHyperparams(path)
		assert.Error(t, err)
		assert.Equal(t, DefaultHyperparams(), h)
	})

	t.Run("search algorithms get defaults", func(t *testing.T) {
		assert.Equal(t, learning.DefaultParams(), DefaultHyperparams().For(game.AStar))
	})
}
