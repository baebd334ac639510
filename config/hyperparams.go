package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
)

// Hyperparams holds the learning parameters of each agent. Keys missing from
// the file keep their defaults.
type Hyperparams struct {
	QLearning learning.Params `yaml:"qlearning"`
	SARSA     learning.Params `yaml:"sarsa"`
}

// DefaultHyperparams returns the default profile of every agent.
func DefaultHyperparams() Hyperparams {
	return Hyperparams{
		QLearning: learning.DefaultParams(),
		SARSA:     learning.DefaultParams(),
	}
}

// LoadHyperparams reads a YAML profile from path. A missing file yields the
// defaults.
func LoadHyperparams(path string) (Hyperparams, error) {
	h := DefaultHyperparams()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return h, fmt.Errorf("reading hyperparameters: %w", err)
	}
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return DefaultHyperparams(), fmt.Errorf("parsing hyperparameters %s: %w", path, err)
	}
	return h, nil
}

// For returns the parameters of algorithm a, defaults for non learners.
func (h Hyperparams) For(a game.Algorithm) learning.Params {
	switch a {
	case game.QLearning:
		return h.QLearning
	case game.SARSA:
		return h.SARSA
	default:
		return learning.DefaultParams()
	}
}
