package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/metrics"
)

func sampleReport(a game.Algorithm) *learning.TrainingReport {
	return &learning.TrainingReport{
		Algorithm:        a,
		EpisodeRewards:   []float64{-20, 5, 90},
		EpisodeLengths:   []int{40, 22, 8},
		ExplorationRates: []float64{1, 0.99, 0.98},
		NodesExplored:    []int{12, 5, 0},
		CompletionTimes:  []float64{0.001, 0.001, 0.001},
		GoalReached:      []bool{false, true, true},
		Summary:          learning.TrainingSummary{TotalEpisodes: 3, StopReason: learning.StopReasonEpisodeCap},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport(game.SARSA)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sarsa", decoded["algorithm"])
	assert.Len(t, decoded["episode_rewards"], 3)
	summary := decoded["training_summary"].(map[string]any)
	assert.Equal(t, "episode_cap", summary["stop_reason"])
}

func TestRenderTraining(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTraining(&buf, sampleReport(game.QLearning), sampleReport(game.SARSA)))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Episode reward")
	assert.Contains(t, html, "Exploration rate")
	assert.Contains(t, html, "Q-Learning")
	assert.Contains(t, html, "SARSA")
}

func TestWriteTrainingFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, WriteTrainingFiles(dir, "open", sampleReport(game.QLearning)))

	for _, name := range []string{"qlearning_open_training.json", trainingPage} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRenderBench(t *testing.T) {
	table := metrics.Table{
		"open":     {game.AStar: {AvgScore: 95, AvgPathLength: 18, SuccessRate: 1}},
		"diagonal": {game.AStar: {AvgScore: 90}, game.Greedy: {AvgScore: 70}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderBench(&buf, table))

	html := buf.String()
	assert.Contains(t, html, "Average score")
	assert.Contains(t, html, "A* Algorithm")
	assert.Contains(t, html, "Greedy Best First")
	assert.NotContains(t, html, "Breadth First")
}
