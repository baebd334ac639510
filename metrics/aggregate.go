package metrics

import (
	"maps"

	"github.com/beka-birhanu/vinom-nav/game"
)

// AlgorithmMetrics aggregates the runs of one algorithm on one maze.
// Averages and extremes cover successful runs only; TotalRuns counts all.
type AlgorithmMetrics struct {
	TotalRuns        int     `json:"total_runs" bson:"total_runs"`
	SuccessfulRuns   int     `json:"successful_runs" bson:"successful_runs"`
	SuccessRate      float64 `json:"success_rate" bson:"success_rate"`
	AvgPathLength    float64 `json:"avg_path_length" bson:"avg_path_length"`
	AvgNodesExplored float64 `json:"avg_nodes_explored" bson:"avg_nodes_explored"`
	AvgTime          float64 `json:"avg_time" bson:"avg_time"`
	AvgScore         float64 `json:"avg_score" bson:"avg_score"`
	MinPathLength    int     `json:"min_path_length" bson:"min_path_length"`
	MaxPathLength    int     `json:"max_path_length" bson:"max_path_length"`
	BestScore        float64 `json:"best_score" bson:"best_score"`
	WorstScore       float64 `json:"worst_score" bson:"worst_score"`
	FastestTime      float64 `json:"fastest_time" bson:"fastest_time"`
	SlowestTime      float64 `json:"slowest_time" bson:"slowest_time"`
}

// add folds r into m without revisiting earlier runs.
func (m *AlgorithmMetrics) add(r RunMetrics) {
	m.TotalRuns++
	if r.Success {
		m.SuccessfulRuns++
		n := float64(m.SuccessfulRuns)
		m.AvgPathLength += (float64(r.PathLength) - m.AvgPathLength) / n
		m.AvgNodesExplored += (float64(r.NodesExplored) - m.AvgNodesExplored) / n
		m.AvgTime += (r.Elapsed - m.AvgTime) / n
		m.AvgScore += (r.Score - m.AvgScore) / n

		if m.SuccessfulRuns == 1 {
			m.MinPathLength, m.MaxPathLength = r.PathLength, r.PathLength
			m.BestScore, m.WorstScore = r.Score, r.Score
			m.FastestTime, m.SlowestTime = r.Elapsed, r.Elapsed
		} else {
			m.MinPathLength = min(m.MinPathLength, r.PathLength)
			m.MaxPathLength = max(m.MaxPathLength, r.PathLength)
			m.BestScore = max(m.BestScore, r.Score)
			m.WorstScore = min(m.WorstScore, r.Score)
			m.FastestTime = min(m.FastestTime, r.Elapsed)
			m.SlowestTime = max(m.SlowestTime, r.Elapsed)
		}
	}
	m.SuccessRate = float64(m.SuccessfulRuns) / float64(m.TotalRuns)
}

// Table maps maze name to algorithm to aggregate. It is the persisted form.
type Table map[string]map[game.Algorithm]AlgorithmMetrics

// Get returns the aggregate stored under k.
func (t Table) Get(k Key) (AlgorithmMetrics, bool) {
	byAlgo, ok := t[k.Maze]
	if !ok {
		return AlgorithmMetrics{}, false
	}
	m, ok := byAlgo[k.Algorithm]
	return m, ok
}

func (t Table) set(k Key, m AlgorithmMetrics) {
	if t[k.Maze] == nil {
		t[k.Maze] = make(map[game.Algorithm]AlgorithmMetrics)
	}
	t[k.Maze][k.Algorithm] = m
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for maze, byAlgo := range t {
		c[maze] = maps.Clone(byAlgo)
	}
	return c
}
