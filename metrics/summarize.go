package metrics

import (
	"github.com/montanaflynn/stats"
)

// Distribution describes one measured quantity over a batch of runs.
type Distribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P90    float64 `json:"p90"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary is a batch view over a set of runs, successful or not.
type Summary struct {
	Runs          int          `json:"runs"`
	SuccessRate   float64      `json:"success_rate"`
	PathLength    Distribution `json:"path_length"`
	NodesExplored Distribution `json:"nodes_explored"`
	Elapsed       Distribution `json:"time_taken"`
	Score         Distribution `json:"score"`
}

// Summarize computes distributions over the successful runs in runs. The
// success rate covers all of them.
func Summarize(runs []RunMetrics) Summary {
	s := Summary{Runs: len(runs)}
	if len(runs) == 0 {
		return s
	}

	var paths, nodes, elapsed, scores stats.Float64Data
	for _, r := range runs {
		if !r.Success {
			continue
		}
		paths = append(paths, float64(r.PathLength))
		nodes = append(nodes, float64(r.NodesExplored))
		elapsed = append(elapsed, r.Elapsed)
		scores = append(scores, r.Score)
	}
	s.SuccessRate = float64(len(paths)) / float64(len(runs))
	s.PathLength = distribution(paths)
	s.NodesExplored = distribution(nodes)
	s.Elapsed = distribution(elapsed)
	s.Score = distribution(scores)
	return s
}

// distribution leaves every field zero for empty input.
func distribution(data stats.Float64Data) Distribution {
	if data.Len() == 0 {
		return Distribution{}
	}
	var d Distribution
	d.Mean, _ = data.Mean()
	d.Median, _ = data.Median()
	d.StdDev, _ = data.StandardDeviation()
	d.P90, _ = data.Percentile(90)
	d.Min, _ = data.Min()
	d.Max, _ = data.Max()
	return d
}
