package metrics

import (
	"math"
	"time"
)

const (
	pathWeight        = 0.65
	explorationWeight = 0.25
	timeWeight        = 0.10

	pathExponent  = 3.5
	logPenalty    = 15
	minScoredTime = 0.1 // Seconds
)

// Score rates a finished run between 0 and 100. Path length is compared to
// the optimum, exploration is measured in nodes per step taken, and time is
// penalized logarithmically.
func Score(optimal, pathLength, nodesExplored int, elapsed time.Duration) float64 {
	steps := float64(max(pathLength, 1))

	pathScore := 0.0
	switch {
	case optimal <= 0 && pathLength <= 0:
		pathScore = 100
	case optimal > 0:
		pathScore = math.Min(100*math.Pow(float64(optimal)/steps, pathExponent), 100)
	}

	explorationScore := 100.0
	if nodesExplored > 0 {
		explorationScore = bounded(100 - logPenalty*math.Log10(float64(nodesExplored)/steps))
	}

	timeScore := bounded(100 - logPenalty*math.Log10(math.Max(elapsed.Seconds(), minScoredTime)))

	total := pathWeight*pathScore + explorationWeight*explorationScore + timeWeight*timeScore
	return math.Round(total*100) / 100
}

func bounded(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
