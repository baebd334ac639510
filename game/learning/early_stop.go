package learning

import (
	"math"

	"github.com/montanaflynn/stats"
)

// StopReason tells why training ended.
type StopReason string

const (
	StopReasonEarlyStopping    StopReason = "early_stopping"
	StopReasonEpisodeCap       StopReason = "episode_cap"
	StopReasonInvalidEndpoints StopReason = "invalid_endpoints"
)

// earlyStopper watches the moving average of episode rewards and fires when
// it fails to beat the best average by minDelta for patience consecutive
// episodes. Nothing is checked before minEpisodes.
type earlyStopper struct {
	minEpisodes int
	patience    int
	window      int
	minDelta    float64

	rewards []float64
	best    float64
	waited  int
}

func newEarlyStopper(p Params) *earlyStopper {
	return &earlyStopper{
		minEpisodes: p.MinEpisodes,
		patience:    p.EarlyStoppingPatience,
		window:      p.EarlyStoppingWindow,
		minDelta:    p.EarlyStoppingMinDelta,
		best:        math.Inf(-1),
	}
}

// observe records the reward of the zero-based episode and reports whether
// training should stop.
func (e *earlyStopper) observe(episode int, reward float64) bool {
	e.rewards = append(e.rewards, reward)
	if episode < e.minEpisodes {
		return false
	}

	avg := e.average()
	if avg > e.best+e.minDelta {
		e.best = avg
		e.waited = 0
		return false
	}

	e.waited++
	return e.waited >= e.patience
}

// average returns the mean of the last window rewards.
func (e *earlyStopper) average() float64 {
	return tailMean(e.rewards, e.window)
}

// bestAverage returns the best moving average seen, or the current one when
// the check never ran.
func (e *earlyStopper) bestAverage() float64 {
	if math.IsInf(e.best, -1) {
		return e.average()
	}
	return e.best
}

// tailMean averages the last n values; zero for no values.
func tailMean(values []float64, n int) float64 {
	if len(values) > n {
		values = values[len(values)-n:]
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}
