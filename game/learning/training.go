package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/beka-birhanu/vinom-nav/game"
)

var (
	ErrNotLearningAlgorithm = errors.New("not a learning algorithm")
)

// Learner is a navigator that has to be trained before use.
type Learner interface {
	game.Navigator

	// Train runs episodes from start to goal. Zero episodes or maxSteps
	// select the configured defaults. Node recording is scoped to the call:
	// each Train starts a fresh record of explored positions, so a retrain
	// reports cells that an earlier call already reported.
	Train(start, goal game.Position, episodes, maxSteps int) *TrainingReport

	// Evaluate runs greedy rollouts without learning.
	Evaluate(start, goal game.Position, episodes, maxSteps int) Evaluation

	Table() *QTable
	Params() Params
	Epsilon() float64
	SetEpsilon(e float64)
	ResetHistory()
}

var (
	_ Learner = (*QLearner)(nil)
	_ Learner = (*SARSA)(nil)
)

// New returns the learner named by a.
func New(a game.Algorithm, world game.GridWorld, params Params, opts ...Option) (Learner, error) {
	switch a {
	case game.QLearning:
		return NewQLearner(world, params, opts...), nil
	case game.SARSA:
		return NewSARSA(world, params, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNotLearningAlgorithm, a)
	}
}

// TrainingReport collects per-episode training data.
type TrainingReport struct {
	Algorithm        game.Algorithm  `json:"algorithm"`
	EpisodeRewards   []float64       `json:"episode_rewards"`
	EpisodeLengths   []int           `json:"episode_lengths"`
	ExplorationRates []float64       `json:"exploration_rates"`
	NodesExplored    []int           `json:"nodes_explored_per_episode"`
	CompletionTimes  []float64       `json:"completion_times"` // Seconds per episode
	GoalReached      []bool          `json:"goal_reached"`
	Summary          TrainingSummary `json:"training_summary"`
}

// TrainingSummary aggregates a training run.
type TrainingSummary struct {
	TotalEpisodes          int        `json:"total_episodes"`
	TotalTrainingTime      float64    `json:"total_training_time"`
	FinalEpsilon           float64    `json:"final_epsilon"`
	BestAverageReward      float64    `json:"best_average_reward"`
	UniqueStatesVisited    int        `json:"total_unique_states_visited"`
	TableSize              int        `json:"table_size"`
	SuccessRate            float64    `json:"success_rate"`
	AverageEpisodeLength   float64    `json:"average_episode_length"`
	AverageEpisodeReward   float64    `json:"average_episode_reward"`
	AverageNodesPerEpisode float64    `json:"average_nodes_per_episode"`
	StopReason             StopReason `json:"stop_reason"`
	Parameters             Params     `json:"training_parameters"`
}

func (r *TrainingReport) record(res episodeResult, epsilon float64, nodes int, took time.Duration) {
	r.EpisodeRewards = append(r.EpisodeRewards, res.reward)
	r.EpisodeLengths = append(r.EpisodeLengths, res.steps)
	r.ExplorationRates = append(r.ExplorationRates, epsilon)
	r.NodesExplored = append(r.NodesExplored, nodes)
	r.CompletionTimes = append(r.CompletionTimes, took.Seconds())
	r.GoalReached = append(r.GoalReached, res.reached)
}

func (r *TrainingReport) summarize() {
	r.Summary.TotalEpisodes = len(r.EpisodeRewards)
	r.Summary.AverageEpisodeReward = mean(r.EpisodeRewards)
	r.Summary.AverageEpisodeLength = mean(stats.LoadRawData(r.EpisodeLengths))
	r.Summary.AverageNodesPerEpisode = mean(stats.LoadRawData(r.NodesExplored))

	reached := 0
	for _, ok := range r.GoalReached {
		if ok {
			reached++
		}
	}
	if len(r.GoalReached) > 0 {
		r.Summary.SuccessRate = float64(reached) / float64(len(r.GoalReached))
	}
}

func mean(data stats.Float64Data) float64 {
	m, err := data.Mean()
	if err != nil {
		return 0
	}
	return m
}

// Train runs training episodes from start to goal until early stopping fires
// or the episode cap is reached. Invalid endpoints end training immediately.
// The exploration hook fires once per distinct position seen during this call
// and any later NextMove calls.
func (a *agent) Train(start, goal game.Position, episodes, maxSteps int) *TrainingReport {
	began := time.Now()
	report := &TrainingReport{Algorithm: a.algorithm}
	report.Summary.Parameters = a.params

	if !a.world.IsValidMove(start.X, start.Y) || !a.world.IsValidMove(goal.X, goal.Y) {
		a.logger.Warning(fmt.Sprintf("%s: cannot train from %s to %s", a.algorithm, start, goal))
		report.Summary.StopReason = StopReasonInvalidEndpoints
		report.Summary.FinalEpsilon = a.epsilon
		return report
	}

	episodes, maxSteps = a.budget(start, goal, episodes, maxSteps)
	a.seen = make(map[game.Position]struct{})
	stopper := newEarlyStopper(a.params)
	report.Summary.StopReason = StopReasonEpisodeCap

	for ep := 0; ep < episodes; ep++ {
		epBegan := time.Now()
		seenBefore := len(a.seen)

		a.recent.reset()
		a.see(start)
		res := a.runEpisode(start, goal, maxSteps)

		report.record(res, a.epsilon, len(a.seen)-seenBefore, time.Since(epBegan))
		a.decayEpsilon()

		if a.params.ProgressInterval > 0 && (ep+1)%a.params.ProgressInterval == 0 {
			a.logger.Info(fmt.Sprintf("%s: episode %d avg reward %.2f avg length %.2f epsilon %.3f",
				a.algorithm, ep+1,
				tailMean(report.EpisodeRewards, a.params.EarlyStoppingWindow),
				tailMean(stats.LoadRawData(report.EpisodeLengths), a.params.EarlyStoppingWindow),
				a.epsilon))
		}

		if stopper.observe(ep, res.reward) {
			report.Summary.StopReason = StopReasonEarlyStopping
			a.logger.Info(fmt.Sprintf("%s: early stopping after %d episodes", a.algorithm, ep+1))
			break
		}
	}
	a.recent.reset()

	report.summarize()
	report.Summary.TotalTrainingTime = time.Since(began).Seconds()
	report.Summary.FinalEpsilon = a.epsilon
	report.Summary.BestAverageReward = stopper.bestAverage()
	report.Summary.UniqueStatesVisited = len(a.seen)
	report.Summary.TableSize = a.table.Len()
	return report
}

// Rollout is the outcome of one evaluation episode.
type Rollout struct {
	Reached bool `json:"reached"`
	Steps   int  `json:"steps"`
}

// Evaluation is the outcome of Evaluate.
type Evaluation struct {
	Rollouts    []Rollout `json:"rollouts"`
	SuccessRate float64   `json:"success_rate"`
}

// Evaluate follows the greedy policy from start for up to maxSteps per
// rollout. It neither updates the table nor fires the exploration hook.
func (a *agent) Evaluate(start, goal game.Position, episodes, maxSteps int) Evaluation {
	episodes = max(episodes, 1)
	if maxSteps <= 0 {
		maxSteps = a.params.MaxSteps
	}

	var eval Evaluation
	reached := 0
	for range episodes {
		r := a.rollout(start, goal, maxSteps)
		if r.Reached {
			reached++
		}
		eval.Rollouts = append(eval.Rollouts, r)
	}
	eval.SuccessRate = float64(reached) / float64(episodes)
	return eval
}

func (a *agent) rollout(start, goal game.Position, maxSteps int) Rollout {
	recent := newHistory(a.params.HistorySize)
	pos := start
	steps := 0
	for pos != goal && steps < maxSteps {
		recent.push(pos)
		act, ok := a.decide(a.features.Key(pos, goal), pos, 0, recent)
		if !ok {
			break
		}
		pos = a.Transition(pos, act)
		steps++
	}
	return Rollout{Reached: pos == goal, Steps: steps}
}
