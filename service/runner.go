package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/game/maze"
	"github.com/beka-birhanu/vinom-nav/game/search"
	"github.com/beka-birhanu/vinom-nav/metrics"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

const (
	defaultTimeLimit = time.Minute
	defaultMaxSteps  = 500
)

var (
	ErrNilRecorder = errors.New("run recorder is nil")
)

// StopReason tells why a run ended.
type StopReason string

const (
	StopGoalReached StopReason = "goal_reached"
	StopStuck       StopReason = "stuck"
	StopStepLimit   StopReason = "step_limit"
	StopTimeLimit   StopReason = "time_limit"
	StopCanceled    StopReason = "canceled"
)

// Outcome is the result of one run.
type Outcome struct {
	RunID         uuid.UUID                `json:"run_id"`
	Algorithm     game.Algorithm           `json:"algorithm"`
	Maze          string                   `json:"maze"`
	Success       bool                     `json:"success"`
	StopReason    StopReason               `json:"stop_reason"`
	Path          []game.Position          `json:"path"`
	Steps         int                      `json:"steps"`
	Optimal       int                      `json:"optimal"` // BFS step count, -1 when the goal is unreachable
	NodesExplored int                      `json:"nodes_explored"`
	Elapsed       time.Duration            `json:"elapsed"`
	Score         float64                  `json:"score"`
	Training      *learning.TrainingReport `json:"training,omitempty"`
}

// Runner drives one navigator through a maze variant and reports the run to
// the recorder. A Runner is not safe for concurrent use.
type Runner struct {
	recorder         i.RunRecorder
	logger           game.Logger
	timeLimit        time.Duration
	maxSteps         int
	trainingEpisodes int
	now              func() time.Time
}

// RunnerConfig holds the dependencies and budgets of a Runner.
type RunnerConfig struct {
	Recorder         i.RunRecorder
	Logger           game.Logger
	TimeLimit        time.Duration    // Wall clock budget of a run including training
	MaxSteps         int              // Live step budget
	TrainingEpisodes int              // Zero lets learners use their configured cap
	Clock            func() time.Time // Defaults to time.Now
}

// NewRunner creates a Runner with the given configuration. Zero budgets
// select a one minute time limit and a 500 step cap.
func NewRunner(c *RunnerConfig) (*Runner, error) {
	if c.Recorder == nil {
		return nil, ErrNilRecorder
	}

	r := &Runner{
		recorder:         c.Recorder,
		logger:           game.LoggerOrNop(c.Logger),
		timeLimit:        c.TimeLimit,
		maxSteps:         c.MaxSteps,
		trainingEpisodes: c.TrainingEpisodes,
		now:              c.Clock,
	}
	if r.timeLimit <= 0 {
		r.timeLimit = defaultTimeLimit
	}
	if r.maxSteps <= 0 {
		r.maxSteps = defaultMaxSteps
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Optimal returns the BFS step count from the spawn to the goal of v, or -1
// when the goal cannot be reached.
func Optimal(v *maze.Variant) int {
	_, cost := search.NewBFS(v.Grid).FindPath(v.Start(), v.Goal())
	if math.IsInf(cost, 1) {
		return -1
	}
	return int(cost)
}

// Run trains nav when it is a learner, then asks it for moves from the spawn
// of v until the goal is reached or a budget runs out. The run is always
// closed on the recorder; a canceled ctx closes it as failed and is returned.
func (r *Runner) Run(ctx context.Context, nav game.Navigator, v *maze.Variant) (*Outcome, error) {
	start, goal := v.Start(), v.Goal()
	out := &Outcome{
		Algorithm: nav.Algorithm(),
		Maze:      v.Name,
		Optimal:   Optimal(v),
		Path:      []game.Position{start},
	}

	counter := &game.NodeCounter{}
	nav.SetNodeRecorder(counter)
	defer nav.SetNodeRecorder(nil)

	began := r.now()
	out.RunID = r.recorder.StartRun(ctx, nav.Algorithm(), v.Name)
	r.logger.Info(fmt.Sprintf("run %s: %s on %s from %s to %s", out.RunID, nav.Algorithm().DisplayName(), v.Name, start, goal))

	if l, ok := nav.(learning.Learner); ok {
		out.Training = l.Train(start, goal, r.trainingEpisodes, 0)
		l.ResetHistory()
		r.logger.Info(fmt.Sprintf("run %s: trained %d episodes, success rate %.2f, stop reason %s",
			out.RunID, out.Training.Summary.TotalEpisodes, out.Training.Summary.SuccessRate, out.Training.Summary.StopReason))
	}

	pos := start
	var runErr error
	for {
		elapsed := r.now().Sub(began)
		if pos == goal {
			out.StopReason = StopGoalReached
			break
		}
		if err := ctx.Err(); err != nil {
			out.StopReason, runErr = StopCanceled, err
			break
		}
		if out.Steps >= r.maxSteps {
			out.StopReason = StopStepLimit
			break
		}
		if elapsed >= r.timeLimit {
			out.StopReason = StopTimeLimit
			break
		}

		d := nav.NextMove(pos, goal)
		next := pos.Step(d)
		if d == game.Idle || !v.Grid.IsValidMove(next.X, next.Y) {
			out.StopReason = StopStuck
			break
		}
		pos = next
		out.Steps++
		out.Path = append(out.Path, pos)
		r.update(out.Steps, counter.Count(), r.now().Sub(began))
	}

	out.Elapsed = r.now().Sub(began)
	out.NodesExplored = counter.Count()
	out.Success = out.StopReason == StopGoalReached
	r.update(out.Steps, out.NodesExplored, out.Elapsed)
	if out.Success {
		out.Score = metrics.Score(out.Optimal, out.Steps, out.NodesExplored, out.Elapsed)
	}

	// The recorder gets a context that outlives a canceled run.
	if _, err := r.recorder.EndRun(context.WithoutCancel(ctx), out.Success, out.Score); err != nil {
		r.logger.Error(fmt.Sprintf("run %s: ending run: %s", out.RunID, err))
	}
	r.logger.Info(fmt.Sprintf("run %s: %s after %d steps, %d nodes, score %.2f", out.RunID, out.StopReason, out.Steps, out.NodesExplored, out.Score))
	return out, runErr
}

func (r *Runner) update(steps, nodes int, elapsed time.Duration) {
	err := r.recorder.UpdateRun(metrics.RunUpdate{
		PathLength:    steps,
		NodesExplored: nodes,
		Elapsed:       metrics.Duration(elapsed),
		TimeRemaining: metrics.Duration(max(r.timeLimit-elapsed, 0)),
		TotalTime:     metrics.Duration(r.timeLimit),
	})
	if err != nil {
		r.logger.Error(fmt.Sprintf("updating run: %s", err))
	}
}
