/*
Package learning implements the tabular reinforcement learning strategies.

Q-learning and SARSA share the state featurization, reward shaping,
epsilon-greedy exploration with per-episode decay and a visit-based learning
rate schedule. They differ only in the value they bootstrap from: the best
next action for Q-learning, the action actually selected next for SARSA.
*/
package learning

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-nav/game"
)

// Option customizes an agent at construction.
type Option func(*agent)

// WithLogger sets the logger training progress is reported to.
func WithLogger(l game.Logger) Option {
	return func(a *agent) {
		a.logger = game.LoggerOrNop(l)
	}
}

// WithTable starts the agent from an existing table.
func WithTable(t *QTable) Option {
	return func(a *agent) {
		if t != nil {
			a.table = t
		}
	}
}

// WithRand sets the source of randomness, overriding Params.Seed.
func WithRand(r *rand.Rand) Option {
	return func(a *agent) {
		if r != nil {
			a.rng = r
		}
	}
}

// episodeFunc runs one training episode and reports its outcome.
type episodeFunc func(start, goal game.Position, maxSteps int) episodeResult

type episodeResult struct {
	reward  float64
	steps   int
	reached bool
}

// agent is the state shared by both learners.
type agent struct {
	algorithm game.Algorithm
	world     game.GridWorld
	params    Params
	features  Featurizer
	table     *QTable
	epsilon   float64
	recent    *history
	rng       *rand.Rand
	recorder  game.NodeRecorder
	seen      map[game.Position]struct{}
	logger    game.Logger
	safety    bool

	runEpisode episodeFunc
}

func newAgent(algorithm game.Algorithm, world game.GridWorld, params Params, safety bool, opts ...Option) *agent {
	params = params.sanitize()

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &agent{
		algorithm: algorithm,
		world:     world,
		params:    params,
		features:  NewFeaturizer(world, params.FeatureRadius),
		table:     NewQTable(),
		epsilon:   params.Epsilon,
		recent:    newHistory(params.HistorySize),
		rng:       rand.New(rand.NewSource(seed)),
		recorder:  game.NopRecorder{},
		seen:      make(map[game.Position]struct{}),
		logger:    game.NopLogger{},
		safety:    safety,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Algorithm returns the strategy identity.
func (a *agent) Algorithm() game.Algorithm {
	return a.algorithm
}

// SetNodeRecorder registers the exploration hook. Nil disables it.
func (a *agent) SetNodeRecorder(r game.NodeRecorder) {
	a.recorder = game.RecorderOrNop(r)
}

// Table returns the live Q-table.
func (a *agent) Table() *QTable {
	return a.table
}

// Params returns the sanitized parameters in use.
func (a *agent) Params() Params {
	return a.params
}

// Epsilon returns the current exploration rate.
func (a *agent) Epsilon() float64 {
	return a.epsilon
}

// SetEpsilon overrides the exploration rate, clamped to [EpsilonMin, 1].
func (a *agent) SetEpsilon(e float64) {
	a.epsilon = clamp(e, a.params.EpsilonMin, 1)
}

// ResetHistory forgets the recent positions used for loop detection.
func (a *agent) ResetHistory() {
	a.recent.reset()
}

// ValidActions returns the actions that lead to a traversable cell.
func (a *agent) ValidActions(pos game.Position) []Action {
	valid := make([]Action, 0, len(Actions))
	for _, act := range Actions {
		n := pos.Step(act.Direction())
		if a.world.IsValidMove(n.X, n.Y) {
			valid = append(valid, act)
		}
	}
	return valid
}

// Transition applies act at pos. A blocked move leaves the agent in place.
func (a *agent) Transition(pos game.Position, act Action) game.Position {
	n := pos.Step(act.Direction())
	if a.world.IsValidMove(n.X, n.Y) {
		return n
	}
	return pos
}

// NextMove picks a move from current using the learned table. Exploration
// still applies at the current epsilon. A cell visited RepeatThreshold times
// among the recent positions switches to the second-best action.
func (a *agent) NextMove(current, goal game.Position) game.Direction {
	a.see(current)
	a.recent.push(current)

	key := a.features.Key(current, goal)
	act, ok := a.decide(key, current, a.epsilon, a.recent)
	if !ok {
		return game.Idle
	}
	return act.Direction()
}

// see records the first examination of p since training began.
func (a *agent) see(p game.Position) {
	if _, ok := a.seen[p]; ok {
		return
	}
	a.seen[p] = struct{}{}
	a.recorder.RecordNodeExplored()
}

// explore is the epsilon-greedy behavior policy used while training.
func (a *agent) explore(key StateKey, pos game.Position) (Action, bool) {
	valid := a.ValidActions(pos)
	if len(valid) == 0 {
		return 0, false
	}
	if a.rng.Float64() < a.epsilon {
		return valid[a.rng.Intn(len(valid))], true
	}
	return a.rank(key, pos, valid)[0], true
}

// decide is the policy used at decision time: epsilon-greedy plus the
// anti-oscillation check against recent.
func (a *agent) decide(key StateKey, pos game.Position, epsilon float64, recent *history) (Action, bool) {
	valid := a.ValidActions(pos)
	if len(valid) == 0 {
		return 0, false
	}
	if epsilon > 0 && a.rng.Float64() < epsilon {
		return valid[a.rng.Intn(len(valid))], true
	}

	ranked := a.rank(key, pos, valid)
	if len(ranked) > 1 && recent.count(pos) >= a.params.RepeatThreshold {
		return ranked[1], true
	}
	return ranked[0], true
}

// rank orders valid by descending value. A small random perturbation breaks
// ties so that equal values do not always favor the enumeration order.
func (a *agent) rank(key StateKey, pos game.Position, valid []Action) []Action {
	row := a.table.Row(key)
	scores := make(map[Action]float64, len(valid))
	for _, act := range valid {
		v := row[act]
		if a.safety {
			v = a.safetyBias(v, pos.Step(act.Direction()))
		}
		scores[act] = v + a.rng.Float64()*tieNoise
	}

	ranked := slices.Clone(valid)
	slices.SortStableFunc(ranked, func(x, y Action) int {
		switch {
		case scores[x] > scores[y]:
			return -1
		case scores[x] < scores[y]:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// safetyBias penalizes v by SafetyFactor once per blocked neighbor of next.
// Negative values move further down so that cramped cells always rank lower.
func (a *agent) safetyBias(v float64, next game.Position) float64 {
	w := math.Pow(a.params.Rewards.SafetyFactor, float64(BlockedNeighbors(a.world, next)))
	return v - math.Abs(v)*(1-w)
}

// learningRate shrinks with the number of updates a state already received.
func (a *agent) learningRate(visits int) float64 {
	lr := a.params.LearningRate / (1 + a.params.LearningRateDecay*float64(visits))
	return max(a.params.LearningRateMin, lr)
}

// update moves Q(s, act) toward target.
func (a *agent) update(s StateKey, act Action, target float64) {
	lr := a.learningRate(a.table.Visits(s))
	a.table.Visit(s)
	old := a.table.Get(s, act)
	a.table.Set(s, act, old+lr*(target-old))
}

func (a *agent) reward(current, next, goal game.Position, moves int) float64 {
	return a.params.Rewards.reward(a.world, current, next, goal, a.recent, moves, a.safety)
}

// decayEpsilon applies one episode of multiplicative decay, floored.
func (a *agent) decayEpsilon() {
	a.epsilon = max(a.params.EpsilonMin, a.epsilon*a.params.EpsilonDecay)
}

// budget resolves the episode and step caps of a training call. Zero or
// negative values select the configured defaults; a step cap shorter than
// the corridor bound of the world is raised to it.
func (a *agent) budget(start, goal game.Position, episodes, maxSteps int) (int, int) {
	if episodes <= 0 {
		episodes = a.params.MaxEpisodes
	}
	if maxSteps <= 0 {
		maxSteps = a.params.MaxSteps
	}

	corridor := max(2*start.Manhattan(goal), a.world.Width()+a.world.Height())
	if maxSteps < corridor {
		a.logger.Warning(fmt.Sprintf("%s: max steps %d below corridor bound, using %d", a.algorithm, maxSteps, corridor))
		maxSteps = corridor
	}
	return episodes, maxSteps
}
