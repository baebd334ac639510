package learning

import "github.com/beka-birhanu/vinom-nav/game"

// QLearner is the off-policy learner. Its update bootstraps from the best
// valid action at the next state, whatever action is taken next.
type QLearner struct {
	*agent
}

var _ game.Navigator = (*QLearner)(nil)

// NewQLearner creates a Q-learning agent over world.
func NewQLearner(world game.GridWorld, params Params, opts ...Option) *QLearner {
	l := &QLearner{agent: newAgent(game.QLearning, world, params, false, opts...)}
	l.runEpisode = l.episode
	return l
}

func (l *QLearner) episode(start, goal game.Position, maxSteps int) episodeResult {
	var res episodeResult
	pos := start

	for res.steps < maxSteps {
		key := l.features.Key(pos, goal)
		act, ok := l.explore(key, pos)
		if !ok {
			break
		}

		next := l.Transition(pos, act)
		l.see(next)
		r := l.reward(pos, next, goal, res.steps+1)
		res.reward += r
		res.steps++

		target := r
		if next != goal {
			nextKey := l.features.Key(next, goal)
			target += l.params.DiscountFactor * l.table.Max(nextKey, l.ValidActions(next))
		}
		l.update(key, act, target)

		l.recent.push(pos)
		pos = next
		if pos == goal {
			res.reached = true
			break
		}
	}
	return res
}
