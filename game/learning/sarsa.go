package learning

import "github.com/beka-birhanu/vinom-nav/game"

// SARSA is the on-policy learner. The next action is selected before the
// update and its value is the one bootstrapped from. Its reward also
// penalizes cramped destinations.
type SARSA struct {
	*agent
}

var _ game.Navigator = (*SARSA)(nil)

// NewSARSA creates a SARSA agent over world.
func NewSARSA(world game.GridWorld, params Params, opts ...Option) *SARSA {
	s := &SARSA{agent: newAgent(game.SARSA, world, params, true, opts...)}
	s.runEpisode = s.episode
	return s
}

func (s *SARSA) episode(start, goal game.Position, maxSteps int) episodeResult {
	var res episodeResult
	pos := start
	key := s.features.Key(pos, goal)

	act, ok := s.explore(key, pos)
	if !ok {
		return res
	}

	for res.steps < maxSteps {
		next := s.Transition(pos, act)
		s.see(next)
		r := s.reward(pos, next, goal, res.steps+1)
		res.reward += r
		res.steps++

		if next == goal {
			s.update(key, act, r)
			res.reached = true
			break
		}

		nextKey := s.features.Key(next, goal)
		nextAct, ok := s.explore(nextKey, next)
		target := r
		if ok {
			target += s.params.DiscountFactor * s.table.Get(nextKey, nextAct)
		}
		s.update(key, act, target)

		s.recent.push(pos)
		if !ok {
			break
		}
		pos, key, act = next, nextKey, nextAct
	}
	return res
}
