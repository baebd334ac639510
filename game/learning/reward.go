package learning

import "github.com/beka-birhanu/vinom-nav/game"

// reward scores the transition from current to next. moves counts the moves
// taken so far including this one. With safety set, every blocked neighbor of
// next costs 1-SafetyFactor on top of the distance shaping.
func (r RewardConfig) reward(world game.GridWorld, current, next, goal game.Position, recent *history, moves int, safety bool) float64 {
	if next == goal {
		bonus := 0.0
		if moves > 0 {
			bonus = r.EfficiencyBonus / float64(moves)
		}
		return r.Goal + bonus
	}

	if next == current {
		return r.Wall
	}

	if recent.contains(next) {
		return r.Loop
	}

	penalty := 0.0
	if safety {
		penalty = float64(BlockedNeighbors(world, next)) * (1 - r.SafetyFactor)
	}

	before, after := current.Manhattan(goal), next.Manhattan(goal)
	switch {
	case after < before:
		return r.Closer - penalty
	case after > before:
		return r.Farther - penalty
	default:
		return r.Lateral - penalty
	}
}
