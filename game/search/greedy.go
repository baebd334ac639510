package search

import "github.com/beka-birhanu/vinom-nav/game"

// Greedy is greedy best-first search. It follows the heuristic alone and
// keeps the first route found to every position, so its paths can be longer
// than optimal.
type Greedy struct {
	base
}

var _ game.Pathfinder = (*Greedy)(nil)

// NewGreedy creates a greedy best-first strategy over world.
func NewGreedy(world game.GridWorld) *Greedy {
	return &Greedy{base: newBase(world)}
}

// Algorithm returns game.Greedy.
func (s *Greedy) Algorithm() game.Algorithm {
	return game.Greedy
}

// FindPath returns some path from start to goal and its step cost.
func (s *Greedy) FindPath(start, goal game.Position) ([]game.Position, float64) {
	return s.bestFirst(start, goal, func(_ int, p game.Position) int {
		return p.Manhattan(goal)
	}, false)
}

// NextMove returns the first step of the greedy path, or game.Idle.
func (s *Greedy) NextMove(current, goal game.Position) game.Direction {
	path, _ := s.FindPath(current, goal)
	return nextMove(path)
}
