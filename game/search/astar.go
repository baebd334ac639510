package search

import "github.com/beka-birhanu/vinom-nav/game"

// AStar orders the frontier by accumulated cost plus the Manhattan distance
// to the goal. On a 4-connected unit-cost grid the heuristic is consistent,
// so paths are optimal and no position is finalized twice.
type AStar struct {
	base
}

var _ game.Pathfinder = (*AStar)(nil)

// NewAStar creates an A* strategy over world.
func NewAStar(world game.GridWorld) *AStar {
	return &AStar{base: newBase(world)}
}

// Algorithm returns game.AStar.
func (s *AStar) Algorithm() game.Algorithm {
	return game.AStar
}

// FindPath returns a minimum cost path from start to goal.
func (s *AStar) FindPath(start, goal game.Position) ([]game.Position, float64) {
	return s.bestFirst(start, goal, func(cost int, p game.Position) int {
		return cost + p.Manhattan(goal)
	}, true)
}

// NextMove returns the first step of the planned path, or game.Idle.
func (s *AStar) NextMove(current, goal game.Position) game.Direction {
	path, _ := s.FindPath(current, goal)
	return nextMove(path)
}
