package search

import "github.com/beka-birhanu/vinom-nav/game"

// Dijkstra orders the frontier by accumulated cost and relaxes cheaper routes.
type Dijkstra struct {
	base
}

var _ game.Pathfinder = (*Dijkstra)(nil)

// NewDijkstra creates a Dijkstra strategy over world.
func NewDijkstra(world game.GridWorld) *Dijkstra {
	return &Dijkstra{base: newBase(world)}
}

// Algorithm returns game.Dijkstra.
func (s *Dijkstra) Algorithm() game.Algorithm {
	return game.Dijkstra
}

// FindPath returns a minimum cost path from start to goal.
func (s *Dijkstra) FindPath(start, goal game.Position) ([]game.Position, float64) {
	return s.bestFirst(start, goal, func(cost int, _ game.Position) int {
		return cost
	}, true)
}

// NextMove returns the first step of the cheapest path, or game.Idle.
func (s *Dijkstra) NextMove(current, goal game.Position) game.Direction {
	path, _ := s.FindPath(current, goal)
	return nextMove(path)
}
