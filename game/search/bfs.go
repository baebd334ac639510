package search

import (
	"math"

	"github.com/beka-birhanu/vinom-nav/game"
)

// BFS is breadth-first search, the unweighted shortest-path baseline.
type BFS struct {
	base
}

var _ game.Pathfinder = (*BFS)(nil)

// NewBFS creates a breadth-first strategy over world.
func NewBFS(world game.GridWorld) *BFS {
	return &BFS{base: newBase(world)}
}

// Algorithm returns game.BFS.
func (s *BFS) Algorithm() game.Algorithm {
	return game.BFS
}

// FindPath returns a minimum step-count path from start to goal. Positions
// are recorded when first discovered.
func (s *BFS) FindPath(start, goal game.Position) ([]game.Position, float64) {
	if !s.endpointsValid(start, goal) {
		return nil, math.Inf(1)
	}

	came := make(map[game.Position]game.Position)
	visited := map[game.Position]struct{}{start: {}}
	s.recorder.RecordNodeExplored()

	queue := []game.Position{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == goal {
			path := reconstruct(came, start, goal)
			return path, float64((len(path) - 1) * stepCost)
		}

		for _, next := range s.Neighbors(current) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			s.recorder.RecordNodeExplored()
			came[next] = current
			queue = append(queue, next)
		}
	}

	return nil, math.Inf(1)
}

// NextMove returns the first step of the shortest path, or game.Idle.
func (s *BFS) NextMove(current, goal game.Position) game.Direction {
	path, _ := s.FindPath(current, goal)
	return nextMove(path)
}
