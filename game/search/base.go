/*
Package search implements the graph-search navigation strategies.

Breadth-first search, Dijkstra, A* and greedy best-first share one contract:
fixed-order neighbor enumeration, uniform step cost, predecessor-map path
reconstruction and an exploration hook that fires once per distinct position
a single FindPath call examines. Search state lives only for the duration of
one FindPath call.
*/
package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-nav/game"
)

// stepCost is the cost of moving between two adjacent cells.
const stepCost = 1

var (
	ErrNotSearchAlgorithm = errors.New("not a search algorithm")
)

// New returns the search strategy named by a.
func New(a game.Algorithm, world game.GridWorld) (game.Pathfinder, error) {
	switch a {
	case game.BFS:
		return NewBFS(world), nil
	case game.Dijkstra:
		return NewDijkstra(world), nil
	case game.AStar:
		return NewAStar(world), nil
	case game.Greedy:
		return NewGreedy(world), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNotSearchAlgorithm, a)
	}
}

// Algorithms lists the search strategies.
var Algorithms = []game.Algorithm{game.BFS, game.Dijkstra, game.AStar, game.Greedy}

// base holds what every strategy needs: the world and the exploration hook.
type base struct {
	world    game.GridWorld
	recorder game.NodeRecorder
}

func newBase(world game.GridWorld) base {
	return base{world: world, recorder: game.NopRecorder{}}
}

// SetNodeRecorder registers the exploration hook. Nil disables it.
func (b *base) SetNodeRecorder(r game.NodeRecorder) {
	b.recorder = game.RecorderOrNop(r)
}

// Neighbors returns the traversable cells adjacent to pos in the order
// right, left, down, up.
func (b *base) Neighbors(pos game.Position) []game.Position {
	result := make([]game.Position, 0, len(game.Cardinal))
	for _, d := range game.Cardinal {
		n := pos.Step(d)
		if b.world.IsValidMove(n.X, n.Y) {
			result = append(result, n)
		}
	}
	return result
}

func (b *base) endpointsValid(start, goal game.Position) bool {
	return b.world.IsValidMove(start.X, start.Y) && b.world.IsValidMove(goal.X, goal.Y)
}

// bestFirst runs a priority-queue search. A position is finalized and
// recorded the first time it is popped. With relax set, a cheaper route to a
// discovered position replaces its predecessor and re-enters the frontier;
// otherwise the first discovery wins.
func (b *base) bestFirst(start, goal game.Position, priority func(cost int, p game.Position) int, relax bool) ([]game.Position, float64) {
	if !b.endpointsValid(start, goal) {
		return nil, math.Inf(1)
	}

	costs := map[game.Position]int{start: 0}
	came := make(map[game.Position]game.Position)
	finalized := make(map[game.Position]struct{})

	open := newFrontier()
	open.push(start, priority(0, start))

	for open.len() > 0 {
		current := open.pop().pos
		if _, done := finalized[current]; done {
			continue
		}
		finalized[current] = struct{}{}
		b.recorder.RecordNodeExplored()

		if current == goal {
			return reconstruct(came, start, goal), float64(costs[goal])
		}

		for _, next := range b.Neighbors(current) {
			if _, done := finalized[next]; done {
				continue
			}
			cost := costs[current] + stepCost
			if known, seen := costs[next]; seen && (!relax || cost >= known) {
				continue
			}
			costs[next] = cost
			came[next] = current
			open.push(next, priority(cost, next))
		}
	}

	return nil, math.Inf(1)
}

// reconstruct walks the predecessor map back from goal.
func reconstruct(came map[game.Position]game.Position, start, goal game.Position) []game.Position {
	path := []game.Position{goal}
	for current := goal; current != start; {
		current = came[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nextMove converts the first step of a planned path into a direction.
func nextMove(path []game.Position) game.Direction {
	if len(path) < 2 {
		return game.Idle
	}
	return game.DirectionBetween(path[0], path[1])
}
