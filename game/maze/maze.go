/*
Package maze provides grid worlds for the navigation strategies.

It defines the `Grid` occupancy world, a Wilson's algorithm generator that carves
a walled maze and expands it to a grid, a set of named maze variants used for
benchmarking, and terminal rendering of grids and paths.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/beka-birhanu/vinom-nav/game"
)

const (
	maxMazeDimenssion = 40
)

// directionOrder fixes the iteration order so seeded generation is reproducible.
var directionOrder = []struct {
	name  string
	delta CellPosition
}{
	{"North", CellPosition{Row: -1, Col: 0}},
	{"South", CellPosition{Row: 1, Col: 0}},
	{"East", CellPosition{Row: 0, Col: 1}},
	{"West", CellPosition{Row: 0, Col: -1}},
}

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
)

// WillsonMaze represents a rectangular maze of walled cells.
type WillsonMaze struct {
	Width  int        // Width of the maze (number of columns)
	Height int        // Height of the maze (number of rows)
	Grid   [][]*Cell  // 2D grid of cells forming the maze
	rng    *rand.Rand // Source of randomness for the walk
}

// NewWillson initializes a maze of the given dimensions and carves its layout.
// A nil rng uses a time-independent default seed of 1.
func NewWillson(width, height int, rng *rand.Rand) (*WillsonMaze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimenssion {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	grid := make([][]*Cell, height)
	for i := range grid {
		grid[i] = make([]*Cell, width)
		for j := range grid[i] {
			grid[i][j] = closedCell()
		}
	}

	maze := &WillsonMaze{
		Width:  width,
		Height: height,
		Grid:   grid,
		rng:    rng,
	}
	maze.generateMaze()
	return maze, nil
}

// randomCellPosition generates a random position within the maze.
func (m *WillsonMaze) randomCellPosition() CellPosition {
	return CellPosition{Row: m.rng.Intn(m.Height), Col: m.rng.Intn(m.Width)}
}

// randomUnvisitedCellPosition selects a random position that has not been visited.
func (m *WillsonMaze) randomUnvisitedCellPosition(visited map[CellPosition]struct{}) CellPosition {
	for {
		pos := m.randomCellPosition()
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors finds all in-bound moves from a given cell position.
func (m *WillsonMaze) neighbors(pos CellPosition) []Move {
	var result []Move
	for _, dir := range directionOrder {
		neighbor := CellPosition{Row: pos.Row + dir.delta.Row, Col: pos.Col + dir.delta.Col}
		if neighbor.Row >= 0 && neighbor.Row < m.Height && neighbor.Col >= 0 && neighbor.Col < m.Width {
			result = append(result, Move{From: pos, To: neighbor, Direction: dir.name})
		}
	}
	return result
}

// openWall removes the wall between two adjacent cells in the specified direction.
func (m *WillsonMaze) openWall(move Move) {
	switch move.Direction {
	case "North":
		m.Grid[move.From.Row][move.From.Col].NorthWall = false
		m.Grid[move.To.Row][move.To.Col].SouthWall = false
	case "South":
		m.Grid[move.From.Row][move.From.Col].SouthWall = false
		m.Grid[move.To.Row][move.To.Col].NorthWall = false
	case "East":
		m.Grid[move.From.Row][move.From.Col].EastWall = false
		m.Grid[move.To.Row][move.To.Col].WestWall = false
	case "West":
		m.Grid[move.From.Row][move.From.Col].WestWall = false
		m.Grid[move.To.Row][move.To.Col].EastWall = false
	}
}

// randomWalk performs a loop-erased random walk from an unvisited cell
// until it hits the visited tree. The returned slice is the erased path.
func (m *WillsonMaze) randomWalk(visited map[CellPosition]struct{}) []Move {
	start := m.randomUnvisitedCellPosition(visited)
	exits := make(map[CellPosition]Move)
	cell := start

	for {
		neighbors := m.neighbors(cell)
		next := neighbors[m.rng.Intn(len(neighbors))]
		exits[cell] = next
		if _, included := visited[next.To]; included {
			break
		}
		cell = next.To
	}

	// Follow the last exit taken from each cell; this erases loops.
	var path []Move
	for cell = start; ; {
		move := exits[cell]
		path = append(path, move)
		if _, included := visited[move.To]; included {
			return path
		}
		cell = move.To
	}
}

// generateMaze carves a uniform spanning tree with Wilson's algorithm.
func (m *WillsonMaze) generateMaze() {
	visited := make(map[CellPosition]struct{})
	visited[m.randomCellPosition()] = struct{}{}

	for len(visited) < m.Width*m.Height {
		for _, move := range m.randomWalk(visited) {
			m.openWall(move)
			visited[move.From] = struct{}{}
		}
	}
}

// Expand converts the walled maze into an occupancy grid of size
// (2*Width+1) x (2*Height+1). Cell (row, col) maps to grid (2*col+1, 2*row+1)
// and every open wall becomes a free corridor cell between two rooms.
func (m *WillsonMaze) Expand() *Grid {
	g := newFilledGrid(2*m.Width+1, 2*m.Height+1)
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			x, y := 2*col+1, 2*row+1
			g.obstacles[g.index(x, y)] = false

			cell := m.Grid[row][col]
			if !cell.EastWall {
				g.obstacles[g.index(x+1, y)] = false
			}
			if !cell.SouthWall {
				g.obstacles[g.index(x, y+1)] = false
			}
		}
	}
	return g
}

// RoomPosition returns the grid coordinate of the room at (row, col).
func RoomPosition(row, col int) game.Position {
	return game.Position{X: 2*col + 1, Y: 2*row + 1}
}
