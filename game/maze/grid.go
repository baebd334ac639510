package maze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-nav/game"
)

// Layout symbols accepted by ParseLayout and produced by Grid.String.
const (
	SymbolFree     = '.'
	SymbolObstacle = '#'
	SymbolSpawn    = 'S'
	SymbolGoal     = 'G'
)

var (
	ErrOutOfBounds   = errors.New("position is out of the grid")
	ErrBlockedCell   = errors.New("position is an obstacle")
	ErrInvalidLayout = errors.New("invalid layout")
)

// Grid is a rectangular occupancy world. It implements game.GridWorld.
type Grid struct {
	width     int
	height    int
	obstacles []bool
	goal      *game.Position
	spawn     game.Position
}

var _ game.GridWorld = (*Grid)(nil)

// NewGrid creates an obstacle-free grid with its spawn at the origin.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Grid{
		width:     width,
		height:    height,
		obstacles: make([]bool, width*height),
	}, nil
}

// newFilledGrid creates a grid where every cell is an obstacle.
func newFilledGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, obstacles: make([]bool, width*height)}
	for i := range g.obstacles {
		g.obstacles[i] = true
	}
	return g
}

// ParseLayout builds a grid from rows of layout symbols. Every row must have
// the same length. At most one spawn and one goal may appear.
func ParseLayout(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidLayout)
	}

	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}

	spawnSeen := false
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrInvalidLayout, y, len(row), g.width)
		}
		for x, symbol := range row {
			pos := game.Position{X: x, Y: y}
			switch symbol {
			case SymbolFree:
			case SymbolObstacle:
				g.obstacles[g.index(x, y)] = true
			case SymbolSpawn:
				if spawnSeen {
					return nil, fmt.Errorf("%w: more than one spawn", ErrInvalidLayout)
				}
				spawnSeen = true
				g.spawn = pos
			case SymbolGoal:
				if g.goal != nil {
					return nil, fmt.Errorf("%w: more than one goal", ErrInvalidLayout)
				}
				g.goal = &pos
			default:
				return nil, fmt.Errorf("%w: unknown symbol %q at %s", ErrInvalidLayout, symbol, pos)
			}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// IsValidMove reports whether (x, y) is inside the grid and free.
func (g *Grid) IsValidMove(x, y int) bool {
	return g.inBound(x, y) && !g.obstacles[g.index(x, y)]
}

// GoalPos returns the goal, if one is placed.
func (g *Grid) GoalPos() (game.Position, bool) {
	if g.goal == nil {
		return game.Position{}, false
	}
	return *g.goal, true
}

// Spawn returns the spawn cell.
func (g *Grid) Spawn() game.Position {
	return g.spawn
}

// IsObstacle reports whether p is an in-bound obstacle.
func (g *Grid) IsObstacle(p game.Position) bool {
	return g.inBound(p.X, p.Y) && g.obstacles[g.index(p.X, p.Y)]
}

// SetObstacle places or removes an obstacle at p. The goal and spawn cells
// cannot be blocked.
func (g *Grid) SetObstacle(p game.Position, blocked bool) error {
	if !g.inBound(p.X, p.Y) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	if blocked && (p == g.spawn || (g.goal != nil && *g.goal == p)) {
		return fmt.Errorf("%w: cannot block spawn or goal at %s", ErrBlockedCell, p)
	}
	g.obstacles[g.index(p.X, p.Y)] = blocked
	return nil
}

// SetGoal moves the goal to p.
func (g *Grid) SetGoal(p game.Position) error {
	if err := g.checkFree(p); err != nil {
		return err
	}
	g.goal = &p
	return nil
}

// ClearGoal removes the goal.
func (g *Grid) ClearGoal() {
	g.goal = nil
}

// SetSpawn moves the spawn to p.
func (g *Grid) SetSpawn(p game.Position) error {
	if err := g.checkFree(p); err != nil {
		return err
	}
	g.spawn = p
	return nil
}

// FreeCells returns the number of non-obstacle cells.
func (g *Grid) FreeCells() int {
	free := 0
	for _, blocked := range g.obstacles {
		if !blocked {
			free++
		}
	}
	return free
}

// String provides a textual representation of the grid using layout symbols.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.symbolAt(game.Position{X: x, Y: y}))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) symbolAt(p game.Position) rune {
	switch {
	case g.goal != nil && *g.goal == p:
		return SymbolGoal
	case g.spawn == p:
		return SymbolSpawn
	case g.obstacles[g.index(p.X, p.Y)]:
		return SymbolObstacle
	default:
		return SymbolFree
	}
}

func (g *Grid) checkFree(p game.Position) error {
	if !g.inBound(p.X, p.Y) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	if g.obstacles[g.index(p.X, p.Y)] {
		return fmt.Errorf("%w: %s", ErrBlockedCell, p)
	}
	return nil
}

func (g *Grid) inBound(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}
