package maze

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/beka-birhanu/vinom-nav/game"
)

// Variant names.
const (
	VariantOpen     = "open"
	VariantDiagonal = "diagonal"
	VariantWall     = "wall"
	VariantWillson  = "wilson"
)

// VariantNames lists every named variant in presentation order.
var VariantNames = []string{VariantOpen, VariantDiagonal, VariantWall, VariantWillson}

const (
	variantSize     = 10
	willsonRooms    = 8
	defaultWillSeed = 7
)

var diagonalLayout = []string{
	"....G.....",
	".##....##.",
	"....##....",
	"..######..",
	"..........",
	".###..###.",
	"...#..#...",
	".#......#.",
	".###..###.",
	".....S....",
}

var (
	ErrUnknownVariant = errors.New("unknown maze variant")
)

// Variant is a named world ready for a run: a grid with its spawn and goal set.
type Variant struct {
	Name string
	Grid *Grid
}

// Start returns the spawn cell.
func (v *Variant) Start() game.Position {
	return v.Grid.Spawn()
}

// Goal returns the goal cell. Every variant places one.
func (v *Variant) Goal() game.Position {
	goal, _ := v.Grid.GoalPos()
	return goal
}

// NewVariant builds the named variant. The seed only affects generated
// variants; zero selects a fixed default seed.
func NewVariant(name string, seed int64) (*Variant, error) {
	var (
		g   *Grid
		err error
	)

	switch name {
	case VariantOpen:
		g, err = openVariant()
	case VariantDiagonal:
		g, err = diagonalVariant()
	case VariantWall:
		g, err = wallVariant()
	case VariantWillson:
		g, err = willsonVariant(seed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	if err != nil {
		return nil, fmt.Errorf("building variant %q: %w", name, err)
	}

	return &Variant{Name: name, Grid: g}, nil
}

func openVariant() (*Grid, error) {
	g, err := NewGrid(variantSize, variantSize)
	if err != nil {
		return nil, err
	}
	if err := g.SetGoal(game.Position{X: variantSize - 1, Y: variantSize - 1}); err != nil {
		return nil, err
	}
	return g, nil
}

// diagonalVariant is the fixed obstacle course: spawn at the bottom middle,
// goal near the top middle.
func diagonalVariant() (*Grid, error) {
	return ParseLayout(diagonalLayout)
}

// wallVariant splits the grid with a full-height wall, so the goal is
// unreachable from the spawn.
func wallVariant() (*Grid, error) {
	g, err := NewGrid(variantSize, variantSize)
	if err != nil {
		return nil, err
	}
	for y := 0; y < variantSize; y++ {
		if err := g.SetObstacle(game.Position{X: variantSize / 2, Y: y}, true); err != nil {
			return nil, err
		}
	}
	if err := g.SetGoal(game.Position{X: variantSize - 1, Y: variantSize - 1}); err != nil {
		return nil, err
	}
	return g, nil
}

func willsonVariant(seed int64) (*Grid, error) {
	if seed == 0 {
		seed = defaultWillSeed
	}
	m, err := NewWillson(willsonRooms, willsonRooms, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	g := m.Expand()
	if err := g.SetSpawn(RoomPosition(0, 0)); err != nil {
		return nil, err
	}
	if err := g.SetGoal(RoomPosition(willsonRooms-1, willsonRooms-1)); err != nil {
		return nil, err
	}
	return g, nil
}
