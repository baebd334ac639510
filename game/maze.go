package game

import "fmt"

// GridWorld defines the methods a navigable world must implement.
// It is owned and mutated outside the navigation strategies.
type GridWorld interface {
	// Width returns the number of columns.
	Width() int

	// Height returns the number of rows.
	Height() int

	// IsValidMove reports whether (x, y) is inside the grid and not an obstacle.
	IsValidMove(x, y int) bool

	// GoalPos returns the current goal and false if no goal is placed yet.
	GoalPos() (Position, bool)
}

// Position is a grid cell coordinate. X grows to the right, Y grows down.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns the position displaced by delta.
func (p Position) Add(delta Position) Position {
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Step returns the position one cell away in direction d.
// Idle and unknown directions return p unchanged.
func (p Position) Step(d Direction) Position {
	return p.Add(d.Delta())
}

// Manhattan returns the 4-connected grid distance between p and o.
func (p Position) Manhattan(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// String renders the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a move issued to the world.
type Direction string

// Directions understood by the world.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
	Idle  Direction = "idle"
)

// Cardinal lists the four moves in the fixed enumeration order used for
// neighbor expansion: right, left, down, up.
var Cardinal = [4]Direction{Right, Left, Down, Up}

var deltas = map[Direction]Position{
	Right: {X: 1, Y: 0},
	Left:  {X: -1, Y: 0},
	Down:  {X: 0, Y: 1},
	Up:    {X: 0, Y: -1},
}

// Delta returns the unit displacement of d.
func (d Direction) Delta() Position {
	return deltas[d]
}

// DirectionBetween returns the direction leading from a to an adjacent b,
// or Idle if b is not one step away from a.
func DirectionBetween(a, b Position) Direction {
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case dx > 0 && dy == 0:
		return Right
	case dx < 0 && dy == 0:
		return Left
	case dy > 0 && dx == 0:
		return Down
	case dy < 0 && dx == 0:
		return Up
	default:
		return Idle
	}
}

// InBounds reports whether p lies inside w regardless of obstacles.
func InBounds(w GridWorld, p Position) bool {
	return p.X >= 0 && p.X < w.Width() && p.Y >= 0 && p.Y < w.Height()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
