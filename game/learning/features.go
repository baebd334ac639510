package learning

import (
	"math"
	"math/bits"

	"github.com/beka-birhanu/vinom-nav/game"
)

// Action indexes the four cardinal moves in a Q-table row.
type Action int

// Actions in neighbor enumeration order.
const (
	ActionRight Action = iota
	ActionLeft
	ActionDown
	ActionUp
)

// Actions lists every action.
var Actions = [4]Action{ActionRight, ActionLeft, ActionDown, ActionUp}

// Direction returns the move the action issues.
func (a Action) Direction() game.Direction {
	if a < 0 || int(a) >= len(game.Cardinal) {
		return game.Idle
	}
	return game.Cardinal[a]
}

// ActionFor returns the action that issues d.
func ActionFor(d game.Direction) (Action, bool) {
	for i, c := range game.Cardinal {
		if c == d {
			return Action(i), true
		}
	}
	return 0, false
}

// StateKey is the discrete state a Q-table is indexed by. Cells with the same
// surroundings and goal bearing share Local, Octant and Distance; Pos keeps
// distinct cells apart.
type StateKey struct {
	Local    uint32        `bson:"local" json:"local"`       // Bit i set when the i-th window cell is blocked
	Octant   int           `bson:"octant" json:"octant"`     // Goal bearing in 45 degree sectors, -1 at the goal
	Distance int           `bson:"distance" json:"distance"` // Bit length of the Manhattan distance to the goal
	Pos      game.Position `bson:"pos" json:"pos"`
}

// Featurizer derives state keys from a world.
type Featurizer struct {
	world  game.GridWorld
	radius int
}

// NewFeaturizer creates a featurizer with a (2*radius+1) square window.
func NewFeaturizer(world game.GridWorld, radius int) Featurizer {
	return Featurizer{world: world, radius: min(max(radius, 1), maxFeatureRadius)}
}

// Key returns the state key of pos when heading for goal.
func (f Featurizer) Key(pos, goal game.Position) StateKey {
	return StateKey{
		Local:    f.local(pos),
		Octant:   octant(pos, goal),
		Distance: bits.Len(uint(pos.Manhattan(goal))),
		Pos:      pos,
	}
}

// local packs the blocked cells of the window around pos, row by row,
// skipping the center.
func (f Featurizer) local(pos game.Position) uint32 {
	var mask uint32
	bit := 0
	for dy := -f.radius; dy <= f.radius; dy++ {
		for dx := -f.radius; dx <= f.radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if !f.world.IsValidMove(pos.X+dx, pos.Y+dy) {
				mask |= 1 << bit
			}
			bit++
		}
	}
	return mask
}

// octant maps the bearing from pos to goal onto 0..7, counterclockwise from
// east with y growing down.
func octant(pos, goal game.Position) int {
	dx, dy := goal.X-pos.X, goal.Y-pos.Y
	if dx == 0 && dy == 0 {
		return -1
	}
	angle := math.Atan2(float64(-dy), float64(dx))
	sector := int(math.Round(angle / (math.Pi / 4)))
	return (sector + 8) % 8
}

// BlockedNeighbors counts the out-of-bounds or obstacle cells among the four
// neighbors of pos.
func BlockedNeighbors(world game.GridWorld, pos game.Position) int {
	blocked := 0
	for _, d := range game.Cardinal {
		n := pos.Step(d)
		if !world.IsValidMove(n.X, n.Y) {
			blocked++
		}
	}
	return blocked
}
