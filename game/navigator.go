package game

// Algorithm identifies a navigation strategy.
type Algorithm string

// Supported strategies.
const (
	BFS       Algorithm = "bfs"
	Dijkstra  Algorithm = "dijkstra"
	AStar     Algorithm = "astar"
	Greedy    Algorithm = "greedy"
	QLearning Algorithm = "qlearning"
	SARSA     Algorithm = "sarsa"
)

// Algorithms lists every strategy, search first.
var Algorithms = []Algorithm{BFS, Dijkstra, AStar, Greedy, QLearning, SARSA}

var displayNames = map[Algorithm]string{
	BFS:       "Breadth First",
	Dijkstra:  "Dijkstra Algorithm",
	AStar:     "A* Algorithm",
	Greedy:    "Greedy Best First",
	QLearning: "Q-Learning",
	SARSA:     "SARSA",
}

// DisplayName returns the human readable name of a.
func (a Algorithm) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}
	return string(a)
}

// Valid reports whether a names a known strategy.
func (a Algorithm) Valid() bool {
	_, ok := displayNames[a]
	return ok
}

// IsLearner reports whether a needs training before use.
func (a Algorithm) IsLearner() bool {
	return a == QLearning || a == SARSA
}

// Navigator decides the next move of an agent.
type Navigator interface {
	// Algorithm returns the strategy identity.
	Algorithm() Algorithm

	// NextMove returns the direction to take from current towards goal.
	NextMove(current, goal Position) Direction

	// SetNodeRecorder registers the exploration hook. Nil disables it.
	SetNodeRecorder(r NodeRecorder)
}

// Pathfinder is a Navigator that can plan a whole path.
type Pathfinder interface {
	Navigator

	// FindPath returns the path from start to goal inclusive and its cost.
	// An empty path with infinite cost means no path exists.
	FindPath(start, goal Position) ([]Position, float64)
}
