// Package gameapi exposes navigation, metrics and run tracking over HTTP.
package gameapi

import (
	"github.com/google/uuid"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/metrics"
)

// WorldRequest selects a maze variant and the strategy to run on it.
type WorldRequest struct {
	Maze      string         `json:"maze" binding:"required"`
	Seed      int64          `json:"seed"`
	Algorithm game.Algorithm `json:"algorithm" binding:"required"`
}

// PathRequest asks for a full path. Start and Goal default to the variant's
// spawn and goal.
type PathRequest struct {
	WorldRequest
	Start *game.Position `json:"start"`
	Goal  *game.Position `json:"goal"`
}

// PathResponse is a planned path. Cost is null when the goal is unreachable.
type PathResponse struct {
	Path          []game.Position `json:"path"`
	Cost          *float64        `json:"cost"`
	NodesExplored int             `json:"nodes_explored"`
}

// MoveRequest asks for the next move from Current.
type MoveRequest struct {
	WorldRequest
	Current game.Position  `json:"current"`
	Goal    *game.Position `json:"goal"`
}

// MoveResponse carries the chosen direction and the cell it leads to.
type MoveResponse struct {
	Direction game.Direction `json:"direction"`
	Next      game.Position  `json:"next"`
}

// StartRunRequest opens a run.
type StartRunRequest struct {
	Algorithm game.Algorithm `json:"algorithm" binding:"required"`
	Maze      string         `json:"maze" binding:"required"`
}

// StartRunResponse identifies the opened run.
type StartRunResponse struct {
	ID uuid.UUID `json:"id"`
}

// UpdateRunRequest carries the running fields of the open run. Times are in
// milliseconds; an omitted time keeps its stored value.
type UpdateRunRequest struct {
	PathLength    int    `json:"path_length" binding:"min=0"`
	NodesExplored int    `json:"nodes_explored" binding:"min=0"`
	ElapsedMs     *int64 `json:"elapsed_ms,omitempty" binding:"omitempty,min=0"`
	RemainingMs   *int64 `json:"remaining_ms,omitempty" binding:"omitempty,min=0"`
	TotalMs       *int64 `json:"total_ms,omitempty" binding:"omitempty,min=0"`
}

// EndRunRequest closes the open run. Without a score, a successful run is
// scored against Optimal when it is given.
type EndRunRequest struct {
	Success bool     `json:"success"`
	Score   *float64 `json:"score"`
	Optimal *int     `json:"optimal"`
}

// RunResponse is a closed run.
type RunResponse struct {
	Run metrics.RunMetrics `json:"run"`
}
