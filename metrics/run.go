// Package metrics records navigation runs and keeps per (maze, algorithm)
// aggregates across them.
package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/beka-birhanu/vinom-nav/game"
)

// RunMetrics is one attempt of an algorithm on a maze.
type RunMetrics struct {
	ID            uuid.UUID      `json:"id" bson:"_id"`
	Algorithm     game.Algorithm `json:"algorithm" bson:"algorithm"`
	Maze          string         `json:"maze" bson:"maze"`
	Success       bool           `json:"success" bson:"success"`
	PathLength    int            `json:"path_length" bson:"path_length"`
	NodesExplored int            `json:"nodes_explored" bson:"nodes_explored"`
	Elapsed       float64        `json:"time_taken" bson:"time_taken"`         // Seconds
	TimeRemaining float64        `json:"time_remaining" bson:"time_remaining"` // Seconds
	TotalTime     float64        `json:"total_time" bson:"total_time"`         // Seconds, zero when unbounded
	Score         float64        `json:"score" bson:"score"`
	StartedAt     time.Time      `json:"started_at" bson:"started_at"`
	EndedAt       time.Time      `json:"ended_at" bson:"ended_at"`
}

// RunUpdate carries the running fields of an open run. PathLength and
// NodesExplored never decrease the stored value. A non nil time field
// overwrites the stored one; a nil field leaves it as it is.
type RunUpdate struct {
	PathLength    int
	NodesExplored int
	Elapsed       *time.Duration
	TimeRemaining *time.Duration
	TotalTime     *time.Duration
}

// Duration returns a pointer to d, for the optional fields of RunUpdate.
func Duration(d time.Duration) *time.Duration {
	return &d
}

func (r *RunMetrics) apply(u RunUpdate) {
	r.PathLength = max(r.PathLength, u.PathLength)
	r.NodesExplored = max(r.NodesExplored, u.NodesExplored)
	if u.Elapsed != nil {
		r.Elapsed = u.Elapsed.Seconds()
	}
	if u.TimeRemaining != nil {
		r.TimeRemaining = u.TimeRemaining.Seconds()
	}
	if u.TotalTime != nil {
		r.TotalTime = u.TotalTime.Seconds()
	}
}

// Key identifies the aggregate a run belongs to.
type Key struct {
	Maze      string
	Algorithm game.Algorithm
}

func (r RunMetrics) key() Key {
	return Key{Maze: r.Maze, Algorithm: r.Algorithm}
}
