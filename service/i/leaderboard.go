package i

import (
	"context"

	"github.com/beka-birhanu/vinom-nav/game"
)

// LeaderboardEntry is the best score of one algorithm on a maze.
type LeaderboardEntry struct {
	Algorithm game.Algorithm `json:"algorithm"`
	Score     float64        `json:"score"`
}

// Leaderboard ranks algorithms per maze by their best score.
type Leaderboard interface {
	// Submit records score, keeping only the best one per algorithm.
	Submit(ctx context.Context, maze string, algorithm game.Algorithm, score float64) error

	// Top returns up to n entries, best first.
	Top(ctx context.Context, maze string, n int) ([]LeaderboardEntry, error)
}
