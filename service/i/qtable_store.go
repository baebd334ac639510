package i

import (
	"context"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
)

// QTableStore persists Q-table snapshots per (algorithm, maze).
type QTableStore interface {
	Save(ctx context.Context, algorithm game.Algorithm, maze string, entries []learning.Entry) error

	// Load reports false when no snapshot exists.
	Load(ctx context.Context, algorithm game.Algorithm, maze string) ([]learning.Entry, bool, error)
}
