package i

import (
	"context"

	"github.com/google/uuid"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/metrics"
)

// RunRecorder tracks the lifecycle of navigation runs.
type RunRecorder interface {
	StartRun(ctx context.Context, algorithm game.Algorithm, maze string) uuid.UUID
	UpdateRun(u metrics.RunUpdate) error
	EndRun(ctx context.Context, success bool, score float64) (metrics.RunMetrics, error)
}
