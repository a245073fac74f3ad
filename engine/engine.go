package engine

import (
	"context"

	"uct/experiments/metrics"
	"uct/game"
)

const MaxMoves = 10000

type Engine[M comparable] interface {
	// Run plays a game until it is over or the move limit is reached
	Run(ctx context.Context) (final game.State[M], gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
