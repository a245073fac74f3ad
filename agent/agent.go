package agent

import (
	"context"

	"uct/experiments/metrics"
	"uct/game"
)

type Agent[M comparable] interface {
	// FindMove returns the move to play and the metrics of the search behind it
	FindMove(ctx context.Context, state game.State[M]) (M, metrics.SearchMetric, error)
}
