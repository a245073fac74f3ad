package agent

import (
	"context"

	"uct/experiments/metrics"
	"uct/game"
	"uct/searcher"
)

type evaluationAgent[M comparable] struct {
	mcts       *searcher.MCTS[M]
	iterations int
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
// It always plays the most visited move.
func NewEvaluationAgent[M comparable](mcts *searcher.MCTS[M], iterations int) Agent[M] {
	return evaluationAgent[M]{mcts: mcts, iterations: iterations}
}

func (a evaluationAgent[M]) FindMove(ctx context.Context, state game.State[M]) (M, metrics.SearchMetric, error) {
	analysis, err := a.mcts.Analyze(ctx, state, a.iterations)
	return analysis.Move, analysis.Metric, err
}
