package agent

import (
	"context"
	"math"

	"uct/experiments/metrics"
	"uct/game"
	"uct/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent[M comparable] struct {
	mcts        *searcher.MCTS[M]
	iterations  int
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves in proportion to visits^(1/temperature), so higher
// temperatures explore more.
func NewTrainingAgent[M comparable](mcts *searcher.MCTS[M], iterations int, temperature float64, rng *rand.Rand) Agent[M] {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	if rng == nil {
		panic("training agent needs a random source")
	}
	return trainingAgent[M]{mcts: mcts, iterations: iterations, temperature: temperature, rng: rng}
}

func (a trainingAgent[M]) FindMove(ctx context.Context, state game.State[M]) (M, metrics.SearchMetric, error) {
	analysis, err := a.mcts.Analyze(ctx, state, a.iterations)
	if err != nil {
		return analysis.Move, analysis.Metric, err
	}
	probs := adjustTemperature(analysis.Children, a.temperature)
	return analysis.Children[sample(probs, a.rng.Float64())].Move, analysis.Metric, nil
}

// adjustTemperature computes temperature-adjusted move probabilities in child
// order. Visits are scaled by the largest count first so low temperatures
// cannot overflow.
func adjustTemperature[M comparable](children []searcher.ChildStats[M], temperature float64) []float64 {
	exponent := 1.0 / temperature
	maxVisits := 0
	for _, child := range children {
		maxVisits = max(maxVisits, child.Visits)
	}
	probs := make([]float64, len(children))
	if maxVisits == 0 {
		return probs
	}
	sum := 0.0
	for i, child := range children {
		probs[i] = math.Pow(float64(child.Visits)/float64(maxVisits), exponent)
		sum += probs[i]
	}
	// Normalize
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// sample picks the index whose cumulative probability first exceeds sampled
func sample(probs []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(probs) - 1 // Fallback in case of rounding errors
}
