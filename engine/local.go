package engine

import (
	"context"
	"fmt"
	"time"

	"uct/agent"
	"uct/experiments/metrics"
	"uct/game"
	"uct/utils"

	"github.com/rs/zerolog"
)

// Local plays two in-process agents against each other. Agents[0] moves first.
type Local[M comparable] struct {
	State    game.State[M]
	Agents   [2]agent.Agent[M]
	MaxMoves int       // Defaults to MaxMoves when not positive
	Labels   [2]string // Winner labels, default "agent1" and "agent2"
	Logger   zerolog.Logger
}

var _ Engine[int] = (*Local[int])(nil)

func (e *Local[M]) Run(ctx context.Context) (game.State[M], metrics.GameMetric, []metrics.MoveMetric, error) {
	maxMoves := e.MaxMoves
	if maxMoves <= 0 {
		maxMoves = MaxMoves
	}
	labels := e.Labels
	for i, label := range labels {
		if label == "" {
			labels[i] = fmt.Sprintf("agent%d", i+1)
		}
	}

	gameMetric := metrics.GameMetric{StartingPlayer: 0, StartTime: time.Now()}
	moveMetrics := []metrics.MoveMetric{}
	state := e.State
	mover := 0 // Index of the agent to move
	for !state.IsTerminal() && len(moveMetrics) < maxMoves {
		move, searchMetric, err := e.Agents[mover].FindMove(ctx, state)
		if err != nil {
			return state, gameMetric, moveMetrics, fmt.Errorf("%s failed to find a move: %w", labels[mover], err)
		}
		if !utils.Contains(state.LegalMoves(), move) {
			return state, gameMetric, moveMetrics, fmt.Errorf("%s played %v: %w", labels[mover], move, game.ErrIllegalMove)
		}
		next, err := state.Play(move)
		if err != nil {
			return state, gameMetric, moveMetrics, fmt.Errorf("%s played %v: %w", labels[mover], move, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         len(moveMetrics) + 1,
			Player:       mover,
			SearchMetric: searchMetric,
		})
		e.Logger.Debug().Msgf("move %d: %s played %v", len(moveMetrics), labels[mover], move)

		state = next
		mover = 1 - mover
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	if state.IsTerminal() {
		gameMetric.Winner = winner(state.Reward(), mover, labels)
	}
	return state, gameMetric, moveMetrics, nil
}

// winner labels the winning agent from the reward of the agent to move in the
// final position
func winner(reward float64, mover int, labels [2]string) string {
	switch {
	case reward > game.Draw:
		return labels[mover]
	case reward < game.Draw:
		return labels[1-mover]
	default:
		return ""
	}
}
