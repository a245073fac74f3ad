package engine

import (
	"context"
	"errors"
	"testing"

	"uct/agent"
	"uct/experiments/metrics"
	"uct/game"
	"uct/game/tictactoe"
	"uct/searcher"

	"github.com/stretchr/testify/require"
)

// scripted plays a fixed list of moves
type scripted struct {
	moves []int
	err   error
}

func (s *scripted) FindMove(ctx context.Context, state game.State[int]) (int, metrics.SearchMetric, error) {
	if s.err != nil {
		return 0, metrics.SearchMetric{}, s.err
	}
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move, metrics.SearchMetric{Iterations: 1}, nil
}

func TestLocalRun(t *testing.T) {
	t.Run("first agent wins a scripted game", func(t *testing.T) {
		e := &Local[int]{
			State:  tictactoe.New(),
			Agents: [2]agent.Agent[int]{&scripted{moves: []int{0, 1, 2}}, &scripted{moves: []int{3, 4}}},
		}

		final, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err, "Scripted game should complete")
		require.True(t, final.IsTerminal(), "Final state should be terminal")
		require.Equal(t, "agent1", gameMetric.Winner, "Cross completes the top row")
		require.Equal(t, 5, gameMetric.TotalMoves, "Five moves should be played")
		require.Len(t, moveMetrics, 5, "Each move should be recorded")
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step, "Steps should be numbered from one")
			require.Equal(t, i%2, mm.Player, "Agents should alternate")
		}
	})

	t.Run("second agent wins with custom labels", func(t *testing.T) {
		e := &Local[int]{
			State:  tictactoe.New(),
			Agents: [2]agent.Agent[int]{&scripted{moves: []int{0, 1, 8}}, &scripted{moves: []int{3, 4, 5}}},
			Labels: [2]string{"first", "second"},
		}

		_, gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err, "Scripted game should complete")
		require.Equal(t, "second", gameMetric.Winner, "Circle completes the middle row")
	})

	t.Run("draw has no winner", func(t *testing.T) {
		// X O X / X O O / O X X
		e := &Local[int]{
			State:  tictactoe.New(),
			Agents: [2]agent.Agent[int]{&scripted{moves: []int{0, 2, 3, 7, 8}}, &scripted{moves: []int{1, 4, 5, 6}}},
		}

		final, gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err, "Scripted game should complete")
		require.Equal(t, game.Draw, final.Reward(), "Full board without a line should be a draw")
		require.Empty(t, gameMetric.Winner, "Draws should have no winner")
	})

	t.Run("move limit stops the game", func(t *testing.T) {
		e := &Local[int]{
			State:    tictactoe.New(),
			Agents:   [2]agent.Agent[int]{&scripted{moves: []int{0, 1}}, &scripted{moves: []int{4}}},
			MaxMoves: 2,
		}

		final, gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err, "Stopped game should not fail")
		require.False(t, final.IsTerminal(), "Game should be unfinished")
		require.Equal(t, 2, gameMetric.TotalMoves, "Move limit should be honoured")
		require.Empty(t, gameMetric.Winner, "Unfinished games have no winner")
	})

	t.Run("illegal move is rejected", func(t *testing.T) {
		e := &Local[int]{
			State:  tictactoe.New(),
			Agents: [2]agent.Agent[int]{&scripted{moves: []int{0}}, &scripted{moves: []int{0}}},
		}

		_, _, moveMetrics, err := e.Run(context.Background())

		require.ErrorIs(t, err, game.ErrIllegalMove, "Occupied cell should be rejected")
		require.Len(t, moveMetrics, 1, "Only the legal move should be recorded")
	})

	t.Run("agent errors are propagated", func(t *testing.T) {
		boom := errors.New("boom")
		e := &Local[int]{
			State:  tictactoe.New(),
			Agents: [2]agent.Agent[int]{&scripted{err: boom}, &scripted{}},
		}

		_, _, _, err := e.Run(context.Background())

		require.ErrorIs(t, err, boom, "Agent error should be wrapped")
	})

	t.Run("searching agents finish a game", func(t *testing.T) {
		e := &Local[int]{
			State: tictactoe.New(),
			Agents: [2]agent.Agent[int]{
				agent.NewEvaluationAgent(searcher.NewMCTS[int](searcher.WithSeed(1), searcher.WithMetrics()), 200),
				agent.NewEvaluationAgent(searcher.NewMCTS[int](searcher.WithSeed(2), searcher.WithMetrics()), 200),
			},
		}

		final, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err, "Searching agents should only play legal moves")
		require.True(t, final.IsTerminal(), "Game should be played to the end")
		require.Equal(t, len(moveMetrics), gameMetric.TotalMoves, "Every move should be recorded")
		require.Equal(t, 200, moveMetrics[0].Iterations, "Search metrics should be attached")
	})
}

func TestWinner(t *testing.T) {
	labels := [2]string{"a", "b"}

	require.Equal(t, "a", winner(game.Win, 0, labels), "Mover with a win should be labelled")
	require.Equal(t, "a", winner(game.Loss, 1, labels), "Opponent of a losing mover should be labelled")
	require.Empty(t, winner(game.Draw, 0, labels), "Draws should not be labelled")
}
