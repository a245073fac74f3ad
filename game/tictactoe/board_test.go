package tictactoe

import (
	"testing"

	"uct/game"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string, player int8) Board {
	t.Helper()
	b, err := Parse(s, player)
	require.NoError(t, err, "Board %q should parse", s)
	return b
}

func TestLegalMoves(t *testing.T) {
	t.Run("empty board", func(t *testing.T) {
		require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, New().LegalMoves(),
			"Every cell should be legal in ascending order")
	})

	t.Run("partially filled board", func(t *testing.T) {
		b := mustParse(t, "XX.OO....", Circle)
		require.Equal(t, []int{2, 5, 6, 7, 8}, b.LegalMoves(), "Only empty cells should be legal")
	})

	t.Run("won board", func(t *testing.T) {
		b := mustParse(t, "XXXOO....", Circle)
		require.Empty(t, b.LegalMoves(), "A won board should have no legal moves")
	})
}

func TestPlay(t *testing.T) {
	t.Run("placing a mark passes the turn", func(t *testing.T) {
		b := New()
		next, err := b.Play(4)

		require.NoError(t, err, "Centre should be playable")
		require.Equal(t, Cross, next.(Board).Cell(4), "Cross should own the centre")
		require.Equal(t, Circle, next.(Board).Player(), "Turn should pass to Circle")
	})

	t.Run("receiver is unchanged", func(t *testing.T) {
		b := mustParse(t, "XX.OO....", Circle)
		snapshot := b

		_, err := b.Play(5)

		require.NoError(t, err, "Move 5 should be playable")
		require.Equal(t, snapshot, b, "Play should not mutate the receiver")
	})

	t.Run("rejecting illegal moves", func(t *testing.T) {
		b := mustParse(t, "XX.OO....", Circle)

		for _, move := range []int{-1, 0, 9} {
			_, err := b.Play(move)
			require.ErrorIs(t, err, game.ErrIllegalMove, "Move %d should be illegal", move)
		}

		over := mustParse(t, "XXXOO....", Circle)
		_, err := over.Play(5)
		require.ErrorIs(t, err, game.ErrIllegalMove, "No move should be legal after a win")
	})
}

func TestReward(t *testing.T) {
	t.Run("player to move has just lost", func(t *testing.T) {
		b := mustParse(t, "XXXOO....", Circle)
		require.True(t, b.IsTerminal(), "Three in a row should end the game")
		require.Equal(t, -1.0, b.Reward(), "Player to move should see a loss")
	})

	t.Run("reaching a win through play", func(t *testing.T) {
		b := mustParse(t, "XX.OO....", Circle)
		next, err := b.Place(5)
		require.NoError(t, err, "Move 5 should be playable")

		winner, over := next.Winner()
		require.True(t, over, "Completing a row should end the game")
		require.Equal(t, Circle, winner, "Circle should win")
		require.Equal(t, -1.0, next.Reward(), "Cross, to move, should see a loss")
	})

	t.Run("draw", func(t *testing.T) {
		b := mustParse(t, "XOXXOOOXX", Circle)
		require.True(t, b.IsTerminal(), "Full board should end the game")
		require.Equal(t, 0.0, b.Reward(), "Draw should be worth 0")
	})

	t.Run("unfinished game", func(t *testing.T) {
		require.False(t, New().IsTerminal(), "Empty board should not be terminal")
	})
}

func TestParse(t *testing.T) {
	t.Run("accepting row separators", func(t *testing.T) {
		b := mustParse(t, "XX.\nOO.\n...", Circle)
		require.Equal(t, "XX.OO....", b.Compact(), "Rows should be joined")
		require.Equal(t, "XX.\nOO.\n...", b.String(), "String should render three rows")
	})

	t.Run("rejecting bad input", func(t *testing.T) {
		_, err := Parse("XX.OO...", Circle)
		require.ErrorIs(t, err, ErrBadBoard, "Short boards should be rejected")

		_, err = Parse("XX.OO...Z", Circle)
		require.ErrorIs(t, err, ErrBadBoard, "Unknown symbols should be rejected")

		_, err = Parse("XX.OO....", 0)
		require.ErrorIs(t, err, ErrBadBoard, "Empty is not a player")
	})

	t.Run("building from cells", func(t *testing.T) {
		b, err := FromCells([Size]int8{1, 1, 0, -1, -1, 0, 0, 0, 0}, Circle)
		require.NoError(t, err, "Row-major cells should be valid")
		require.Equal(t, mustParse(t, "XX.OO....", Circle), b, "Cells and text should describe the same board")

		_, err = FromCells([Size]int8{2}, Cross)
		require.ErrorIs(t, err, ErrBadBoard, "Unknown marks should be rejected")
	})
}
