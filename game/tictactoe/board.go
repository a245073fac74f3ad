package tictactoe

import (
	"errors"
	"fmt"
	"strings"

	"uct/game"
)

// Marks placed on the board. The player to move is always a non-empty mark.
const (
	Empty  int8 = 0
	Cross  int8 = 1
	Circle int8 = -1
)

const Size = 9

var ErrBadBoard = errors.New("bad board")

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board is a 3x3 tic-tac-toe position. It is a plain value; Play returns a
// copy.
type Board struct {
	cells  [Size]int8
	player int8
}

var _ game.State[int] = Board{}

// New returns the empty board with Cross to move
func New() Board {
	return Board{player: Cross}
}

// FromCells builds a board from raw cells (row major) and the player to move
func FromCells(cells [Size]int8, player int8) (Board, error) {
	if player != Cross && player != Circle {
		return Board{}, fmt.Errorf("%w: player %d is neither %d nor %d", ErrBadBoard, player, Cross, Circle)
	}
	for i, c := range cells {
		if c != Empty && c != Cross && c != Circle {
			return Board{}, fmt.Errorf("%w: cell %d holds %d", ErrBadBoard, i, c)
		}
	}
	return Board{cells: cells, player: player}, nil
}

// Parse reads 9 cells, row major. X/x/1 is Cross, O/o is Circle and any of
// ".-_ 0" is empty. Whitespace between rows ("XX.\nOO.\n...") is ignored.
func Parse(s string, player int8) (Board, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s) != Size {
		return Board{}, fmt.Errorf("%w: want %d cells, got %d", ErrBadBoard, Size, len(s))
	}

	var cells [Size]int8
	for i, r := range s {
		switch r {
		case 'X', 'x', '1':
			cells[i] = Cross
		case 'O', 'o':
			cells[i] = Circle
		case '.', '-', '_', '0':
			cells[i] = Empty
		default:
			return Board{}, fmt.Errorf("%w: unexpected cell %q at %d", ErrBadBoard, r, i)
		}
	}
	return FromCells(cells, player)
}

func (b Board) Player() int8 {
	return b.player
}

func (b Board) Cell(i int) int8 {
	return b.cells[i]
}

func (b Board) Cells() [Size]int8 {
	return b.cells
}

// LegalMoves returns the empty cells in ascending order, or nothing once the
// game is over
func (b Board) LegalMoves() []int {
	if _, over := b.Winner(); over {
		return []int{}
	}
	moves := make([]int, 0, Size)
	for i, c := range b.cells {
		if c == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

func (b Board) Play(move int) (game.State[int], error) {
	next, err := b.Place(move)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Place is Play with the concrete board type
func (b Board) Place(move int) (Board, error) {
	if move < 0 || move >= Size {
		return b, fmt.Errorf("%w: cell %d is off the board", game.ErrIllegalMove, move)
	}
	if b.cells[move] != Empty {
		return b, fmt.Errorf("%w: cell %d is taken", game.ErrIllegalMove, move)
	}
	if _, over := b.Winner(); over {
		return b, fmt.Errorf("%w: game is over", game.ErrIllegalMove)
	}

	b.cells[move] = b.player
	b.player = -b.player
	return b, nil
}

func (b Board) IsTerminal() bool {
	_, over := b.Winner()
	return over
}

// Reward scores a finished game for the player about to move. That player
// never completed the last line, so a win on the board is always a loss.
func (b Board) Reward() float64 {
	winner, _ := b.Winner()
	switch winner {
	case Empty:
		return game.Draw
	case b.player:
		return game.Win
	default:
		return game.Loss
	}
}

// Winner returns the mark that completed a line (Empty for a draw or an
// unfinished game) and whether the game is over.
func (b Board) Winner() (int8, bool) {
	for _, line := range lines {
		c := b.cells[line[0]]
		if c != Empty && c == b.cells[line[1]] && c == b.cells[line[2]] {
			return c, true
		}
	}
	for _, c := range b.cells {
		if c == Empty {
			return Empty, false
		}
	}
	return Empty, true
}

// Symbol renders a mark as X, O or .
func Symbol(mark int8) string {
	switch mark {
	case Cross:
		return "X"
	case Circle:
		return "O"
	default:
		return "."
	}
}

func (b Board) String() string {
	var sb strings.Builder
	for i, c := range b.cells {
		sb.WriteString(Symbol(c))
		if i%3 == 2 && i != Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Compact renders the board as a single 9 character line, accepted by Parse
func (b Board) Compact() string {
	return strings.ReplaceAll(b.String(), "\n", "")
}
