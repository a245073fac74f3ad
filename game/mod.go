package game

import "errors"

// ErrIllegalMove is returned (wrapped) by State.Play when the move is not one
// of the state's legal moves.
var ErrIllegalMove = errors.New("illegal move")

// State is an immutable two-player game position. Operations on State
// always return a new copy and never mutate the receiver.
type State[M comparable] interface {
	// LegalMoves is empty exactly when no move can be applied
	LegalMoves() []M
	// Play applies a legal move and passes the turn to the other player
	Play(move M) (State[M], error)
	// IsTerminal reports a win, loss or draw, regardless of whose turn it is
	IsTerminal() bool
	// Reward is only defined for terminal states. It is scored from the
	// perspective of the player about to move: -1 lost, 0 draw, +1 won.
	Reward() float64
}

// Reward values for terminal states
const (
	Win  = 1.0
	Draw = 0.0
	Loss = -Win
)
