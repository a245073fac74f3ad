package searcher

import (
	"errors"
	"math"
)

// Hyperparameters for MCTS

const DefaultExploration = 1.414 // ~sqrt(2)

var (
	ErrTerminalRoot      = errors.New("root state is already terminal")
	ErrInvalidIterations = errors.New("iterations must be positive")
	ErrDeadEnd           = errors.New("non-terminal state has no legal moves")
)

type uct struct {
	c    float64
	logN float64
}

func newUCT(c float64, N int) uct {
	if N <= 0 {
		panic("N must be positive")
	}
	return uct{c: c, logN: math.Log(float64(N))}
}

// evaluate scores a child with q accumulated rewards over n visits:
// UCB1 = q/n + c*sqrt(ln(N)/n). Unvisited children are always preferred.
func (u uct) evaluate(q float64, n int) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	return q/float64(n) + u.c*math.Sqrt(u.logN/float64(n))
}
