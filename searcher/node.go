package searcher

import (
	"fmt"
	"slices"

	"uct/game"
	"uct/utils"
)

type node[M comparable] struct {
	parent   *node[M]
	state    game.State[M]
	move     M   // Move played from parent, zero for the root
	moves    []M // Legal moves; moves[len(children):] are still untried
	children []*node[M]
	terminal bool
	rewards  float64 // Sum of rewards for the player who played move
	visits   int
}

func newNode[M comparable](parent *node[M], move M, state game.State[M]) *node[M] {
	terminal := state.IsTerminal()

	var moves []M
	if !terminal {
		moves = slices.Clone(state.LegalMoves())
	}

	return &node[M]{
		parent:   parent,
		state:    state,
		move:     move,
		moves:    moves,
		children: make([]*node[M], 0, len(moves)),
		terminal: terminal,
	}
}

func (n *node[M]) isFullyExpanded() bool {
	return len(n.children) == len(n.moves)
}

func (n *node[M]) untriedMoves() []M {
	return n.moves[len(n.children):]
}

// selectChild returns the first child with the maximal UCB1 score
func (n *node[M]) selectChild(c float64) *node[M] {
	if len(n.children) == 0 {
		panic("node has no children")
	}
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(c, n.visits)
	best := utils.ArgMax(n.children, func(child *node[M]) float64 {
		return policy.evaluate(child.rewards, child.visits)
	})
	return n.children[best]
}

// expand plays the next untried move, in legal move order, and attaches the
// resulting child
func (n *node[M]) expand() (*node[M], error) {
	if n.isFullyExpanded() {
		panic("node is fully expanded")
	}

	move := n.moves[len(n.children)]
	state, err := n.state.Play(move)
	if err != nil {
		return nil, fmt.Errorf("expanding move %v: %w", move, err)
	}

	child := newNode(n, move, state)
	n.children = append(n.children, child)
	return child, nil
}

func (n *node[M]) backup(reward float64) *node[M] {
	n.visits++
	n.rewards += reward
	return n.parent
}

// mostVisited returns the first child with the most visits, nil without
// children
func (n *node[M]) mostVisited() *node[M] {
	best := utils.ArgMax(n.children, func(child *node[M]) float64 {
		return float64(child.visits)
	})
	if best < 0 {
		return nil
	}
	return n.children[best]
}
