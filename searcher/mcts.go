package searcher

import (
	"context"
	"fmt"
	"time"

	"uct/experiments/metrics"
	"uct/game"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

type settings struct {
	exploration float64
	rng         *rand.Rand
	metrics     metrics.Collector
	logger      zerolog.Logger
}

type Option func(s *settings)

// WithExplorationConstant sets the UCB1 exploration constant. Non-positive
// values are ignored and DefaultExploration is kept.
func WithExplorationConstant(c float64) Option {
	return func(s *settings) {
		if c > 0 {
			s.exploration = c
		}
	}
}

// WithRand sets the random source of rollouts
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed makes rollouts, and therefore searches, reproducible
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// MCTS searches games of type State[M] with UCB1 selection and random
// rollouts. Every search builds a fresh tree. An MCTS owns its random source
// and must not be shared between goroutines.
type MCTS[M comparable] struct {
	settings
}

func NewMCTS[M comparable](options ...Option) *MCTS[M] {
	m := &MCTS[M]{settings{ // Default values
		exploration: DefaultExploration,
		metrics:     metrics.NewDummyCollector(),
		logger:      zerolog.Nop(),
	}}
	for _, option := range options {
		option(&m.settings)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

func (m *MCTS[M]) Exploration() float64 {
	return m.exploration
}

type ChildStats[M comparable] struct {
	Move    M
	Visits  int
	Rewards float64
}

// Value is the mean reward of the move for the player who plays it
func (c ChildStats[M]) Value() float64 {
	if c.Visits == 0 {
		return 0
	}
	return c.Rewards / float64(c.Visits)
}

type Analysis[M comparable] struct {
	Move     M // Most visited root move
	Visits   int
	Children []ChildStats[M] // In expansion order
	Metric   metrics.SearchMetric
}

// Policy returns the share of root visits spent on every expanded move
func (a Analysis[M]) Policy() map[M]float64 {
	total := 0
	for _, child := range a.Children {
		total += child.Visits
	}

	policy := make(map[M]float64, len(a.Children))
	for _, child := range a.Children {
		if total > 0 {
			policy[child.Move] = float64(child.Visits) / float64(total)
		}
	}
	return policy
}

// Search runs exactly iterations select/expand/simulate/backpropagate cycles
// from root and returns the most visited move
func (m *MCTS[M]) Search(root game.State[M], iterations int) (M, error) {
	return m.SearchContext(context.Background(), root, iterations)
}

// SearchContext is Search with cancellation checked before every iteration.
// A cancelled search still returns its best move once an iteration completed.
func (m *MCTS[M]) SearchContext(ctx context.Context, root game.State[M], iterations int) (M, error) {
	analysis, err := m.Analyze(ctx, root, iterations)
	return analysis.Move, err
}

func (m *MCTS[M]) Analyze(ctx context.Context, root game.State[M], iterations int) (Analysis[M], error) {
	if iterations <= 0 {
		return Analysis[M]{}, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	if root.IsTerminal() || len(root.LegalMoves()) == 0 {
		return Analysis[M]{}, ErrTerminalRoot
	}

	var none M
	tree := newNode[M](nil, none, root)

	m.metrics.Start(iterations, m.exploration)
	reason := metrics.StopBudget
	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			reason = metrics.StopCancelled
			break
		}
		if err := m.simulate(tree); err != nil {
			return Analysis[M]{}, fmt.Errorf("iteration %d: %w", i+1, err)
		}
		m.metrics.AddIteration()
	}
	m.metrics.SetStopReason(reason)
	metric := m.metrics.Complete()

	best := tree.mostVisited()
	if best == nil {
		return Analysis[M]{}, fmt.Errorf("search cancelled before the first iteration: %w", ctx.Err())
	}

	analysis := Analysis[M]{
		Move:     best.move,
		Visits:   tree.visits,
		Children: make([]ChildStats[M], len(tree.children)),
		Metric:   metric,
	}
	for i, child := range tree.children {
		analysis.Children[i] = ChildStats[M]{Move: child.move, Visits: child.visits, Rewards: child.rewards}
	}

	m.logger.Debug().
		Int("iterations", tree.visits).
		Interface("move", best.move).
		Int("visits", best.visits).
		Float64("value", best.rewards/float64(best.visits)).
		Str("stop", reason.String()).
		Msg("search complete")

	return analysis, nil
}

func (m *MCTS[M]) simulate(root *node[M]) error {
	leaf, err := m.selectThenExpand(root)
	if err != nil {
		return err
	}
	reward, err := m.rollout(leaf.state)
	if err != nil {
		return err
	}
	backup(leaf, reward)
	return nil
}

func (m *MCTS[M]) selectThenExpand(root *node[M]) (*node[M], error) {
	node := root
	depth := 0
	for node.isFullyExpanded() && !node.terminal {
		if len(node.children) == 0 {
			return nil, fmt.Errorf("selecting at depth %d: %w", depth, ErrDeadEnd)
		}
		node = node.selectChild(m.exploration)
		depth++
	}

	// Terminal nodes are simulated (scored) as they are
	if !node.terminal {
		child, err := node.expand()
		if err != nil {
			return nil, err
		}
		m.metrics.AddNode()
		node = child
		depth++
	}

	m.metrics.ObserveDepth(depth)
	return node, nil
}

// rollout plays uniformly random moves until the game ends and returns the
// outcome for the player who moved into state
func (m *MCTS[M]) rollout(state game.State[M]) (float64, error) {
	plies := 0
	for !state.IsTerminal() {
		moves := state.LegalMoves()
		if len(moves) == 0 {
			return 0, fmt.Errorf("rollout after %d plies: %w", plies, ErrDeadEnd)
		}
		move := moves[m.rng.Intn(len(moves))] // Random rollout policy
		next, err := state.Play(move)
		if err != nil {
			return 0, fmt.Errorf("rollout move %v: %w", move, err)
		}
		state = next
		plies++
	}
	m.metrics.AddRolloutPlies(plies)

	return leafReward(state.Reward(), plies), nil
}

// leafReward converts a terminal reward, scored for the player to move at the
// end of a rollout, to the player who moved into the rollout's first state.
// Every ply swaps the player to move, and that player is one more swap away.
func leafReward(reward float64, plies int) float64 {
	if plies%2 == 0 {
		return -reward
	}
	return reward
}

// backup credits reward to leaf and alternates its sign on every ancestor up
// to the root
func backup[M comparable](leaf *node[M], reward float64) {
	node := leaf
	for node != nil {
		parent := node.backup(reward)
		reward = -reward
		node = parent
	}
}
