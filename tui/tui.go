package tui

import (
	"context"
	"fmt"
	"strings"

	"uct/agent"
	"uct/experiments/metrics"
	"uct/game/tictactoe"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

// Model is a human vs computer game. The human plays Cross and moves first.
type Model struct {
	board    tictactoe.Board
	cursor   int
	agent    agent.Agent[int]
	thinking bool
	round    int // Bumped on restart so late answers of a previous round are dropped
	last     metrics.SearchMetric
	err      error
	profile  termenv.Profile
}

type aiMoveMsg struct {
	round  int
	move   int
	metric metrics.SearchMetric
	err    error
}

var _ tea.Model = Model{}

func NewModel(a agent.Agent[int], profile termenv.Profile) Model {
	return Model{
		board:   tictactoe.New(),
		cursor:  4,
		agent:   a,
		profile: profile,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case aiMoveMsg:
		if msg.round != m.round {
			return m, nil
		}
		m.thinking = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		board, err := m.board.Place(msg.move)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.board = board
		m.last = msg.metric
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.board = tictactoe.New()
		m.cursor = 4
		m.thinking = false
		m.err = nil
		m.last = metrics.SearchMetric{}
		m.round++
		return m, nil
	case "up", "k":
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case "down", "j":
		if m.cursor < tictactoe.Size-3 {
			m.cursor += 3
		}
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "enter", " ":
		return m.place()
	}
	return m, nil
}

// place puts the human mark under the cursor and hands the turn to the agent
func (m Model) place() (tea.Model, tea.Cmd) {
	if m.thinking || m.err != nil || m.board.IsTerminal() || m.board.Player() != tictactoe.Cross {
		return m, nil
	}
	board, err := m.board.Place(m.cursor)
	if err != nil {
		// Occupied cell, wait for another choice
		return m, nil
	}
	m.board = board
	if board.IsTerminal() {
		return m, nil
	}
	m.thinking = true
	return m, think(m.agent, board, m.round)
}

func think(a agent.Agent[int], board tictactoe.Board, round int) tea.Cmd {
	return func() tea.Msg {
		move, metric, err := a.FindMove(context.Background(), board)
		return aiMoveMsg{round: round, move: move, metric: metric, err: err}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	for i := 0; i < tictactoe.Size; i++ {
		cell := m.mark(m.board.Cell(i))
		if i == m.cursor {
			sb.WriteString("[" + cell + "]")
		} else {
			sb.WriteString(" " + cell + " ")
		}
		if i%3 == 2 {
			sb.WriteByte('\n')
		}
	}
	sb.WriteByte('\n')
	sb.WriteString(m.status())
	sb.WriteString("\n\narrows/hjkl move, enter places, r restarts, q quits\n")
	return sb.String()
}

func (m Model) mark(mark int8) string {
	symbol := tictactoe.Symbol(mark)
	switch mark {
	case tictactoe.Cross:
		return m.profile.String(symbol).Foreground(m.profile.Color("#ff5f5f")).Bold().String()
	case tictactoe.Circle:
		return m.profile.String(symbol).Foreground(m.profile.Color("#5fafff")).Bold().String()
	default:
		return m.profile.String(symbol).Faint().String()
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return fmt.Sprintf("error: %v (r restarts)", m.err)
	case m.thinking:
		return "thinking..."
	case m.board.IsTerminal():
		return outcome(m.board)
	case m.last.Iterations > 0:
		return fmt.Sprintf("your move (X), computer searched %d iterations in %s", m.last.Iterations, m.last.Duration)
	default:
		return "your move (X)"
	}
}

func outcome(board tictactoe.Board) string {
	winner, _ := board.Winner()
	switch winner {
	case tictactoe.Cross:
		return "you win!"
	case tictactoe.Circle:
		return "computer wins"
	default:
		return "draw"
	}
}
