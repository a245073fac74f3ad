package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("collecting a search", func(t *testing.T) {
		c := NewCollector()
		c.Start(10, 1.414)
		c.AddIteration()
		c.AddIteration()
		c.AddNode()
		c.AddRolloutPlies(3)
		c.AddRolloutPlies(4)
		c.ObserveDepth(2)
		c.ObserveDepth(1)
		c.SetStopReason(StopBudget)

		got := c.Complete()

		require.Equal(t, 10, got.Budget, "Should keep the requested budget")
		require.Equal(t, 2, got.Iterations, "Should count iterations")
		require.Equal(t, 2, got.Nodes, "Should count the root and added nodes")
		require.Equal(t, 7, got.RolloutPlies, "Should sum rollout plies")
		require.Equal(t, 2, got.MaxDepth, "Should keep the deepest depth")
		require.Equal(t, StopBudget, got.StopReason, "Should keep the stop reason")
		require.Equal(t, 1.414, got.Exploration, "Should keep the exploration constant")
	})

	t.Run("restarting resets counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(5, 1)
		c.AddIteration()
		c.Start(5, 1)

		require.Equal(t, 0, c.Complete().Iterations, "Start should reset the counters")
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(10, 1)
		c.AddIteration()

		require.Equal(t, SearchMetric{}, c.Complete(), "Dummy collector should return an empty metric")
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "arena")
	require.NoError(t, err, "Writer should create its directory")

	err = w.WriteAgentConfigs([]AgentConfig{{ID: 1, Iterations: 100, Exploration: 1.414}})
	require.NoError(t, err, "Should write agent configs")

	err = w.WriteGameRecords([]GameRecord{{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{Winner: "agent1", TotalMoves: 7}}})
	require.NoError(t, err, "Should write game records")

	err = w.WriteMoveRecords([]MoveRecord{{Game: 1, MoveMetric: MoveMetric{Step: 1, SearchMetric: SearchMetric{Iterations: 100, Duration: time.Millisecond}}}})
	require.NoError(t, err, "Should write move records")

	rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, rows, 2, "Should write a header and one row")
	require.Equal(t, "winner", rows[0][4], "Header should name the winner column")
	require.Equal(t, "agent1", rows[1][4], "Row should hold the winner")

	rows = readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Equal(t, "none", rows[1][8], "Stop reason should be rendered by name")
}

func TestNewWriter(t *testing.T) {
	t.Run("runs in the same second get their own directory", func(t *testing.T) {
		root := t.TempDir()
		dirs := map[string]bool{}
		for i := 0; i < 3; i++ {
			w, err := NewWriter(root, "arena")
			require.NoError(t, err, "Writer should create its directory")
			dirs[w.Dir()] = true
		}

		require.Len(t, dirs, 3, "Every writer should own a directory")
	})

	t.Run("failed writes are reported", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "arena")
		require.NoError(t, err, "Writer should create its directory")
		require.NoError(t, os.RemoveAll(w.Dir()), "Directory should be removed")

		err = w.WriteAgentConfigs([]AgentConfig{{ID: 1}})

		require.Error(t, err, "Missing directory should fail the write")
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "Should open %s", path)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, "Should parse %s", path)
	return rows
}
