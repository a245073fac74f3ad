package metrics

import (
	"time"
)

type StopReason int

const (
	StopNone      StopReason = iota
	StopBudget               // Iteration budget exhausted
	StopCancelled            // Context cancelled or deadline exceeded
)

func (r StopReason) String() string {
	switch r {
	case StopBudget:
		return "budget"
	case StopCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

type SearchMetric struct {
	Budget       int // Requested iterations
	Iterations   int // Completed iterations
	Exploration  float64
	Duration     time.Duration
	Nodes        int
	MaxDepth     int
	RolloutPlies int
	StopReason   StopReason
}

type MoveMetric struct {
	Step   int
	Player int // Agent index
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int    // Agent index
	Winner         string // Agent label, empty for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers statistics of a single search. Searches are sequential,
// so implementations need no synchronisation.
type Collector interface {
	Start(budget int, exploration float64)
	AddIteration()
	AddNode()
	AddRolloutPlies(plies int)
	ObserveDepth(depth int)
	SetStopReason(reason StopReason)
	Complete() SearchMetric
}

type collector struct {
	metric    SearchMetric
	startTime time.Time
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget int, exploration float64) {
	m.startTime = time.Now()
	m.metric = SearchMetric{
		Budget:      budget,
		Exploration: exploration,
		Nodes:       1, // Root
	}
}

func (m *collector) AddIteration() {
	m.metric.Iterations++
}

func (m *collector) AddNode() {
	m.metric.Nodes++
}

func (m *collector) AddRolloutPlies(plies int) {
	m.metric.RolloutPlies += plies
}

func (m *collector) ObserveDepth(depth int) {
	m.metric.MaxDepth = max(m.metric.MaxDepth, depth)
}

func (m *collector) SetStopReason(reason StopReason) {
	m.metric.StopReason = reason
}

func (m *collector) Complete() SearchMetric {
	metric := m.metric
	metric.Duration = time.Since(m.startTime)
	return metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget int, exploration float64) {}
func (m *dummyCollector) AddIteration()                         {}
func (m *dummyCollector) AddNode()                              {}
func (m *dummyCollector) AddRolloutPlies(plies int)             {}
func (m *dummyCollector) ObserveDepth(depth int)                {}
func (m *dummyCollector) SetStopReason(reason StopReason)       {}
func (m *dummyCollector) Complete() SearchMetric                { return SearchMetric{} }
