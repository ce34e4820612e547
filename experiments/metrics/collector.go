package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth       int
	Budget      time.Duration
	Duration    time.Duration
	Nodes       int
	Evaluations int
	Tactics     [2]string // Strategy that produced each tank's action
	TimedOut    bool
}

type MoveMetric struct {
	Turn int
	Side int
	SearchMetric
}

type GameMetric struct {
	Result    string
	Winner    int // Side, -1 for none
	Forfeit   int // Side that submitted an invalid action, -1 for none
	Turns     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(depth int, budget time.Duration)
	AddNode()
	AddEvaluation()
	SetTactic(tank int, name string)
	SetTimedOut()
	Complete() SearchMetric
}

type collector struct {
	depth       int
	budget      time.Duration
	startTime   time.Time
	nodes       atomic.Int32
	evaluations atomic.Int32
	timedOut    atomic.Bool
	mu          sync.Mutex
	tactics     [2]string
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth int, budget time.Duration) {
	m.startTime = time.Now()
	m.depth = depth
	m.budget = budget
	m.nodes.Store(0)
	m.evaluations.Store(0)
	m.timedOut.Store(false)
	m.mu.Lock()
	m.tactics = [2]string{}
	m.mu.Unlock()
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) SetTactic(tank int, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tactics[tank] = name
}

func (m *collector) SetTimedOut() {
	m.timedOut.Store(true)
}

func (m *collector) Complete() SearchMetric {
	m.mu.Lock()
	tactics := m.tactics
	m.mu.Unlock()
	return SearchMetric{
		Depth:       m.depth,
		Budget:      m.budget,
		Duration:    time.Since(m.startTime),
		Nodes:       int(m.nodes.Load()),
		Evaluations: int(m.evaluations.Load()),
		Tactics:     tactics,
		TimedOut:    m.timedOut.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int, budget time.Duration) {}
func (m *dummyCollector) AddNode()                              {}
func (m *dummyCollector) AddEvaluation()                        {}
func (m *dummyCollector) SetTactic(tank int, name string)       {}
func (m *dummyCollector) SetTimedOut()                          {}
func (m *dummyCollector) Complete() SearchMetric                { return SearchMetric{} }
