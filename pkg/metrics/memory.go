package metrics

import (
	"sort"
	"sync"
	"time"
)

// RuntimeStats aggregates the invocations of one runtime.
type RuntimeStats struct {
	Invocations      int            `json:"invocations"`
	BatchInvocations int            `json:"batch_invocations"`
	Outcomes         map[string]int `json:"outcomes"`
	TotalDuration    time.Duration  `json:"total_duration"`
	MaxDuration      time.Duration  `json:"max_duration"`
	Skipped          bool           `json:"skipped"`
	SkipReason       string         `json:"skip_reason,omitempty"`
	Padded           int            `json:"padded"`
	Truncated        int            `json:"truncated"`
}

// Snapshot is a point-in-time copy of the collected metrics.
type Snapshot struct {
	Runtimes      map[string]RuntimeStats `json:"runtimes"`
	Examples      int                     `json:"examples"`
	Agreed        int                     `json:"agreed"`
	Disagreed     int                     `json:"disagreed"`
	ExamplesByOp  map[string]int          `json:"examples_by_op"`
	DisagreedByOp map[string]int          `json:"disagreed_by_op"`
}

// InMemoryMetrics implements RuntimeMetrics with in-memory
// counters. It is safe for concurrent use.
type InMemoryMetrics struct {
	mu            sync.Mutex
	runtimes      map[string]*RuntimeStats
	examples      int
	agreed        int
	examplesByOp  map[string]int
	disagreedByOp map[string]int
}

// NewInMemoryMetrics creates a new InMemoryMetrics instance.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		runtimes:      make(map[string]*RuntimeStats),
		examplesByOp:  make(map[string]int),
		disagreedByOp: make(map[string]int),
	}
}

func (m *InMemoryMetrics) runtime(name string) *RuntimeStats {
	s, ok := m.runtimes[name]
	if !ok {
		s = &RuntimeStats{Outcomes: make(map[string]int)}
		m.runtimes[name] = s
	}
	return s
}

func (m *InMemoryMetrics) RecordInvocation(
	runtime string, batch bool, outcome string, duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.runtime(runtime)
	s.Invocations++
	if batch {
		s.BatchInvocations++
	}
	s.Outcomes[outcome]++
	s.TotalDuration += duration
	if duration > s.MaxDuration {
		s.MaxDuration = duration
	}
}

func (m *InMemoryMetrics) RecordSkip(runtime, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.runtime(runtime)
	s.Skipped = true
	s.SkipReason = reason
}

func (m *InMemoryMetrics) RecordRepair(runtime string, padded, truncated int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.runtime(runtime)
	s.Padded += padded
	s.Truncated += truncated
}

func (m *InMemoryMetrics) RecordExample(op string, consensus bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.examples++
	m.examplesByOp[op]++
	if consensus {
		m.agreed++
	} else {
		m.disagreedByOp[op]++
	}
}

// InvocationCount returns the number of invocations of a runtime
// with the given outcome.
func (m *InMemoryMetrics) InvocationCount(runtime, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.runtimes[runtime]; ok {
		return s.Outcomes[outcome]
	}
	return 0
}

// Runtimes returns the names of every runtime seen, sorted.
func (m *InMemoryMetrics) Runtimes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.runtimes))
	for n := range m.runtimes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a deep copy of the current metrics.
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Runtimes:      make(map[string]RuntimeStats, len(m.runtimes)),
		Examples:      m.examples,
		Agreed:        m.agreed,
		Disagreed:     m.examples - m.agreed,
		ExamplesByOp:  copyCounts(m.examplesByOp),
		DisagreedByOp: copyCounts(m.disagreedByOp),
	}
	for name, s := range m.runtimes {
		c := *s
		c.Outcomes = copyCounts(s.Outcomes)
		snap.Runtimes[name] = c
	}
	return snap
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
