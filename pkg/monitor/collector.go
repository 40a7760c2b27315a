// Package monitor collects run events and streams them to live
// dashboards.
package monitor

import (
	"sync"
	"time"
)

// EventCollector captures run events and timing data. It is safe
// for concurrent use.
type EventCollector struct {
	mu       sync.RWMutex
	events   []RunEvent
	handlers []func(RunEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total       int           `json:"total"`
	Invocations int           `json:"invocations"`
	Failures    int           `json:"failures"`
	Skipped     int           `json:"skipped"`
	Repairs     int           `json:"repairs"`
	Agreed      int           `json:"agreed"`
	Disagreed   int           `json:"disagreed"`
	StartTime   time.Time     `json:"start_time"`
	Duration    time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]RunEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(RunEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event RunEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.stats.Total++
	switch event.Type {
	case EventInvocationCompleted:
		c.stats.Invocations++
	case EventInvocationFailed:
		c.stats.Invocations++
		c.stats.Failures++
	case EventRuntimeSkipped:
		c.stats.Skipped++
	case EventBatchRepaired:
		c.stats.Repairs++
	case EventExampleEvaluated:
		if event.Consensus != nil && *event.Consensus {
			c.stats.Agreed++
		} else {
			c.stats.Disagreed++
		}
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(RunEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitSkipped emits a runtime skipped event.
func (c *EventCollector) EmitSkipped(runtime, reason string) {
	c.Emit(RunEvent{
		Type:    EventRuntimeSkipped,
		Runtime: runtime,
		Example: -1,
		Message: reason,
	})
}

// EmitEvaluated emits an example evaluated event.
func (c *EventCollector) EmitEvaluated(
	example int, op string, consensus bool,
) {
	c.Emit(RunEvent{
		Type:      EventExampleEvaluated,
		Example:   example,
		Op:        op,
		Consensus: &consensus,
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []RunEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]RunEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
