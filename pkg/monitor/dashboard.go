package monitor

import (
	"sync"
	"time"
)

// DashboardData provides a real-time snapshot of run state.
type DashboardData struct {
	mu        sync.RWMutex
	RunID     string                  `json:"run_id"`
	StartTime time.Time               `json:"start_time"`
	Status    string                  `json:"status"` // running, completed
	Runtimes  map[string]RuntimeState `json:"runtimes"`
	Summary   DashboardSummary        `json:"summary"`
}

// RuntimeState represents the current state of a runtime in the
// dashboard.
type RuntimeState struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // pending, running, idle, skipped
	Invocations int    `json:"invocations"`
	Failures    int    `json:"failures"`
	LastValue   string `json:"last_value,omitempty"`
	Message     string `json:"message,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Examples      int     `json:"examples"`
	Agreed        int     `json:"agreed"`
	Disagreed     int     `json:"disagreed"`
	AgreementRate float64 `json:"agreement_rate"`
	Elapsed       string  `json:"elapsed"`
}

// NewDashboardData creates a new dashboard data instance.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		RunID:     runID,
		StartTime: time.Now(),
		Status:    "running",
		Runtimes:  make(map[string]RuntimeState),
	}
}

// UpdateFromEvent updates dashboard state from a run event.
func (d *DashboardData) UpdateFromEvent(event RunEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if event.RunID != "" {
		d.RunID = event.RunID
	}

	if event.Runtime != "" {
		state, ok := d.Runtimes[event.Runtime]
		if !ok {
			state = RuntimeState{Name: event.Runtime, Status: "pending"}
		}
		switch event.Type {
		case EventRuntimeSkipped:
			state.Status = "skipped"
			state.Message = event.Message
		case EventInvocationStarted:
			state.Status = "running"
		case EventInvocationCompleted:
			state.Status = "idle"
			state.Invocations++
			state.LastValue = event.Value
		case EventInvocationFailed:
			state.Status = "idle"
			state.Invocations++
			state.Failures++
			state.Message = event.Message
		case EventBatchRepaired:
			state.Message = event.Message
		}
		d.Runtimes[event.Runtime] = state
	}

	switch event.Type {
	case EventExampleEvaluated:
		d.Summary.Examples++
		if event.Consensus != nil && *event.Consensus {
			d.Summary.Agreed++
		} else {
			d.Summary.Disagreed++
		}
		d.Summary.AgreementRate = float64(d.Summary.Agreed) /
			float64(d.Summary.Examples)
	case EventRunCompleted:
		d.Status = "completed"
	}
	d.Summary.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
}

// Snapshot returns a copy of the dashboard state.
func (d *DashboardData) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	runtimes := make(map[string]RuntimeState, len(d.Runtimes))
	for k, v := range d.Runtimes {
		runtimes[k] = v
	}
	return DashboardSnapshot{
		RunID:     d.RunID,
		StartTime: d.StartTime,
		Status:    d.Status,
		Runtimes:  runtimes,
		Summary:   d.Summary,
	}
}

// DashboardSnapshot is an immutable copy of DashboardData.
type DashboardSnapshot struct {
	RunID     string                  `json:"run_id"`
	StartTime time.Time               `json:"start_time"`
	Status    string                  `json:"status"`
	Runtimes  map[string]RuntimeState `json:"runtimes"`
	Summary   DashboardSummary        `json:"summary"`
}
