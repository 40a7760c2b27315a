package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m RuntimeMetrics = NoopMetrics{}
	m.RecordInvocation("python", true, OutcomeOK, time.Second)
	m.RecordSkip("rust", "unavailable")
	m.RecordRepair("c", 1, 0)
	m.RecordExample("add", true)
}

func TestInMemoryMetrics_Invocations(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordInvocation("python", true, OutcomeOK, 2*time.Millisecond)
	m.RecordInvocation("python", false, OutcomeError, 5*time.Millisecond)
	m.RecordInvocation("c", false, OutcomeTimeout, time.Second)

	assert.Equal(t, 1, m.InvocationCount("python", OutcomeOK))
	assert.Equal(t, 1, m.InvocationCount("python", OutcomeError))
	assert.Equal(t, 0, m.InvocationCount("rust", OutcomeOK))
	assert.Equal(t, []string{"c", "python"}, m.Runtimes())

	snap := m.Snapshot()
	py := snap.Runtimes["python"]
	assert.Equal(t, 2, py.Invocations)
	assert.Equal(t, 1, py.BatchInvocations)
	assert.Equal(t, 7*time.Millisecond, py.TotalDuration)
	assert.Equal(t, 5*time.Millisecond, py.MaxDuration)
}

func TestInMemoryMetrics_SkipsAndRepairs(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordSkip("rust", "environment unavailable")
	m.RecordRepair("c", 2, 0)
	m.RecordRepair("c", 0, 1)

	snap := m.Snapshot()
	assert.True(t, snap.Runtimes["rust"].Skipped)
	assert.Equal(t, "environment unavailable", snap.Runtimes["rust"].SkipReason)
	assert.Equal(t, 2, snap.Runtimes["c"].Padded)
	assert.Equal(t, 1, snap.Runtimes["c"].Truncated)
}

func TestInMemoryMetrics_Examples(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordExample("add", true)
	m.RecordExample("sin", false)
	m.RecordExample("sin", true)

	snap := m.Snapshot()
	assert.Equal(t, 3, snap.Examples)
	assert.Equal(t, 2, snap.Agreed)
	assert.Equal(t, 1, snap.Disagreed)
	assert.Equal(t, map[string]int{"add": 1, "sin": 2}, snap.ExamplesByOp)
	assert.Equal(t, map[string]int{"sin": 1}, snap.DisagreedByOp)
}

func TestInMemoryMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordInvocation("python", false, OutcomeOK, 0)

	snap := m.Snapshot()
	snap.Runtimes["python"].Outcomes[OutcomeOK] = 99
	assert.Equal(t, 1, m.InvocationCount("python", OutcomeOK))
}

func TestInMemoryMetrics_Concurrent(t *testing.T) {
	m := NewInMemoryMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordInvocation("python", false, OutcomeOK, time.Millisecond)
			m.RecordExample("add", true)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.InvocationCount("python", OutcomeOK))
	assert.Equal(t, 50, m.Snapshot().Examples)
}
