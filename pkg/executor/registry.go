package executor

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when no executor is registered under a
// name.
var ErrNotFound = errors.New("executor not found")

// Registry maps runtime names to executors.
type Registry interface {
	// Register adds an executor under its own name.
	Register(e Executor) error

	// RegisterAs adds an executor under an alias.
	RegisterAs(name string, e Executor) error

	// Get retrieves an executor by name.
	Get(name string) (Executor, error)

	// List returns all executors sorted by registered name.
	List() []Executor

	// Names returns all registered names sorted.
	Names() []string

	// Clear removes all executors.
	Clear()

	// Count returns the number of registered executors.
	Count() int
}

// DefaultRegistry is the standard Registry implementation. It is
// safe for concurrent use.
type DefaultRegistry struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		executors: make(map[string]Executor),
	}
}

// Register adds an executor under e.Name(). Returns an error if
// the name is already taken.
func (r *DefaultRegistry) Register(e Executor) error {
	return r.RegisterAs(e.Name(), e)
}

// RegisterAs adds an executor under the given name.
func (r *DefaultRegistry) RegisterAs(
	name string, e Executor,
) error {
	if name == "" {
		return fmt.Errorf("executor name is required")
	}
	if e == nil {
		return fmt.Errorf("executor is nil: %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.executors[name]; exists {
		return fmt.Errorf(
			"executor already registered: %s", name,
		)
	}
	r.executors[name] = e
	return nil
}

// Get retrieves an executor by name.
func (r *DefaultRegistry) Get(name string) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// List returns all registered executors sorted by name.
func (r *DefaultRegistry) List() []Executor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.sortedNames()
	result := make([]Executor, len(names))
	for i, n := range names {
		result[i] = r.executors[n]
	}
	return result
}

// Names returns all registered names sorted.
func (r *DefaultRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *DefaultRegistry) sortedNames() []string {
	names := make([]string, 0, len(r.executors))
	for n := range r.executors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clear removes all registered executors.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors = make(map[string]Executor)
}

// Count returns the number of registered executors.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.executors)
}
