package tokens

import (
	"fmt"
	"sync"
)

// Registry collects one resolved Table per permutation as the orchestrator's
// Stage 2-7 tasks complete, keyed by permutation key (the dimension values
// joined by "-", in dimension order — see mergeengine.Permutation.Key).
// Writes are concurrency-safe since permutations resolve in parallel
// (spec §5); reads used by bundlers happen after every task has joined.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]Table
	order  []string // permutation keys in the order they were first set
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]Table)}
}

// Set records the resolved table for a permutation. Safe to call
// concurrently from independent permutation tasks; each key is written
// exactly once.
func (r *Registry) Set(permKey string, table Table) error {
	if permKey == "" {
		return fmt.Errorf("permutation key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[permKey]; !exists {
		r.order = append(r.order, permKey)
	}
	r.tables[permKey] = table
	return nil
}

// Get returns the table for a permutation key.
func (r *Registry) Get(permKey string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[permKey]
	return t, ok
}

// Keys returns permutation keys in the order they were first set. The
// orchestrator sets them from parallel permutation tasks, so this is
// completion order, not enumeration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of permutation tables currently stored.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tables)
}

// Release drops a permutation's table once every output has rendered it,
// per spec §5's "Memory discipline": "After a permutation's outputs have
// all been rendered, its tokens table is released."
func (r *Registry) Release(permKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tables, permKey)
}
