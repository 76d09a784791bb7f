package plugin

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"
)

// Registry maps extension-point names to their hooks in registration order.
type Registry struct {
	mu     sync.RWMutex
	points map[string][]Hook
}

// NewRegistry creates a new empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		points: make(map[string][]Hook),
	}
}

// Register appends a hook to an extension point.
// The same hook name may appear more than once (e.g., two backups with different suffixes).
func (r *Registry) Register(point string, hook Hook) error {
	if point == "" {
		return fmt.Errorf("extension point is required")
	}
	if hook == nil {
		return fmt.Errorf("cannot register nil hook")
	}

	metadata := hook.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid hook metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.points[point] = append(r.points[point], hook)
	return nil
}

// Hooks returns the hooks registered under point, in registration order.
// The sequence is a snapshot taken when iteration starts; hook bodies are never executed.
func (r *Registry) Hooks(point string) iter.Seq[Hook] {
	return func(yield func(Hook) bool) {
		for _, h := range r.List(point) {
			if !yield(h) {
				return
			}
		}
	}
}

// List returns a copy of the hooks registered under point.
func (r *Registry) List(point string) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.points[point])
}

// Points returns every extension point with at least one hook, sorted.
func (r *Registry) Points() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.points))
	for point, hooks := range r.points {
		if len(hooks) > 0 {
			result = append(result, point)
		}
	}
	sort.Strings(result)
	return result
}

// Count returns the total number of registered hooks across all points.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, hooks := range r.points {
		count += len(hooks)
	}
	return count
}

// Clear removes all hooks from the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.points = make(map[string][]Hook)
}
