package depth

import (
	"sync"

	"github.com/ironsheep/heightmesh/internal/classify"
)

// Registry maps content categories to depth strategies.
//
// A category without a registered strategy resolves to the fallback;
// that is not an error. classify.General always resolves to the fallback,
// even if something is registered under it.
type Registry struct {
	mu         sync.RWMutex
	strategies map[classify.Category]Strategy
	fallback   Strategy
}

// NewRegistry creates a Registry. A nil fallback selects Generic.
func NewRegistry(fallback Strategy) *Registry {
	if fallback == nil {
		fallback = NewGeneric()
	}
	return &Registry{
		strategies: make(map[classify.Category]Strategy),
		fallback:   fallback,
	}
}

// Register installs s for category, replacing any previous strategy.
// Registering nil removes the category's strategy.
func (r *Registry) Register(category classify.Category, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		delete(r.strategies, category)
		return
	}
	r.strategies[category] = s
}

// Resolve returns the strategy for category, or the fallback.
func (r *Registry) Resolve(category classify.Category) Strategy {
	if category == classify.General {
		return r.fallback
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.strategies[category]; ok {
		return s
	}
	return r.fallback
}

// Fallback returns the fallback strategy.
func (r *Registry) Fallback() Strategy {
	return r.fallback
}
