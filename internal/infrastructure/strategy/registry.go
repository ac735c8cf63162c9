package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
)

// ComponentFactory builds a behavior component from its stored configuration
type ComponentFactory func(config []byte) (service.BehaviorComponent, error)

// Configurable is implemented by components whose configuration can be stored
type Configurable interface {
	service.BehaviorComponent
	Config() any
}

// ComponentInfo describes a registered component kind
type ComponentInfo struct {
	Kind        string                `json:"kind"`
	Type        strategy.StrategyType `json:"type"`
	Description string                `json:"description"`
}

type registration struct {
	info    ComponentInfo
	factory ComponentFactory
}

// ComponentRegistry maps component kinds to factories so methods can be
// stored as (kind, config) pairs and rebuilt on load
type ComponentRegistry struct {
	mu    sync.RWMutex
	kinds map[string]registration
}

// NewComponentRegistry creates an empty registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		kinds: make(map[string]registration),
	}
}

// Register adds a component kind
func (r *ComponentRegistry) Register(info ComponentInfo, factory ComponentFactory) error {
	if info.Kind == "" {
		return fmt.Errorf("%w: component kind cannot be empty", shared.ErrInvalidInput)
	}
	if !info.Type.IsValid() {
		return fmt.Errorf("%w: component '%s' has invalid type '%s'", shared.ErrInvalidInput, info.Kind, info.Type)
	}
	if factory == nil {
		return fmt.Errorf("%w: component '%s' has no factory", shared.ErrInvalidInput, info.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[info.Kind]; exists {
		return fmt.Errorf("%w: component '%s' already registered", shared.ErrAlreadyExists, info.Kind)
	}
	r.kinds[info.Kind] = registration{info: info, factory: factory}
	return nil
}

// Unregister removes a component kind
func (r *ComponentRegistry) Unregister(kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[kind]; !exists {
		return fmt.Errorf("%w: component '%s' not found", shared.ErrNotFound, kind)
	}
	delete(r.kinds, kind)
	return nil
}

// Build creates a component of the given kind from its configuration
func (r *ComponentRegistry) Build(kind string, config []byte) (service.BehaviorComponent, error) {
	r.mu.RLock()
	reg, exists := r.kinds[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, shared.WrapDomainError("INVALID_COMPONENT_KIND", fmt.Sprintf("Unknown component kind '%s'", kind), shared.ErrNotFound)
	}
	c, err := reg.factory(config)
	if err != nil {
		return nil, fmt.Errorf("build component '%s': %w", kind, err)
	}
	return c, nil
}

// Encode returns the kind and stored configuration of a component
func (r *ComponentRegistry) Encode(c service.BehaviorComponent) (string, []byte, error) {
	kind := c.Name()
	if !r.IsRegistered(kind) {
		return "", nil, fmt.Errorf("%w: component '%s' not found", shared.ErrNotFound, kind)
	}
	configurable, ok := c.(Configurable)
	if !ok {
		return "", nil, fmt.Errorf("%w: component '%s' has no stored configuration", shared.ErrInvalidInput, kind)
	}
	data, err := EncodeConfig(configurable.Config())
	if err != nil {
		return "", nil, fmt.Errorf("encode component '%s': %w", kind, err)
	}
	return kind, data, nil
}

// IsRegistered returns true if the kind is known
func (r *ComponentRegistry) IsRegistered(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.kinds[kind]
	return exists
}

// Kinds returns all registered kinds sorted by name
func (r *ComponentRegistry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Describe returns every registered kind sorted by name
func (r *ComponentRegistry) Describe() []ComponentInfo {
	kinds := r.Kinds()

	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ComponentInfo, 0, len(kinds))
	for _, kind := range kinds {
		if reg, ok := r.kinds[kind]; ok {
			infos = append(infos, reg.info)
		}
	}
	return infos
}

// Stats returns the number of registered kinds per strategy type
func (r *ComponentRegistry) Stats() map[strategy.StrategyType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[strategy.StrategyType]int, len(strategy.AllStrategyTypes()))
	for _, t := range strategy.AllStrategyTypes() {
		stats[t] = 0
	}
	for _, reg := range r.kinds {
		stats[reg.info.Type]++
	}
	return stats
}
