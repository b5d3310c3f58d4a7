package module

import (
	"fmt"
	"sort"
	"sync"

	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

// Registry maps module names to handler instances. It is built once at
// startup and handed to the engine explicitly; lookups after that are
// read-only.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module under its declared name.
func (r *Registry) Register(m Module) error {
	if m == nil {
		return opserrors.NewModuleError("", fmt.Errorf("module is nil"))
	}

	name := m.Name()
	if name == "" {
		return opserrors.NewModuleError("", fmt.Errorf("module name is empty"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[name]; exists {
		return opserrors.NewModuleError(name, fmt.Errorf("module already registered"))
	}

	r.modules[name] = m
	return nil
}

// Get retrieves a module by name.
func (r *Registry) Get(name string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	if !ok {
		return nil, opserrors.NewModuleError(name, fmt.Errorf("unknown module"))
	}

	return m, nil
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
