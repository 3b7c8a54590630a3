package modalstack

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry maps dialog names to their definitions.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to report rejected registrations.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		defs:   map[string]Definition{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates def and stores it, replacing any definition already
// registered under the same name.
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		r.logger.Error("modal registration rejected", "name", def.Name, "err", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]Definition, len(r.defs)+1)
	for k, v := range r.defs {
		next[k] = v
	}
	next[def.Name] = def
	r.defs = next
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, error) {
	r.mu.RLock()
	def, ok := r.defs[name]
	r.mu.RUnlock()
	if !ok {
		return Definition{}, &NotFoundError{Name: name}
	}
	return def, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

func validateDefinition(def Definition) error {
	if def.Name == "" {
		return &ValidationError{Message: "Modal name is required"}
	}
	if def.Render == nil {
		return &ValidationError{Name: def.Name, Message: "Modal component is required"}
	}
	// A nil function wrapped in the interface is present but not callable.
	if fn, ok := def.Render.(RenderFunc); ok && fn == nil {
		return &ValidationError{Name: def.Name, Message: "Modal component must be a function"}
	}
	return nil
}
