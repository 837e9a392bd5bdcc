package servlet

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrDuplicate = errors.New("servlet is already registered")

// Registry maps servlet names to their factories. It's safe for concurrent use, however
// normally it's populated once at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds the factory under the name. Names are case-sensitive.
func (r *Registry) Register(name string, factory Factory) error {
	if len(name) == 0 || factory == nil {
		return errors.New("servlet name and factory must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.factories[name]; found {
		return fmt.Errorf("%s: %w", name, ErrDuplicate)
	}

	r.factories[name] = factory
	return nil
}

// MustRegister is Register, panicking on error.
func (r *Registry) MustRegister(name string, factory Factory) *Registry {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}

	return r
}

// Resolve returns the factory registered under the name.
func (r *Registry) Resolve(name string) (Factory, bool) {
	r.mu.RLock()
	factory, found := r.factories[name]
	r.mu.RUnlock()

	return factory, found
}

// Names returns registered names in lexicographical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}
