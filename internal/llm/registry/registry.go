// Package registry keeps the model backends available to the service.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/ember/internal/domain"
)

// Backend is a named model suite.
type Backend interface {
	Name() string
	Suite() domain.Models
}

// Registry holds model backends by name.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:       sync.RWMutex{},
		backends: make(map[string]Backend),
	}
}

// Register adds a backend. Names must be unique.
func (r *Registry) Register(backend Backend) error {
	if backend == nil {
		return errors.New("backend cannot be nil")
	}

	name := backend.Name()
	if name == "" {
		return errors.New("backend name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return fmt.Errorf("backend %s already registered", name)
	}

	r.backends[name] = backend
	return nil
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, error) {
	if name == "" {
		return nil, errors.New("backend name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, exists := r.backends[name]
	if !exists {
		return nil, fmt.Errorf("backend %s not registered (available: %v)", name, r.namesLocked())
	}

	return backend, nil
}

// Suite returns the model suite of the named backend.
func (r *Registry) Suite(name string) (domain.Models, error) {
	backend, err := r.Get(name)
	if err != nil {
		return domain.Models{}, err
	}
	return backend.Suite(), nil
}

// List returns the registered backend names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
