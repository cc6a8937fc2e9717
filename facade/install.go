package facade

import (
	"context"
	"sync"

	"github.com/kochabx/vaxios/errors"
)

// Method is the signature of every registered verb
type Method func(ctx context.Context, url string, payload any) (any, error)

// Registrar is the host extension point that receives the five methods.
// Unregister is used to undo a partially failed Install.
type Registrar interface {
	Register(name string, method Method) error
	Unregister(name string)
}

// Methods is a Registrar backed by a map, for hosts without their own
// registry
type Methods struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewMethods creates an empty method set
func NewMethods() *Methods {
	return &Methods{methods: make(map[string]Method)}
}

// Register adds method under name. Names cannot be registered twice.
func (m *Methods) Register(name string, method Method) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.methods[name]; ok {
		return errors.Conflict("method %s already registered", name)
	}
	m.methods[name] = method
	return nil
}

// Unregister removes name, a missing name is ignored
func (m *Methods) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.methods, name)
}

// Get returns the method registered under name
func (m *Methods) Get(name string) (Method, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	method, ok := m.methods[name]
	return method, ok
}

// Len returns the number of registered methods
func (m *Methods) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.methods)
}

// Install builds a facade from opts and registers $GET, $POST, $PUT, $PATCH
// and $DELETE (with the configured prefix) on r. Either all five are
// registered or, on error, none of them remain.
func Install(r Registrar, opts ...Option) (*Facade, error) {
	f, err := New(opts...)
	if err != nil {
		return nil, err
	}

	methods := []struct {
		name   string
		method Method
	}{
		{"GET", f.Get},
		{"POST", f.Post},
		{"PUT", f.Put},
		{"PATCH", f.Patch},
		{"DELETE", f.Delete},
	}

	registered := make([]string, 0, len(methods))
	for _, m := range methods {
		name := f.cfg.Prefix + m.name
		if err := r.Register(name, m.method); err != nil {
			for i := len(registered) - 1; i >= 0; i-- {
				r.Unregister(registered[i])
			}
			return nil, err
		}
		registered = append(registered, name)
	}

	return f, nil
}
