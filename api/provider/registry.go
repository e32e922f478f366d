// Package provider models oEmbed providers and resolves consumer URLs to them.
package provider

import (
	"slices"
	"sync"

	"github.com/morikuni/failure/v2"
)

// Registry is an ordered set of providers. The first provider whose schemes
// match a URL serves it.
type Registry struct {
	mu        sync.RWMutex
	providers []*Provider
}

// NewRegistry creates a registry holding the given providers in order
func NewRegistry(providers ...*Provider) *Registry {
	r := &Registry{}
	r.Register(providers...)
	return r
}

// DefaultRegistry returns a registry pre-loaded with the built-in providers.
func DefaultRegistry() *Registry {
	return NewRegistry(Builtin()...)
}

// Register appends providers. A provider already present is not added twice.
func (r *Registry) Register(providers ...*Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range providers {
		if p == nil || slices.Contains(r.providers, p) {
			continue
		}
		r.providers = append(r.providers, p)
	}
}

// Unregister removes p
func (r *Registry) Unregister(p *Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = slices.DeleteFunc(r.providers, func(q *Provider) bool { return q == p })
}

// Find returns the first provider serving url.
func (r *Registry) Find(url string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.Matches(url) {
			return p, nil
		}
	}
	return nil, failure.New(ErrNotFound,
		failure.Message("No registered oEmbed provider serves this URL"),
		failure.Context{"url": url},
	)
}

// Lookup returns the provider registered under name
func (r *Registry) Lookup(name string) (*Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.providers, func(p *Provider) bool { return p.Name == name })
	if i < 0 {
		return nil, false
	}
	return r.providers[i], true
}

// All returns the registered providers in order
func (r *Registry) All() []*Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.providers)
}
