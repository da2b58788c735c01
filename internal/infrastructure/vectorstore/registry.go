package vectorstore

import (
	"fmt"
	"sync"

	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
)

// Registry holds named vector store drivers, mirroring the embedding
// registry's register/get pattern (spec §4.2 DOMAIN STACK). The container
// selects exactly one driver at startup via configuration; the registry
// exists so both drivers can be wired up for tests without an import cycle
// back into the container package.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]outbound.VectorStoreClient
}

// NewRegistry creates an empty vector store registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]outbound.VectorStoreClient)}
}

// Register adds a driver under name ("embedded" or "pgvector").
func (r *Registry) Register(name string, driver outbound.VectorStoreClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[name] = driver
}

// Get returns the driver registered under name, or an error if none exists.
func (r *Registry) Get(name string) (outbound.VectorStoreClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("vector store driver not found: %s", name)
	}
	return d, nil
}
