// Package embedding provides the Embedding Provider (C1) drivers and a
// registry for selecting between them, grounded on
// agentoven-agentoven/control-plane/internal/embeddings/registry.go's
// register/get/list/health-check-all pattern.
package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"go.uber.org/zap"
)

// Registry holds named embedding drivers. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]outbound.EmbeddingProvider
	logger  *zap.Logger
}

// NewRegistry creates an empty embedding registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		drivers: make(map[string]outbound.EmbeddingProvider),
		logger:  logger.Named("embedding-registry"),
	}
}

// Register adds a driver under its own Name(). Overwrites if it already exists.
func (r *Registry) Register(driver outbound.EmbeddingProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[driver.Name()] = driver
	r.logger.Info("embedding driver registered",
		zap.String("name", driver.Name()),
		zap.Int("dimension", driver.Dimension()))
}

// Get returns the driver registered under name, or an error if none exists.
func (r *Registry) Get(name string) (outbound.EmbeddingProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("embedding driver not found: %s", name)
	}
	return d, nil
}

// List returns all registered driver names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	return names
}

// HealthCheckAll pings every registered driver with a trivial embed call,
// returning errors keyed by driver name.
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	snapshot := make(map[string]outbound.EmbeddingProvider, len(r.drivers))
	for k, v := range r.drivers {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	results := make(map[string]error, len(snapshot))
	for name, driver := range snapshot {
		_, err := driver.Embed(ctx, "health check")
		results[name] = err
	}
	return results
}
