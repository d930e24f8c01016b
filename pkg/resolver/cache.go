package resolver

import (
	"context"
	"sync"

	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// Resolution is a cached template lookup outcome. A nil Template records a
// negative (not-found) result so repeated misses skip the catalog too.
type Resolution struct {
	Template *models.WorkflowTemplate `json:"template"`
}

// TemplateCache is the injectable cache owned by a Resolver instance. Each
// engine instance carries its own cache so tenants never cross-contaminate.
type TemplateCache interface {
	Get(ctx context.Context, key string) (*Resolution, bool)
	Set(ctx context.Context, key string, res *Resolution)
	Clear(ctx context.Context)
}

// MemoryCache is a process-local TemplateCache safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Resolution
}

// NewMemoryCache creates an empty in-memory template cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Resolution),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Resolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.entries[key]

	return res, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, res *Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = res
}

// Clear atomically drops every entry.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Resolution)
}

var _ TemplateCache = (*MemoryCache)(nil)
