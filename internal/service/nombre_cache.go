package service

import (
	"sync"

	"github.com/google/uuid"
)

// nombreCache memoizes id → display name lookups for the denormalized sale
// projections. Owned by the read-model layer; entries are invalidated
// explicitly when the underlying entity is edited or deleted (via the change
// bus), never guessed stale by TTL.
type nombreCache struct {
	mu      sync.RWMutex
	nombres map[uuid.UUID]string
}

func newNombreCache() *nombreCache {
	return &nombreCache{nombres: make(map[uuid.UUID]string)}
}

func (c *nombreCache) get(id uuid.UUID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	nombre, ok := c.nombres[id]
	return nombre, ok
}

func (c *nombreCache) put(id uuid.UUID, nombre string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nombres[id] = nombre
}

func (c *nombreCache) invalidar(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.nombres, id)
}
