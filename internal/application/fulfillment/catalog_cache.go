package fulfillment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/domain/repository"
)

// CatalogCache mantiene el catálogo normalizado en memoria. Es de solo lectura una vez
// cargado; Reload lo reemplaza completo.
type CatalogCache struct {
	src repository.CatalogSource

	mu       sync.RWMutex
	data     *catalog.Normalized
	loadedAt time.Time
}

// NewCatalogCache construye la caché sobre un origen de catálogo.
func NewCatalogCache(src repository.CatalogSource) *CatalogCache {
	return &CatalogCache{src: src}
}

// Get devuelve el catálogo, cargándolo en el primer uso.
func (c *CatalogCache) Get(ctx context.Context) (*catalog.Normalized, error) {
	c.mu.RLock()
	data := c.data
	c.mu.RUnlock()
	if data != nil {
		return data, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data != nil {
		return c.data, nil
	}
	return c.loadLocked(ctx)
}

// Reload vuelve a leer el origen y normaliza. Si falla, se conserva el catálogo anterior.
func (c *CatalogCache) Reload(ctx context.Context) (*catalog.Normalized, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

// LoadedAt momento de la última carga correcta (cero si nunca se cargó).
func (c *CatalogCache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

func (c *CatalogCache) loadLocked(ctx context.Context) (*catalog.Normalized, error) {
	raw, err := c.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar catálogo: %w", err)
	}
	norm, err := catalog.Normalize(*raw)
	if err != nil {
		return nil, fmt.Errorf("normalizar catálogo: %w", err)
	}
	c.data = norm
	c.loadedAt = time.Now()
	return norm, nil
}
