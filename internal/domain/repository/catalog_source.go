package repository

import (
	"context"

	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
)

// CatalogSource define el puerto de ingesta del catálogo (archivos JSON, PostgreSQL...).
// Debe devolver almacenes, tiendas y líneas en el orden de catálogo, que es significativo.
type CatalogSource interface {
	Load(ctx context.Context) (*catalog.Raw, error)
}
