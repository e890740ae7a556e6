package ports

import (
	"context"
	"time"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// ManifestGenerator genera el manifiesto imprimible (PDF) de los envíos de un almacén.
type ManifestGenerator interface {
	GenerateManifest(ctx context.Context, shipments entity.WarehouseShipments, generatedAt time.Time) ([]byte, error)
}
