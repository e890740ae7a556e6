package repository

import (
	"context"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// AllocationRunRepository archiva ejecuciones terminadas junto con sus registros.
// Es un histórico de solo inserción; no participa en la asignación.
type AllocationRunRepository interface {
	Save(ctx context.Context, run *entity.AllocationRun, records []entity.AllocationRecord) error
	ListRecent(ctx context.Context, limit int) ([]*entity.AllocationRun, error)
}
