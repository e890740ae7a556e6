package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
	"github.com/jhoicas/stock-allocator/internal/domain/repository"
)

var _ repository.AllocationRunRepository = (*AllocationRunRepo)(nil)

var allocationRecordColumns = []string{"run_id", "seq", "store_id", "warehouse_id", "product_id", "size", "quantity"}

// AllocationRunRepo archiva ejecuciones del asignador: cabecera en allocation_runs y
// registros en allocation_records, ambos en la misma transacción.
type AllocationRunRepo struct {
	pool Querier
	tx   *TxRunner
}

// NewAllocationRunRepository construye el adaptador. pool se usa para lecturas y tx para escrituras.
func NewAllocationRunRepository(pool Querier, tx *TxRunner) *AllocationRunRepo {
	return &AllocationRunRepo{pool: pool, tx: tx}
}

// Save persiste la ejecución y sus registros. Un id repetido devuelve domain.ErrDuplicate.
func (r *AllocationRunRepo) Save(ctx context.Context, run *entity.AllocationRun, records []entity.AllocationRecord) error {
	return r.tx.Run(ctx, func(q Querier) error {
		query := `
			INSERT INTO allocation_runs
				(id, started_at, finished_at, stores, warehouses, records, allocated_units, missing_units, snapshot_uri)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))`
		_, err := q.Exec(ctx, query,
			run.ID, run.StartedAt, run.FinishedAt, run.Stores, run.Warehouses, run.Records,
			run.AllocatedUnits, run.MissingUnits, run.SnapshotURI,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("ejecución %s: %w", run.ID, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert allocation run: %w", err)
		}

		if len(records) == 0 {
			return nil
		}
		n, err := q.CopyFrom(ctx, pgx.Identifier{"allocation_records"}, allocationRecordColumns,
			pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
				rec := records[i]
				return []any{run.ID, i, rec.StoreID, rec.WarehouseID, rec.ProductID, rec.Size, rec.Quantity}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy allocation records: %w", err)
		}
		if int(n) != len(records) {
			return fmt.Errorf("copy allocation records: %d de %d filas", n, len(records))
		}
		return nil
	})
}

// ListRecent últimas ejecuciones, de la más reciente a la más antigua.
func (r *AllocationRunRepo) ListRecent(ctx context.Context, limit int) ([]*entity.AllocationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, started_at, finished_at, stores, warehouses, records,
		       allocated_units, missing_units, COALESCE(snapshot_uri, '')
		FROM allocation_runs ORDER BY started_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list allocation runs: %w", err)
	}
	defer rows.Close()

	var out []*entity.AllocationRun
	for rows.Next() {
		var run entity.AllocationRun
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt, &run.Stores, &run.Warehouses, &run.Records,
			&run.AllocatedUnits, &run.MissingUnits, &run.SnapshotURI,
		); err != nil {
			return nil, fmt.Errorf("scan allocation run: %w", err)
		}
		out = append(out, &run)
	}
	return out, rows.Err()
}
