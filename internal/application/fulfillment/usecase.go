// Package fulfillment orquesta una ejecución del asignador: catálogo, asignación,
// formato de envíos, publicación de la foto final, archivo y métricas.
package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/ports"
	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/allocation"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
	"github.com/jhoicas/stock-allocator/internal/domain/repository"
	"github.com/jhoicas/stock-allocator/pkg/logger"
)

// Options colaboradores opcionales del caso de uso. Los nil se omiten.
type Options struct {
	ShipmentLimit int
	Snapshots     repository.SnapshotStore
	Runs          repository.AllocationRunRepository
	Metrics       ports.AllocationMetrics
	Manifests     ports.ManifestGenerator
	Logger        *logger.Logger
}

// UseCase ejecuta el asignador sobre el catálogo en caché y conserva la última ejecución
// para las consultas de lectura (envíos, vistas por tienda/almacén, faltantes).
// Cada ejecución crea su propio libro de stock; varias peticiones pueden correr a la vez.
// Las lecturas sin ejecución previa comparten una única ejecución inicial.
type UseCase struct {
	cache *CatalogCache
	opts  Options
	log   *logger.Logger

	cold singleflight.Group

	mu   sync.RWMutex
	last *runState
	gen  uint64 // se incrementa en cada recarga del catálogo
}

type runState struct {
	summary    dto.RunSummaryDTO
	result     *allocation.Result
	plan       dto.ShipmentPlanResponse
	shortfalls []allocation.Shortfall
}

// NewUseCase construye el caso de uso.
func NewUseCase(cache *CatalogCache, opts Options) *UseCase {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{cache: cache, opts: opts, log: log.Component("fulfillment")}
}

// Run ejecuta una asignación completa y publica la foto final si hay SnapshotStore.
// Un fallo al publicar la foto hace fallar la ejecución; un fallo al archivarla en BD solo se registra.
func (uc *UseCase) Run(ctx context.Context) (*dto.AllocationRunResponse, error) {
	st, err := uc.run(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AllocationRunResponse{Summary: st.summary, Plan: st.plan}, nil
}

func (uc *UseCase) run(ctx context.Context) (*runState, error) {
	uc.mu.RLock()
	gen := uc.gen
	uc.mu.RUnlock()

	cat, err := uc.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	started := time.Now()

	result := allocation.Allocate(cat.Warehouses, cat.Stores, cat.Stock, cat.Demand)
	shipments := allocation.FormatShipments(result.WarehouseOrder, result.ByWarehouse, uc.opts.ShipmentLimit)
	shortfalls := result.Shortfalls(cat.Demand)
	elapsed := time.Since(started)

	records := result.Records()
	state := &runState{
		result:     result,
		plan:       ToPlanResponse(shipments),
		shortfalls: shortfalls,
		summary: dto.RunSummaryDTO{
			RunID:          runID,
			StartedAt:      started,
			DurationMS:     elapsed.Milliseconds(),
			Stores:         len(cat.Stores),
			Warehouses:     len(cat.Warehouses),
			Records:        len(records),
			AllocatedUnits: result.AllocatedUnits(),
			MissingUnits:   allocation.MissingUnits(shortfalls),
		},
	}

	if uc.opts.Snapshots != nil {
		payload, err := json.MarshalIndent(state.plan, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serializar envíos: %w", err)
		}
		uri, err := uc.opts.Snapshots.Save(ctx, runID, payload)
		if err != nil {
			return nil, fmt.Errorf("publicar foto de la ejecución %s: %w", runID, err)
		}
		state.summary.SnapshotURI = uri
	}

	if uc.opts.Runs != nil {
		run := &entity.AllocationRun{
			ID:             runID,
			StartedAt:      started,
			FinishedAt:     started.Add(elapsed),
			Stores:         state.summary.Stores,
			Warehouses:     state.summary.Warehouses,
			Records:        state.summary.Records,
			AllocatedUnits: state.summary.AllocatedUnits,
			MissingUnits:   state.summary.MissingUnits,
			SnapshotURI:    state.summary.SnapshotURI,
		}
		if err := uc.opts.Runs.Save(ctx, run, records); err != nil {
			uc.log.Error().Err(err).Str("run_id", runID).Msg("archivar ejecución")
		}
	}

	if uc.opts.Metrics != nil {
		uc.opts.Metrics.ObserveRun(elapsed, len(records),
			state.summary.AllocatedUnits.InexactFloat64(), state.summary.MissingUnits.InexactFloat64())
	}

	uc.log.Info().
		Str("run_id", runID).
		Int("stores", state.summary.Stores).
		Int("warehouses", state.summary.Warehouses).
		Int("records", state.summary.Records).
		Str("allocated", state.summary.AllocatedUnits.String()).
		Str("missing", state.summary.MissingUnits.String()).
		Dur("elapsed", elapsed).
		Msg("asignación completada")

	uc.mu.Lock()
	stale := uc.gen != gen
	if !stale {
		uc.last = state
	}
	uc.mu.Unlock()
	if stale {
		uc.log.Warn().Str("run_id", runID).Msg("catálogo recargado durante la ejecución; no se publica como última")
	}

	return state, nil
}

// Plan devuelve los envíos de la última ejecución (ejecuta una si no hay ninguna).
func (uc *UseCase) Plan(ctx context.Context) (*dto.ShipmentPlanResponse, error) {
	st, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	return &st.plan, nil
}

// LastSummary resumen de la última ejecución, o nil si aún no hubo ninguna.
func (uc *UseCase) LastSummary() *dto.RunSummaryDTO {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.last == nil {
		return nil
	}
	s := uc.last.summary
	return &s
}

// StoreAllocations lo que recibe una tienda. domain.ErrNotFound si no está en el catálogo.
func (uc *UseCase) StoreAllocations(ctx context.Context, storeID string) ([]dto.AllocationRecordDTO, error) {
	st, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	recs, ok := st.result.ByStore[storeID]
	if !ok {
		return nil, fmt.Errorf("tienda %q: %w", storeID, domain.ErrNotFound)
	}
	return toRecordDTOs(recs), nil
}

// WarehouseAllocations lo que envía un almacén. domain.ErrNotFound si no está en el catálogo.
func (uc *UseCase) WarehouseAllocations(ctx context.Context, warehouseID string) ([]dto.AllocationRecordDTO, error) {
	st, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	recs, ok := st.result.ByWarehouse[warehouseID]
	if !ok {
		return nil, fmt.Errorf("almacén %q: %w", warehouseID, domain.ErrNotFound)
	}
	return toRecordDTOs(recs), nil
}

// Shortfalls demanda no cubierta en la última ejecución.
func (uc *UseCase) Shortfalls(ctx context.Context) ([]dto.ShortfallDTO, error) {
	st, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShortfallDTO, 0, len(st.shortfalls))
	for _, s := range st.shortfalls {
		out = append(out, dto.ShortfallDTO{
			StoreID:   s.StoreID,
			ProductID: s.ProductID,
			Size:      s.Size,
			Demanded:  s.Demanded,
			Allocated: s.Allocated,
			Missing:   s.Missing,
		})
	}
	return out, nil
}

// WarehouseManifest todos los envíos de un almacén, sin recorte, para el manifiesto imprimible.
func (uc *UseCase) WarehouseManifest(ctx context.Context, warehouseID string) (entity.WarehouseShipments, error) {
	st, err := uc.current(ctx)
	if err != nil {
		return entity.WarehouseShipments{}, err
	}
	if _, ok := st.result.ByWarehouse[warehouseID]; !ok {
		return entity.WarehouseShipments{}, fmt.Errorf("almacén %q: %w", warehouseID, domain.ErrNotFound)
	}
	grouped := allocation.FormatShipments([]string{warehouseID}, st.result.ByWarehouse, 0)
	if len(grouped) == 0 {
		return entity.WarehouseShipments{WarehouseID: warehouseID, Shipments: []entity.Shipment{}}, nil
	}
	return grouped[0], nil
}

// ManifestPDF genera el PDF del manifiesto de un almacén.
func (uc *UseCase) ManifestPDF(ctx context.Context, warehouseID string) ([]byte, error) {
	if uc.opts.Manifests == nil {
		return nil, fmt.Errorf("generador de manifiestos no configurado")
	}
	ws, err := uc.WarehouseManifest(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return uc.opts.Manifests.GenerateManifest(ctx, ws, time.Now())
}

// RecentRuns últimas ejecuciones archivadas, de la más reciente a la más antigua.
// limit 0 usa el valor por defecto del repositorio; negativo es domain.ErrInvalidInput.
// domain.ErrNotFound si el archivo de ejecuciones no está configurado.
func (uc *UseCase) RecentRuns(ctx context.Context, limit int) ([]dto.RunSummaryDTO, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, domain.ErrInvalidInput)
	}
	if uc.opts.Runs == nil {
		return nil, fmt.Errorf("archivo de ejecuciones no configurado: %w", domain.ErrNotFound)
	}
	runs, err := uc.opts.Runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RunSummaryDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.RunSummaryDTO{
			RunID:          r.ID,
			StartedAt:      r.StartedAt,
			DurationMS:     r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
			Stores:         r.Stores,
			Warehouses:     r.Warehouses,
			Records:        r.Records,
			AllocatedUnits: r.AllocatedUnits,
			MissingUnits:   r.MissingUnits,
			SnapshotURI:    r.SnapshotURI,
		})
	}
	return out, nil
}

// ReloadCatalog recarga el catálogo y descarta la última ejecución. Una ejecución que
// estuviera en curso sobre el catálogo anterior no se publica como última.
func (uc *UseCase) ReloadCatalog(ctx context.Context) error {
	cat, err := uc.cache.Reload(ctx)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	uc.last = nil
	uc.gen++
	uc.mu.Unlock()

	uc.log.Info().
		Int("warehouses", len(cat.Warehouses)).
		Int("stores", len(cat.Stores)).
		Int("stock_lines", len(cat.Stock)).
		Int("demand_lines", len(cat.Demand)).
		Msg("catálogo recargado")
	return nil
}

// current devuelve la última ejecución. Sin ninguna previa, las lecturas concurrentes
// esperan a una sola ejecución en lugar de lanzar una cada una.
func (uc *UseCase) current(ctx context.Context) (*runState, error) {
	if st := uc.lastState(); st != nil {
		return st, nil
	}
	v, err, _ := uc.cold.Do("cold", func() (any, error) {
		if st := uc.lastState(); st != nil {
			return st, nil
		}
		return uc.run(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*runState), nil
}

func (uc *UseCase) lastState() *runState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.last
}

// ToPlanResponse convierte los envíos formateados en la foto de salida.
func ToPlanResponse(shipments []entity.WarehouseShipments) dto.ShipmentPlanResponse {
	out := dto.ShipmentPlanResponse{Warehouses: make([]dto.WarehouseShipmentsDTO, 0, len(shipments))}
	for _, ws := range shipments {
		item := dto.WarehouseShipmentsDTO{
			WarehouseID: ws.WarehouseID,
			Shipments:   make([]dto.ShipmentDTO, 0, len(ws.Shipments)),
		}
		for _, s := range ws.Shipments {
			sh := dto.ShipmentDTO{StoreID: s.StoreID, Products: make([]dto.ShipmentProductDTO, 0, len(s.Products))}
			for _, p := range s.Products {
				sh.Products = append(sh.Products, dto.ShipmentProductDTO{ProductID: p.ProductID, Sizes: p.Sizes})
			}
			item.Shipments = append(item.Shipments, sh)
		}
		out.Warehouses = append(out.Warehouses, item)
	}
	return out
}

func toRecordDTOs(recs []entity.AllocationRecord) []dto.AllocationRecordDTO {
	out := make([]dto.AllocationRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.AllocationRecordDTO{
			StoreID:     r.StoreID,
			WarehouseID: r.WarehouseID,
			ProductID:   r.ProductID,
			Size:        r.Size,
			Quantity:    r.Quantity,
		})
	}
	return out
}
