package fulfillment_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/fulfillment"
	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type fakeSource struct {
	raw   *catalog.Raw
	err   error
	loads int
}

func (f *fakeSource) Load(context.Context) (*catalog.Raw, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

type fakeSnapshots struct {
	saved map[string][]byte
	err   error
}

func (f *fakeSnapshots) Save(_ context.Context, runID string, payload []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[runID] = payload
	return "mem://" + runID, nil
}

type fakeRuns struct {
	mu      sync.Mutex
	runs    []*entity.AllocationRun
	records int
	err     error
	delay   time.Duration
	limit   int

	// entered/release permiten detener una ejecución en mitad del archivo.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeRuns) Save(_ context.Context, run *entity.AllocationRun, records []entity.AllocationRecord) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, run)
	f.records += len(records)
	return nil
}

func (f *fakeRuns) ListRecent(_ context.Context, limit int) ([]*entity.AllocationRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*entity.AllocationRun, 0, len(f.runs))
	for i := len(f.runs) - 1; i >= 0; i-- {
		out = append(out, f.runs[i])
	}
	return out, nil
}

func (f *fakeRuns) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

type fakeMetrics struct {
	calls     int
	allocated float64
	missing   float64
}

func (f *fakeMetrics) ObserveRun(_ time.Duration, _ int, allocated, missing float64) {
	f.calls++
	f.allocated = allocated
	f.missing = missing
}

type fakeManifests struct {
	got entity.WarehouseShipments
}

func (f *fakeManifests) GenerateManifest(_ context.Context, ws entity.WarehouseShipments, _ time.Time) ([]byte, error) {
	f.got = ws
	return []byte("%PDF-fake"), nil
}

// rawCatalog: Madrid (S1) y Barcelona (S2); almacenes en Toledo (near) y Lyon (far).
func rawCatalog() *catalog.Raw {
	return &catalog.Raw{
		Warehouses: []catalog.RawWarehouse{
			{ID: "W-TOLEDO", Country: "ES", Latitude: 39.8628, Longitude: -4.0273, Stock: []catalog.RawLine{
				catalog.Line("P1", "M", 3),
				catalog.Line("P2", "L", 1),
			}},
			{ID: "W-LYON", Country: "FR", Latitude: 45.764, Longitude: 4.8357, Stock: []catalog.RawLine{
				catalog.Line("P1", "M", 10),
			}},
			{ID: "W-EMPTY", Country: "PT", Latitude: 38.72, Longitude: -9.14},
		},
		Stores: []catalog.RawStore{
			{ID: "S1", Latitude: 40.4168, Longitude: -3.7038, Demand: []catalog.RawLine{
				catalog.Line("P1", "M", 5),
				catalog.Line("P2", "L", 2),
			}},
			{ID: "S2", Country: "ES", Latitude: 41.3874, Longitude: 2.1686, Demand: []catalog.RawLine{
				catalog.Line("P1", "S", 1),
			}},
		},
	}
}

func newUseCase(src *fakeSource, opts fulfillment.Options) *fulfillment.UseCase {
	if opts.ShipmentLimit == 0 {
		opts.ShipmentLimit = 10
	}
	return fulfillment.NewUseCase(fulfillment.NewCatalogCache(src), opts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_GeneraPlanYResumen(t *testing.T) {
	src := &fakeSource{raw: rawCatalog()}
	snaps := &fakeSnapshots{}
	runs := &fakeRuns{}
	metrics := &fakeMetrics{}
	uc := newUseCase(src, fulfillment.Options{Snapshots: snaps, Runs: runs, Metrics: metrics})

	out, err := uc.Run(context.Background())
	require.NoError(t, err)

	// S1: 3 de Toledo + 2 de Lyon para P1/M, 1 de Toledo para P2/L (falta 1). S2: nada.
	assert.Equal(t, 2, out.Summary.Stores)
	assert.Equal(t, 3, out.Summary.Warehouses)
	assert.Equal(t, 3, out.Summary.Records)
	assert.Equal(t, "6", out.Summary.AllocatedUnits.String())
	assert.Equal(t, "2", out.Summary.MissingUnits.String())
	assert.Equal(t, "mem://"+out.Summary.RunID, out.Summary.SnapshotURI)

	require.Len(t, out.Plan.Warehouses, 2, "W-EMPTY no aparece en la salida")
	assert.Equal(t, "W-TOLEDO", out.Plan.Warehouses[0].WarehouseID)
	assert.Equal(t, []dto.ShipmentProductDTO{
		{ProductID: "P1", Sizes: []string{"M"}},
		{ProductID: "P2", Sizes: []string{"L"}},
	}, out.Plan.Warehouses[0].Shipments[0].Products)
	assert.Equal(t, "W-LYON", out.Plan.Warehouses[1].WarehouseID)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(snaps.saved[out.Summary.RunID], &snapshot))
	assert.Contains(t, snapshot, "warehouses")

	require.Len(t, runs.runs, 1)
	assert.Equal(t, out.Summary.RunID, runs.runs[0].ID)
	assert.Equal(t, 3, runs.records)

	assert.Equal(t, 1, metrics.calls)
	assert.Equal(t, 6.0, metrics.allocated)
	assert.Equal(t, 2.0, metrics.missing)
}

func TestRun_FotoConFormatoDeSalida(t *testing.T) {
	snaps := &fakeSnapshots{}
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{Snapshots: snaps})

	out, err := uc.Run(context.Background())
	require.NoError(t, err)

	var plan struct {
		Warehouses []struct {
			WarehouseID string `json:"warehouseId"`
			Shipments   []struct {
				StoreID  string `json:"storeId"`
				Products []struct {
					ProductID string   `json:"productId"`
					Sizes     []string `json:"sizes"`
				} `json:"products"`
			} `json:"shipments"`
		} `json:"warehouses"`
	}
	require.NoError(t, json.Unmarshal(snaps.saved[out.Summary.RunID], &plan))
	require.Len(t, plan.Warehouses, 2)
	assert.Equal(t, "S1", plan.Warehouses[1].Shipments[0].StoreID)
	assert.Equal(t, []string{"M"}, plan.Warehouses[1].Shipments[0].Products[0].Sizes)
}

func TestRun_FalloDeFotoEsError(t *testing.T) {
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{Snapshots: &fakeSnapshots{err: errors.New("bucket caído")}})
	_, err := uc.Run(context.Background())
	assert.ErrorContains(t, err, "bucket caído")
	assert.Nil(t, uc.LastSummary())
}

func TestRun_FalloDeArchivoNoInterrumpe(t *testing.T) {
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{Runs: &fakeRuns{err: errors.New("db caída")}})
	_, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, uc.LastSummary())
}

func TestRun_CatalogoMalFormado(t *testing.T) {
	raw := rawCatalog()
	raw.Stores[0].Demand = append(raw.Stores[0].Demand, catalog.RawLine{})
	uc := newUseCase(&fakeSource{raw: raw}, fulfillment.Options{})

	_, err := uc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestRun_Idempotente(t *testing.T) {
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{})
	a, err := uc.Run(context.Background())
	require.NoError(t, err)
	b, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Plan, b.Plan)
	assert.NotEqual(t, a.Summary.RunID, b.Summary.RunID)
}

func TestVistas_PorTiendaYPorAlmacen(t *testing.T) {
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{})
	ctx := context.Background()

	s1, err := uc.StoreAllocations(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, s1, 3)
	assert.Equal(t, "W-TOLEDO", s1[0].WarehouseID)
	assert.Equal(t, "W-LYON", s1[1].WarehouseID)
	assert.Equal(t, "2", s1[1].Quantity.String())

	s2, err := uc.StoreAllocations(ctx, "S2")
	require.NoError(t, err)
	assert.Empty(t, s2)

	empty, err := uc.WarehouseAllocations(ctx, "W-EMPTY")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = uc.StoreAllocations(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.WarehouseAllocations(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShortfalls_ReportaFaltantes(t *testing.T) {
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{})
	sf, err := uc.Shortfalls(context.Background())
	require.NoError(t, err)

	require.Len(t, sf, 2)
	assert.Equal(t, "S1", sf[0].StoreID)
	assert.Equal(t, "P2", sf[0].ProductID)
	assert.Equal(t, "1", sf[0].Missing.String())
	assert.Equal(t, "S2", sf[1].StoreID)
	assert.Equal(t, "1", sf[1].Missing.String())
}

func TestManifest_SinRecorte(t *testing.T) {
	raw := rawCatalog()
	for i := 0; i < 12; i++ {
		raw.Stores = append(raw.Stores, catalog.RawStore{
			ID: fmt.Sprintf("X%02d", i), Latitude: 39.9, Longitude: -4.0,
			Demand: []catalog.RawLine{catalog.Line("P9", "U", 1)},
		})
	}
	raw.Warehouses[0].Stock = append(raw.Warehouses[0].Stock, catalog.Line("P9", "U", 100))

	manifests := &fakeManifests{}
	uc := newUseCase(&fakeSource{raw: raw}, fulfillment.Options{Manifests: manifests})
	ctx := context.Background()

	plan, err := uc.Plan(ctx)
	require.NoError(t, err)
	assert.Len(t, plan.Warehouses[0].Shipments, 10, "la foto se recorta a 10 grupos")

	pdf, err := uc.ManifestPDF(ctx, "W-TOLEDO")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Len(t, manifests.got.Shipments, 13, "el manifiesto lleva todos los envíos")

	_, err = uc.ManifestPDF(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ws, err := uc.WarehouseManifest(ctx, "W-EMPTY")
	require.NoError(t, err)
	assert.Empty(t, ws.Shipments)
}

func TestReloadCatalog_DescartaUltimaEjecucion(t *testing.T) {
	src := &fakeSource{raw: rawCatalog()}
	uc := newUseCase(src, fulfillment.Options{})
	ctx := context.Background()

	_, err := uc.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, uc.LastSummary())
	assert.Equal(t, 1, src.loads)

	require.NoError(t, uc.ReloadCatalog(ctx))
	assert.Nil(t, uc.LastSummary())
	assert.Equal(t, 2, src.loads)

	src.err = errors.New("disco lleno")
	assert.Error(t, uc.ReloadCatalog(ctx))
	_, err = uc.Plan(ctx)
	assert.NoError(t, err, "se conserva el catálogo anterior si la recarga falla")
}

func TestLecturasConcurrentesSinEjecucionPrevia(t *testing.T) {
	runs := &fakeRuns{delay: 20 * time.Millisecond}
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{Runs: runs})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Plan(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, runs.count(), "las lecturas en frío comparten una sola ejecución")
	require.NotNil(t, uc.LastSummary())

	_, err := uc.Shortfalls(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, runs.count())
}

func TestReloadCatalog_EjecucionEnCursoNoSePublica(t *testing.T) {
	runs := &fakeRuns{entered: make(chan struct{}), release: make(chan struct{})}
	src := &fakeSource{raw: rawCatalog()}
	uc := newUseCase(src, fulfillment.Options{Runs: runs})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := uc.Run(ctx)
		done <- err
	}()

	<-runs.entered
	require.NoError(t, uc.ReloadCatalog(ctx))
	close(runs.release)
	require.NoError(t, <-done)

	assert.Nil(t, uc.LastSummary(), "el resultado sobre el catálogo anterior se descarta")
	assert.Equal(t, 1, runs.count(), "la ejecución sí queda archivada")
}

func TestRecentRuns(t *testing.T) {
	runs := &fakeRuns{}
	uc := newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{Runs: runs})
	ctx := context.Background()

	first, err := uc.Run(ctx)
	require.NoError(t, err)
	second, err := uc.Run(ctx)
	require.NoError(t, err)

	out, err := uc.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, second.Summary.RunID, out[0].RunID)
	assert.Equal(t, first.Summary.RunID, out[1].RunID)
	assert.True(t, out[0].AllocatedUnits.Equal(second.Summary.AllocatedUnits))
	assert.Equal(t, 5, runs.limit)

	_, err = uc.RecentRuns(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = newUseCase(&fakeSource{raw: rawCatalog()}, fulfillment.Options{}).RecentRuns(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
