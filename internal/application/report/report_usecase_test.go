package report_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/report"
	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

type staticCatalog struct {
	cat *catalog.Normalized
	err error
}

func (s staticCatalog) Get(context.Context) (*catalog.Normalized, error) {
	return s.cat, s.err
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func line(wh, product, size string, n int64) entity.StockLine {
	return entity.StockLine{WarehouseID: wh, ProductID: product, Size: size, Quantity: qty(n)}
}

func fixture() *catalog.Normalized {
	return &catalog.Normalized{
		Warehouses: []entity.Warehouse{
			{ID: "W1", Country: "es", Location: entity.Coordinate{Latitude: 40.4, Longitude: -3.7}},
			{ID: "W2", Country: "FR", Location: entity.Coordinate{Latitude: 45.7, Longitude: 4.8}},
			{ID: "W3", Country: " es "},
		},
		Stores: []entity.Store{
			{ID: "S1", Country: "pt"},
			{ID: "S2"},
			{ID: "S3", Country: "PT"},
		},
		Products: []entity.Product{
			{ID: "P1", BrandID: "B2"},
			{ID: "P2", BrandID: "B1"},
			{ID: "P3", BrandID: "B2"},
			{ID: "P4", BrandID: "B1"},
			{ID: "P5", BrandID: "B3"},
		},
		Stock: []entity.StockLine{
			line("W1", "P1", "M", 10),
			line("W1", "P1", "L", 5),
			line("W1", "P2", "M", 3),
			line("W1", "P3", "S", 2),
			line("W1", "P3", "M", 0),
			line("W2", "P1", "XL", 20),
			line("W2", "P9", "L", 10),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Summary
// ──────────────────────────────────────────────────────────────────────────────

func TestSummary_ConteosYPaises(t *testing.T) {
	uc := report.NewReportUseCase(staticCatalog{cat: fixture()})

	out, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, out.Warehouses)
	assert.Equal(t, 5, out.Products)
	assert.Equal(t, 3, out.Stores)
	assert.Equal(t, []dto.CountDTO{{Key: "B1", Count: 2}, {Key: "B2", Count: 2}, {Key: "B3", Count: 1}}, out.ProductsByBrand)
	assert.Equal(t, []dto.CountDTO{{Key: "ES", Count: 2}, {Key: "FR", Count: 1}}, out.WarehousesByCountry,
		"los países se normalizan a mayúsculas")
	assert.Equal(t, []dto.CountDTO{{Key: "PT", Count: 2}, {Key: "Unknown", Count: 1}}, out.StoresByCountry)
}

func TestSummary_TopDiezPaises(t *testing.T) {
	cat := &catalog.Normalized{}
	for i := 0; i < 15; i++ {
		cat.Warehouses = append(cat.Warehouses, entity.Warehouse{ID: fmt.Sprintf("W%d", i), Country: fmt.Sprintf("C%02d", i)})
	}
	out, err := report.NewReportUseCase(staticCatalog{cat: cat}).Summary(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.WarehousesByCountry, 10)
	assert.Equal(t, "C00", out.WarehousesByCountry[0].Key)
}

func TestSummary_SinRepartoDeTiendasEnCatalogosGrandes(t *testing.T) {
	cat := &catalog.Normalized{}
	for i := 0; i < 1001; i++ {
		cat.Stores = append(cat.Stores, entity.Store{ID: fmt.Sprintf("S%d", i), Country: "ES"})
	}
	out, err := report.NewReportUseCase(staticCatalog{cat: cat}).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1001, out.Stores)
	assert.Nil(t, out.StoresByCountry)
}

func TestSummary_PropagaErrorDelCatalogo(t *testing.T) {
	boom := errors.New("catálogo no disponible")
	_, err := report.NewReportUseCase(staticCatalog{err: boom}).Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}

// ──────────────────────────────────────────────────────────────────────────────
// WarehouseStats / ProductDistribution / SizeHistogram
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseStats(t *testing.T) {
	out, err := report.NewReportUseCase(staticCatalog{cat: fixture()}).WarehouseStats(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	w1 := out[0]
	assert.Equal(t, "W1", w1.ID)
	assert.Equal(t, "ES", w1.Country)
	assert.True(t, w1.TotalStock.Equal(qty(20)))
	assert.Equal(t, 3, w1.UniqueProducts)
	assert.Equal(t, []string{"M", "L", "S"}, w1.TopSizes)
	assert.Equal(t, 40.4, w1.Latitude)

	w3 := out[2]
	assert.True(t, w3.TotalStock.IsZero())
	assert.Equal(t, 0, w3.UniqueProducts)
	assert.Empty(t, w3.TopSizes)
}

func TestProductDistribution(t *testing.T) {
	uc := report.NewReportUseCase(staticCatalog{cat: fixture()})

	out, err := uc.ProductDistribution(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "P1", out[0].ProductID)
	assert.Equal(t, "B2", out[0].BrandID)
	assert.True(t, out[0].TotalQuantity.Equal(qty(35)))
	assert.Equal(t, "P9", out[1].ProductID)
	assert.Equal(t, "unknown", out[1].BrandID, "producto sin ficha en el catálogo")

	top, err := uc.ProductDistribution(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	_, err = uc.ProductDistribution(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSizeHistogram(t *testing.T) {
	out, err := report.NewReportUseCase(staticCatalog{cat: fixture()}).SizeHistogram(context.Background())
	require.NoError(t, err)

	got := make(map[string]string, len(out))
	for _, row := range out {
		got[row.Size] = row.Percentage.StringFixed(2)
	}
	// total 50: XL 20, L 15, M 13, S 2
	assert.Equal(t, "XL", out[0].Size)
	assert.Equal(t, map[string]string{"XL": "40.00", "L": "30.00", "M": "26.00", "S": "4.00"}, got)
}

func TestSizeHistogram_SinStock(t *testing.T) {
	cat := &catalog.Normalized{Stock: []entity.StockLine{line("W1", "P1", "M", 0)}}
	out, err := report.NewReportUseCase(staticCatalog{cat: cat}).SizeHistogram(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Percentage.IsZero())
}
