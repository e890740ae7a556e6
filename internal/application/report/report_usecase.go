// Package report contiene las estadísticas de catálogo: conteos básicos, stock por almacén,
// distribución de productos e histograma de tallas.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
)

const (
	topCountries     = 10
	topSizesPerWh    = 3
	maxStoresForStat = 1000 // por encima no se calcula el reparto de tiendas por país
	unknownCountry   = "Unknown"
	unknownBrand     = "unknown"
)

var hundred = decimal.NewFromInt(100)

// CatalogProvider origen del catálogo normalizado (la caché del asignador lo implementa).
type CatalogProvider interface {
	Get(ctx context.Context) (*catalog.Normalized, error)
}

// ReportUseCase calcula las estadísticas sobre el catálogo en memoria. Solo lectura.
type ReportUseCase struct {
	catalog CatalogProvider
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(provider CatalogProvider) *ReportUseCase {
	return &ReportUseCase{catalog: provider}
}

// Summary conteos de almacenes, productos y tiendas; productos por marca; almacenes y tiendas por país.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.CatalogSummaryDTO, error) {
	cat, err := uc.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	up := cases.Upper(language.Und)
	brands := newCounter()
	for _, p := range cat.Products {
		brands.add(p.BrandID)
	}
	whCountries := newCounter()
	for _, w := range cat.Warehouses {
		whCountries.add(country(up, w.Country))
	}

	out := &dto.CatalogSummaryDTO{
		Warehouses:          len(cat.Warehouses),
		Products:            len(cat.Products),
		Stores:              len(cat.Stores),
		ProductsByBrand:     brands.mostCommon(0),
		WarehousesByCountry: whCountries.mostCommon(topCountries),
	}

	if len(cat.Stores) <= maxStoresForStat {
		stCountries := newCounter()
		for _, s := range cat.Stores {
			stCountries.add(country(up, s.Country))
		}
		out.StoresByCountry = stCountries.mostCommon(topCountries)
	}
	return out, nil
}

// WarehouseStats stock total, productos únicos y tallas más frecuentes por almacén, en orden de catálogo.
func (uc *ReportUseCase) WarehouseStats(ctx context.Context) ([]dto.WarehouseStatsDTO, error) {
	cat, err := uc.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		total    decimal.Decimal
		products map[string]struct{}
		sizes    *counter
	}
	byWh := make(map[string]*acc, len(cat.Warehouses))
	for _, w := range cat.Warehouses {
		byWh[w.ID] = &acc{products: make(map[string]struct{}), sizes: newCounter()}
	}
	for _, line := range cat.Stock {
		a := byWh[line.WarehouseID]
		a.total = a.total.Add(line.Quantity)
		a.products[line.ProductID] = struct{}{}
		a.sizes.add(line.Size)
	}

	up := cases.Upper(language.Und)
	out := make([]dto.WarehouseStatsDTO, 0, len(cat.Warehouses))
	for _, w := range cat.Warehouses {
		a := byWh[w.ID]
		top := make([]string, 0, topSizesPerWh)
		for _, c := range a.sizes.mostCommon(topSizesPerWh) {
			top = append(top, c.Key)
		}
		out = append(out, dto.WarehouseStatsDTO{
			ID:             w.ID,
			Country:        country(up, w.Country),
			TotalStock:     a.total,
			UniqueProducts: len(a.products),
			TopSizes:       top,
			Latitude:       w.Location.Latitude,
			Longitude:      w.Location.Longitude,
		})
	}
	return out, nil
}

// ProductDistribution stock total por producto entre todos los almacenes, de mayor a menor.
// limit 0 devuelve todos; negativo es domain.ErrInvalidInput.
func (uc *ReportUseCase) ProductDistribution(ctx context.Context, limit int) ([]dto.ProductDistributionDTO, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, domain.ErrInvalidInput)
	}
	cat, err := uc.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	brandOf := make(map[string]string, len(cat.Products))
	for _, p := range cat.Products {
		brandOf[p.ID] = p.BrandID
	}

	var order []string
	totals := make(map[string]decimal.Decimal)
	for _, line := range cat.Stock {
		if _, ok := totals[line.ProductID]; !ok {
			order = append(order, line.ProductID)
		}
		totals[line.ProductID] = totals[line.ProductID].Add(line.Quantity)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]].GreaterThan(totals[order[j]])
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]dto.ProductDistributionDTO, 0, len(order))
	for _, id := range order {
		brand, ok := brandOf[id]
		if !ok {
			brand = unknownBrand
		}
		out = append(out, dto.ProductDistributionDTO{ProductID: id, BrandID: brand, TotalQuantity: totals[id]})
	}
	return out, nil
}

// SizeHistogram unidades en stock por talla con su porcentaje (2 decimales), de mayor a menor.
func (uc *ReportUseCase) SizeHistogram(ctx context.Context) ([]dto.SizeShareDTO, error) {
	cat, err := uc.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	var order []string
	bySize := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, line := range cat.Stock {
		if _, ok := bySize[line.Size]; !ok {
			order = append(order, line.Size)
		}
		bySize[line.Size] = bySize[line.Size].Add(line.Quantity)
		total = total.Add(line.Quantity)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bySize[order[i]].GreaterThan(bySize[order[j]])
	})

	out := make([]dto.SizeShareDTO, 0, len(order))
	for _, size := range order {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = bySize[size].Mul(hundred).Div(total).Round(2)
		}
		out = append(out, dto.SizeShareDTO{Size: size, Quantity: bySize[size], Percentage: pct})
	}
	return out, nil
}

// country normaliza la etiqueta de país a mayúsculas. Un Caser no se comparte entre goroutines.
func country(up cases.Caser, raw string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return unknownCountry
	}
	return up.String(c)
}

type counter struct {
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	c.counts[key]++
}

// mostCommon de mayor a menor conteo, empates por clave; n <= 0 devuelve todos.
func (c *counter) mostCommon(n int) []dto.CountDTO {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c.counts[keys[i]] != c.counts[keys[j]] {
			return c.counts[keys[i]] > c.counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	out := make([]dto.CountDTO, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.CountDTO{Key: k, Count: c.counts[k]})
	}
	return out
}
