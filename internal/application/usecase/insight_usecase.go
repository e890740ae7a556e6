package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/ports"
	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
)

const insightTimeout = 10 * time.Second

// CatalogProvider origen del catálogo normalizado.
type CatalogProvider interface {
	Get(ctx context.Context) (*catalog.Normalized, error)
}

// InsightUseCase pide al LLM recomendaciones de optimización de entregas a partir del
// resumen de stock por almacén.
// Aplica un timeout de 10 segundos en cada llamada para que las latencias externas
// no bloqueen los goroutines del servidor.
type InsightUseCase struct {
	catalog CatalogProvider
	llm     ports.InsightService
}

// NewInsightUseCase construye el caso de uso. llm puede ser nil si no hay API key configurada.
func NewInsightUseCase(provider CatalogProvider, llm ports.InsightService) *InsightUseCase {
	return &InsightUseCase{catalog: provider, llm: llm}
}

// SuggestOptimizations arma el resumen y delega al servicio de LLM.
func (uc *InsightUseCase) SuggestOptimizations(ctx context.Context) (*dto.InsightDTO, error) {
	if uc.llm == nil {
		return nil, domain.ErrNoAPIKey
	}
	cat, err := uc.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	summary := WarehouseSummary(cat)

	ctx, cancel := context.WithTimeout(ctx, insightTimeout)
	defer cancel()

	result, err := uc.llm.SuggestOptimizations(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("recomendaciones IA: %w", err)
	}
	return result, nil
}

// WarehouseSummary una línea por almacén con su stock total, en orden de catálogo.
func WarehouseSummary(cat *catalog.Normalized) string {
	totals := make(map[string]decimal.Decimal, len(cat.Warehouses))
	for _, line := range cat.Stock {
		totals[line.WarehouseID] = totals[line.WarehouseID].Add(line.Quantity)
	}
	lines := make([]string, 0, len(cat.Warehouses))
	for _, w := range cat.Warehouses {
		lines = append(lines, fmt.Sprintf("Warehouse %s in %s has %s total items", w.ID, w.Country, totals[w.ID].String()))
	}
	return strings.Join(lines, "\n")
}
