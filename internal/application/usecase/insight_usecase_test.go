package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/usecase"
	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

type staticCatalog struct{ cat *catalog.Normalized }

func (s staticCatalog) Get(context.Context) (*catalog.Normalized, error) { return s.cat, nil }

type fakeInsights struct {
	summary     string
	hadDeadline bool
	err         error
}

func (f *fakeInsights) SuggestOptimizations(ctx context.Context, summary string) (*dto.InsightDTO, error) {
	f.summary = summary
	deadline, ok := ctx.Deadline()
	f.hadDeadline = ok && time.Until(deadline) <= 10*time.Second
	if f.err != nil {
		return nil, f.err
	}
	return &dto.InsightDTO{
		Model: "fake",
		Recommendations: []dto.InsightRecommendationDTO{
			{Focus: "geographic_distribution", Advice: "a"},
			{Focus: "stock_levels", Advice: "b"},
			{Focus: "bottlenecks", Advice: "c"},
		},
	}, nil
}

func insightCatalog() *catalog.Normalized {
	return &catalog.Normalized{
		Warehouses: []entity.Warehouse{{ID: "W1", Country: "ES"}, {ID: "W2", Country: "FR"}},
		Stock: []entity.StockLine{
			{WarehouseID: "W1", ProductID: "P1", Size: "M", Quantity: decimal.NewFromInt(4)},
			{WarehouseID: "W1", ProductID: "P2", Size: "L", Quantity: decimal.NewFromInt(6)},
		},
	}
}

func TestInsight_ResumenYTimeout(t *testing.T) {
	llm := &fakeInsights{}
	uc := usecase.NewInsightUseCase(staticCatalog{insightCatalog()}, llm)

	out, err := uc.SuggestOptimizations(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Recommendations, 3)
	assert.Equal(t, "Warehouse W1 in ES has 10 total items\nWarehouse W2 in FR has 0 total items", llm.summary)
	assert.True(t, llm.hadDeadline, "la llamada al LLM lleva timeout")
}

func TestInsight_SinAPIKey(t *testing.T) {
	uc := usecase.NewInsightUseCase(staticCatalog{insightCatalog()}, nil)
	_, err := uc.SuggestOptimizations(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoAPIKey)
}

func TestInsight_PropagaErrorDelLLM(t *testing.T) {
	boom := errors.New("cuota agotada")
	uc := usecase.NewInsightUseCase(staticCatalog{insightCatalog()}, &fakeInsights{err: boom})
	_, err := uc.SuggestOptimizations(context.Background())
	assert.ErrorIs(t, err, boom)
}
