package ports

import (
	"context"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
)

// InsightService define el puerto de salida hacia el servicio de texto generativo.
// Cualquier adaptador (Gemini, mock) debe implementar esta interfaz; la aplicación
// solo conoce este contrato.
type InsightService interface {
	// SuggestOptimizations recibe un resumen en texto de los almacenes y devuelve
	// recomendaciones de optimización de entregas.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	SuggestOptimizations(ctx context.Context, warehouseSummary string) (*dto.InsightDTO, error)
}
