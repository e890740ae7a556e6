package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-allocator/internal/application/usecase"
)

// InsightHandler maneja las recomendaciones de optimización generadas por IA.
type InsightHandler struct {
	uc *usecase.InsightUseCase
}

// NewInsightHandler construye el handler.
func NewInsightHandler(uc *usecase.InsightUseCase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

// Suggest godoc
// @Summary      Recomendaciones de optimización de entregas
// @Description  Envía el stock total por almacén al LLM y devuelve 3 recomendaciones (distribución geográfica, niveles de stock, cuellos de botella). Timeout interno de 10 s.
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InsightDTO
// @Failure      408  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/insights [get]
func (h *InsightHandler) Suggest(c *fiber.Ctx) error {
	out, err := h.uc.SuggestOptimizations(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
