package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-allocator/internal/application/report"
)

// ReportHandler maneja las estadísticas del catálogo.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Estadísticas básicas del catálogo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogSummaryDTO
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Warehouses godoc
// @Summary      Stock por almacén
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WarehouseStatsDTO
// @Router       /api/reports/warehouses [get]
func (h *ReportHandler) Warehouses(c *fiber.Ctx) error {
	out, err := h.uc.WarehouseStats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Distribución de stock por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. productos (0 = todos)"
// @Success      200  {array}   dto.ProductDistributionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/products [get]
func (h *ReportHandler) Products(c *fiber.Ctx) error {
	out, err := h.uc.ProductDistribution(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sizes godoc
// @Summary      Histograma de tallas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SizeShareDTO
// @Router       /api/reports/sizes [get]
func (h *ReportHandler) Sizes(c *fiber.Ctx) error {
	out, err := h.uc.SizeHistogram(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
