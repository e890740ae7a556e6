package http

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/fulfillment"
)

// AllocationHandler maneja las ejecuciones del asignador y la consulta de envíos.
type AllocationHandler struct {
	uc *fulfillment.UseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *fulfillment.UseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc}
}

// Run godoc
// @Summary      Ejecutar la asignación
// @Description  Reparte la demanda de las tiendas contra el stock de los almacenes (más cercano primero) y devuelve el resumen y la foto de envíos. Requiere rol planner.
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AllocationRunResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/allocations/run [post]
func (h *AllocationHandler) Run(c *fiber.Ctx) error {
	out, err := h.uc.Run(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LastRun godoc
// @Summary      Resumen de la última ejecución
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RunSummaryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/last [get]
func (h *AllocationHandler) LastRun(c *fiber.Ctx) error {
	s := h.uc.LastSummary()
	if s == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "todavía no hay ejecuciones",
		})
	}
	return c.JSON(s)
}

// Shipments godoc
// @Summary      Envíos por almacén
// @Description  Foto de salida de la última ejecución (se ejecuta una si no hay ninguna).
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShipmentPlanResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/shipments [get]
func (h *AllocationHandler) Shipments(c *fiber.Ctx) error {
	plan, err := h.uc.Plan(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(plan)
}

// ManifestPDF godoc
// @Summary      Manifiesto PDF de un almacén
// @Tags         shipments
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouseId  path  string  true  "ID del almacén"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{warehouseId}/manifest.pdf [get]
func (h *AllocationHandler) ManifestPDF(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	pdf, err := h.uc.ManifestPDF(c.Context(), warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, manifestDisposition(warehouseID))
	return c.Send(pdf)
}

// manifestDisposition cabecera inline con el nombre de archivo escapado (RFC 2183 / 2231).
func manifestDisposition(warehouseID string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": "manifest-" + warehouseID + ".pdf"}); v != "" {
		return v
	}
	return `inline; filename="manifest.pdf"`
}

// Runs godoc
// @Summary      Ejecuciones archivadas
// @Description  Últimas ejecuciones guardadas en PostgreSQL, de la más reciente a la más antigua.
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. ejecuciones (0 = por defecto, 20)"
// @Success      200  {array}   dto.RunSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/runs [get]
func (h *AllocationHandler) Runs(c *fiber.Ctx) error {
	out, err := h.uc.RecentRuns(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StoreAllocations godoc
// @Summary      Asignaciones recibidas por una tienda
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {array}   dto.AllocationRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/stores/{id} [get]
func (h *AllocationHandler) StoreAllocations(c *fiber.Ctx) error {
	out, err := h.uc.StoreAllocations(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// WarehouseAllocations godoc
// @Summary      Asignaciones que envía un almacén
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del almacén"
// @Success      200  {array}   dto.AllocationRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/warehouses/{id} [get]
func (h *AllocationHandler) WarehouseAllocations(c *fiber.Ctx) error {
	out, err := h.uc.WarehouseAllocations(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Shortfalls godoc
// @Summary      Demanda no cubierta
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShortfallDTO
// @Router       /api/allocations/shortfalls [get]
func (h *AllocationHandler) Shortfalls(c *fiber.Ctx) error {
	out, err := h.uc.Shortfalls(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReloadCatalog godoc
// @Summary      Recargar el catálogo
// @Description  Vuelve a leer almacenes, tiendas y productos y descarta la última ejecución. Requiere rol planner.
// @Tags         catalog
// @Security     Bearer
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/catalog/reload [post]
func (h *AllocationHandler) ReloadCatalog(c *fiber.Ctx) error {
	if err := h.uc.ReloadCatalog(c.Context()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
