package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-allocator/internal/application/fulfillment"
	"github.com/jhoicas/stock-allocator/internal/application/report"
	"github.com/jhoicas/stock-allocator/internal/application/usecase"
	"github.com/jhoicas/stock-allocator/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AllocationUC *fulfillment.UseCase
	ReportUC     *report.ReportUseCase
	InsightUC    *usecase.InsightUseCase
	Metrics      http.Handler // opcional; expone GET /metrics
	JWTSecret    string       // vacío = API sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	planner := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		planner = RequireRole(jwt.RolePlanner)
	}

	allocationHandler := NewAllocationHandler(deps.AllocationUC)
	allocations := api.Group("/allocations")
	allocations.Post("/run", planner, allocationHandler.Run)
	allocations.Get("/last", allocationHandler.LastRun)
	allocations.Get("/runs", allocationHandler.Runs)
	allocations.Get("/shortfalls", allocationHandler.Shortfalls)
	allocations.Get("/stores/:id", allocationHandler.StoreAllocations)
	allocations.Get("/warehouses/:id", allocationHandler.WarehouseAllocations)

	shipments := api.Group("/shipments")
	shipments.Get("/", allocationHandler.Shipments)
	shipments.Get("/:warehouseId/manifest.pdf", allocationHandler.ManifestPDF)

	api.Post("/catalog/reload", planner, allocationHandler.ReloadCatalog)

	if deps.ReportUC != nil {
		reportHandler := NewReportHandler(deps.ReportUC)
		reports := api.Group("/reports")
		reports.Get("/summary", reportHandler.Summary)
		reports.Get("/warehouses", reportHandler.Warehouses)
		reports.Get("/products", reportHandler.Products)
		reports.Get("/sizes", reportHandler.Sizes)
	}

	if deps.InsightUC != nil {
		api.Get("/insights", NewInsightHandler(deps.InsightUC).Suggest)
	}
}
