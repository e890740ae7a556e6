package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-allocator/internal/application/fulfillment"
	"github.com/jhoicas/stock-allocator/internal/application/ports"
	"github.com/jhoicas/stock-allocator/internal/application/report"
	"github.com/jhoicas/stock-allocator/internal/application/usecase"
	"github.com/jhoicas/stock-allocator/internal/domain/repository"
	infraai "github.com/jhoicas/stock-allocator/internal/infrastructure/ai"
	"github.com/jhoicas/stock-allocator/internal/infrastructure/jsonfile"
	inframetrics "github.com/jhoicas/stock-allocator/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-allocator/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-allocator/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-allocator/internal/infrastructure/s3store"
	httpRouter "github.com/jhoicas/stock-allocator/internal/interfaces/http"
	"github.com/jhoicas/stock-allocator/pkg/config"
	"github.com/jhoicas/stock-allocator/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalog_source", cfg.Catalog.Source).
		Str("snapshot_driver", cfg.Snapshot.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.NeedsDB() {
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
	}

	// Catálogo: archivos JSON o tablas PostgreSQL
	var source repository.CatalogSource
	if cfg.Catalog.Source == "postgres" {
		source = postgres.NewCatalogRepository(pool)
	} else {
		source = jsonfile.NewCatalogLoader(cfg.Catalog.DataDir, jsonfile.WithCharset(cfg.Catalog.Charset))
	}
	cache := fulfillment.NewCatalogCache(source)
	if _, err := cache.Get(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga inicial del catálogo")
	}

	// Foto final de cada ejecución
	var snapshots repository.SnapshotStore
	switch cfg.Snapshot.Driver {
	case "file":
		fileStore, err := jsonfile.NewSnapshotStore(cfg.Snapshot.Dir)
		if err != nil {
			log.Fatal().Err(err).Msg("almacén de fotos en disco")
		}
		snapshots = fileStore
	case "s3":
		s3Store, err := s3store.New(ctx, s3store.Config{
			Bucket:    cfg.Snapshot.S3Bucket,
			Region:    cfg.Snapshot.S3Region,
			Endpoint:  cfg.Snapshot.S3Endpoint,
			PathStyle: cfg.Snapshot.S3PathStyle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("almacén de fotos S3")
		}
		snapshots = s3Store
	}

	var runs repository.AllocationRunRepository
	if cfg.Allocation.ArchiveRuns {
		runs = postgres.NewAllocationRunRepository(pool, postgres.NewTxRunner(pool))
	}

	metrics := inframetrics.NewAllocationMetrics()

	allocationUC := fulfillment.NewUseCase(cache, fulfillment.Options{
		ShipmentLimit: cfg.Allocation.ShipmentLimit,
		Snapshots:     snapshots,
		Runs:          runs,
		Metrics:       metrics,
		Manifests:     infrapdf.NewMarotoManifestGenerator(cfg.App.Name),
		Logger:        log,
	})
	reportUC := report.NewReportUseCase(cache)

	var insights ports.InsightService
	if cfg.AI.GeminiAPIKey != "" {
		insights = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	}
	insightUC := usecase.NewInsightUseCase(cache, insights)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Allocator API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"service":          cfg.App.Name,
			"catalog_loadedAt": cache.LoadedAt(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AllocationUC: allocationUC,
		ReportUC:     reportUC,
		InsightUC:    insightUC,
		Metrics:      metrics.Handler(),
		JWTSecret:    cfg.JWT.Secret,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API queda sin autenticación")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
