// allocate ejecuta el asignador una vez sobre los archivos JSON del catálogo y escribe
// los envíos resultantes.
//
// Uso: go run ./cmd/allocate [dataDir] [outFile]
// Por defecto lee ./data y escribe en stdout. El log va a stderr.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/jhoicas/stock-allocator/internal/application/fulfillment"
	"github.com/jhoicas/stock-allocator/internal/domain/allocation"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/infrastructure/jsonfile"
	"github.com/jhoicas/stock-allocator/pkg/config"
	"github.com/jhoicas/stock-allocator/pkg/logger"
)

func main() {
	log := logger.NewWithWriter(os.Stderr, "info").Component("allocate")

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("cargar configuración")
		os.Exit(1)
	}

	dataDir := cfg.Catalog.DataDir
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	ctx := context.Background()
	raw, err := jsonfile.NewCatalogLoader(dataDir, jsonfile.WithCharset(cfg.Catalog.Charset)).Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("dir", dataDir).Msg("leer catálogo")
		os.Exit(1)
	}
	cat, err := catalog.Normalize(*raw)
	if err != nil {
		log.Error().Err(err).Str("dir", dataDir).Msg("catálogo inválido")
		os.Exit(1)
	}

	result := allocation.Allocate(cat.Warehouses, cat.Stores, cat.Stock, cat.Demand)
	plan := fulfillment.ToPlanResponse(allocation.FormatShipments(result.WarehouseOrder, result.ByWarehouse, cfg.Allocation.ShipmentLimit))

	payload, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("serializar envíos")
		os.Exit(1)
	}
	payload = append(payload, '\n')

	if len(os.Args) > 2 {
		if err := os.WriteFile(os.Args[2], payload, 0o644); err != nil {
			log.Error().Err(err).Str("out", os.Args[2]).Msg("escribir salida")
			os.Exit(1)
		}
	} else if _, err := os.Stdout.Write(payload); err != nil {
		log.Error().Err(err).Msg("escribir salida")
		os.Exit(1)
	}

	missing := allocation.MissingUnits(result.Shortfalls(cat.Demand))
	log.Info().
		Int("warehouses", len(plan.Warehouses)).
		Int("records", len(result.Records())).
		Str("allocated", result.AllocatedUnits().String()).
		Str("missing", missing.String()).
		Msg("asignación completada")
}
