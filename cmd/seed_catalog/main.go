// seed_catalog genera un script SQL que puebla las tablas del catálogo (warehouses,
// warehouse_stock, stores, store_demand, products) a partir de los archivos JSON.
//
// Uso: go run ./cmd/seed_catalog [dataDir] [salida.sql]
// Por defecto lee ./data y escribe migrations/002_seed_catalog.sql.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/infrastructure/jsonfile"
)

func main() {
	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "migrations", "002_seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	charset := os.Getenv("CATALOG_CHARSET")
	raw, err := jsonfile.NewCatalogLoader(dataDir, jsonfile.WithCharset(charset)).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}
	// Solo se siembran catálogos que el asignador aceptaría.
	if _, err := catalog.Normalize(*raw); err != nil {
		fmt.Fprintf(os.Stderr, "Catálogo inválido: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	var b strings.Builder
	b.WriteString("-- Catálogo del asignador\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", dataDir)

	b.WriteString("-- 1. Almacenes y stock\n")
	for i, w := range raw.Warehouses {
		fmt.Fprintf(&b, "INSERT INTO warehouses (id, country, latitude, longitude, position) VALUES (%s, %s, %v, %v, %d)\n",
			quote(w.ID), quote(w.Country), w.Latitude, w.Longitude, i)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET country = EXCLUDED.country, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, position = EXCLUDED.position;\n")
		writeLines(&b, "warehouse_stock", "warehouse_id", w.ID, w.Stock)
	}

	b.WriteString("\n-- 2. Tiendas y demanda\n")
	for i, s := range raw.Stores {
		country := "NULL"
		if s.Country != "" {
			country = quote(s.Country)
		}
		fmt.Fprintf(&b, "INSERT INTO stores (id, country, latitude, longitude, position) VALUES (%s, %s, %v, %v, %d)\n",
			quote(s.ID), country, s.Latitude, s.Longitude, i)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET country = EXCLUDED.country, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, position = EXCLUDED.position;\n")
		writeLines(&b, "store_demand", "store_id", s.ID, s.Demand)
	}

	b.WriteString("\n-- 3. Productos\n")
	for i, p := range raw.Products {
		fmt.Fprintf(&b, "INSERT INTO products (id, brand_id, position) VALUES (%s, %s, %d)\n",
			quote(p.ID), quote(p.BrandID), i)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET brand_id = EXCLUDED.brand_id, position = EXCLUDED.position;\n")
	}

	if _, err := out.WriteString(b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir archivo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d almacenes, %d tiendas, %d productos\n",
		outPath, len(raw.Warehouses), len(raw.Stores), len(raw.Products))
}

// writeLines reemplaza las líneas del dueño para que el script sea re-ejecutable.
func writeLines(b *strings.Builder, table, ownerCol, ownerID string, lines []catalog.RawLine) {
	fmt.Fprintf(b, "DELETE FROM %s WHERE %s = %s;\n", table, ownerCol, quote(ownerID))
	for i, l := range lines {
		product, size, qty := "NULL", "NULL", "NULL"
		if l.ProductID != nil {
			product = quote(*l.ProductID)
		}
		if l.Size != nil {
			size = quote(*l.Size)
		}
		if l.Quantity != nil {
			qty = l.Quantity.String()
		}
		fmt.Fprintf(b, "INSERT INTO %s (%s, position, product_id, size, quantity) VALUES (%s, %d, %s, %s, %s);\n",
			table, ownerCol, quote(ownerID), i, product, size, qty)
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
