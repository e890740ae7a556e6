package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/domain/repository"
)

var _ repository.CatalogSource = (*CatalogRepo)(nil)

// CatalogRepo lee el catálogo desde las tablas warehouses, warehouse_stock, stores,
// store_demand y products. La columna position fija el orden de catálogo, que el
// asignador usa para recorrer tiendas y desempatar almacenes.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ownedLine línea de stock o demanda con el id de su dueño (almacén o tienda).
type ownedLine struct {
	ownerID string
	line    catalog.RawLine
}

// Load lee el catálogo completo.
func (r *CatalogRepo) Load(ctx context.Context) (*catalog.Raw, error) {
	warehouses, err := r.warehouses(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := r.lines(ctx, `
		SELECT s.warehouse_id, s.product_id, s.size, s.quantity
		FROM warehouse_stock s
		ORDER BY s.warehouse_id, s.position`)
	if err != nil {
		return nil, fmt.Errorf("list warehouse stock: %w", err)
	}
	stores, err := r.stores(ctx)
	if err != nil {
		return nil, err
	}
	demand, err := r.lines(ctx, `
		SELECT d.store_id, d.product_id, d.size, d.quantity
		FROM store_demand d
		ORDER BY d.store_id, d.position`)
	if err != nil {
		return nil, fmt.Errorf("list store demand: %w", err)
	}
	products, err := r.products(ctx)
	if err != nil {
		return nil, err
	}
	return assembleCatalog(warehouses, stock, stores, demand, products), nil
}

func (r *CatalogRepo) warehouses(ctx context.Context) ([]catalog.RawWarehouse, error) {
	query := `
		SELECT id, country, latitude, longitude
		FROM warehouses ORDER BY position, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []catalog.RawWarehouse
	for rows.Next() {
		var w catalog.RawWarehouse
		if err := rows.Scan(&w.ID, &w.Country, &w.Latitude, &w.Longitude); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) stores(ctx context.Context) ([]catalog.RawStore, error) {
	query := `
		SELECT id, COALESCE(country, ''), latitude, longitude
		FROM stores ORDER BY position, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var out []catalog.RawStore
	for rows.Next() {
		var s catalog.RawStore
		if err := rows.Scan(&s.ID, &s.Country, &s.Latitude, &s.Longitude); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) products(ctx context.Context) ([]catalog.RawProduct, error) {
	rows, err := r.q.Query(ctx, `SELECT id, brand_id FROM products ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []catalog.RawProduct
	for rows.Next() {
		var p catalog.RawProduct
		if err := rows.Scan(&p.ID, &p.BrandID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// lines escanea (dueño, producto, talla, cantidad). Las columnas nulas quedan como nil
// para que el normalizador rechace la línea.
func (r *CatalogRepo) lines(ctx context.Context, query string) ([]ownedLine, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ownedLine
	for rows.Next() {
		var (
			ol  ownedLine
			qty decimal.NullDecimal
		)
		if err := rows.Scan(&ol.ownerID, &ol.line.ProductID, &ol.line.Size, &qty); err != nil {
			return nil, err
		}
		if qty.Valid {
			q := qty.Decimal
			ol.line.Quantity = &q
		}
		out = append(out, ol)
	}
	return out, rows.Err()
}

// assembleCatalog cuelga cada línea de su almacén o tienda. Las líneas de dueños inexistentes se descartan.
func assembleCatalog(
	warehouses []catalog.RawWarehouse,
	stock []ownedLine,
	stores []catalog.RawStore,
	demand []ownedLine,
	products []catalog.RawProduct,
) *catalog.Raw {
	whIdx := make(map[string]int, len(warehouses))
	for i, w := range warehouses {
		whIdx[w.ID] = i
	}
	for _, ol := range stock {
		if i, ok := whIdx[ol.ownerID]; ok {
			warehouses[i].Stock = append(warehouses[i].Stock, ol.line)
		}
	}

	stIdx := make(map[string]int, len(stores))
	for i, s := range stores {
		stIdx[s.ID] = i
	}
	for _, ol := range demand {
		if i, ok := stIdx[ol.ownerID]; ok {
			stores[i].Demand = append(stores[i].Demand, ol.line)
		}
	}
	return &catalog.Raw{Warehouses: warehouses, Stores: stores, Products: products}
}
