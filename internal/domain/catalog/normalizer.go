package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// Normalized catálogo aplanado, en el mismo orden de entrada.
type Normalized struct {
	Warehouses []entity.Warehouse
	Stores     []entity.Store
	Products   []entity.Product
	Stock      []entity.StockLine
	Demand     []entity.DemandLine
}

// Normalize convierte el catálogo crudo en tablas planas de stock y demanda.
//
// Política de cantidades: una cantidad negativa rechaza todo el lote con
// domain.ErrNegativeQuantity; una cantidad cero se acepta y simplemente nunca se asigna.
// Una línea sin productId, size o quantity rechaza el lote con domain.ErrMalformedRecord.
// No se deduplican líneas: claves repetidas se suman al construir el libro de stock.
func Normalize(raw Raw) (*Normalized, error) {
	out := &Normalized{
		Warehouses: make([]entity.Warehouse, 0, len(raw.Warehouses)),
		Stores:     make([]entity.Store, 0, len(raw.Stores)),
		Products:   make([]entity.Product, 0, len(raw.Products)),
	}

	seenWh := make(map[string]struct{}, len(raw.Warehouses))
	for i, wh := range raw.Warehouses {
		if wh.ID == "" {
			return nil, fmt.Errorf("almacén #%d sin id: %w", i, domain.ErrMalformedRecord)
		}
		if _, dup := seenWh[wh.ID]; dup {
			return nil, fmt.Errorf("almacén %q: %w", wh.ID, domain.ErrDuplicate)
		}
		seenWh[wh.ID] = struct{}{}

		out.Warehouses = append(out.Warehouses, entity.Warehouse{
			ID:       wh.ID,
			Country:  wh.Country,
			Location: entity.Coordinate{Latitude: wh.Latitude, Longitude: wh.Longitude},
		})
		for j, line := range wh.Stock {
			productID, size, qty, err := validateLine(line)
			if err != nil {
				return nil, fmt.Errorf("almacén %q, stock #%d: %w", wh.ID, j, err)
			}
			out.Stock = append(out.Stock, entity.StockLine{
				WarehouseID: wh.ID,
				ProductID:   productID,
				Size:        size,
				Quantity:    qty,
			})
		}
	}

	seenSt := make(map[string]struct{}, len(raw.Stores))
	for i, st := range raw.Stores {
		if st.ID == "" {
			return nil, fmt.Errorf("tienda #%d sin id: %w", i, domain.ErrMalformedRecord)
		}
		if _, dup := seenSt[st.ID]; dup {
			return nil, fmt.Errorf("tienda %q: %w", st.ID, domain.ErrDuplicate)
		}
		seenSt[st.ID] = struct{}{}

		out.Stores = append(out.Stores, entity.Store{
			ID:       st.ID,
			Country:  st.Country,
			Location: entity.Coordinate{Latitude: st.Latitude, Longitude: st.Longitude},
		})
		for j, line := range st.Demand {
			productID, size, qty, err := validateLine(line)
			if err != nil {
				return nil, fmt.Errorf("tienda %q, demanda #%d: %w", st.ID, j, err)
			}
			out.Demand = append(out.Demand, entity.DemandLine{
				StoreID:   st.ID,
				ProductID: productID,
				Size:      size,
				Quantity:  qty,
			})
		}
	}

	for i, p := range raw.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("producto #%d sin id: %w", i, domain.ErrMalformedRecord)
		}
		out.Products = append(out.Products, entity.Product{ID: p.ID, BrandID: p.BrandID})
	}

	return out, nil
}

func validateLine(line RawLine) (productID, size string, qty decimal.Decimal, err error) {
	switch {
	case line.ProductID == nil || *line.ProductID == "":
		return "", "", qty, fmt.Errorf("falta productId: %w", domain.ErrMalformedRecord)
	case line.Size == nil || *line.Size == "":
		return "", "", qty, fmt.Errorf("falta size: %w", domain.ErrMalformedRecord)
	case line.Quantity == nil:
		return "", "", qty, fmt.Errorf("falta quantity: %w", domain.ErrMalformedRecord)
	case line.Quantity.IsNegative():
		return "", "", qty, fmt.Errorf("quantity %s: %w", line.Quantity.String(), domain.ErrNegativeQuantity)
	}
	return *line.ProductID, *line.Size, *line.Quantity, nil
}
