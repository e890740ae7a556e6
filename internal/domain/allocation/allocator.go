// Package allocation implementa el asignador voraz por cercanía: cada tienda consume stock
// de los almacenes más cercanos primero, y el formateador agrupa el resultado en envíos.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// Result las dos vistas paralelas de una ejecución: lo que recibe cada tienda y lo que
// envía cada almacén. Todo almacén y toda tienda del catálogo tienen entrada (lista vacía
// si no participan). StoreOrder y WarehouseOrder conservan el orden de los catálogos.
type Result struct {
	StoreOrder     []string
	WarehouseOrder []string
	ByStore        map[string][]entity.AllocationRecord
	ByWarehouse    map[string][]entity.AllocationRecord
}

// Allocate reparte la demanda de las tiendas contra el stock de los almacenes.
//
// Orden de proceso: tiendas en orden de catálogo; por tienda, sus líneas de demanda en
// orden de entrada; por línea, los almacenes de más cercano a más lejano (desempate por
// orden de catálogo). De cada almacén se toma min(pendiente, disponible) hasta cubrir la
// línea o agotar candidatos. La demanda no cubierta no genera error ni registro.
//
// La función es determinista: mismas entradas en el mismo orden producen los mismos registros.
func Allocate(
	warehouses []entity.Warehouse,
	stores []entity.Store,
	stock []entity.StockLine,
	demand []entity.DemandLine,
) *Result {
	res := &Result{
		StoreOrder:     make([]string, 0, len(stores)),
		WarehouseOrder: make([]string, 0, len(warehouses)),
		ByStore:        make(map[string][]entity.AllocationRecord, len(stores)),
		ByWarehouse:    make(map[string][]entity.AllocationRecord, len(warehouses)),
	}
	for _, wh := range warehouses {
		res.WarehouseOrder = append(res.WarehouseOrder, wh.ID)
		res.ByWarehouse[wh.ID] = []entity.AllocationRecord{}
	}
	for _, st := range stores {
		res.StoreOrder = append(res.StoreOrder, st.ID)
		res.ByStore[st.ID] = []entity.AllocationRecord{}
	}

	demandByStore := make(map[string][]entity.DemandLine, len(stores))
	for _, d := range demand {
		demandByStore[d.StoreID] = append(demandByStore[d.StoreID], d)
	}

	matrix := NewDistanceMatrix(stores, warehouses)
	ledger := NewStockLedger(stock)

	for s, st := range stores {
		lines := demandByStore[st.ID]
		if len(lines) == 0 {
			continue
		}
		candidates := matrix.NearestFirst(s)
		for _, line := range lines {
			need := line.Quantity
			for _, w := range candidates {
				if !need.IsPositive() {
					break
				}
				wid := warehouses[w].ID
				qty := ledger.Take(entity.StockKey{WarehouseID: wid, ProductID: line.ProductID, Size: line.Size}, need)
				if qty.IsZero() {
					continue
				}
				need = need.Sub(qty)
				rec := entity.AllocationRecord{
					StoreID:     st.ID,
					WarehouseID: wid,
					ProductID:   line.ProductID,
					Size:        line.Size,
					Quantity:    qty,
				}
				res.ByStore[st.ID] = append(res.ByStore[st.ID], rec)
				res.ByWarehouse[wid] = append(res.ByWarehouse[wid], rec)
			}
		}
	}

	return res
}

// Records todos los registros en el orden en que se generaron (tienda a tienda).
func (r *Result) Records() []entity.AllocationRecord {
	var out []entity.AllocationRecord
	for _, sid := range r.StoreOrder {
		out = append(out, r.ByStore[sid]...)
	}
	return out
}

// AllocatedUnits suma de cantidades asignadas en toda la ejecución.
func (r *Result) AllocatedUnits() decimal.Decimal {
	total := decimal.Zero
	for _, sid := range r.StoreOrder {
		for _, rec := range r.ByStore[sid] {
			total = total.Add(rec.Quantity)
		}
	}
	return total
}
