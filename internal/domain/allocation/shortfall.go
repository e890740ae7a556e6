package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// Shortfall demanda no cubierta de una tienda para un producto/talla.
type Shortfall struct {
	StoreID   string
	ProductID string
	Size      string
	Demanded  decimal.Decimal
	Allocated decimal.Decimal
	Missing   decimal.Decimal
}

type demandKey struct {
	storeID, productID, size string
}

// Shortfalls compara la demanda original con lo asignado y devuelve solo las claves con
// faltante, en orden de primera aparición de la demanda. El asignador no reporta faltantes
// por sí mismo; esta es la vista para quien los necesite.
func (r *Result) Shortfalls(demand []entity.DemandLine) []Shortfall {
	var order []demandKey
	demanded := make(map[demandKey]decimal.Decimal)
	for _, d := range demand {
		if _, known := r.ByStore[d.StoreID]; !known {
			continue
		}
		k := demandKey{d.StoreID, d.ProductID, d.Size}
		if _, ok := demanded[k]; !ok {
			order = append(order, k)
		}
		demanded[k] = demanded[k].Add(d.Quantity)
	}

	allocated := make(map[demandKey]decimal.Decimal)
	for _, sid := range r.StoreOrder {
		for _, rec := range r.ByStore[sid] {
			k := demandKey{rec.StoreID, rec.ProductID, rec.Size}
			allocated[k] = allocated[k].Add(rec.Quantity)
		}
	}

	var out []Shortfall
	for _, k := range order {
		missing := demanded[k].Sub(allocated[k])
		if !missing.IsPositive() {
			continue
		}
		out = append(out, Shortfall{
			StoreID:   k.storeID,
			ProductID: k.productID,
			Size:      k.size,
			Demanded:  demanded[k],
			Allocated: allocated[k],
			Missing:   missing,
		})
	}
	return out
}

// MissingUnits suma de faltantes.
func MissingUnits(shortfalls []Shortfall) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shortfalls {
		total = total.Add(s.Missing)
	}
	return total
}
