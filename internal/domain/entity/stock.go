package entity

import "github.com/shopspring/decimal"

// StockKey identifica una posición del libro de stock: (almacén, producto, talla).
type StockKey struct {
	WarehouseID string
	ProductID   string
	Size        string
}

// StockLine unidades disponibles de un producto/talla en un almacén (Quantity >= 0).
type StockLine struct {
	WarehouseID string
	ProductID   string
	Size        string
	Quantity    decimal.Decimal
}

// Key devuelve la clave del libro de stock para la línea.
func (l StockLine) Key() StockKey {
	return StockKey{WarehouseID: l.WarehouseID, ProductID: l.ProductID, Size: l.Size}
}

// DemandLine unidades que una tienda necesita de un producto/talla (Quantity >= 0).
type DemandLine struct {
	StoreID   string
	ProductID string
	Size      string
	Quantity  decimal.Decimal
}
