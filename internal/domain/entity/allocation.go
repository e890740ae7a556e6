package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationRecord unidad atómica de cumplimiento: Quantity (> 0) de un producto/talla
// que sale de WarehouseID hacia StoreID.
type AllocationRecord struct {
	StoreID     string          `json:"storeId"`
	WarehouseID string          `json:"warehouseId"`
	ProductID   string          `json:"productId"`
	Size        string          `json:"size"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// AllocationRun cabecera de una ejecución del asignador, usada para archivar resultados.
type AllocationRun struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Stores         int
	Warehouses     int
	Records        int
	AllocatedUnits decimal.Decimal
	MissingUnits   decimal.Decimal
	SnapshotURI    string
}
