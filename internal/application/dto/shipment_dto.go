package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentPlanResponse foto de salida: envíos por almacén, solo almacenes con al menos un envío.
type ShipmentPlanResponse struct {
	Warehouses []WarehouseShipmentsDTO `json:"warehouses"`
}

// WarehouseShipmentsDTO envíos de un almacén (máximo el límite configurado, 10 por defecto).
type WarehouseShipmentsDTO struct {
	WarehouseID string        `json:"warehouseId"`
	Shipments   []ShipmentDTO `json:"shipments"`
}

// ShipmentDTO envío a una tienda.
type ShipmentDTO struct {
	StoreID  string               `json:"storeId"`
	Products []ShipmentProductDTO `json:"products"`
}

// ShipmentProductDTO producto con tallas ordenadas.
type ShipmentProductDTO struct {
	ProductID string   `json:"productId"`
	Sizes     []string `json:"sizes"`
}

// AllocationRecordDTO registro de asignación en las vistas por tienda / por almacén.
type AllocationRecordDTO struct {
	StoreID     string          `json:"storeId"`
	WarehouseID string          `json:"warehouseId"`
	ProductID   string          `json:"productId"`
	Size        string          `json:"size"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ShortfallDTO demanda no cubierta de una tienda para un producto/talla.
type ShortfallDTO struct {
	StoreID   string          `json:"storeId"`
	ProductID string          `json:"productId"`
	Size      string          `json:"size"`
	Demanded  decimal.Decimal `json:"demanded"`
	Allocated decimal.Decimal `json:"allocated"`
	Missing   decimal.Decimal `json:"missing"`
}

// RunSummaryDTO métricas de una ejecución.
type RunSummaryDTO struct {
	RunID          string          `json:"runId"`
	StartedAt      time.Time       `json:"startedAt"`
	DurationMS     int64           `json:"durationMs"`
	Stores         int             `json:"stores"`
	Warehouses     int             `json:"warehouses"`
	Records        int             `json:"records"`
	AllocatedUnits decimal.Decimal `json:"allocatedUnits"`
	MissingUnits   decimal.Decimal `json:"missingUnits"`
	SnapshotURI    string          `json:"snapshotUri,omitempty"`
}

// AllocationRunResponse respuesta de POST /api/allocations/run.
type AllocationRunResponse struct {
	Summary RunSummaryDTO        `json:"summary"`
	Plan    ShipmentPlanResponse `json:"plan"`
}
