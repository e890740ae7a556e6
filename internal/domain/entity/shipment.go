package entity

// ShipmentProduct producto enviado con el conjunto ordenado de tallas.
type ShipmentProduct struct {
	ProductID string
	Sizes     []string
}

// Shipment agrupa los registros de asignación que comparten (almacén, tienda).
type Shipment struct {
	WarehouseID string
	StoreID     string
	Products    []ShipmentProduct
}

// WarehouseShipments lista de envíos (truncada) de un almacén.
type WarehouseShipments struct {
	WarehouseID string
	Shipments   []Shipment
}
