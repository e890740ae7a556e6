package dto

import "github.com/shopspring/decimal"

// CountDTO par etiqueta/conteo (marcas, países).
type CountDTO struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CatalogSummaryDTO estadísticas básicas del catálogo.
type CatalogSummaryDTO struct {
	Warehouses          int        `json:"warehouses"`
	Products            int        `json:"products"`
	Stores              int        `json:"stores"`
	ProductsByBrand     []CountDTO `json:"productsByBrand"`
	WarehousesByCountry []CountDTO `json:"warehousesByCountry"`
	// StoresByCountry solo se calcula con catálogos de hasta 1000 tiendas.
	StoresByCountry []CountDTO `json:"storesByCountry,omitempty"`
}

// WarehouseStatsDTO estadísticas de stock de un almacén.
type WarehouseStatsDTO struct {
	ID             string          `json:"id"`
	Country        string          `json:"country"`
	TotalStock     decimal.Decimal `json:"totalStock"`
	UniqueProducts int             `json:"uniqueProducts"`
	TopSizes       []string        `json:"topSizes"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
}

// ProductDistributionDTO stock total de un producto entre todos los almacenes.
type ProductDistributionDTO struct {
	ProductID     string          `json:"productId"`
	BrandID       string          `json:"brandId"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
}

// SizeShareDTO fila del histograma de tallas.
type SizeShareDTO struct {
	Size       string          `json:"size"`
	Quantity   decimal.Decimal `json:"quantity"`
	Percentage decimal.Decimal `json:"percentage"`
}
