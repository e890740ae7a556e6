// Package catalog define los registros crudos del catálogo (tal como llegan en JSON o
// desde la base de datos) y su normalización a tablas planas de stock y demanda.
package catalog

import "github.com/shopspring/decimal"

// RawLine sub-registro embebido de stock o demanda. Los punteros permiten distinguir
// un campo ausente de un valor cero.
type RawLine struct {
	ProductID *string          `json:"productId"`
	Size      *string          `json:"size"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

// RawWarehouse almacén con su stock embebido.
type RawWarehouse struct {
	ID        string    `json:"id"`
	Country   string    `json:"country"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Stock     []RawLine `json:"stock"`
}

// RawStore tienda con su demanda embebida. Country es opcional.
type RawStore struct {
	ID        string    `json:"id"`
	Country   string    `json:"country,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Demand    []RawLine `json:"demand"`
}

// RawProduct producto del catálogo; el asignador no lo necesita, los reportes sí.
type RawProduct struct {
	ID      string `json:"id"`
	BrandID string `json:"brandId"`
}

// Raw catálogo completo tal como lo entrega la capa de ingesta.
type Raw struct {
	Warehouses []RawWarehouse
	Stores     []RawStore
	Products   []RawProduct
}

// Line construye un RawLine con todos sus campos presentes. Útil en tests y adaptadores.
func Line(productID, size string, quantity int64) RawLine {
	q := decimal.NewFromInt(quantity)
	return RawLine{ProductID: &productID, Size: &size, Quantity: &q}
}
