package entity

// Product referencia de catálogo; las líneas de stock y demanda lo citan por ID.
type Product struct {
	ID      string
	BrandID string
}
