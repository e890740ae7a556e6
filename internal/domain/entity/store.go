package entity

// Store representa una tienda destino. Country es opcional (vacío si no viene en el catálogo).
type Store struct {
	ID       string
	Country  string
	Location Coordinate
}
