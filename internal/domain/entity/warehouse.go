package entity

// Warehouse representa un almacén de origen. El orden del catálogo es significativo:
// desempata distancias iguales y fija el orden de salida de los envíos.
type Warehouse struct {
	ID       string
	Country  string
	Location Coordinate
}
