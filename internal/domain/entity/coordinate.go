package entity

// Coordinate punto geográfico en grados decimales (WGS 84). No se valida el rango.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
