// Package geo calcula distancias sobre la superficie terrestre.
package geo

import (
	"math"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// EarthRadiusKm radio medio de la Tierra en kilómetros.
const EarthRadiusKm = 6371.0

// Haversine devuelve la distancia de círculo máximo entre a y b en kilómetros.
// No valida rangos de latitud/longitud.
func Haversine(a, b entity.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// El redondeo puede dejar h apenas fuera de [0, 1] en puntos casi antípodas.
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
