package allocation

import (
	"sort"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
	"github.com/jhoicas/stock-allocator/internal/domain/geo"
)

// DistanceMatrix distancias tienda × almacén en km, calculadas una sola vez por ejecución.
// Los índices siguen el orden de los catálogos recibidos.
type DistanceMatrix struct {
	km [][]float64
}

// NewDistanceMatrix calcula la matriz completa con la fórmula de haversine (O(S×W)).
func NewDistanceMatrix(stores []entity.Store, warehouses []entity.Warehouse) DistanceMatrix {
	km := make([][]float64, len(stores))
	for s, st := range stores {
		row := make([]float64, len(warehouses))
		for w, wh := range warehouses {
			row[w] = geo.Haversine(st.Location, wh.Location)
		}
		km[s] = row
	}
	return DistanceMatrix{km: km}
}

// At distancia entre la tienda s y el almacén w.
func (m DistanceMatrix) At(s, w int) float64 {
	return m.km[s][w]
}

// NearestFirst índices de almacenes ordenados por distancia ascendente a la tienda s.
// El orden es estable: a igual distancia gana el almacén que aparece antes en el catálogo.
func (m DistanceMatrix) NearestFirst(s int) []int {
	idx := make([]int, len(m.km[s]))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return m.At(s, idx[i]) < m.At(s, idx[j])
	})
	return idx
}
