package allocation_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-allocator/internal/domain/allocation"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

func rec(wid, sid, pid, size string) entity.AllocationRecord {
	return entity.AllocationRecord{WarehouseID: wid, StoreID: sid, ProductID: pid, Size: size, Quantity: decimal.NewFromInt(1)}
}

func TestFormatShipments_AgrupaPorTiendaYProducto(t *testing.T) {
	byWarehouse := map[string][]entity.AllocationRecord{
		"W1": {
			rec("W1", "S2", "P9", "XL"),
			rec("W1", "S1", "P1", "M"),
			rec("W1", "S2", "P1", "L"),
			rec("W1", "S2", "P9", "S"),
			rec("W1", "S2", "P9", "XL"),
		},
	}
	out := allocation.FormatShipments([]string{"W1"}, byWarehouse, allocation.DefaultShipmentLimit)

	require.Len(t, out, 1)
	require.Len(t, out[0].Shipments, 2)

	first := out[0].Shipments[0]
	assert.Equal(t, "S2", first.StoreID, "las tiendas siguen el orden de primera aparición")
	assert.Equal(t, "W1", first.WarehouseID)
	require.Len(t, first.Products, 2)
	assert.Equal(t, "P9", first.Products[0].ProductID)
	assert.Equal(t, []string{"S", "XL"}, first.Products[0].Sizes, "tallas como conjunto ordenado")
	assert.Equal(t, "P1", first.Products[1].ProductID)

	assert.Equal(t, "S1", out[0].Shipments[1].StoreID)
}

func TestFormatShipments_RecortaADiezGruposEnOrdenDeAparicion(t *testing.T) {
	var recs []entity.AllocationRecord
	for i := 0; i < 12; i++ {
		sid := fmt.Sprintf("S%02d", i)
		recs = append(recs, rec("W1", sid, "P1", "M"), rec("W1", sid, "P2", "L"))
	}
	out := allocation.FormatShipments([]string{"W1"}, map[string][]entity.AllocationRecord{"W1": recs}, allocation.DefaultShipmentLimit)

	require.Len(t, out, 1)
	require.Len(t, out[0].Shipments, 10)
	for i, s := range out[0].Shipments {
		assert.Equal(t, fmt.Sprintf("S%02d", i), s.StoreID)
		assert.Len(t, s.Products, 2, "el recorte es por grupo de tienda, no por registro")
	}
}

func TestFormatShipments_SinLimite(t *testing.T) {
	var recs []entity.AllocationRecord
	for i := 0; i < 12; i++ {
		recs = append(recs, rec("W1", fmt.Sprintf("S%d", i), "P1", "M"))
	}
	out := allocation.FormatShipments([]string{"W1"}, map[string][]entity.AllocationRecord{"W1": recs}, 0)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Shipments, 12)
}

func TestFormatShipments_OmiteAlmacenesSinEnviosYRespetaOrden(t *testing.T) {
	byWarehouse := map[string][]entity.AllocationRecord{
		"W1": {},
		"W2": {rec("W2", "S1", "P1", "M")},
		"W3": {rec("W3", "S1", "P1", "L")},
	}
	out := allocation.FormatShipments([]string{"W3", "W1", "W2", "W4"}, byWarehouse, allocation.DefaultShipmentLimit)

	require.Len(t, out, 2)
	assert.Equal(t, "W3", out[0].WarehouseID)
	assert.Equal(t, "W2", out[1].WarehouseID)
}

func TestFormatShipments_DesdeAllocate(t *testing.T) {
	warehouses := []entity.Warehouse{wh("W1", 0, 0)}
	var stores []entity.Store
	var demand []entity.DemandLine
	for i := 0; i < 12; i++ {
		sid := fmt.Sprintf("S%02d", i)
		stores = append(stores, st(sid, float64(i), float64(i)))
		demand = append(demand, dem(sid, "P1", "M", 1))
	}
	res := allocation.Allocate(warehouses, stores, []entity.StockLine{stock("W1", "P1", "M", 100)}, demand)

	out := allocation.FormatShipments(res.WarehouseOrder, res.ByWarehouse, allocation.DefaultShipmentLimit)
	require.Len(t, out, 1)
	require.Len(t, out[0].Shipments, 10)
	assert.Equal(t, "S00", out[0].Shipments[0].StoreID)
	assert.Equal(t, "S09", out[0].Shipments[9].StoreID)
}
