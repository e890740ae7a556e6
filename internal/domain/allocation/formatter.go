package allocation

import (
	"sort"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// DefaultShipmentLimit número de grupos (tienda, productos) que se conservan por almacén.
const DefaultShipmentLimit = 10

// FormatShipments agrupa los registros de cada almacén por tienda destino y por producto,
// con las tallas como conjunto ordenado.
//
// Almacenes en el orden de warehouseOrder; tiendas y productos en orden de primera
// aparición dentro de los registros del almacén. Se conservan los primeros limit grupos
// por tienda (limit <= 0 desactiva el recorte). Los almacenes sin envíos se omiten.
func FormatShipments(
	warehouseOrder []string,
	byWarehouse map[string][]entity.AllocationRecord,
	limit int,
) []entity.WarehouseShipments {
	out := make([]entity.WarehouseShipments, 0, len(warehouseOrder))
	for _, wid := range warehouseOrder {
		shipments := groupByStore(wid, byWarehouse[wid])
		if limit > 0 && len(shipments) > limit {
			shipments = shipments[:limit]
		}
		if len(shipments) == 0 {
			continue
		}
		out = append(out, entity.WarehouseShipments{WarehouseID: wid, Shipments: shipments})
	}
	return out
}

type productSizes struct {
	order []string
	sizes map[string]map[string]struct{}
}

func groupByStore(warehouseID string, records []entity.AllocationRecord) []entity.Shipment {
	var storeOrder []string
	byStore := make(map[string]*productSizes)

	for _, rec := range records {
		ps, ok := byStore[rec.StoreID]
		if !ok {
			ps = &productSizes{sizes: make(map[string]map[string]struct{})}
			byStore[rec.StoreID] = ps
			storeOrder = append(storeOrder, rec.StoreID)
		}
		set, ok := ps.sizes[rec.ProductID]
		if !ok {
			set = make(map[string]struct{})
			ps.sizes[rec.ProductID] = set
			ps.order = append(ps.order, rec.ProductID)
		}
		set[rec.Size] = struct{}{}
	}

	shipments := make([]entity.Shipment, 0, len(storeOrder))
	for _, sid := range storeOrder {
		ps := byStore[sid]
		products := make([]entity.ShipmentProduct, 0, len(ps.order))
		for _, pid := range ps.order {
			sizes := make([]string, 0, len(ps.sizes[pid]))
			for size := range ps.sizes[pid] {
				sizes = append(sizes, size)
			}
			sort.Strings(sizes)
			products = append(products, entity.ShipmentProduct{ProductID: pid, Sizes: sizes})
		}
		shipments = append(shipments, entity.Shipment{
			WarehouseID: warehouseID,
			StoreID:     sid,
			Products:    products,
		})
	}
	return shipments
}
