// Package pdf genera el manifiesto imprimible de envíos de un almacén.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén             │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: tiendas / líneas de producto                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tienda | Producto | Tallas                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con almacén + fecha                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-allocator/internal/application/ports"
	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

var _ ports.ManifestGenerator = (*MarotoManifestGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoManifestGenerator implementa ports.ManifestGenerator usando Maroto v2.
type MarotoManifestGenerator struct {
	title string
}

// NewMarotoManifestGenerator construye el generador. title aparece como autor del documento.
func NewMarotoManifestGenerator(title string) *MarotoManifestGenerator {
	return &MarotoManifestGenerator{title: title}
}

// GenerateManifest genera el PDF y devuelve sus bytes.
func (g *MarotoManifestGenerator) GenerateManifest(
	_ context.Context,
	ws entity.WarehouseShipments,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Manifiesto de envíos "+ws.WarehouseID, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(ws.WarehouseID, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(ws))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(ws.Shipments) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin envíos en esta ejecución.", props.Text{Size: 9, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(shipmentRows(ws.Shipments)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(ws.WarehouseID, generatedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(warehouseID string, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("MANIFIESTO DE ENVÍOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Almacén "+warehouseID, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
		),
		col.New(5).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(generatedAt.UTC().Format("02/01/2006 15:04 MST"), props.Text{
				Size: 9, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func summaryRow(ws entity.WarehouseShipments) core.Row {
	lines := 0
	for _, s := range ws.Shipments {
		lines += len(s.Products)
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Tiendas destino: %d   |   Líneas de producto: %d", len(ws.Shipments), lines),
			props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(h("Tienda", 3), h("Producto", 4), h("Tallas", 5))
}

// shipmentRows una fila por producto; la tienda solo se repite en la primera fila de su grupo.
func shipmentRows(shipments []entity.Shipment) []core.Row {
	var result []core.Row
	for _, s := range shipments {
		for i, p := range s.Products {
			store := ""
			if i == 0 {
				store = s.StoreID
			}
			result = append(result, row.New(6).Add(
				col.New(3).Add(text.New(store, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
				col.New(4).Add(text.New(p.ProductID, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(5).Add(text.New(strings.Join(p.Sizes, ", "), props.Text{Size: 8, Top: 1, Left: 1})),
			))
		}
	}
	return result
}

func footerRow(warehouseID string, generatedAt time.Time) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(warehouseID+"|"+generatedAt.UTC().Format(time.RFC3339), props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Escanea el código para confirmar la salida del almacén.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}
