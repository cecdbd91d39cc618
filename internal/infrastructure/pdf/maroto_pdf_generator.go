// Package pdf implementa el reporte imprimible de órdenes de trabajo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Plot Master  │  Período del reporte                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: OT | Fecha | Cliente | Vendedor | Valor | Abonado    │
//	│         | Saldo | Estado                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor total / Abonado / Saldo pendiente            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa usecases.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ usecases.PDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// OrdersReport genera el PDF del listado y devuelve sus bytes.
func (g *MarotoPDFGenerator) OrdersReport(titulo string, ordenes []dto.OrdenResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(titulo, true).
		WithAuthor("Plot Master", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(titulo, len(ordenes)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableOrderRows(ordenes) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(ordenes))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del negocio (izq) y título del período (der).
func headerRow(titulo string, cantidad int) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("Plot Master", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Gestión de Órdenes de Trabajo", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
			text.New(fmt.Sprintf("%d órdenes", cantidad), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("OT", 1, align.Left),
		h("Fecha", 1, align.Left),
		h("Cliente", 3, align.Left),
		h("Vendedor", 2, align.Left),
		h("Valor", 2, align.Right),
		h("Saldo", 2, align.Right),
		h("Estado", 1, align.Left),
	)
}

// tableOrderRows: una fila por orden.
func tableOrderRows(ordenes []dto.OrdenResponse) []core.Row {
	result := make([]core.Row, 0, len(ordenes))
	celda := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	for _, o := range ordenes {
		result = append(result, row.New(7).Add(
			celda(fmt.Sprintf("%d", o.OtNro), 1, align.Left),
			celda(o.FechaCreacion.Format("02/01/06"), 1, align.Left),
			celda(o.ClienteNombre, 3, align.Left),
			celda(o.VendedorNombre, 2, align.Left),
			celda("Gs. "+formatMoney(o.ValorTotal.StringFixed(0)), 2, align.Right),
			celda("Gs. "+formatMoney(o.Saldo.StringFixed(0)), 2, align.Right),
			celda(o.Status, 1, align.Left),
		))
	}
	return result
}

// totalsRow: totales del período alineados a la derecha.
func totalsRow(ordenes []dto.OrdenResponse) core.Row {
	valor := decimal.Zero
	abonado := decimal.Zero
	for _, o := range ordenes {
		valor = valor.Add(o.ValorTotal)
		abonado = abonado.Add(o.AbonadoTotal)
	}
	saldo := valor.Sub(abonado)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Valor total:"),
			label("Abonado:"),
			grandLabel("SALDO PENDIENTE:"),
		),
		col.New(4).Add(
			value("Gs. "+formatMoney(valor.StringFixed(0))),
			value("Gs. "+formatMoney(abonado.StringFixed(0))),
			grandValue("Gs. "+formatMoney(saldo.StringFixed(0))),
		),
	)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
