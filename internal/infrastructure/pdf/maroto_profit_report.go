// Package pdf genera la versión imprimible del reporte de pérdidas y
// ganancias, pensada para que el tendero la archive o la comparta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  Período del reporte          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ventas / COGS / Gastos / Ganancia / Margen         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Vendido | P.Venta | P.Compra | Ganancia   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/application/report"
)

var (
	colorPrimary = &props.Color{Red: 22, Green: 101, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ report.ProfitPDFGenerator = (*MarotoProfitGenerator)(nil)

// MarotoProfitGenerator implementa report.ProfitPDFGenerator usando Maroto v2.
type MarotoProfitGenerator struct{}

// NewMarotoProfitGenerator construye el generador.
func NewMarotoProfitGenerator() *MarotoProfitGenerator {
	return &MarotoProfitGenerator{}
}

// GenerateProfitPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoProfitGenerator) GenerateProfitPDF(
	_ context.Context,
	businessName string,
	rep *dto.ProfitReportDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Ganancias", true).
		WithAuthor(businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(businessName, rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(rep)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(rep.ProductBreakdown) > 0 {
		m.AddRows(tableHeaderRow())
		for _, r := range tableRows(rep.ProductBreakdown) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del negocio (izq) y período (der).
func headerRow(businessName string, rep *dto.ProfitReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE GANANCIAS", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(periodLabel(rep), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRows: bloque de totales con la ganancia resaltada.
func summaryRows(rep *dto.ProfitReportDTO) []core.Row {
	entry := func(label, value string, color *props.Color, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 9, Top: 1})),
			col.New(6).Add(text.New(value, props.Text{
				Size: 9, Align: align.Right, Top: 1, Style: style, Color: color,
			})),
		)
	}
	profitColor := colorPrimary
	if rep.TotalProfit.IsNegative() {
		profitColor = colorRed
	}
	rows := []core.Row{
		entry("Ventas totales ("+fmt.Sprintf("%d memos", rep.SaleCount)+")", "$"+money(rep.TotalSale), nil, false),
		entry("Costo de mercancía vendida", "$"+money(rep.TotalCostOfGoodsSold), nil, false),
	}
	if rep.ProductID == "" {
		rows = append(rows, entry("Gastos incidentales", "$"+money(rep.TotalOtherExpenses), nil, false))
	}
	rows = append(rows,
		entry("GANANCIA", "$"+money(rep.TotalProfit), profitColor, true),
		entry("Margen", rep.MarginPercent.StringFixed(2)+" %", colorGray, false),
	)
	return rows
}

// tableHeaderRow: cabecera de la tabla de desglose por producto.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Vendido", 2, align.Right),
		h("P. Venta", 2, align.Right),
		h("P. Compra", 2, align.Right),
		h("Ganancia", 2, align.Right),
	)
}

// tableRows: una fila por producto del desglose.
func tableRows(breakdown []dto.ProductBreakdownDTO) []core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(breakdown))
	for _, b := range breakdown {
		result = append(result, row.New(7).Add(
			cell(b.Name, 4, align.Left),
			cell(b.QuantitySold.String()+" "+b.Unit, 2, align.Right),
			cell("$"+money(b.AverageSalePrice), 2, align.Right),
			cell("$"+money(b.AveragePurchasePrice), 2, align.Right),
			cell("$"+money(b.Profit), 2, align.Right),
		))
	}
	return result
}

// periodLabel arma la etiqueta del rango de fechas del reporte.
func periodLabel(rep *dto.ProfitReportDTO) string {
	switch {
	case rep.StartDate != "" && rep.EndDate != "":
		return rep.StartDate + " a " + rep.EndDate
	case rep.StartDate != "":
		return "Desde " + rep.StartDate
	case rep.EndDate != "":
		return "Hasta " + rep.EndDate
	default:
		return "Todo el historial"
	}
}

// money formatea un decimal con separador de miles y dos decimales.
// Ej: 1234567.5 → "1.234.567,50"
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, decPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(decPart)
	return b.String()
}
