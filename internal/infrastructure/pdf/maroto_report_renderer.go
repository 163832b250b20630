// Package pdf genera el reporte de inventario de EPP en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                       │
//	│  RESUMEN: estaciones / bajos / críticos / valor total       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  por estación: nombre + subtotal                            │
//	│    TABLA: EPP | Categoría | Stock | Mín | Crít | Estado | $ │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS ACTIVAS                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
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

	"github.com/jhoicas/ppe-stock-api/internal/application/report"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
)

// ContentType del documento generado.
const ContentType = "application/pdf"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLow      = &props.Color{Red: 204, Green: 122, Blue: 0}
	colorCritical = &props.Color{Red: 178, Green: 34, Blue: 34}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ report.Renderer = (*ReportRenderer)(nil)

// ReportRenderer implementa report.Renderer usando Maroto v2.
type ReportRenderer struct {
	loc *time.Location
}

// NewReportRenderer construye el renderer; las fechas se muestran en loc (UTC si nil).
func NewReportRenderer(loc *time.Location) *ReportRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportRenderer{loc: loc}
}

// Render genera el PDF del reporte.
func (g *ReportRenderer) Render(r *report.InventoryReport) (report.File, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario EPP", true).
		Build()

	m := maroto.New(cfg)

	generated := r.GeneratedAt.In(g.loc)
	m.AddRows(headerRow(generated))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, st := range r.Stations {
		m.AddRows(stationRow(st))
		m.AddRows(tableHeaderRow())
		m.AddRows(tableDetailRows(r.Lines, st.StationID)...)
		m.AddRows(line.NewRow(3))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(alertRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return report.File{}, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return report.File{
		Filename:    fmt.Sprintf("inventario-epp-%s.pdf", generated.Format("2006-01-02")),
		ContentType: ContentType,
		Data:        doc.GetBytes(),
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generated time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE INVENTARIO EPP", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Stock por estación de dispensación", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generated.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r *report.InventoryReport) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return row.New(13).Add(
		cell("ESTACIONES", fmt.Sprintf("%d", len(r.Stations))),
		cell("EPP BAJOS", fmt.Sprintf("%d", r.LowCount)),
		cell("EPP CRÍTICOS", fmt.Sprintf("%d", r.CriticalCount)),
		cell("VALOR TOTAL", report.FormatMoney(r.TotalValue)),
	)
}

func stationRow(st report.StationTotals) core.Row {
	return row.New(9).Add(
		col.New(8).Add(text.New(st.StationName, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Subtotal: "+report.FormatMoney(st.StockValue), props.Text{
			Size: 8, Align: align.Right, Top: 3, Color: colorGray,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("EPP", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Stock", 1, align.Center),
		h("Mín.", 1, align.Center),
		h("Crít.", 1, align.Center),
		h("Estado", 2, align.Center),
		h("Valor", 2, align.Right),
	)
}

func tableDetailRows(lines []report.Line, stationID string) []core.Row {
	var result []core.Row
	for _, l := range lines {
		if l.StationID != stationID {
			continue
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(l.ItemCategory, "-"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.CurrentStock), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.MinThreshold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.CriticalThreshold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(statusText(l.Status)),
			col.New(2).Add(text.New(report.FormatMoney(l.StockValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	if len(result) == 0 {
		result = append(result, row.New(6).Add(col.New(12).Add(
			text.New("Sin inventario registrado", props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray}),
		)))
	}
	return result
}

func statusText(s domaininv.Status) core.Component {
	p := props.Text{Size: 8, Align: align.Center, Top: 1}
	switch s {
	case domaininv.StatusCritical:
		p.Style = fontstyle.Bold
		p.Color = colorCritical
	case domaininv.StatusLow:
		p.Style = fontstyle.Bold
		p.Color = colorLow
	}
	return text.New(string(s), p)
}

func alertRows(r *report.InventoryReport) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New(fmt.Sprintf("ALERTAS ACTIVAS (%d)", len(r.ActiveAlerts)), props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	if len(r.ActiveAlerts) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("No hay alertas activas.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}

	names := make(map[string]string, len(r.Lines))
	for _, l := range r.Lines {
		names[l.StationID+":"+l.PPEItemID] = l.StationName + " / " + l.ItemName
	}
	for _, a := range r.ActiveAlerts {
		label := nonEmpty(names[a.StationID+":"+a.PPEItemID], a.StationID+" / "+a.PPEItemID)
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(3).Add(text.New(a.AlertType, props.Text{Size: 8, Top: 0.5})),
			col.New(3).Add(text.New(fmt.Sprintf("stock %d / umbral %d", a.CurrentStockAtCreation, a.ThresholdValue), props.Text{
				Size: 8, Top: 0.5, Align: align.Right, Right: 1, Color: colorGray,
			})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
