// Package xlsx exporta el reporte de inventario a una hoja de cálculo.
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ppe-stock-api/internal/application/report"
)

// ContentType del libro generado.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Nombres de las hojas.
const (
	SheetSummary   = "resumen"
	SheetInventory = "inventario"
	SheetAlerts    = "alertas"
)

var inventoryHeader = []any{
	"Estación", "Ubicación", "EPP", "Categoría", "Stock", "Mínimo", "Crítico", "Capacidad", "Estado", "Costo unitario", "Valor",
}

var alertHeader = []any{"ID", "Estación", "EPP", "Tipo", "Severidad", "Stock", "Umbral", "Creada"}

var _ report.Renderer = (*ReportRenderer)(nil)

// ReportRenderer implementa report.Renderer con excelize.
type ReportRenderer struct {
	loc *time.Location
}

// NewReportRenderer construye el renderer; las fechas se escriben en loc (UTC si nil).
func NewReportRenderer(loc *time.Location) *ReportRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportRenderer{loc: loc}
}

// Render genera el libro con las hojas resumen, inventario y alertas.
func (g *ReportRenderer) Render(r *report.InventoryReport) (report.File, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return report.File{}, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	for _, name := range []string{SheetInventory, SheetAlerts} {
		if _, err := f.NewSheet(name); err != nil {
			return report.File{}, fmt.Errorf("xlsx: hoja %s: %w", name, err)
		}
	}

	generated := r.GeneratedAt.In(g.loc)
	if err := g.writeSummary(f, r, generated); err != nil {
		return report.File{}, err
	}
	if err := writeInventory(f, r); err != nil {
		return report.File{}, err
	}
	if err := g.writeAlerts(f, r); err != nil {
		return report.File{}, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return report.File{}, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return report.File{
		Filename:    fmt.Sprintf("inventario-epp-%s.xlsx", generated.Format("2006-01-02")),
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (g *ReportRenderer) writeSummary(f *excelize.File, r *report.InventoryReport, generated time.Time) error {
	rows := [][]any{
		{"Reporte de inventario EPP"},
		{"Generado", generated.Format("2006-01-02 15:04")},
		{"Estaciones", len(r.Stations)},
		{"EPP bajos", r.LowCount},
		{"EPP críticos", r.CriticalCount},
		{"Alertas activas", len(r.ActiveAlerts)},
		{"Valor total", r.TotalValue.InexactFloat64()},
		{},
		{"Estación", "EPP", "Bajos", "Críticos", "Valor"},
	}
	for _, st := range r.Stations {
		rows = append(rows, []any{st.StationName, st.Items, st.LowItems, st.CriticalItems, st.StockValue.InexactFloat64()})
	}
	return writeRows(f, SheetSummary, rows)
}

func writeInventory(f *excelize.File, r *report.InventoryReport) error {
	rows := make([][]any, 0, len(r.Lines)+1)
	rows = append(rows, inventoryHeader)
	for _, l := range r.Lines {
		rows = append(rows, []any{
			l.StationName, l.StationLocation, l.ItemName, l.ItemCategory,
			l.CurrentStock, l.MinThreshold, l.CriticalThreshold, l.MaxCapacity,
			string(l.Status), l.UnitCost.InexactFloat64(), l.StockValue.InexactFloat64(),
		})
	}
	if err := writeRows(f, SheetInventory, rows); err != nil {
		return err
	}
	if len(r.Lines) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(inventoryHeader), len(r.Lines)+1)
		if err := f.AutoFilter(SheetInventory, "A1:"+last, nil); err != nil {
			return fmt.Errorf("xlsx: autofiltro: %w", err)
		}
	}
	return nil
}

func (g *ReportRenderer) writeAlerts(f *excelize.File, r *report.InventoryReport) error {
	names := make(map[string]report.Line, len(r.Lines))
	for _, l := range r.Lines {
		names[l.StationID+":"+l.PPEItemID] = l
	}
	rows := make([][]any, 0, len(r.ActiveAlerts)+1)
	rows = append(rows, alertHeader)
	for _, a := range r.ActiveAlerts {
		station, item := a.StationID, a.PPEItemID
		if l, ok := names[a.StationID+":"+a.PPEItemID]; ok {
			station, item = l.StationName, l.ItemName
		}
		rows = append(rows, []any{
			a.ID, station, item, a.AlertType, a.Severity,
			a.CurrentStockAtCreation, a.ThresholdValue, a.CreatedAt.In(g.loc).Format("2006-01-02 15:04"),
		})
	}
	return writeRows(f, SheetAlerts, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
