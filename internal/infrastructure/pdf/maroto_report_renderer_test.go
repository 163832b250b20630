package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ppe-stock-api/internal/application/report"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
)

func sampleReport() *report.InventoryReport {
	return &report.InventoryReport{
		GeneratedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		Lines: []report.Line{
			{StationID: "st-1", StationName: "Norte", PPEItemID: "it-1", ItemName: "Guantes", CurrentStock: 2,
				MinThreshold: 10, CriticalThreshold: 5, Status: domaininv.StatusCritical,
				UnitCost: decimal.NewFromInt(1000), StockValue: decimal.NewFromInt(2000)},
		},
		Stations: []report.StationTotals{
			{StationID: "st-1", StationName: "Norte", Items: 1, CriticalItems: 1, StockValue: decimal.NewFromInt(2000)},
			{StationID: "st-2", StationName: "Sur"},
		},
		ActiveAlerts: []*entity.Alert{
			{ID: "al-1", StationID: "st-1", PPEItemID: "it-1", AlertType: entity.AlertTypeCriticalLow, CurrentStockAtCreation: 2, ThresholdValue: 5},
		},
		TotalValue:    decimal.NewFromInt(2000),
		CriticalCount: 1,
	}
}

func TestRender(t *testing.T) {
	f, err := NewReportRenderer(nil).Render(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, ContentType, f.ContentType)
	assert.Equal(t, "inventario-epp-2026-03-02.pdf", f.Filename)
	assert.True(t, bytes.HasPrefix(f.Data, []byte("%PDF")))
}

func TestRender_ReporteVacio(t *testing.T) {
	f, err := NewReportRenderer(time.UTC).Render(&report.InventoryReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, f.Data)
}

func TestTableDetailRows_SoloDeLaEstacion(t *testing.T) {
	rep := sampleReport()
	assert.Len(t, tableDetailRows(rep.Lines, "st-1"), 1)
	// estación sin registros muestra una fila informativa
	assert.Len(t, tableDetailRows(rep.Lines, "st-2"), 1)
}
