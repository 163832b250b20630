// Package report reporte consolidado de inventario por estación (descarga y envío diario).
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// maxAlerts tope de alertas activas incluidas en el reporte.
const maxAlerts = 500

// Line fila del reporte: un EPP en una estación.
type Line struct {
	StationID         string
	StationName       string
	StationLocation   string
	PPEItemID         string
	ItemName          string
	ItemCategory      string
	CurrentStock      int
	MinThreshold      int
	CriticalThreshold int
	MaxCapacity       int
	Status            domaininv.Status
	UnitCost          decimal.Decimal
	StockValue        decimal.Decimal
}

// StationTotals subtotales por estación.
type StationTotals struct {
	StationID     string
	StationName   string
	Items         int
	LowItems      int
	CriticalItems int
	StockValue    decimal.Decimal
}

// InventoryReport foto del inventario en un instante.
type InventoryReport struct {
	GeneratedAt   time.Time
	Lines         []Line
	Stations      []StationTotals
	ActiveAlerts  []*entity.Alert
	TotalValue    decimal.Decimal
	LowCount      int
	CriticalCount int
}

// File documento renderizado (PDF, XLSX).
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer convierte el reporte a un formato descargable.
type Renderer interface {
	Render(r *InventoryReport) (File, error)
}

// Builder arma el reporte a partir de los repositorios de lectura.
type Builder struct {
	stations repository.StationRepository
	items    repository.PPEItemRepository
	invRepo  repository.InventoryRepository
	alerts   repository.AlertRepository
	now      func() time.Time
}

// NewBuilder construye el armador del reporte.
func NewBuilder(
	stations repository.StationRepository,
	items repository.PPEItemRepository,
	invRepo repository.InventoryRepository,
	alerts repository.AlertRepository,
) *Builder {
	return &Builder{stations: stations, items: items, invRepo: invRepo, alerts: alerts, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build consulta estaciones activas, su inventario y las alertas ACTIVE.
// Registros de estaciones inactivas se omiten; el valor usa el costo unitario del EPP.
func (b *Builder) Build(ctx context.Context) (*InventoryReport, error) {
	stations, err := b.stations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar estaciones: %w", err)
	}
	items, err := b.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar EPP: %w", err)
	}
	records, err := b.invRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar inventario: %w", err)
	}
	alerts, err := b.alerts.List(ctx, repository.AlertFilter{Status: entity.AlertStatusActive, Limit: maxAlerts})
	if err != nil {
		return nil, fmt.Errorf("reporte: listar alertas: %w", err)
	}

	costs := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		costs[it.ID] = it.UnitCost
	}
	totals := make(map[string]*StationTotals, len(stations))
	order := make([]string, 0, len(stations))
	for _, st := range stations {
		totals[st.ID] = &StationTotals{StationID: st.ID, StationName: st.Name}
		order = append(order, st.ID)
	}

	rep := &InventoryReport{GeneratedAt: b.now().UTC(), ActiveAlerts: alerts}
	for _, rec := range records {
		t, ok := totals[rec.StationID]
		if !ok {
			continue
		}
		cost := costs[rec.PPEItemID]
		line := Line{
			StationID:         rec.StationID,
			StationName:       rec.StationName,
			StationLocation:   rec.StationLocation,
			PPEItemID:         rec.PPEItemID,
			ItemName:          rec.ItemName,
			ItemCategory:      rec.ItemCategory,
			CurrentStock:      rec.CurrentStock,
			MinThreshold:      rec.MinThreshold,
			CriticalThreshold: rec.CriticalThreshold,
			MaxCapacity:       rec.MaxCapacity,
			Status:            domaininv.EvaluateRecord(rec, rec.CurrentStock),
			UnitCost:          cost,
			StockValue:        cost.Mul(decimal.NewFromInt(int64(rec.CurrentStock))),
		}
		rep.Lines = append(rep.Lines, line)

		t.Items++
		t.StockValue = t.StockValue.Add(line.StockValue)
		switch line.Status {
		case domaininv.StatusLow:
			t.LowItems++
			rep.LowCount++
		case domaininv.StatusCritical:
			t.CriticalItems++
			rep.CriticalCount++
		}
		rep.TotalValue = rep.TotalValue.Add(line.StockValue)
	}

	sort.SliceStable(rep.Lines, func(i, j int) bool {
		a, c := rep.Lines[i], rep.Lines[j]
		if a.StationName != c.StationName {
			return a.StationName < c.StationName
		}
		return a.ItemName < c.ItemName
	})
	for _, id := range order {
		rep.Stations = append(rep.Stations, *totals[id])
	}
	return rep, nil
}
