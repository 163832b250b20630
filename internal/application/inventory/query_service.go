package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// RecordView registro de inventario con su estado evaluado.
type RecordView struct {
	Record *entity.InventoryRecord
	Status domaininv.Status
}

// StationSummary resumen de una estación para el listado.
type StationSummary struct {
	Station       *entity.Station
	TotalItems    int
	LowItems      int
	CriticalItems int
}

// StationInventoryView inventario completo de una estación.
type StationInventoryView struct {
	Station *entity.Station
	Items   []RecordView
}

// QueryService lecturas de inventario. No toma bloqueos: puede observar una foto levemente desactualizada.
type QueryService struct {
	stations repository.StationRepository
	invRepo  repository.InventoryRepository
}

// NewQueryService construye el servicio de consultas.
func NewQueryService(stations repository.StationRepository, invRepo repository.InventoryRepository) *QueryService {
	return &QueryService{stations: stations, invRepo: invRepo}
}

// ListStations estaciones activas con conteo de EPP en LOW y CRITICAL.
func (q *QueryService) ListStations(ctx context.Context) ([]StationSummary, error) {
	stations, err := q.stations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	records, err := q.invRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byStation := make(map[string][]*entity.InventoryRecord, len(stations))
	for _, r := range records {
		byStation[r.StationID] = append(byStation[r.StationID], r)
	}

	out := make([]StationSummary, 0, len(stations))
	for _, st := range stations {
		s := StationSummary{Station: st}
		for _, r := range byStation[st.ID] {
			s.TotalItems++
			switch domaininv.EvaluateRecord(r, r.CurrentStock) {
			case domaininv.StatusCritical:
				s.CriticalItems++
			case domaininv.StatusLow:
				s.LowItems++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// StationInventory inventario de una estación ordenado por nombre de EPP.
func (q *QueryService) StationInventory(ctx context.Context, stationID string) (*StationInventoryView, error) {
	if stationID == "" {
		return nil, fmt.Errorf("%w: station_id obligatorio", domain.ErrValidation)
	}
	station, err := q.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, fmt.Errorf("%w: estación %s", domain.ErrNotFound, stationID)
	}
	records, err := q.invRepo.ListByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ItemName < records[j].ItemName })

	view := &StationInventoryView{Station: station, Items: make([]RecordView, 0, len(records))}
	for _, r := range records {
		view.Items = append(view.Items, RecordView{Record: r, Status: domaininv.EvaluateRecord(r, r.CurrentStock)})
	}
	return view, nil
}
