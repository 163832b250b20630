package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// RestockedItem un EPP reabastecido dentro de un bulk restock.
type RestockedItem struct {
	PPEItemID     string
	ItemName      string
	PreviousStock int
	NewStock      int
	Status        domaininv.Status
}

// BulkRestockResult resultado del reabastecimiento de una estación.
type BulkRestockResult struct {
	StationID       string
	StationName     string
	UpdatedItems    []RestockedItem
	AutoInitialized bool
	CreatedAlerts   []*entity.Alert
	ResolvedAlerts  int
	Message         string
}

// StationRestockDetail resultado por estación dentro de BulkRestockAllStations.
type StationRestockDetail struct {
	StationID       string
	StationName     string
	Success         bool
	UpdatedItems    int
	AutoInitialized bool
	Error           string
}

// BulkRestockReport reporte agregado de BulkRestockAllStations.
type BulkRestockReport struct {
	SuccessfulStations  int
	FailedStations      int
	TotalItemsRestocked int
	Details             []StationRestockDetail
}

// BulkOperator reabastece todos los EPP de una estación (o de todas) fijando un stock absoluto.
type BulkOperator struct {
	collaborators
	txRunner TxRunner
	stations repository.StationRepository
	items    repository.PPEItemRepository
	alerts   *AlertManager
}

// NewBulkOperator construye el operador masivo.
func NewBulkOperator(
	txRunner TxRunner,
	stations repository.StationRepository,
	items repository.PPEItemRepository,
	alerts *AlertManager,
	opts ...Option,
) *BulkOperator {
	return &BulkOperator{
		collaborators: newCollaborators("bulk_operator", opts),
		txRunner:      txRunner,
		stations:      stations,
		items:         items,
		alerts:        alerts,
	}
}

// BulkRestock fija currentStock = quantity en todos los registros de la estación dentro de una
// sola transacción (todo o nada). Si la estación no tiene registros, primero crea uno por cada
// EPP activo del catálogo con stock 0 y umbrales por defecto.
func (b *BulkOperator) BulkRestock(ctx context.Context, stationID string, quantity int, actor string) (*BulkRestockResult, error) {
	if stationID == "" || actor == "" {
		return nil, fmt.Errorf("%w: station_id y actor son obligatorios", domain.ErrValidation)
	}
	if quantity < 0 || quantity > entity.MaxStock {
		return nil, fmt.Errorf("%w: quantity debe estar entre 0 y %d", domain.ErrValidation, entity.MaxStock)
	}
	station, err := b.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, fmt.Errorf("%w: estación %s", domain.ErrNotFound, stationID)
	}
	result, err := b.restockStation(ctx, station, quantity, actor)
	if err != nil {
		b.metrics.ObserveBulkRestock(resultLabel(err))
		return nil, err
	}
	b.metrics.ObserveBulkRestock(resultLabel(nil))
	return result, nil
}

// BulkRestockAllStations reabastece cada estación activa en su propia transacción.
// El fallo de una estación no revierte las demás; se reporta en Details.
func (b *BulkOperator) BulkRestockAllStations(ctx context.Context, quantity int, actor string) (*BulkRestockReport, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor obligatorio", domain.ErrValidation)
	}
	if quantity < 0 || quantity > entity.MaxStock {
		return nil, fmt.Errorf("%w: quantity debe estar entre 0 y %d", domain.ErrValidation, entity.MaxStock)
	}
	stations, err := b.stations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar estaciones: %w", err)
	}

	report := &BulkRestockReport{Details: make([]StationRestockDetail, 0, len(stations))}
	for _, st := range stations {
		detail := StationRestockDetail{StationID: st.ID, StationName: st.Name}
		res, err := b.restockStation(ctx, st, quantity, actor)
		if err != nil {
			b.metrics.ObserveBulkRestock(resultLabel(err))
			b.log.Error().Err(err).Str("station_id", st.ID).Msg("bulk restock de estación falló")
			detail.Error = err.Error()
			report.FailedStations++
			report.Details = append(report.Details, detail)
			continue
		}
		b.metrics.ObserveBulkRestock(resultLabel(nil))
		detail.Success = true
		detail.UpdatedItems = len(res.UpdatedItems)
		detail.AutoInitialized = res.AutoInitialized
		report.SuccessfulStations++
		report.TotalItemsRestocked += detail.UpdatedItems
		report.Details = append(report.Details, detail)
	}

	b.log.Info().
		Int("successful_stations", report.SuccessfulStations).
		Int("failed_stations", report.FailedStations).
		Int("total_items", report.TotalItemsRestocked).
		Msg("bulk restock de todas las estaciones finalizado")
	return report, nil
}

func (b *BulkOperator) restockStation(ctx context.Context, station *entity.Station, quantity int, actor string) (*BulkRestockResult, error) {
	// El catálogo se lee fuera de la transacción; solo se usa si la estación está vacía.
	catalog, err := b.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar catálogo de EPP: %w", err)
	}

	txCtx := context.WithoutCancel(ctx)
	result := &BulkRestockResult{StationID: station.ID, StationName: station.Name}
	var records []*entity.InventoryRecord

	err = b.txRunner.Run(txCtx, func(
		invRepo repository.InventoryRepository,
		alertRepo repository.AlertRepository,
	) error {
		recs, err := invRepo.ListByStationForUpdate(txCtx, station.ID)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			now := b.now()
			seed := make([]*entity.InventoryRecord, 0, len(catalog))
			for _, item := range catalog {
				if !item.HasValidDefaults() {
					b.log.Warn().
						Str("station_id", station.ID).
						Str("ppe_item_id", item.ID).
						Int("default_min_threshold", item.DefaultMinThreshold).
						Msg("EPP con umbral mínimo por defecto inválido, se omite en la auto-inicialización")
					continue
				}
				seed = append(seed, entity.NewInventoryRecordFromItem(station, item, now))
			}
			if err := invRepo.CreateBatch(txCtx, seed); err != nil {
				return fmt.Errorf("auto-inicializar inventario: %w", err)
			}
			// Vuelve a leer con bloqueo: otra transacción pudo inicializar en paralelo.
			recs, err = invRepo.ListByStationForUpdate(txCtx, station.ID)
			if err != nil {
				return err
			}
			result.AutoInitialized = true
		}

		outcome := AlertOutcome{}
		for _, rec := range recs {
			if err := invRepo.UpdateStock(txCtx, rec.StationID, rec.PPEItemID, quantity); err != nil {
				return err
			}
			o, err := b.alerts.OnStockChanged(txCtx, alertRepo, rec, quantity, actor)
			if err != nil {
				return err
			}
			outcome.merge(o)
			result.UpdatedItems = append(result.UpdatedItems, RestockedItem{
				PPEItemID:     rec.PPEItemID,
				ItemName:      rec.ItemName,
				PreviousStock: rec.CurrentStock,
				NewStock:      quantity,
				Status:        o.Status,
			})
		}
		result.CreatedAlerts = outcome.Created
		result.ResolvedAlerts = outcome.Resolved
		records = recs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AutoInitialized {
		b.log.Warn().
			Str("station_id", station.ID).
			Bool("auto_initialized", true).
			Int("items", len(result.UpdatedItems)).
			Msg("estación sin inventario: registros auto-inicializados antes del restock")
		result.Message = fmt.Sprintf("Inventario inicializado y %d EPP reabastecidos a %d unidades", len(result.UpdatedItems), quantity)
	} else {
		result.Message = fmt.Sprintf("%d EPP reabastecidos a %d unidades", len(result.UpdatedItems), quantity)
	}

	for _, a := range result.CreatedAlerts {
		b.metrics.AlertsCreated(a.AlertType, 1)
	}
	b.metrics.AlertsResolved(result.ResolvedAlerts)

	b.auditor.LogAction(ctx, auditEntry(actor, entity.AuditActionBulkRestock, entity.ResourceStation, station.ID,
		nil,
		map[string]int{"quantity": quantity, "updated_items": len(result.UpdatedItems)},
		map[string]any{"auto_initialized": result.AutoInitialized},
	))

	byItem := make(map[string]*entity.InventoryRecord, len(records))
	for _, rec := range records {
		byItem[rec.PPEItemID] = rec
	}
	for _, a := range result.CreatedAlerts {
		if rec, ok := byItem[a.PPEItemID]; ok {
			snapshot := *rec
			snapshot.CurrentStock = quantity
			b.notifier.NotifyAlertCreated(txCtx, &snapshot, a)
		}
	}

	b.log.Info().
		Str("station_id", station.ID).
		Int("quantity", quantity).
		Int("items", len(result.UpdatedItems)).
		Msg("bulk restock aplicado")
	return result, nil
}
