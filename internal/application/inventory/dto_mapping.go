package inventory

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/application/dto"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
)

// ApplyMutationFromRequest adapta el request HTTP al caso de uso ApplyMutation.
func (l *StockLedger) ApplyMutationFromRequest(ctx context.Context, actor string, in dto.StockUpdateRequest) (*dto.StockUpdateResponse, error) {
	res, err := l.ApplyMutation(ctx, entity.StockMutation{
		StationID: in.StationID,
		PPEItemID: in.PPEItemID,
		Quantity:  in.Quantity,
		Operation: in.Operation,
		Actor:     actor,
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockUpdateResponse{
		StationID:     res.StationID,
		PPEItemID:     res.PPEItemID,
		PreviousStock: res.PreviousStock,
		NewStock:      res.NewStock,
		Status:        string(res.Status),
		Alerts:        toAlertSummary(res.CreatedAlerts, res.ResolvedAlerts),
	}, nil
}

// UpdateThresholdsFromRequest adapta el request HTTP a UpdateThresholds.
func (m *AlertManager) UpdateThresholdsFromRequest(ctx context.Context, actor string, in dto.ThresholdUpdateRequest) (*dto.InventoryRecordResponse, error) {
	rec, err := m.UpdateThresholds(ctx, ThresholdUpdate{
		StationID:         in.StationID,
		PPEItemID:         in.PPEItemID,
		MinThreshold:      in.MinThreshold,
		CriticalThreshold: in.CriticalThreshold,
		Actor:             actor,
	})
	if err != nil {
		return nil, err
	}
	out := ToInventoryRecordResponse(rec, string(domaininv.EvaluateRecord(rec, rec.CurrentStock)))
	return &out, nil
}

// BulkRestockFromRequest adapta el request HTTP a BulkRestock.
func (b *BulkOperator) BulkRestockFromRequest(ctx context.Context, actor string, in dto.BulkRestockRequest) (*dto.BulkRestockResponse, error) {
	res, err := b.BulkRestock(ctx, in.StationID, in.Quantity, actor)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestockedItemResponse, 0, len(res.UpdatedItems))
	for _, it := range res.UpdatedItems {
		items = append(items, dto.RestockedItemResponse{
			PPEItemID:     it.PPEItemID,
			ItemName:      it.ItemName,
			PreviousStock: it.PreviousStock,
			NewStock:      it.NewStock,
			Status:        string(it.Status),
		})
	}
	return &dto.BulkRestockResponse{
		StationID:       res.StationID,
		UpdatedItems:    items,
		AutoInitialized: res.AutoInitialized,
		Alerts:          toAlertSummary(res.CreatedAlerts, res.ResolvedAlerts),
		Message:         res.Message,
	}, nil
}

// BulkRestockAllFromRequest adapta el request HTTP a BulkRestockAllStations.
func (b *BulkOperator) BulkRestockAllFromRequest(ctx context.Context, actor string, in dto.BulkRestockAllRequest) (*dto.BulkRestockAllResponse, error) {
	rep, err := b.BulkRestockAllStations(ctx, in.Quantity, actor)
	if err != nil {
		return nil, err
	}
	details := make([]dto.StationRestockDetailResponse, 0, len(rep.Details))
	for _, d := range rep.Details {
		details = append(details, dto.StationRestockDetailResponse{
			StationID:       d.StationID,
			StationName:     d.StationName,
			Success:         d.Success,
			UpdatedItems:    d.UpdatedItems,
			AutoInitialized: d.AutoInitialized,
			Error:           d.Error,
		})
	}
	return &dto.BulkRestockAllResponse{
		SuccessfulStations:  rep.SuccessfulStations,
		FailedStations:      rep.FailedStations,
		TotalItemsRestocked: rep.TotalItemsRestocked,
		Details:             details,
	}, nil
}

// ToAlertResponse convierte la entidad a DTO.
func ToAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:                     a.ID,
		StationID:              a.StationID,
		PPEItemID:              a.PPEItemID,
		AlertType:              a.AlertType,
		Severity:               a.Severity,
		ThresholdValue:         a.ThresholdValue,
		CurrentStockAtCreation: a.CurrentStockAtCreation,
		Status:                 a.Status,
		AlertSent:              a.AlertSent,
		AcknowledgedBy:         a.AcknowledgedBy,
		AcknowledgedAt:         a.AcknowledgedAt,
		CreatedAt:              a.CreatedAt,
	}
}

// ToInventoryRecordResponse convierte el registro a DTO con el estado indicado.
func ToInventoryRecordResponse(r *entity.InventoryRecord, status string) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		StationID:         r.StationID,
		PPEItemID:         r.PPEItemID,
		ItemName:          r.ItemName,
		ItemCategory:      r.ItemCategory,
		CurrentStock:      r.CurrentStock,
		MinThreshold:      r.MinThreshold,
		CriticalThreshold: r.CriticalThreshold,
		MaxCapacity:       r.MaxCapacity,
		Status:            status,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toAlertSummary(created []*entity.Alert, resolved int) dto.AlertSummary {
	items := make([]dto.AlertResponse, 0, len(created))
	for _, a := range created {
		items = append(items, ToAlertResponse(a))
	}
	return dto.AlertSummary{Created: items, Resolved: resolved}
}
