package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// MutationResult resultado de ApplyMutation: stock antes/después y resumen de alertas.
type MutationResult struct {
	StationID      string
	PPEItemID      string
	PreviousStock  int
	NewStock       int
	Status         domaininv.Status
	CreatedAlerts  []*entity.Alert
	ResolvedAlerts int
}

// StockLedger aplica mutaciones ADD/SUBTRACT sobre un par estación+EPP de forma transaccional:
// bloqueo de fila (SELECT FOR UPDATE), escritura de stock y alertas en la misma tx, Commit o Rollback.
type StockLedger struct {
	collaborators
	txRunner TxRunner
	alerts   *AlertManager
}

// NewStockLedger construye el ledger.
func NewStockLedger(txRunner TxRunner, alerts *AlertManager, opts ...Option) *StockLedger {
	return &StockLedger{
		collaborators: newCollaborators("stock_ledger", opts),
		txRunner:      txRunner,
		alerts:        alerts,
	}
}

// ApplyMutation valida la mutación, bloquea la fila, calcula el nuevo stock y evalúa umbrales.
// Nunca persiste stock negativo: un SUBTRACT que dejaría el stock bajo cero falla con
// ErrInsufficientStock y no escribe nada. Auditoría, métricas y notificaciones ocurren tras el Commit.
func (l *StockLedger) ApplyMutation(ctx context.Context, m entity.StockMutation) (*MutationResult, error) {
	if err := validateMutation(m); err != nil {
		l.metrics.ObserveMutation(m.Operation, resultLabel(err))
		return nil, err
	}

	txCtx := context.WithoutCancel(ctx)
	var (
		result MutationResult
		record entity.InventoryRecord
	)
	err := l.txRunner.Run(txCtx, func(
		invRepo repository.InventoryRepository,
		alertRepo repository.AlertRepository,
	) error {
		rec, err := invRepo.GetForUpdate(txCtx, m.StationID, m.PPEItemID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: no hay inventario para estación %s y EPP %s", domain.ErrNotFound, m.StationID, m.PPEItemID)
		}

		if m.Exceeds(rec.CurrentStock) {
			return fmt.Errorf("%w: el stock superaría el máximo (%d + %d > %d)",
				domain.ErrValidation, rec.CurrentStock, m.Quantity, entity.MaxStock)
		}
		newStock := m.Apply(rec.CurrentStock)
		if newStock < 0 {
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, rec.CurrentStock, m.Quantity)
		}
		if err := invRepo.UpdateStock(txCtx, m.StationID, m.PPEItemID, newStock); err != nil {
			return err
		}

		outcome, err := l.alerts.OnStockChanged(txCtx, alertRepo, rec, newStock, m.Actor)
		if err != nil {
			return err
		}

		record = *rec
		record.CurrentStock = newStock
		result = MutationResult{
			StationID:      m.StationID,
			PPEItemID:      m.PPEItemID,
			PreviousStock:  rec.CurrentStock,
			NewStock:       newStock,
			Status:         outcome.Status,
			CreatedAlerts:  outcome.Created,
			ResolvedAlerts: outcome.Resolved,
		}
		return nil
	})
	if err != nil {
		l.metrics.ObserveMutation(m.Operation, resultLabel(err))
		if !isBusinessError(err) {
			l.log.Error().Err(err).
				Str("station_id", m.StationID).
				Str("ppe_item_id", m.PPEItemID).
				Str("operation", m.Operation).
				Msg("mutación de stock revertida")
		}
		return nil, err
	}

	l.metrics.ObserveMutation(m.Operation, resultLabel(nil))
	for _, a := range result.CreatedAlerts {
		l.metrics.AlertsCreated(a.AlertType, 1)
	}
	l.metrics.AlertsResolved(result.ResolvedAlerts)

	l.auditor.LogAction(ctx, auditEntry(m.Actor, entity.AuditActionStockUpdate, entity.ResourceInventory,
		pairID(m.StationID, m.PPEItemID),
		map[string]int{"current_stock": result.PreviousStock},
		map[string]int{"current_stock": result.NewStock},
		map[string]any{"operation": m.Operation, "quantity": m.Quantity, "status": result.Status},
	))
	l.notifyCreated(txCtx, &record, result.CreatedAlerts)

	l.log.Info().
		Str("station_id", m.StationID).
		Str("ppe_item_id", m.PPEItemID).
		Str("operation", m.Operation).
		Int("previous_stock", result.PreviousStock).
		Int("new_stock", result.NewStock).
		Str("status", string(result.Status)).
		Int("alerts_created", len(result.CreatedAlerts)).
		Int("alerts_resolved", result.ResolvedAlerts).
		Msg("stock actualizado")
	return &result, nil
}

func validateMutation(m entity.StockMutation) error {
	if m.StationID == "" || m.PPEItemID == "" {
		return fmt.Errorf("%w: station_id y ppe_item_id son obligatorios", domain.ErrValidation)
	}
	if m.Actor == "" {
		return fmt.Errorf("%w: actor obligatorio", domain.ErrValidation)
	}
	if m.Quantity <= 0 || m.Quantity > entity.MaxStock {
		return fmt.Errorf("%w: quantity debe estar entre 1 y %d", domain.ErrValidation, entity.MaxStock)
	}
	if m.Operation != entity.OperationAdd && m.Operation != entity.OperationSubtract {
		return fmt.Errorf("%w: operation debe ser ADD o SUBTRACT", domain.ErrValidation)
	}
	return nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidState)
}

// resultLabel etiqueta de métrica según el tipo de error.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrDatabaseNotReady):
		return "db_not_ready"
	default:
		return "error"
	}
}
