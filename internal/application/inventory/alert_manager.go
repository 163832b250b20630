package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// Límites de listado de alertas.
const (
	DefaultAlertLimit = 50
	MaxAlertLimit     = 500
)

// AlertOutcome efecto de una evaluación de umbrales dentro de la transacción de stock.
type AlertOutcome struct {
	Status   domaininv.Status
	Created  []*entity.Alert
	Resolved int
}

func (o *AlertOutcome) merge(other AlertOutcome) {
	o.Created = append(o.Created, other.Created...)
	o.Resolved += other.Resolved
}

// ThresholdUpdate entrada de UpdateThresholds.
type ThresholdUpdate struct {
	StationID         string
	PPEItemID         string
	MinThreshold      int
	CriticalThreshold int
	Actor             string
}

// AlertManager crea, deduplica, resuelve y reconoce alertas de inventario.
// Invariante: a lo sumo una alerta ACTIVE por (estación, EPP, tipo).
type AlertManager struct {
	collaborators
	txRunner  TxRunner
	alertRepo repository.AlertRepository
}

// NewAlertManager construye el gestor. alertRepo es el repositorio fuera de transacción (lecturas).
func NewAlertManager(txRunner TxRunner, alertRepo repository.AlertRepository, opts ...Option) *AlertManager {
	return &AlertManager{
		collaborators: newCollaborators("alert_manager", opts),
		txRunner:      txRunner,
		alertRepo:     alertRepo,
	}
}

// OnStockChanged evalúa el nuevo stock contra los umbrales del registro y aplica las alertas.
// Debe invocarse con el alertRepo de la misma transacción que escribió el stock: la verificación
// de duplicados y la inserción quedan serializadas por el bloqueo de la fila de inventario.
//   - CRITICAL → CRITICAL_LOW / CRITICAL; LOW → LOW_STOCK / WARNING (si no hay una ACTIVE del mismo tipo).
//   - GOOD → resuelve todas las ACTIVE del par, sin importar el tipo.
//
// Una LOW_STOCK activa no se reemplaza cuando el stock cae a CRITICAL: ambas quedan activas.
func (m *AlertManager) OnStockChanged(
	ctx context.Context,
	alertRepo repository.AlertRepository,
	record *entity.InventoryRecord,
	newStock int,
	actor string,
) (AlertOutcome, error) {
	status := domaininv.EvaluateRecord(record, newStock)
	out := AlertOutcome{Status: status}

	rule, breach := domaininv.AlertFor(status, record)
	if !breach {
		n, err := alertRepo.ResolveActive(ctx, record.StationID, record.PPEItemID, resolverName(actor), m.now())
		if err != nil {
			return out, fmt.Errorf("resolver alertas: %w", err)
		}
		out.Resolved = n
		return out, nil
	}

	existing, err := alertRepo.FindActive(ctx, record.StationID, record.PPEItemID, rule.AlertType)
	if err != nil {
		return out, fmt.Errorf("buscar alerta activa: %w", err)
	}
	if existing != nil {
		return out, nil
	}

	alert := &entity.Alert{
		ID:                     uuid.New().String(),
		StationID:              record.StationID,
		PPEItemID:              record.PPEItemID,
		AlertType:              rule.AlertType,
		Severity:               rule.Severity,
		ThresholdValue:         rule.ThresholdValue,
		CurrentStockAtCreation: newStock,
		Status:                 entity.AlertStatusActive,
		CreatedAt:              m.now(),
	}
	created, err := alertRepo.Create(ctx, alert)
	if err != nil {
		return out, fmt.Errorf("crear alerta: %w", err)
	}
	if created {
		out.Created = append(out.Created, alert)
	}
	return out, nil
}

// UpdateThresholds valida critical < min y persiste los nuevos umbrales.
// No re-evalúa el stock actual: la próxima mutación es la que crea o resuelve alertas.
func (m *AlertManager) UpdateThresholds(ctx context.Context, in ThresholdUpdate) (*entity.InventoryRecord, error) {
	if in.StationID == "" || in.PPEItemID == "" || in.Actor == "" {
		return nil, fmt.Errorf("%w: station_id, ppe_item_id y actor son obligatorios", domain.ErrValidation)
	}
	if !domaininv.ValidateThresholds(in.MinThreshold, in.CriticalThreshold) {
		return nil, fmt.Errorf("%w: critical_threshold (%d) debe ser menor que min_threshold (%d) y ambos >= 0",
			domain.ErrValidation, in.CriticalThreshold, in.MinThreshold)
	}

	// La transacción no se cancela si el cliente se desconecta.
	txCtx := context.WithoutCancel(ctx)
	var before, after entity.InventoryRecord
	err := m.txRunner.Run(txCtx, func(
		invRepo repository.InventoryRepository,
		_ repository.AlertRepository,
	) error {
		rec, err := invRepo.GetForUpdate(txCtx, in.StationID, in.PPEItemID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: no hay inventario para estación %s y EPP %s", domain.ErrNotFound, in.StationID, in.PPEItemID)
		}
		before = *rec
		if err := invRepo.UpdateThresholds(txCtx, in.StationID, in.PPEItemID, in.MinThreshold, in.CriticalThreshold); err != nil {
			return err
		}
		after = *rec
		after.MinThreshold = in.MinThreshold
		after.CriticalThreshold = in.CriticalThreshold
		after.UpdatedAt = m.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.auditor.LogAction(ctx, auditEntry(in.Actor, entity.AuditActionThresholdUpdate, entity.ResourceInventory,
		pairID(in.StationID, in.PPEItemID),
		map[string]int{"min_threshold": before.MinThreshold, "critical_threshold": before.CriticalThreshold},
		map[string]int{"min_threshold": after.MinThreshold, "critical_threshold": after.CriticalThreshold},
		nil,
	))
	m.log.Info().
		Str("station_id", in.StationID).
		Str("ppe_item_id", in.PPEItemID).
		Int("min_threshold", in.MinThreshold).
		Int("critical_threshold", in.CriticalThreshold).
		Msg("umbrales actualizados")
	return &after, nil
}

// AcknowledgeAlert pasa una alerta ACTIVE a ACKNOWLEDGED.
// Si ya estaba ACKNOWLEDGED se devuelve sin cambios (AcknowledgedAt se conserva);
// si está RESOLVED falla con ErrInvalidState.
func (m *AlertManager) AcknowledgeAlert(ctx context.Context, alertID, actor string) (*entity.Alert, error) {
	if alertID == "" || actor == "" {
		return nil, fmt.Errorf("%w: alert_id y actor son obligatorios", domain.ErrValidation)
	}

	txCtx := context.WithoutCancel(ctx)
	var result *entity.Alert
	transitioned := false
	err := m.txRunner.Run(txCtx, func(
		_ repository.InventoryRepository,
		alertRepo repository.AlertRepository,
	) error {
		alert, err := alertRepo.GetForUpdate(txCtx, alertID)
		if err != nil {
			return err
		}
		if alert == nil {
			return fmt.Errorf("%w: alerta %s", domain.ErrNotFound, alertID)
		}
		switch alert.Status {
		case entity.AlertStatusResolved:
			return fmt.Errorf("%w: la alerta %s ya está resuelta", domain.ErrInvalidState, alertID)
		case entity.AlertStatusAcknowledged:
			result = alert
			return nil
		}
		now := m.now()
		if err := alertRepo.Acknowledge(txCtx, alertID, actor, now); err != nil {
			return err
		}
		alert.Status = entity.AlertStatusAcknowledged
		alert.AcknowledgedBy = &actor
		alert.AcknowledgedAt = &now
		result = alert
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		m.auditor.LogAction(ctx, auditEntry(actor, entity.AuditActionAlertAcknowledge, entity.ResourceAlert, alertID,
			map[string]string{"status": entity.AlertStatusActive},
			map[string]string{"status": entity.AlertStatusAcknowledged},
			map[string]string{"station_id": result.StationID, "ppe_item_id": result.PPEItemID},
		))
	}
	return result, nil
}

// ListAlerts lista alertas (más recientes primero). Lectura sin bloqueo.
func (m *AlertManager) ListAlerts(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	switch filter.Status {
	case "", entity.AlertStatusActive, entity.AlertStatusAcknowledged, entity.AlertStatusResolved:
	default:
		return nil, fmt.Errorf("%w: status desconocido %q", domain.ErrValidation, filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultAlertLimit
	}
	if filter.Limit > MaxAlertLimit {
		filter.Limit = MaxAlertLimit
	}
	return m.alertRepo.List(ctx, filter)
}

func resolverName(actor string) string {
	if actor == "" {
		return entity.SystemActor
	}
	return actor
}
