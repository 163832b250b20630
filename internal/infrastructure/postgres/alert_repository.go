package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, station_id, ppe_item_id, alert_type, severity, threshold_value, current_stock,
		       status, alert_sent, acknowledged_by, acknowledged_at, created_at`

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	err := row.Scan(
		&a.ID, &a.StationID, &a.PPEItemID, &a.AlertType, &a.Severity, &a.ThresholdValue, &a.CurrentStockAtCreation,
		&a.Status, &a.AlertSent, &a.AcknowledgedBy, &a.AcknowledgedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AlertRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *AlertRepo) FindActive(ctx context.Context, stationID, ppeItemID, alertType string) (*entity.Alert, error) {
	a, err := r.getOne(ctx, `
		SELECT `+alertColumns+`
		FROM inventory_alerts
		WHERE station_id = $1 AND ppe_item_id = $2 AND alert_type = $3 AND status = 'ACTIVE'`,
		stationID, ppeItemID, alertType)
	if err != nil {
		return nil, queryError("find active alert", err)
	}
	return a, nil
}

// Create inserta la alerta. El índice único parcial sobre las ACTIVE hace de respaldo a la
// verificación previa: si ya existe una, no se inserta nada y created=false.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO inventory_alerts
			(id, station_id, ppe_item_id, alert_type, severity, threshold_value, current_stock,
			 status, alert_sent, acknowledged_by, acknowledged_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (station_id, ppe_item_id, alert_type) WHERE status = 'ACTIVE' DO NOTHING`,
		a.ID, a.StationID, a.PPEItemID, a.AlertType, a.Severity, a.ThresholdValue, a.CurrentStockAtCreation,
		a.Status, a.AlertSent, a.AcknowledgedBy, a.AcknowledgedAt, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, queryError("insert alert", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AlertRepo) ResolveActive(ctx context.Context, stationID, ppeItemID, actor string, at time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_alerts
		SET status = 'RESOLVED', acknowledged_by = $3, acknowledged_at = $4
		WHERE station_id = $1 AND ppe_item_id = $2 AND status = 'ACTIVE'`,
		stationID, ppeItemID, actor, at)
	if err != nil {
		return 0, queryError("resolve alerts", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := r.getOne(ctx, `SELECT `+alertColumns+` FROM inventory_alerts WHERE id = $1`, id)
	if err != nil {
		return nil, queryError("get alert", err)
	}
	return a, nil
}

func (r *AlertRepo) GetForUpdate(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := r.getOne(ctx, `SELECT `+alertColumns+` FROM inventory_alerts WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, queryError("get alert for update", err)
	}
	return a, nil
}

func (r *AlertRepo) Acknowledge(ctx context.Context, id, actor string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_alerts
		SET status = 'ACKNOWLEDGED', acknowledged_by = $2, acknowledged_at = $3
		WHERE id = $1`, id, actor, at)
	if err != nil {
		return queryError("acknowledge alert", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("acknowledge alert: %w", domain.ErrNotFound)
	}
	return nil
}

// List alertas más recientes primero. Los filtros vacíos no se aplican.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.StationID != "" {
		args = append(args, f.StationID)
		where = append(where, fmt.Sprintf("station_id = $%d", len(args)))
	}
	query := `SELECT ` + alertColumns + ` FROM inventory_alerts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError("list alerts", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, queryError("scan alert", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AlertRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE inventory_alerts SET alert_sent = true WHERE id = $1`, id)
	if err != nil {
		return queryError("mark alert sent", err)
	}
	return nil
}
