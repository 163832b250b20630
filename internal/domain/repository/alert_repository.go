package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// AlertFilter filtros de listado de alertas. Campos vacíos no filtran.
type AlertFilter struct {
	Status    string
	StationID string
	Limit     int
}

// AlertRepository puerto para inventory_alerts. Las alertas nunca se eliminan.
type AlertRepository interface {
	// FindActive devuelve la alerta ACTIVE del par y tipo, o nil, nil.
	FindActive(ctx context.Context, stationID, ppeItemID, alertType string) (*entity.Alert, error)
	// Create inserta la alerta; created=false si ya existía una ACTIVE del mismo par y tipo.
	Create(ctx context.Context, alert *entity.Alert) (created bool, err error)
	// ResolveActive pasa a RESOLVED todas las alertas ACTIVE del par (cualquier tipo).
	ResolveActive(ctx context.Context, stationID, ppeItemID, actor string, at time.Time) (int, error)
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Alert, error)
	Acknowledge(ctx context.Context, id, actor string, at time.Time) error
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
	MarkSent(ctx context.Context, id string) error
}
