package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

var _ inventory.AlertNotifier = (*Service)(nil)

const dispatchTimeout = 5 * time.Second

// Service adapta el puerto AlertNotifier del motor de inventario al Dispatcher.
// Best-effort: los fallos se registran y nunca llegan al llamador.
type Service struct {
	dispatcher Dispatcher
	metrics    Metrics
	log        zerolog.Logger
}

// NewService construye el servicio. metrics puede ser nil.
func NewService(dispatcher Dispatcher, metrics Metrics, log zerolog.Logger) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		dispatcher: dispatcher,
		metrics:    metrics,
		log:        log.With().Str("component", "notification").Logger(),
	}
}

// NotifyAlertCreated encola el evento de la alerta recién confirmada.
func (s *Service) NotifyAlertCreated(ctx context.Context, record *entity.InventoryRecord, alert *entity.Alert) {
	if alert == nil {
		return
	}
	ev := NewAlertEvent(record, alert)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()
	if err := s.dispatcher.Dispatch(ctx, ev); err != nil {
		s.metrics.ObserveNotification("dispatch", "error")
		s.log.Error().Err(err).
			Str("alert_id", ev.AlertID).
			Str("station_id", ev.StationID).
			Str("ppe_item_id", ev.PPEItemID).
			Msg("no se pudo encolar la notificación de alerta")
		return
	}
	s.metrics.ObserveNotification("dispatch", "ok")
}
