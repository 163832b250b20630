package notification

import (
	"context"

	"github.com/rs/zerolog"
)

var _ Dispatcher = (*LogDispatcher)(nil)

// LogDispatcher registra el evento en el log en lugar de encolarlo (NOTIFY_DRIVER=log).
// Si tiene Processor asociado, además lo entrega en línea.
type LogDispatcher struct {
	log       zerolog.Logger
	processor *Processor
}

// NewLogDispatcher construye el despachador. processor puede ser nil.
func NewLogDispatcher(log zerolog.Logger, processor *Processor) *LogDispatcher {
	return &LogDispatcher{log: log.With().Str("component", "notification_log").Logger(), processor: processor}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, ev AlertEvent) error {
	d.log.Info().
		Str("alert_id", ev.AlertID).
		Str("station", ev.StationName).
		Str("item", ev.ItemName).
		Str("alert_type", ev.AlertType).
		Str("severity", ev.Severity).
		Int("current_stock", ev.CurrentStock).
		Int("threshold", ev.ThresholdValue).
		Msg("alerta de stock")
	if d.processor == nil {
		return nil
	}
	return d.processor.Process(ctx, ev)
}
