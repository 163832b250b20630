package notification

import "context"

// Dispatcher encola (o registra) el evento para entrega asíncrona.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev AlertEvent) error
}

// AlertMailer envía el correo de alerta de stock a un destinatario.
type AlertMailer interface {
	SendStockAlert(ctx context.Context, to Recipient, ev AlertEvent) error
}

// AlertMarker marca la alerta como notificada (alert_sent).
type AlertMarker interface {
	MarkSent(ctx context.Context, id string) error
}

// Metrics contadores de notificación.
type Metrics interface {
	ObserveNotification(stage, result string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveNotification(string, string) {}
