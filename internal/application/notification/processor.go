package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Processor entrega un AlertEvent: un correo por destinatario del roster y luego MarkSent.
type Processor struct {
	roster  *Roster
	mailer  AlertMailer
	marker  AlertMarker
	metrics Metrics
	log     zerolog.Logger
}

// NewProcessor construye el procesador de eventos.
func NewProcessor(roster *Roster, mailer AlertMailer, marker AlertMarker, metrics Metrics, log zerolog.Logger) *Processor {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Processor{
		roster:  roster,
		mailer:  mailer,
		marker:  marker,
		metrics: metrics,
		log:     log.With().Str("component", "notification_processor").Logger(),
	}
}

// Process envía el correo a todos los destinatarios. La alerta se marca como enviada si al menos
// un correo salió; si todos fallan devuelve error para que el worker mueva el trabajo a la DLQ.
func (p *Processor) Process(ctx context.Context, ev AlertEvent) error {
	recipients := p.roster.Recipients()
	if len(recipients) == 0 {
		p.metrics.ObserveNotification("deliver", "no_recipients")
		p.log.Warn().Str("alert_id", ev.AlertID).Msg("sin destinatarios de alertas configurados")
		return nil
	}

	sent := 0
	var lastErr error
	for _, rc := range recipients {
		if err := p.mailer.SendStockAlert(ctx, rc, ev); err != nil {
			lastErr = err
			p.log.Error().Err(err).Str("alert_id", ev.AlertID).Str("to", rc.Email).Msg("fallo al enviar correo de alerta")
			continue
		}
		sent++
	}
	if sent == 0 {
		p.metrics.ObserveNotification("deliver", "error")
		return fmt.Errorf("ningún correo enviado para la alerta %s: %w", ev.AlertID, lastErr)
	}

	if err := p.marker.MarkSent(ctx, ev.AlertID); err != nil {
		p.log.Error().Err(err).Str("alert_id", ev.AlertID).Msg("no se pudo marcar la alerta como enviada")
	}
	p.metrics.ObserveNotification("deliver", "ok")
	p.log.Info().
		Str("alert_id", ev.AlertID).
		Str("severity", ev.Severity).
		Int("recipients", sent).
		Msg("alerta notificada")
	return nil
}
