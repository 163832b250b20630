// Package mail envío de correos (alertas de stock y reporte diario) vía SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
	"github.com/jhoicas/ppe-stock-api/internal/application/report"
	"github.com/jhoicas/ppe-stock-api/pkg/config"
)

// Attachment adjunto en memoria (PDF, XLSX).
type Attachment = report.File

// sendFunc entrega el correo armado. Reemplazable en tests.
type sendFunc func(e *email.Email) error

var (
	_ notification.AlertMailer = (*Mailer)(nil)
	_ report.Mailer            = (*Mailer)(nil)
)

// Mailer SMTP. Con Host vacío solo registra en log lo que enviaría.
type Mailer struct {
	from string
	send sendFunc
	log  zerolog.Logger
}

// NewMailer construye el mailer desde la configuración SMTP.
func NewMailer(cfg config.SMTPConfig, log zerolog.Logger) *Mailer {
	m := &Mailer{from: cfg.From, log: log.With().Str("component", "mailer").Logger()}
	if m.from == "" {
		m.from = cfg.User
	}
	if cfg.Host == "" {
		m.send = m.logOnly
		return m
	}
	auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	addr := cfg.Addr()
	m.send = func(e *email.Email) error {
		return e.Send(addr, auth)
	}
	return m
}

// newMailerWithSender solo para tests.
func newMailerWithSender(from string, send sendFunc, log zerolog.Logger) *Mailer {
	return &Mailer{from: from, send: send, log: log}
}

func (m *Mailer) logOnly(e *email.Email) error {
	m.log.Info().
		Strs("to", e.To).
		Str("subject", e.Subject).
		Int("attachments", len(e.Attachments)).
		Msg("SMTP no configurado: correo no enviado")
	return nil
}

// SendStockAlert envía el correo de alerta a un destinatario.
func (m *Mailer) SendStockAlert(ctx context.Context, to notification.Recipient, ev notification.AlertEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to.Email}
	e.Subject = AlertSubject(ev)
	e.Text = []byte(AlertBody(to, ev))
	if err := m.send(e); err != nil {
		return fmt.Errorf("mailer: alerta %s a %s: %w", ev.AlertID, to.Email, err)
	}
	return nil
}

// SendReport envía el reporte con adjuntos a todos los destinatarios.
func (m *Mailer) SendReport(ctx context.Context, to []string, subject, body string, attachments ...Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(to) == 0 {
		return fmt.Errorf("mailer: reporte sin destinatarios")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = append([]string(nil), to...)
	e.Subject = subject
	e.Text = []byte(body)
	for _, a := range attachments {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType); err != nil {
			return fmt.Errorf("mailer: adjuntar %s: %w", a.Filename, err)
		}
	}
	if err := m.send(e); err != nil {
		return fmt.Errorf("mailer: reporte: %w", err)
	}
	return nil
}
