package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
	"github.com/jhoicas/ppe-stock-api/pkg/config"
)

func sampleEvent(severity string) notification.AlertEvent {
	return notification.AlertEvent{
		AlertID:         "a-1",
		StationName:     "Estación Norte",
		StationLocation: "Bodega 1",
		ItemName:        "Guantes de nitrilo",
		ItemCategory:    "Manos",
		CurrentStock:    12000,
		ThresholdValue:  15000,
		Severity:        severity,
		CreatedAt:       time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestAlertSubject(t *testing.T) {
	assert.Equal(t, "[STOCK BAJO] Guantes de nitrilo en Estación Norte", AlertSubject(sampleEvent("WARNING")))
	assert.Equal(t, "[STOCK CRÍTICO] Guantes de nitrilo en Estación Norte", AlertSubject(sampleEvent("CRITICAL")))
}

func TestAlertBody(t *testing.T) {
	body := AlertBody(notification.Recipient{Name: "Ana"}, sampleEvent("CRITICAL"))
	assert.Contains(t, body, "Hola Ana")
	assert.Contains(t, body, "CRÍTICO")
	assert.Contains(t, body, "Estación Norte (Bodega 1)")
	assert.Contains(t, body, "[Manos]")
	// separador de miles en español
	assert.Contains(t, body, "12.000")
	assert.Contains(t, body, "15.000")
}

func TestSendStockAlert(t *testing.T) {
	var got *email.Email
	m := newMailerWithSender("alertas@planta.co", func(e *email.Email) error {
		got = e
		return nil
	}, zerolog.Nop())

	err := m.SendStockAlert(context.Background(), notification.Recipient{Name: "Ana", Email: "ana@planta.co"}, sampleEvent("WARNING"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alertas@planta.co", got.From)
	assert.Equal(t, []string{"ana@planta.co"}, got.To)
	assert.Contains(t, got.Subject, "STOCK BAJO")
}

func TestSendStockAlert_ErrorDeEnvio(t *testing.T) {
	m := newMailerWithSender("x@planta.co", func(*email.Email) error { return errors.New("smtp caído") }, zerolog.Nop())
	err := m.SendStockAlert(context.Background(), notification.Recipient{Email: "ana@planta.co"}, sampleEvent("WARNING"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp caído")
}

func TestSendReport_Adjuntos(t *testing.T) {
	var got *email.Email
	m := newMailerWithSender("x@planta.co", func(e *email.Email) error {
		got = e
		return nil
	}, zerolog.Nop())

	err := m.SendReport(context.Background(), []string{"a@planta.co", "b@planta.co"}, "Reporte", "cuerpo",
		Attachment{Filename: "r.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		Attachment{Filename: "r.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: []byte("PK")},
	)
	require.NoError(t, err)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, "r.pdf", got.Attachments[0].Filename)
	assert.Len(t, got.To, 2)
}

func TestSendReport_SinDestinatarios(t *testing.T) {
	m := newMailerWithSender("x@planta.co", func(*email.Email) error { return nil }, zerolog.Nop())
	assert.Error(t, m.SendReport(context.Background(), nil, "s", "b"))
}

func TestNewMailer_SinHostSoloLog(t *testing.T) {
	m := NewMailer(config.SMTPConfig{User: "u@planta.co"}, zerolog.Nop())
	assert.Equal(t, "u@planta.co", m.from)
	require.NoError(t, m.SendStockAlert(context.Background(), notification.Recipient{Email: "a@planta.co"}, sampleEvent("WARNING")))
}
