package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; stock y alertas nunca quedan desalineados.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		alertRepo repository.AlertRepository,
	) error) error
}

// AlertNotifier recibe las alertas ya confirmadas (después del Commit).
// Es best-effort: las implementaciones registran sus fallos y no los propagan.
type AlertNotifier interface {
	NotifyAlertCreated(ctx context.Context, record *entity.InventoryRecord, alert *entity.Alert)
}

// AuditLogger registra acciones de auditoría sin bloquear ni fallar la operación principal.
type AuditLogger interface {
	LogAction(ctx context.Context, entry *entity.AuditLog)
}

// Metrics contadores del motor de inventario.
type Metrics interface {
	ObserveMutation(operation, result string)
	AlertsCreated(alertType string, n int)
	AlertsResolved(n int)
	ObserveBulkRestock(result string)
}

type collaborators struct {
	notifier AlertNotifier
	auditor  AuditLogger
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// Option configura colaboradores opcionales de los casos de uso.
type Option func(*collaborators)

// WithNotifier asigna el despachador de notificaciones.
func WithNotifier(n AlertNotifier) Option {
	return func(c *collaborators) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithAuditLogger asigna el servicio de auditoría.
func WithAuditLogger(a AuditLogger) Option {
	return func(c *collaborators) {
		if a != nil {
			c.auditor = a
		}
	}
}

// WithMetrics asigna los contadores.
func WithMetrics(m Metrics) Option {
	return func(c *collaborators) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *collaborators) {
		c.log = l
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *collaborators) {
		if now != nil {
			c.now = now
		}
	}
}

func newCollaborators(component string, opts []Option) collaborators {
	c := collaborators{
		notifier: nopNotifier{},
		auditor:  nopAuditor{},
		metrics:  nopMetrics{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.log = c.log.With().Str("component", component).Logger()
	return c
}

func (c *collaborators) notifyCreated(ctx context.Context, record *entity.InventoryRecord, alerts []*entity.Alert) {
	for _, a := range alerts {
		c.notifier.NotifyAlertCreated(ctx, record, a)
	}
}

type nopNotifier struct{}

func (nopNotifier) NotifyAlertCreated(context.Context, *entity.InventoryRecord, *entity.Alert) {}

type nopAuditor struct{}

func (nopAuditor) LogAction(context.Context, *entity.AuditLog) {}

type nopMetrics struct{}

func (nopMetrics) ObserveMutation(string, string) {}
func (nopMetrics) AlertsCreated(string, int)      {}
func (nopMetrics) AlertsResolved(int)             {}
func (nopMetrics) ObserveBulkRestock(string)      {}
