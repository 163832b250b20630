// Package audit registro asíncrono de acciones de usuario.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

const writeTimeout = 5 * time.Second

// Service persiste entradas de auditoría en segundo plano. Un fallo se registra en log
// y nunca afecta a la operación que lo originó.
type Service struct {
	repo repository.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
	wg   sync.WaitGroup
}

// NewService construye el servicio.
func NewService(repo repository.AuditRepository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "audit").Logger(),
		now:  time.Now,
	}
}

// LogAction completa ID y fecha y lanza la escritura sin bloquear.
func (s *Service) LogAction(ctx context.Context, entry *entity.AuditLog) {
	if entry == nil {
		return
	}
	e := *entry
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	if e.UserID == "" {
		e.UserID = "system"
	}

	wctx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		cctx, cancel := context.WithTimeout(wctx, writeTimeout)
		defer cancel()
		if err := s.repo.Create(cctx, &e); err != nil {
			s.log.Error().Err(err).
				Str("action", e.Action).
				Str("resource", e.ResourceType).
				Str("resource_id", e.ResourceID).
				Msg("no se pudo guardar la auditoría")
		}
	}()
}

// Wait espera las escrituras pendientes (apagado ordenado, tests).
func (s *Service) Wait() {
	s.wg.Wait()
}
