package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Mailer envío del reporte con adjuntos.
type Mailer interface {
	SendReport(ctx context.Context, to []string, subject, body string, attachments ...File) error
}

// Recipients fuente de los correos destino.
type Recipients interface {
	Emails() []string
}

// Scheduler envía el reporte una vez al día a la hora configurada.
// Revisa el reloj cada minuto; si arranca después de la hora del día no envía hasta el día siguiente.
type Scheduler struct {
	builder    *Builder
	renderers  []Renderer
	mailer     Mailer
	recipients Recipients
	hour       int
	minute     int
	loc        *time.Location
	interval   time.Duration
	now        func() time.Time
	log        zerolog.Logger

	mu      sync.Mutex
	lastDay string
	wg      sync.WaitGroup
}

// NewScheduler construye el planificador. loc nil equivale a UTC.
func NewScheduler(builder *Builder, renderers []Renderer, mailer Mailer, recipients Recipients, hour, minute int, loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		builder:    builder,
		renderers:  renderers,
		mailer:     mailer,
		recipients: recipients,
		hour:       hour,
		minute:     minute,
		loc:        loc,
		interval:   time.Minute,
		now:        time.Now,
		log:        log.With().Str("component", "report_scheduler").Logger(),
	}
}

// Start lanza el ciclo del ticker hasta que se cancele ctx.
func (s *Scheduler) Start(ctx context.Context) {
	now := s.now().In(s.loc)
	if !now.Before(s.target(now)) {
		s.lastDay = dayKey(now)
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.log.Info().Int("hour", s.hour).Int("minute", s.minute).Str("tz", s.loc.String()).Msg("reporte diario programado")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Wait espera a que termine el ciclo.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Tick envía el reporte si ya pasó la hora del día y aún no se envió hoy.
func (s *Scheduler) Tick(ctx context.Context) bool {
	now := s.now().In(s.loc)
	if !s.due(now) {
		return false
	}
	if err := s.RunOnce(ctx); err != nil {
		s.log.Error().Err(err).Msg("falló el envío del reporte diario")
	}
	return true
}

func (s *Scheduler) due(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.target(now)) || s.lastDay == dayKey(now) {
		return false
	}
	// un solo intento por día aunque falle
	s.lastDay = dayKey(now)
	return true
}

func (s *Scheduler) target(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
}

// RunOnce arma, renderiza y envía el reporte.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	to := s.recipients.Emails()
	if len(to) == 0 {
		s.log.Warn().Msg("reporte diario sin destinatarios")
		return nil
	}
	rep, err := s.builder.Build(ctx)
	if err != nil {
		return err
	}
	files := make([]File, 0, len(s.renderers))
	for _, r := range s.renderers {
		f, err := r.Render(rep)
		if err != nil {
			return fmt.Errorf("reporte: renderizar: %w", err)
		}
		files = append(files, f)
	}
	local := rep.GeneratedAt.In(s.loc)
	subject := fmt.Sprintf("Reporte de inventario EPP %s", local.Format("2006-01-02"))
	if err := s.mailer.SendReport(ctx, to, subject, Summary(rep, s.loc), files...); err != nil {
		return err
	}
	s.log.Info().Int("recipients", len(to)).Int("lines", len(rep.Lines)).Msg("reporte diario enviado")
	return nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
