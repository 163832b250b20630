// Package queue cola de trabajos sobre listas de Redis (LPUSH / BRPOP) con pool de workers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
	"github.com/jhoicas/ppe-stock-api/pkg/config"
)

// DLQPrefix prefijo de la lista de trabajos fallidos: dlq:{cola}.
const DLQPrefix = "dlq:"

const popTimeout = 5 * time.Second

// Job sobre genérico de los trabajos encolados.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Enqueued time.Time       `json:"enqueued_at"`
}

// DLQEntry trabajo fallido con metadatos para inspección manual.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
}

// NewRedis crea el cliente y valida la conexión.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// EncodeJob arma el sobre JSON de un trabajo.
func EncodeJob(jobType string, payload any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar payload: %w", err)
	}
	return json.Marshal(Job{Type: jobType, Payload: data, Enqueued: now.UTC()})
}

// DecodeJob lee el sobre JSON.
func DecodeJob(raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, fmt.Errorf("sobre de trabajo inválido: %w", err)
	}
	if job.Type == "" {
		return Job{}, fmt.Errorf("sobre de trabajo sin tipo")
	}
	return job, nil
}

var _ notification.Dispatcher = (*AlertQueue)(nil)

// AlertQueue implementa notification.Dispatcher encolando en Redis.
type AlertQueue struct {
	rdb   *redis.Client
	queue string
}

// NewAlertQueue construye el despachador sobre la lista queue.
func NewAlertQueue(rdb *redis.Client, queue string) *AlertQueue {
	return &AlertQueue{rdb: rdb, queue: queue}
}

// Dispatch LPUSH del evento.
func (q *AlertQueue) Dispatch(ctx context.Context, ev notification.AlertEvent) error {
	data, err := EncodeJob(notification.JobTypeStockAlert, ev, time.Now())
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.queue, data).Err(); err != nil {
		return fmt.Errorf("encolar alerta %s: %w", ev.AlertID, err)
	}
	return nil
}

// Handler procesa el payload de un tipo de trabajo.
type Handler func(ctx context.Context, payload json.RawMessage) error

// AlertHandler adapta un notification.Processor al Handler de la cola.
func AlertHandler(p *notification.Processor) Handler {
	return func(ctx context.Context, payload json.RawMessage) error {
		var ev notification.AlertEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("payload de alerta inválido: %w", err)
		}
		return p.Process(ctx, ev)
	}
}

// WorkerPool consume la cola con N goroutines bloqueadas en BRPOP.
type WorkerPool struct {
	rdb      *redis.Client
	queue    string
	workers  int
	handlers map[string]Handler
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewWorkerPool construye el pool. workers < 1 se normaliza a 1.
func NewWorkerPool(rdb *redis.Client, queue string, workers int, log zerolog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		rdb:      rdb,
		queue:    queue,
		workers:  workers,
		handlers: make(map[string]Handler),
		log:      log.With().Str("component", "worker_pool").Str("queue", queue).Logger(),
	}
}

// Handle registra el handler de un tipo de trabajo. Llamar antes de Start.
func (p *WorkerPool) Handle(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start lanza los workers; terminan cuando se cancela ctx.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.log.Info().Int("workers", p.workers).Msg("pool de workers iniciado")
}

// Wait bloquea hasta que todos los workers terminen.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			p.log.Debug().Int("worker", id).Msg("worker detenido")
			return
		}
		// espera hasta popTimeout y vuelve a revisar ctx
		res, err := p.rdb.BRPop(ctx, popTimeout, p.queue).Result()
		if err != nil {
			if err != redis.Nil && ctx.Err() == nil {
				p.log.Error().Err(err).Int("worker", id).Msg("brpop falló")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(res) < 2 {
			continue
		}
		p.process(context.WithoutCancel(ctx), res[1])
	}
}

func (p *WorkerPool) process(ctx context.Context, raw string) {
	job, err := DecodeJob(raw)
	if err != nil {
		p.toDLQ(ctx, Job{Type: "unknown", Payload: json.RawMessage(raw)}, err)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		p.toDLQ(ctx, job, fmt.Errorf("sin handler para %q", job.Type))
		return
	}
	if err := h(ctx, job.Payload); err != nil {
		p.toDLQ(ctx, job, err)
	}
}

func (p *WorkerPool) toDLQ(ctx context.Context, job Job, reason error) {
	entry := DLQEntry{
		Queue:    p.queue,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason.Error(),
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		p.log.Error().Err(err).Msg("dlq: no se pudo serializar la entrada")
		return
	}
	if err := p.rdb.LPush(ctx, DLQPrefix+p.queue, data).Err(); err != nil {
		p.log.Error().Err(err).Msg("dlq: no se pudo encolar")
		return
	}
	p.log.Warn().Str("job_type", job.Type).Str("reason", entry.Reason).Msg("trabajo movido a la DLQ")
}

// DLQLength tamaño de la DLQ de la cola (monitoreo).
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
