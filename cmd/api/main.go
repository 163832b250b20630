package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ppe-stock-api/internal/application/audit"
	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
	"github.com/jhoicas/ppe-stock-api/internal/application/report"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/mail"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/metrics"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/queue"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/ppe-stock-api/internal/interfaces/http"
	"github.com/jhoicas/ppe-stock-api/pkg/config"
	"github.com/jhoicas/ppe-stock-api/pkg/logger"
)

// storage repositorios y TxRunner de un backend (postgres o memoria).
type storage struct {
	tx       inventory.TxRunner
	inv      repository.InventoryRepository
	alerts   repository.AlertRepository
	stations repository.StationRepository
	items    repository.PPEItemRepository
	users    repository.UserRepository
	audit    repository.AuditRepository

	db            httpRouter.Pinger
	schemaVersion uint
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("notify_driver", cfg.Notify.Driver).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("la aplicación terminó con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// run arma las dependencias y sirve HTTP hasta recibir SIGINT/SIGTERM.
// Devuelve el error en lugar de terminar el proceso para que los defer se ejecuten.
func run(cfg *config.Config, log *logger.Logger) error {
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("inicializar almacenamiento: %w", err)
	}
	defer store.close()

	reg := metrics.New()

	// Destinatarios resueltos una sola vez al arrancar
	roster, err := notification.LoadRoster(ctx, store.users)
	if err != nil {
		return fmt.Errorf("cargar destinatarios de alertas: %w", err)
	}
	log.Info().Int("recipients", roster.Len()).Msg("destinatarios de alertas cargados")

	mailer := mail.NewMailer(cfg.SMTP, log.Zerolog())
	processor := notification.NewProcessor(roster, mailer, store.alerts, reg, log.Zerolog())

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var (
		dispatcher notification.Dispatcher
		pool       *queue.WorkerPool
	)
	switch cfg.Notify.Driver {
	case "redis":
		var rdb *redis.Client
		rdb, err = queue.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("conexión a Redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		dispatcher = queue.NewAlertQueue(rdb, cfg.Redis.Queue)
		pool = queue.NewWorkerPool(rdb, cfg.Redis.Queue, cfg.Redis.Workers, log.Zerolog())
		pool.Handle(notification.JobTypeStockAlert, queue.AlertHandler(processor))
		pool.Start(workersCtx)
	default:
		dispatcher = notification.NewLogDispatcher(log.Zerolog(), processor)
	}
	notifier := notification.NewService(dispatcher, reg, log.Zerolog())

	auditSvc := audit.NewService(store.audit, log.Zerolog())

	opts := []inventory.Option{
		inventory.WithNotifier(notifier),
		inventory.WithAuditLogger(auditSvc),
		inventory.WithMetrics(reg),
		inventory.WithLogger(log.Zerolog()),
	}
	alertManager := inventory.NewAlertManager(store.tx, store.alerts, opts...)
	ledger := inventory.NewStockLedger(store.tx, alertManager, opts...)
	bulk := inventory.NewBulkOperator(store.tx, store.stations, store.items, alertManager, opts...)
	queries := inventory.NewQueryService(store.stations, store.inv)

	loc := cfg.Report.Location()
	reportBuilder := report.NewBuilder(store.stations, store.items, store.inv, store.alerts)
	pdfRenderer := pdf.NewReportRenderer(loc)
	xlsxRenderer := xlsx.NewReportRenderer(loc)

	var scheduler *report.Scheduler
	if cfg.Report.Enabled {
		scheduler = report.NewScheduler(reportBuilder, []report.Renderer{pdfRenderer, xlsxRenderer},
			mailer, roster, cfg.Report.Hour, cfg.Report.Minute, loc, log.Zerolog())
		scheduler.Start(workersCtx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestMetrics(reg))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PPE Stock API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:        ledger,
		Alerts:        alertManager,
		Bulk:          bulk,
		Queries:       queries,
		ReportBuilder: reportBuilder,
		PDFRenderer:   pdfRenderer,
		XLSXRenderer:  xlsxRenderer,
		JWTSecret:     cfg.JWT.Secret,
		ServiceName:   cfg.App.Name,
		SchemaVersion: store.schemaVersion,
		DB:            store.db,
		Metrics:       reg.Handler(),
		Log:           log.Component("http"),
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	case err := <-listenErr:
		serveErr = fmt.Errorf("servidor HTTP: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	stopWorkers()
	if pool != nil {
		pool.Wait()
	}
	if scheduler != nil {
		scheduler.Wait()
	}
	auditSvc.Wait()
	return serveErr
}

// openStorage conecta PostgreSQL (con reintentos y migraciones) o arma el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == "memory" {
		mem := memory.NewStore()
		memory.SeedDemo(mem, cfg.App.DemoAdminEmail)
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			tx:       mem,
			inv:      mem.Inventory(),
			alerts:   mem.Alerts(),
			stations: mem.Stations(),
			items:    mem.Items(),
			users:    mem.Users(),
			audit:    mem.Audit(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	migrator, err := postgres.NewMigrator(pool, log.Zerolog())
	if err != nil {
		pool.Close()
		return nil, err
	}
	status, err := migrator.Up()
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		tx:            postgres.NewTxRunner(pool),
		inv:           postgres.NewInventoryRepository(pool),
		alerts:        postgres.NewAlertRepository(pool),
		stations:      postgres.NewStationRepository(pool),
		items:         postgres.NewPPEItemRepository(pool),
		users:         postgres.NewUserRepository(pool),
		audit:         postgres.NewAuditRepository(pool),
		db:            pool,
		schemaVersion: status.Version,
		close:         pool.Close,
	}, nil
}

