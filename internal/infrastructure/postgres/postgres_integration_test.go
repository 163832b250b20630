//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ppe-stock-api/pkg/config"
)

// newTestPool levanta un PostgreSQL efímero y aplica las migraciones embebidas.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ppe_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor de PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{
		DatabaseURL:       dsn,
		MaxConns:          10,
		ConnectRetries:    5,
		ConnectRetryDelay: 500 * time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	mg, err := postgres.NewMigrator(pool, zerolog.Nop())
	require.NoError(t, err)
	status, err := mg.Up()
	require.NoError(t, err)
	assert.Equal(t, uint(5), status.Version)
	assert.False(t, status.Dirty)
	return pool
}

type seeded struct {
	stationID string
	itemID    string
}

func seed(t *testing.T, pool *pgxpool.Pool, stock, min, critical int) seeded {
	t.Helper()
	ctx := context.Background()
	s := seeded{stationID: uuid.New().String(), itemID: uuid.New().String()}
	_, err := pool.Exec(ctx, `INSERT INTO stations (id, name, location) VALUES ($1, 'Estación Norte', 'Planta 1')`, s.stationID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO ppe_items (id, name, category, default_min_threshold, default_max_capacity, unit_cost)
		VALUES ($1, 'Guantes de nitrilo', 'manos', 10, 100, 1.25)`, s.itemID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO station_inventory (station_id, ppe_item_id, current_stock, min_threshold, critical_threshold, max_capacity)
		VALUES ($1, $2, $3, $4, $5, 100)`, s.stationID, s.itemID, stock, min, critical)
	require.NoError(t, err)
	return s
}

func TestPostgres_LedgerDeExtremoAExtremo(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	s := seed(t, pool, 20, 10, 5)

	txRunner := postgres.NewTxRunner(pool)
	alerts := inventory.NewAlertManager(txRunner, postgres.NewAlertRepository(pool))
	ledger := inventory.NewStockLedger(txRunner, alerts)

	res, err := ledger.ApplyMutation(ctx, entity.StockMutation{
		StationID: s.stationID, PPEItemID: s.itemID, Quantity: 12, Operation: entity.OperationSubtract, Actor: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, res.NewStock)
	require.Len(t, res.CreatedAlerts, 1)

	_, err = ledger.ApplyMutation(ctx, entity.StockMutation{
		StationID: s.stationID, PPEItemID: s.itemID, Quantity: 50, Operation: entity.OperationSubtract, Actor: "admin",
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	rec, err := postgres.NewInventoryRepository(pool).Get(ctx, s.stationID, s.itemID)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.CurrentStock)
	assert.Equal(t, "Estación Norte", rec.StationName)
	assert.Equal(t, "Guantes de nitrilo", rec.ItemName)
}

func TestPostgres_IndiceParcialRespaldaDeduplicacion(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	s := seed(t, pool, 8, 10, 5)
	repo := postgres.NewAlertRepository(pool)

	newAlert := func() *entity.Alert {
		return &entity.Alert{
			ID: uuid.New().String(), StationID: s.stationID, PPEItemID: s.itemID,
			AlertType: entity.AlertTypeLowStock, Severity: entity.SeverityWarning,
			ThresholdValue: 10, CurrentStockAtCreation: 8, Status: entity.AlertStatusActive,
			CreatedAt: time.Now(),
		}
	}
	created, err := repo.Create(ctx, newAlert())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, newAlert())
	require.NoError(t, err)
	assert.False(t, created, "el índice único parcial impide una segunda ACTIVE")

	n, err := repo.ResolveActive(ctx, s.stationID, s.itemID, entity.SystemActor, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	created, err = repo.Create(ctx, newAlert())
	require.NoError(t, err)
	assert.True(t, created, "resuelta la anterior, se permite una nueva ACTIVE")

	list, err := repo.List(ctx, repository.AlertFilter{StationID: s.stationID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPostgres_SubtractConcurrenteNuncaNegativo(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	s := seed(t, pool, 20, 10, 5)

	txRunner := postgres.NewTxRunner(pool)
	alerts := inventory.NewAlertManager(txRunner, postgres.NewAlertRepository(pool))
	ledger := inventory.NewStockLedger(txRunner, alerts)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.ApplyMutation(ctx, entity.StockMutation{
				StationID: s.stationID, PPEItemID: s.itemID, Quantity: 1, Operation: entity.OperationSubtract, Actor: "admin",
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, ok)

	rec, err := postgres.NewInventoryRepository(pool).Get(ctx, s.stationID, s.itemID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentStock)

	active, err := postgres.NewAlertRepository(pool).List(ctx, repository.AlertFilter{Status: entity.AlertStatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestPostgres_BulkRestockAutoInicializa(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	seed(t, pool, 3, 10, 5)
	emptyStation := uuid.New().String()
	_, err := pool.Exec(ctx, `INSERT INTO stations (id, name) VALUES ($1, 'Estación Sur')`, emptyStation)
	require.NoError(t, err)

	txRunner := postgres.NewTxRunner(pool)
	alerts := inventory.NewAlertManager(txRunner, postgres.NewAlertRepository(pool))
	bulk := inventory.NewBulkOperator(txRunner, postgres.NewStationRepository(pool), postgres.NewPPEItemRepository(pool), alerts)

	rep, err := bulk.BulkRestockAllStations(ctx, 40, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.SuccessfulStations)
	assert.Equal(t, 0, rep.FailedStations)

	recs, err := postgres.NewInventoryRepository(pool).ListByStation(ctx, emptyStation)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 40, recs[0].CurrentStock)
	assert.Equal(t, 10, recs[0].MinThreshold)
	assert.Equal(t, 5, recs[0].CriticalThreshold)
}

func TestPostgres_AuditoriaYDestinatarios(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO users (id, email, name, role, receives_alerts) VALUES
		($1, 'jefe@planta.co', 'Jefe', 'admin', true),
		($2, 'bodega@planta.co', 'Bodega', 'staff', true),
		($3, 'admin-silencioso@planta.co', 'Silencioso', 'admin', false)`,
		uuid.New().String(), uuid.New().String(), uuid.New().String())
	require.NoError(t, err)

	users, err := postgres.NewUserRepository(pool).ListAlertRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jefe@planta.co", users[0].Email)

	err = postgres.NewAuditRepository(pool).Create(ctx, &entity.AuditLog{
		ID: uuid.New().String(), UserID: "admin", Action: entity.AuditActionStockUpdate,
		ResourceType: entity.ResourceInventory, ResourceID: "a:b",
		NewValues: []byte(`{"current_stock":5}`), CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestPostgres_CatalogoRechazaMinimoCero(t *testing.T) {
	pool := newTestPool(t)
	_, err := pool.Exec(context.Background(), `INSERT INTO ppe_items (id, name, default_min_threshold) VALUES ($1, 'Tapones', 0)`,
		uuid.New().String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chk_ppe_items_default_min_threshold")
}

func TestPostgres_IDMalformadoEsValidacion(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	s := seed(t, pool, 20, 10, 5)

	txRunner := postgres.NewTxRunner(pool)
	alerts := inventory.NewAlertManager(txRunner, postgres.NewAlertRepository(pool))
	ledger := inventory.NewStockLedger(txRunner, alerts)

	_, err := ledger.ApplyMutation(ctx, entity.StockMutation{
		StationID: "abc", PPEItemID: s.itemID, Quantity: 1, Operation: entity.OperationAdd, Actor: "admin",
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = alerts.AcknowledgeAlert(ctx, "no-es-uuid", "admin")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = postgres.NewStationRepository(pool).GetByID(ctx, "abc")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPostgres_AddQueDesbordaEsValidacion(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool, 20, 10, 5)

	txRunner := postgres.NewTxRunner(pool)
	ledger := inventory.NewStockLedger(txRunner, inventory.NewAlertManager(txRunner, postgres.NewAlertRepository(pool)))
	_, err := ledger.ApplyMutation(context.Background(), entity.StockMutation{
		StationID: s.stationID, PPEItemID: s.itemID, Quantity: entity.MaxStock, Operation: entity.OperationAdd, Actor: "admin",
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
