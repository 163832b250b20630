package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/memory"
)

const (
	stationNorte  = "st-norte"
	stationSur    = "st-sur"
	stationCentro = "st-centro"
	itemGuantes   = "epp-guantes"
	itemGafas     = "epp-gafas"
	testActor     = "admin-1"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []*entity.Alert
}

func (n *recordingNotifier) NotifyAlertCreated(_ context.Context, _ *entity.InventoryRecord, a *entity.Alert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (a *recordingAuditor) LogAction(_ context.Context, e *entity.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	alerts   *inventory.AlertManager
	ledger   *inventory.StockLedger
	bulk     *inventory.BulkOperator
	queries  *inventory.QueryService
	notifier *recordingNotifier
	auditor  *recordingAuditor
}

// newFixture estación Norte con guantes en 20/10/5 y el catálogo con guantes y gafas.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	store.AddStation(entity.Station{ID: stationNorte, Name: "Estación Norte", Location: "Planta 1", Active: true})
	store.AddItem(entity.PPEItem{ID: itemGuantes, Name: "Guantes de nitrilo", Category: "manos",
		DefaultMinThreshold: 10, DefaultMaxCapacity: 100, UnitCost: decimal.RequireFromString("1.25"), Active: true})
	store.AddItem(entity.PPEItem{ID: itemGafas, Name: "Gafas de seguridad", Category: "ojos",
		DefaultMinThreshold: 6, DefaultMaxCapacity: 40, UnitCost: decimal.RequireFromString("4.90"), Active: true})
	store.PutRecord(entity.InventoryRecord{
		StationID: stationNorte, PPEItemID: itemGuantes,
		CurrentStock: 20, MinThreshold: 10, CriticalThreshold: 5, MaxCapacity: 100,
		CreatedAt: now, UpdatedAt: now,
	})

	var clockMu sync.Mutex
	tick := now
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}

	f := &fixture{store: store, notifier: &recordingNotifier{}, auditor: &recordingAuditor{}}
	opts := []inventory.Option{
		inventory.WithNotifier(f.notifier),
		inventory.WithAuditLogger(f.auditor),
		inventory.WithClock(clock),
	}
	f.alerts = inventory.NewAlertManager(store, store.Alerts(), opts...)
	f.ledger = inventory.NewStockLedger(store, f.alerts, opts...)
	f.bulk = inventory.NewBulkOperator(store, store.Stations(), store.Items(), f.alerts, opts...)
	f.queries = inventory.NewQueryService(store.Stations(), store.Inventory())
	return f
}

func (f *fixture) subtract(t *testing.T, qty int) (*inventory.MutationResult, error) {
	t.Helper()
	return f.ledger.ApplyMutation(context.Background(), entity.StockMutation{
		StationID: stationNorte, PPEItemID: itemGuantes, Quantity: qty,
		Operation: entity.OperationSubtract, Actor: testActor,
	})
}

func (f *fixture) add(t *testing.T, qty int) (*inventory.MutationResult, error) {
	t.Helper()
	return f.ledger.ApplyMutation(context.Background(), entity.StockMutation{
		StationID: stationNorte, PPEItemID: itemGuantes, Quantity: qty,
		Operation: entity.OperationAdd, Actor: testActor,
	})
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	rec, err := f.store.Inventory().Get(context.Background(), stationNorte, itemGuantes)
	if err != nil || rec == nil {
		t.Fatalf("registro de inventario no encontrado: %v", err)
	}
	return rec.CurrentStock
}
