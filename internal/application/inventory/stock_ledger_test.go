package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

func activeAlerts(t *testing.T, f *fixture) []*entity.Alert {
	t.Helper()
	list, err := f.alerts.ListAlerts(context.Background(), repository.AlertFilter{Status: entity.AlertStatusActive})
	require.NoError(t, err)
	return list
}

// 20/10/5: SUBTRACT 12 deja 8 (LOW) y SUBTRACT 4 deja 4 (CRITICAL); la LOW_STOCK sigue activa.
func TestApplyMutation_BajaALowYLuegoACritical(t *testing.T) {
	f := newFixture(t)

	res, err := f.subtract(t, 12)
	require.NoError(t, err)
	assert.Equal(t, 20, res.PreviousStock)
	assert.Equal(t, 8, res.NewStock)
	assert.Equal(t, domaininv.StatusLow, res.Status)
	require.Len(t, res.CreatedAlerts, 1)
	low := res.CreatedAlerts[0]
	assert.Equal(t, entity.AlertTypeLowStock, low.AlertType)
	assert.Equal(t, entity.SeverityWarning, low.Severity)
	assert.Equal(t, 10, low.ThresholdValue)
	assert.Equal(t, 8, low.CurrentStockAtCreation)

	res, err = f.subtract(t, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, res.NewStock)
	assert.Equal(t, domaininv.StatusCritical, res.Status)
	require.Len(t, res.CreatedAlerts, 1)
	critical := res.CreatedAlerts[0]
	assert.Equal(t, entity.AlertTypeCriticalLow, critical.AlertType)
	assert.Equal(t, entity.SeverityCritical, critical.Severity)
	assert.Equal(t, 5, critical.ThresholdValue)
	assert.Equal(t, 4, critical.CurrentStockAtCreation)

	active := activeAlerts(t, f)
	require.Len(t, active, 2)
	types := []string{active[0].AlertType, active[1].AlertType}
	assert.ElementsMatch(t, []string{entity.AlertTypeLowStock, entity.AlertTypeCriticalLow}, types)

	assert.Equal(t, 2, f.notifier.count(), "una notificación por alerta creada")
}

func TestApplyMutation_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture(t)

	_, err := f.subtract(t, 25)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 20, f.stock(t))
	assert.Empty(t, activeAlerts(t, f))
	assert.Empty(t, f.auditor.actions())
	assert.Equal(t, 0, f.notifier.count())
}

func TestApplyMutation_CantidadFueraDeRango(t *testing.T) {
	f := newFixture(t)

	_, err := f.add(t, math.MaxInt64)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation), "un ADD enorme es de validación, no de stock insuficiente")

	_, err = f.add(t, entity.MaxStock+1)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.subtract(t, math.MaxInt64)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	// 20 + MaxStock desborda la columna aunque la cantidad sea válida
	_, err = f.add(t, entity.MaxStock)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Equal(t, 20, f.stock(t))
	assert.Empty(t, f.auditor.actions())
}

func TestApplyMutation_AddHastaElMaximo(t *testing.T) {
	f := newFixture(t)

	res, err := f.add(t, entity.MaxStock-20)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStock, res.NewStock)
}

func TestApplyMutation_SubtractExactoLlegaACero(t *testing.T) {
	f := newFixture(t)

	res, err := f.subtract(t, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewStock)
	assert.Equal(t, domaininv.StatusCritical, res.Status)
	// cae directo a CRITICAL: solo se crea la alerta del nivel alcanzado
	require.Len(t, res.CreatedAlerts, 1)
	assert.Equal(t, entity.AlertTypeCriticalLow, res.CreatedAlerts[0].AlertType)
}

func TestApplyMutation_RecuperacionResuelveTodas(t *testing.T) {
	f := newFixture(t)

	_, err := f.subtract(t, 12)
	require.NoError(t, err)
	_, err = f.subtract(t, 4)
	require.NoError(t, err)
	require.Len(t, activeAlerts(t, f), 2)

	res, err := f.add(t, 20)
	require.NoError(t, err)
	assert.Equal(t, 24, res.NewStock)
	assert.Equal(t, domaininv.StatusGood, res.Status)
	assert.Equal(t, 2, res.ResolvedAlerts)
	assert.Empty(t, res.CreatedAlerts)
	assert.Empty(t, activeAlerts(t, f))

	resolved, err := f.alerts.ListAlerts(context.Background(), repository.AlertFilter{Status: entity.AlertStatusResolved})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	for _, a := range resolved {
		require.NotNil(t, a.AcknowledgedBy)
		assert.Equal(t, testActor, *a.AcknowledgedBy)
		assert.NotNil(t, a.AcknowledgedAt)
	}
}

func TestApplyMutation_StockIgualAlMinimoNoResuelve(t *testing.T) {
	f := newFixture(t)

	_, err := f.subtract(t, 12)
	require.NoError(t, err)

	res, err := f.add(t, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, res.NewStock)
	assert.Equal(t, domaininv.StatusLow, res.Status)
	assert.Zero(t, res.ResolvedAlerts)
	assert.Empty(t, res.CreatedAlerts)
	assert.Len(t, activeAlerts(t, f), 1)
}

func TestApplyMutation_DeduplicaEnLaMismaBanda(t *testing.T) {
	f := newFixture(t)

	first, err := f.subtract(t, 11)
	require.NoError(t, err)
	require.Len(t, first.CreatedAlerts, 1)

	second, err := f.subtract(t, 1)
	require.NoError(t, err)
	assert.Equal(t, domaininv.StatusLow, second.Status)
	assert.Empty(t, second.CreatedAlerts)

	active := activeAlerts(t, f)
	require.Len(t, active, 1)
	assert.Equal(t, 9, active[0].CurrentStockAtCreation, "la foto no se actualiza con bajadas posteriores")
}

func TestApplyMutation_ConcurrenteNuncaNegativo(t *testing.T) {
	f := newFixture(t)

	const workers = 30
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.subtract(t, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, ok)
	assert.Equal(t, 10, rejected)
	assert.Equal(t, 0, f.stock(t))

	active := activeAlerts(t, f)
	perType := map[string]int{}
	for _, a := range active {
		perType[a.AlertType]++
	}
	assert.Equal(t, 1, perType[entity.AlertTypeLowStock])
	assert.Equal(t, 1, perType[entity.AlertTypeCriticalLow])
}

func TestApplyMutation_FalloAlCrearAlertaRevierteStock(t *testing.T) {
	f := newFixture(t)
	f.store.InjectAlertCreateError(errors.New("disco lleno"))

	_, err := f.subtract(t, 12)
	require.Error(t, err)
	assert.Equal(t, 20, f.stock(t))
	assert.Empty(t, activeAlerts(t, f))
	assert.Equal(t, 0, f.notifier.count())

	// la siguiente mutación ya no falla
	res, err := f.subtract(t, 12)
	require.NoError(t, err)
	assert.Len(t, res.CreatedAlerts, 1)
}

func TestApplyMutation_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		m    entity.StockMutation
		want error
	}{
		{"cantidad cero", entity.StockMutation{StationID: stationNorte, PPEItemID: itemGuantes, Quantity: 0, Operation: entity.OperationAdd, Actor: testActor}, domain.ErrValidation},
		{"cantidad negativa", entity.StockMutation{StationID: stationNorte, PPEItemID: itemGuantes, Quantity: -3, Operation: entity.OperationAdd, Actor: testActor}, domain.ErrValidation},
		{"operación desconocida", entity.StockMutation{StationID: stationNorte, PPEItemID: itemGuantes, Quantity: 1, Operation: "MULTIPLY", Actor: testActor}, domain.ErrValidation},
		{"sin actor", entity.StockMutation{StationID: stationNorte, PPEItemID: itemGuantes, Quantity: 1, Operation: entity.OperationAdd}, domain.ErrValidation},
		{"par inexistente", entity.StockMutation{StationID: stationNorte, PPEItemID: itemGafas, Quantity: 1, Operation: entity.OperationAdd, Actor: testActor}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.ApplyMutation(ctx, tc.m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Equal(t, 20, f.stock(t))
}

func TestApplyMutation_AuditaDespuesDelCommit(t *testing.T) {
	f := newFixture(t)

	_, err := f.add(t, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.AuditActionStockUpdate}, f.auditor.actions())
	assert.Equal(t, 25, f.stock(t))
}

func TestApplyMutation_ContextoCanceladoNoAbortaLaTransaccion(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.ledger.ApplyMutation(ctx, entity.StockMutation{
		StationID: stationNorte, PPEItemID: itemGuantes, Quantity: 1,
		Operation: entity.OperationSubtract, Actor: testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, 19, f.stock(t))
}
