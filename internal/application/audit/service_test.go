package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ppe-stock-api/internal/application/audit"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/memory"
)

type failingRepo struct{ calls int }

func (r *failingRepo) Create(context.Context, *entity.AuditLog) error {
	r.calls++
	return errors.New("bd caída")
}

func TestLogAction_Persiste(t *testing.T) {
	store := memory.NewStore()
	svc := audit.NewService(store.Audit(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.LogAction(ctx, &entity.AuditLog{
		UserID:       "admin-1",
		Action:       entity.AuditActionStockUpdate,
		ResourceType: entity.ResourceInventory,
		ResourceID:   "st-1:it-1",
	})
	svc.Wait()

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
	assert.Equal(t, "admin-1", entries[0].UserID)
}

func TestLogAction_ActorVacioEsSystem(t *testing.T) {
	store := memory.NewStore()
	svc := audit.NewService(store.Audit(), zerolog.Nop())

	svc.LogAction(context.Background(), &entity.AuditLog{Action: entity.AuditActionBulkRestock})
	svc.LogAction(context.Background(), nil)
	svc.Wait()

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "system", entries[0].UserID)
}

func TestLogAction_ErrorNoSePropaga(t *testing.T) {
	repo := &failingRepo{}
	svc := audit.NewService(repo, zerolog.Nop())

	assert.NotPanics(t, func() {
		svc.LogAction(context.Background(), &entity.AuditLog{Action: entity.AuditActionThresholdUpdate})
		svc.Wait()
	})
	assert.Equal(t, 1, repo.calls)
}
