package postgres

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo persiste audit_logs. Las columnas JSON aceptan NULL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, old_values, new_values, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, e.Action, e.ResourceType, e.ResourceID,
		nullJSON(e.OldValues), nullJSON(e.NewValues), nullJSON(e.Metadata), e.CreatedAt,
	)
	if err != nil {
		return queryError("insert audit log", err)
	}
	return nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
