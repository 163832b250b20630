package repository

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// AuditRepository persiste entradas de auditoría.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
}
