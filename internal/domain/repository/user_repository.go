package repository

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// UserRepository puerto de usuarios; solo se usa para resolver destinatarios de alertas.
type UserRepository interface {
	// ListAlertRecipients usuarios activos con rol admin y ReceivesAlerts.
	ListAlertRecipients(ctx context.Context) ([]*entity.User, error)
}
