package postgres

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// ListAlertRecipients destinatarios de alertas: rol admin explícito, activos y con receives_alerts.
func (r *UserRepo) ListAlertRecipients(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, email, name, role, receives_alerts, active, created_at, updated_at
		FROM users
		WHERE role = 'admin' AND receives_alerts AND active
		ORDER BY email`)
	if err != nil {
		return nil, queryError("list alert recipients", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.ReceivesAlerts, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, queryError("scan user", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
