package repository

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// PPEItemRepository puerto de lectura del catálogo de EPP.
type PPEItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PPEItem, error)
	ListActive(ctx context.Context) ([]*entity.PPEItem, error)
}
