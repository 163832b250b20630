package repository

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// StationRepository puerto de lectura de estaciones.
type StationRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Station, error)
	ListActive(ctx context.Context) ([]*entity.Station, error)
}
