package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var (
	_ repository.StationRepository = (*StationRepo)(nil)
	_ repository.PPEItemRepository = (*PPEItemRepo)(nil)
)

// StationRepo lectura de estaciones sobre PostgreSQL.
type StationRepo struct {
	q Querier
}

// NewStationRepository construye el adaptador de estaciones.
func NewStationRepository(q Querier) *StationRepo {
	return &StationRepo{q: q}
}

func (r *StationRepo) GetByID(ctx context.Context, id string) (*entity.Station, error) {
	var s entity.Station
	err := r.q.QueryRow(ctx, `
		SELECT id, name, location, active, created_at, updated_at
		FROM stations WHERE id = $1`, id).Scan(
		&s.ID, &s.Name, &s.Location, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError("get station", err)
	}
	return &s, nil
}

func (r *StationRepo) ListActive(ctx context.Context) ([]*entity.Station, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, location, active, created_at, updated_at
		FROM stations WHERE active ORDER BY name`)
	if err != nil {
		return nil, queryError("list stations", err)
	}
	defer rows.Close()
	var list []*entity.Station
	for rows.Next() {
		var s entity.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, queryError("scan station", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// PPEItemRepo lectura del catálogo de EPP sobre PostgreSQL.
type PPEItemRepo struct {
	q Querier
}

// NewPPEItemRepository construye el adaptador del catálogo.
func NewPPEItemRepository(q Querier) *PPEItemRepo {
	return &PPEItemRepo{q: q}
}

const ppeItemColumns = `id, name, category, default_min_threshold, default_max_capacity, unit_cost, active, created_at, updated_at`

func scanPPEItem(row pgx.Row) (*entity.PPEItem, error) {
	var p entity.PPEItem
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.DefaultMinThreshold, &p.DefaultMaxCapacity,
		&p.UnitCost, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PPEItemRepo) GetByID(ctx context.Context, id string) (*entity.PPEItem, error) {
	p, err := scanPPEItem(r.q.QueryRow(ctx, `SELECT `+ppeItemColumns+` FROM ppe_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError("get ppe item", err)
	}
	return p, nil
}

func (r *PPEItemRepo) ListActive(ctx context.Context) ([]*entity.PPEItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ppeItemColumns+` FROM ppe_items WHERE active ORDER BY name`)
	if err != nil {
		return nil, queryError("list ppe items", err)
	}
	defer rows.Close()
	var list []*entity.PPEItem
	for rows.Next() {
		p, err := scanPPEItem(rows)
		if err != nil {
			return nil, queryError("scan ppe item", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
