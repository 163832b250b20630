package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaStatus versión del esquema tras migrar. Se lee una sola vez al arrancar.
type SchemaStatus struct {
	Version uint
	Dirty   bool
}

// Migrator aplica las migraciones embebidas con golang-migrate.
type Migrator struct {
	m   *migrate.Migrate
	log zerolog.Logger
}

// NewMigrator construye el migrador sobre el pool (vía database/sql de pgx).
func NewMigrator(pool *pgxpool.Pool, log zerolog.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migraciones embebidas: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("driver de migraciones: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("crear migrador: %w", err)
	}
	return &Migrator{m: m, log: log.With().Str("component", "migrator").Logger()}, nil
}

// Up aplica las migraciones pendientes y devuelve el estado resultante.
// Falla si el esquema queda (o ya estaba) marcado como dirty.
func (mg *Migrator) Up() (SchemaStatus, error) {
	err := mg.m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return SchemaStatus{}, fmt.Errorf("migration up: %w", err)
	}
	status, err := mg.Status()
	if err != nil {
		return SchemaStatus{}, err
	}
	if status.Dirty {
		return status, fmt.Errorf("esquema en estado dirty (versión %d): requiere intervención manual", status.Version)
	}
	mg.log.Info().Uint("version", status.Version).Msg("migraciones aplicadas")
	return status, nil
}

// Down revierte todas las migraciones.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	mg.log.Warn().Msg("migraciones revertidas")
	return nil
}

// Force fija la versión sin ejecutar migraciones (para limpiar un estado dirty).
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	mg.log.Warn().Int("version", version).Msg("versión de esquema forzada")
	return nil
}

// Status versión actual; versión 0 si nunca se migró.
func (mg *Migrator) Status() (SchemaStatus, error) {
	v, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return SchemaStatus{}, nil
		}
		return SchemaStatus{}, fmt.Errorf("migration version: %w", err)
	}
	return SchemaStatus{Version: v, Dirty: dirty}, nil
}

// Close libera el origen de migraciones. No cierra el pool.
func (mg *Migrator) Close() error {
	srcErr, _ := mg.m.Close()
	return srcErr
}
