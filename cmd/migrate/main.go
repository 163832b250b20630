// migrate aplica o revierte las migraciones embebidas sin levantar la API.
//
// Uso: go run ./cmd/migrate [up|down|force N|status|seed archivo.sql]
// seed aplica el script generado por cmd/seed_catalog (se migra antes).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ppe-stock-api/pkg/config"
	"github.com/jhoicas/ppe-stock-api/pkg/logger"
)

func main() {
	cmd, args := "up", []string(nil)
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	if err := run(cfg, log, cmd, args); err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migrate falló")
		if errors.Is(err, errUnknownCommand) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUnknownCommand = errors.New("comando desconocido (up|down|force N|status|seed archivo.sql)")

// run ejecuta el subcomando; los defer cierran el migrador y el pool aun cuando falla.
func run(cfg *config.Config, log zerolog.Logger, cmd string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("conectar a PostgreSQL: %w", err)
	}
	defer pool.Close()

	mg, err := postgres.NewMigrator(pool, log)
	if err != nil {
		return fmt.Errorf("crear migrador: %w", err)
	}
	defer mg.Close()

	switch cmd {
	case "up":
		status, err := mg.Up()
		if err != nil {
			return fmt.Errorf("aplicar migraciones: %w", err)
		}
		fmt.Printf("versión %d\n", status.Version)
	case "down":
		if err := mg.Down(); err != nil {
			return fmt.Errorf("revertir migraciones: %w", err)
		}
	case "force":
		if len(args) < 1 {
			return errors.New("uso: migrate force <versión>")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("versión inválida %q: %w", args[0], err)
		}
		if err := mg.Force(v); err != nil {
			return fmt.Errorf("forzar versión: %w", err)
		}
	case "status":
		status, err := mg.Status()
		if err != nil {
			return fmt.Errorf("leer versión: %w", err)
		}
		fmt.Printf("versión %d dirty=%t\n", status.Version, status.Dirty)
	case "seed":
		if len(args) < 1 {
			return errors.New("uso: migrate seed <archivo.sql>")
		}
		script, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("leer script de seed: %w", err)
		}
		if _, err := mg.Up(); err != nil {
			return fmt.Errorf("aplicar migraciones: %w", err)
		}
		// sin argumentos pgx usa el protocolo simple y admite varias sentencias
		if _, err := pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("aplicar seed: %w", err)
		}
		log.Info().Str("file", args[0]).Msg("seed aplicado")
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd)
	}
	return nil
}
