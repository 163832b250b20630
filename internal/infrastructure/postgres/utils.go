package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// IsNotReady indica si el error corresponde a una base que todavía no acepta conexiones:
// arranque/recuperación (57P03), clase 08 (connection exception), conexión rechazada o timeout de dial.
func IsNotReady(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "57P03" || strings.HasPrefix(pgErr.Code, "08")
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return pgconn.Timeout(err)
}

// isInvalidTextRepresentation 22P02: por ejemplo un id que no es un UUID válido.
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// queryError envuelve el error de una consulta con la operación; un parámetro con formato
// inválido (22P02) se reporta como domain.ErrValidation.
func queryError(op string, err error) error {
	if isInvalidTextRepresentation(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrValidation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
