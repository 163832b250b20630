package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ppe-stock-api/internal/application/dto"
)

// Pinger verificación de la base de datos (pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health GET /health (público). Con base de datos caída responde 503 DATABASE_NOT_READY.
func Health(service string, schemaVersion uint, db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code:    "DATABASE_NOT_READY",
					Message: "base de datos no disponible",
				})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Service: service, SchemaVersion: schemaVersion})
	}
}
