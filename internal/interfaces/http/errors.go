package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/dto"
	"github.com/jhoicas/ppe-stock-api/internal/domain"
)

// statusFor código HTTP por tipo de error de dominio.
func statusFor(kind string) int {
	switch kind {
	case "VALIDATION":
		return fiber.StatusBadRequest
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "INSUFFICIENT_STOCK", "INVALID_STATE":
		return fiber.StatusConflict
	case "DATABASE_NOT_READY":
		return fiber.StatusServiceUnavailable
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse traduce el error de dominio a dto.ErrorResponse.
// Los errores internos no exponen el detalle al cliente.
func errorResponse(c *fiber.Ctx, log zerolog.Logger, err error) error {
	kind := domain.Kind(err)
	msg := err.Error()
	if kind == "INTERNAL" {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno en la petición")
		msg = "error interno"
	}
	return c.Status(statusFor(kind)).JSON(dto.ErrorResponse{Code: kind, Message: msg})
}

// ErrorHandler manejador global de Fiber (rutas inexistentes, panics recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			if fe.Code == fiber.StatusNotFound {
				code = "NOT_FOUND"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return errorResponse(c, log, err)
	}
}
