package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver recibe la duración y el estado de cada petición.
type RequestObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestMetrics middleware que etiqueta por ruta registrada (no por path real).
func RequestMetrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		obs.ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}
