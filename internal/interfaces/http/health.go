package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependencia con chequeo de conectividad (pool de PostgreSQL, cliente Redis).
type Pinger func(ctx context.Context) error

// Health responde 200 si todas las dependencias responden; 503 si alguna falla.
// Nunca expone el detalle del error.
func Health(service string, deps map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		status := fiber.StatusOK
		checks := fiber.Map{}
		for name, ping := range deps {
			if err := ping(ctx); err != nil {
				checks[name] = "error"
				status = fiber.StatusServiceUnavailable
				continue
			}
			checks[name] = "connected"
		}
		state := "ok"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": state, "service": service, "checks": checks})
	}
}
