package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// HeaderRequestID header de correlación; si el cliente no lo envía se genera uno.
const (
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "request_id"
)

// RequestLogger asigna request_id y registra método, ruta, estado y latencia de cada request.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)

		err := c.Next()

		log.Info().
			Str("request_id", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// GetRequestID devuelve el request_id asignado por RequestLogger.
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}
