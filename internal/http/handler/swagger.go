package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"leavedocs/docs"
)

// Swagger serves the Swagger UI. The document's host and scheme follow the
// request (X-Forwarded-Proto aware); fallbackHost is used when the request
// carries no Host header.
func Swagger(fallbackHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = swaggerHost(c.Get(fiber.HeaderHost), fallbackHost)
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	}
}

func swaggerHost(requestHost, fallback string) string {
	if requestHost != "" {
		return requestHost
	}
	return fallback
}
