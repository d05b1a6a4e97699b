package handlers

import (
	"github.com/gofiber/fiber/v2"

	"farmlink/internal/apperr"
	applog "farmlink/internal/log"
)

// OriginGuard rejects cross-origin requests from origins outside the
// allowlist with 403. An empty allowlist admits every origin.
func OriginGuard(allowed []string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next() // same-origin or non-browser client
		}
		if len(set) > 0 {
			if _, ok := set[origin]; !ok {
				applog.Security(c, "origin.block", map[string]any{"origin": origin})
				return fail(c, apperr.OriginBlocked(origin))
			}
		}
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		if c.Method() == fiber.MethodOptions {
			c.Set(fiber.HeaderAccessControlAllowMethods, "GET,POST,PUT,PATCH,DELETE")
			c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type")
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
