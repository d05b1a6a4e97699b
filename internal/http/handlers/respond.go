package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"farmlink/internal/apperr"
	applog "farmlink/internal/log"
)

// fail translates an error kind to its HTTP status. Anything unexpected
// is logged with detail and hidden behind a generic 500 body.
func fail(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.Validation:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ae.Message})
		case apperr.NotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ae.Message})
		case apperr.Conflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": ae.Message})
		case apperr.OriginNotAllowed:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ae.Message})
		}
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong, please try again"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
}
