package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "farmlink/internal/log"
	"farmlink/internal/services"
)

type UserHandler struct {
	Users *services.UserService
}

type userUpsertRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// Upsert is called on every login: it creates the profile on first sight
// and refreshes name/photo afterwards.
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var req userUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	u, err := h.Users.Upsert(req.Email, req.Name, req.Photo)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "user.upsert", map[string]any{"email": u.Email})
	return c.JSON(u)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.Users.Get(c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(u)
}

type userPatchRequest struct {
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
}

func (h *UserHandler) Patch(c *fiber.Ctx) error {
	var req userPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	u, err := h.Users.Patch(c.Params("email"), req.Name, req.Photo)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "user.patch", map[string]any{"email": u.Email})
	return c.JSON(u)
}
