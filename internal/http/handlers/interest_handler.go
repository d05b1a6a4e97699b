package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "farmlink/internal/log"
	"farmlink/internal/services"
)

type InterestHandler struct {
	Interests *services.InterestService
}

type interestSubmitRequest struct {
	CropID   string   `json:"cropId"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Photo    string   `json:"photo"`
	Quantity *float64 `json:"quantity"`
	Message  string   `json:"message"`
}

func (h *InterestHandler) Submit(c *fiber.Ctx) error {
	var req interestSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	crop, it, err := h.Interests.Submit(services.InterestInput{
		CropID: req.CropID, Email: req.Email, Name: req.Name,
		Photo: req.Photo, Message: req.Message, Quantity: req.Quantity,
	})
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "interest.submit", map[string]any{
		"crop_id": crop.ID, "interest_id": it.ID, "requester": it.RequesterEmail,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"crop": crop, "interest": it})
}

// List returns the requesting buyer's interests across all crops. The
// email query parameter is required; sort selects one of quantity-desc,
// quantity-asc or status (default newest-first).
func (h *InterestHandler) List(c *fiber.Ctx) error {
	out, err := h.Interests.ListByRequester(c.Query("email"), c.Query("sort"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

type interestStatusRequest struct {
	CropID string `json:"cropId"`
	Status string `json:"status"`
}

func (h *InterestHandler) Transition(c *fiber.Ctx) error {
	var req interestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	crop, err := h.Interests.Transition(req.CropID, c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "interest.status", map[string]any{
		"crop_id": crop.ID, "interest_id": c.Params("id"), "status": req.Status,
	})
	return c.JSON(crop)
}
