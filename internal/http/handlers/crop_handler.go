package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "farmlink/internal/log"
	"farmlink/internal/services"
	"farmlink/internal/validate"
)

type CropHandler struct {
	Crops *services.CropService
}

type cropCreateRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	Unit         string   `json:"unit"`
	Quantity     *float64 `json:"quantity"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Image        string   `json:"image"`
	Owner        struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"owner"`
}

type cropUpdateRequest struct {
	Name         *string  `json:"name"`
	Type         *string  `json:"type"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	Unit         *string  `json:"unit"`
	Quantity     *float64 `json:"quantity"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	Image        *string  `json:"image"`
	OwnerEmail   string   `json:"ownerEmail"` // only read by the owner-scoped variant
}

func (r cropUpdateRequest) toUpdate() services.CropUpdate {
	return services.CropUpdate{
		Name: r.Name, Type: r.Type, PricePerUnit: r.PricePerUnit, Unit: r.Unit,
		Quantity: r.Quantity, Description: r.Description, Location: r.Location, Image: r.Image,
	}
}

func (h *CropHandler) Create(c *fiber.Ctx) error {
	var req cropCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	crop, err := h.Crops.Create(services.CropInput{
		Name: req.Name, Type: req.Type, PricePerUnit: req.PricePerUnit, Unit: req.Unit,
		Quantity: req.Quantity, Description: req.Description, Location: req.Location, Image: req.Image,
		OwnerEmail: req.Owner.Email, OwnerName: req.Owner.Name,
	})
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "crop.create", map[string]any{"crop_id": crop.ID, "owner": crop.OwnerEmail})
	return c.Status(fiber.StatusCreated).JSON(crop)
}

func (h *CropHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.Crops.List(c.Query("search"), c.Query("ownerEmail"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CropHandler) Latest(c *fiber.Ctx) error {
	out, err := h.Crops.Latest(validate.LatestLimit(c.Query("limit")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CropHandler) Get(c *fiber.Ctx) error {
	crop, err := h.Crops.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(crop)
}

func (h *CropHandler) Update(c *fiber.Ctx) error {
	var req cropUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	crop, err := h.Crops.Update(c.Params("id"), req.toUpdate())
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "crop.update", map[string]any{"crop_id": crop.ID})
	return c.JSON(crop)
}

// OwnedList serves "my crops": the ownerEmail query parameter is required.
func (h *CropHandler) OwnedList(c *fiber.Ctx) error {
	out, err := h.Crops.ListOwned(c.Query("ownerEmail"), c.Query("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// OwnedUpdate only touches the crop when the submitted ownerEmail matches
// the crop's owner (case-insensitively).
func (h *CropHandler) OwnedUpdate(c *fiber.Ctx) error {
	var req cropUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	ownerEmail := strings.TrimSpace(req.OwnerEmail)
	if ownerEmail == "" {
		ownerEmail = c.Query("ownerEmail")
	}
	crop, err := h.Crops.UpdateOwned(c.Params("id"), ownerEmail, req.toUpdate())
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "crop.update.owned", map[string]any{"crop_id": crop.ID, "owner": crop.OwnerEmail})
	return c.JSON(crop)
}

func (h *CropHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Crops.Delete(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "crop.delete", map[string]any{"crop_id": id})
	return c.JSON(fiber.Map{"acknowledged": true})
}
