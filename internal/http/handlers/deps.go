package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"

	applog "farmlink/internal/log"
	"farmlink/internal/repos"
	"farmlink/internal/services"
)

type Deps struct {
	CropHandler     *CropHandler
	InterestHandler *InterestHandler
	UserHandler     *UserHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	cropRepo := repos.NewCropRepo(db)
	interestRepo := repos.NewInterestRepo(db)
	userRepo := repos.NewUserRepo(db)

	cropSvc := services.NewCropService(cropRepo)
	interestSvc := services.NewInterestService(cropRepo, interestRepo)
	userSvc := services.NewUserService(userRepo)

	return &Deps{
		CropHandler:     &CropHandler{Crops: cropSvc},
		InterestHandler: &InterestHandler{Interests: interestSvc},
		UserHandler:     &UserHandler{Users: userSvc},
	}
}

// Register mounts the API route table. Kept separate from main so tests
// can assemble the same app against an in-memory database.
func Register(app *fiber.App, deps *Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	searchLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})

	api.Get("/crops", searchLimiter, deps.CropHandler.List)
	api.Get("/crops/latest", deps.CropHandler.Latest)
	api.Get("/crops/:id", deps.CropHandler.Get)
	api.Post("/crops", deps.CropHandler.Create)
	api.Put("/crops/:id", deps.CropHandler.Update)
	api.Delete("/crops/:id", deps.CropHandler.Delete)

	api.Get("/my/crops", deps.CropHandler.OwnedList)
	api.Patch("/my/crops/:id", deps.CropHandler.OwnedUpdate)

	api.Post("/interests", deps.InterestHandler.Submit)
	api.Get("/interests", deps.InterestHandler.List)
	api.Patch("/interests/:id/status", deps.InterestHandler.Transition)

	api.Post("/users", deps.UserHandler.Upsert)
	api.Get("/users/:email", deps.UserHandler.Get)
	api.Patch("/users/:email", deps.UserHandler.Patch)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
}
