package system

import (
	"context"
	"time"

	"go-archive/internal/common/api"
	"go-archive/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

type HealthApi struct {
	mongodb *database.MongodbDB
}

func NewHealthApi(mongodb *database.MongodbDB) api.Route {
	return &HealthApi{mongodb: mongodb}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := fiber.StatusOK
		if err := h.mongodb.Client.Ping(ctx, nil); err != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC(),
		})
	})

	app.Get("/health/db", func(c *fiber.Ctx) error {
		var result bson.M
		err := h.mongodb.DB.RunCommand(c.Context(), bson.D{{Key: "ping", Value: 1}}).Decode(&result)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(result)
	})
}
