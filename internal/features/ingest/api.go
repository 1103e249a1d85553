package ingest

import (
	"errors"

	"go-archive/internal/common/apperr"
	"go-archive/internal/config"
	"go-archive/internal/middleware"
	"go-archive/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type IngestApi struct {
	service IngestService
	config  *config.Config
}

func NewIngestApi(service IngestService, config *config.Config) *IngestApi {
	return &IngestApi{service: service, config: config}
}

// Setup registers the legacy catalogue import route
func (h *IngestApi) Setup(app *fiber.App) {
	ingest := app.Group("/api/ingest",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole("admin"),
	)

	ingest.Post("/", func(c *fiber.Ctx) error {
		var req IngestRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		var actor string
		if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
			actor = claims.UserID
		}

		result, err := h.service.Run(c.Context(), &req, actor)
		if err != nil {
			var validation *apperr.ValidationError
			var unknownSource *apperr.UnknownDataSourceError
			if errors.As(err, &validation) || errors.As(err, &unknownSource) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	})
}
