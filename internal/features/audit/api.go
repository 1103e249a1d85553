package audit

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	service AuditService
	config  *config.Config
}

func NewAuditApi(service AuditService, config *config.Config) *AuditApi {
	return &AuditApi{service: service, config: config}
}

// Setup registers the audit trail routes
func (h *AuditApi) Setup(app *fiber.App) {
	logs := app.Group("/api/audit",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole("admin"),
	)

	logs.Get("/", func(c *fiber.Ctx) error {
		entries, err := h.service.List(
			c.Context(),
			c.Query("entity"),
			c.Query("record_id"),
			int64(c.QueryInt("limit", 50)),
		)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch audit log",
			})
		}
		return c.JSON(entries)
	})
}
