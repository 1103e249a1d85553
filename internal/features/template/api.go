package template

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TemplateApi struct {
	templateController *TemplateController
	config             *config.Config
}

func NewTemplateApi(templateController *TemplateController, config *config.Config) *TemplateApi {
	return &TemplateApi{
		templateController: templateController,
		config:             config,
	}
}

// Setup registers all report template routes
func (h *TemplateApi) Setup(app *fiber.App) {
	templates := app.Group("/api/templates", middleware.AuthMiddleware(h.config.SkipAuth))

	templates.Post("/", h.templateController.CreateTemplate)
	templates.Get("/", h.templateController.ListTemplates)
	templates.Get("/:id", h.templateController.GetTemplate)
	templates.Put("/:id", h.templateController.UpdateTemplate)
	templates.Delete("/:id", h.templateController.DeleteTemplate)
	templates.Post("/:id/instantiate", h.templateController.InstantiateTemplate)
}
