package catalog

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CatalogApi struct {
	catalogController *CatalogController
	config            *config.Config
}

func NewCatalogApi(catalogController *CatalogController, config *config.Config) *CatalogApi {
	return &CatalogApi{
		catalogController: catalogController,
		config:            config,
	}
}

// Setup registers all data source catalog routes
func (h *CatalogApi) Setup(app *fiber.App) {
	sources := app.Group("/api/sources", middleware.AuthMiddleware(h.config.SkipAuth))

	sources.Get("/", h.catalogController.ListSources)
	sources.Get("/:key", h.catalogController.GetSource)
	sources.Get("/:key/columns", h.catalogController.ListColumns)
	sources.Get("/:key/columns/:column/operators", h.catalogController.ListOperators)
}
