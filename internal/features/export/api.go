package export

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	exportController *ExportController
	config           *config.Config
}

func NewExportApi(exportController *ExportController, config *config.Config) *ExportApi {
	return &ExportApi{
		exportController: exportController,
		config:           config,
	}
}

// Setup registers the export and artifact routes
func (h *ExportApi) Setup(app *fiber.App) {
	exports := app.Group("/api/exports", middleware.AuthMiddleware(h.config.SkipAuth))

	exports.Get("/formats", h.exportController.ListFormats)
	exports.Get("/:id/download", h.exportController.DownloadExport)
	exports.Post("/:id/artifact", h.exportController.GenerateArtifact)
}
