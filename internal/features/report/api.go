package report

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	reportController *ReportController
	config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		reportController: reportController,
		config:           config,
	}
}

// Setup registers all report definition and execution routes
func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))

	reports.Post("/", h.reportController.CreateReport)
	reports.Get("/", h.reportController.ListReports)
	reports.Post("/preview", h.reportController.PreviewReport)
	reports.Get("/:id", h.reportController.GetReport)
	reports.Put("/:id", h.reportController.UpdateReport)
	reports.Delete("/:id", h.reportController.DeleteReport)
	reports.Post("/:id/clone", h.reportController.CloneReport)
	reports.Get("/:id/execute", h.reportController.ExecuteReport)

	reports.Get("/:id/versions", h.reportController.ListVersions)
	reports.Get("/:id/versions/:version", h.reportController.GetVersion)
	reports.Post("/:id/versions/:version/restore", h.reportController.RestoreVersion)
}
