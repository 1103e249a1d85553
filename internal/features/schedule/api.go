package schedule

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScheduleApi struct {
	scheduleController *ScheduleController
	config             *config.Config
}

func NewScheduleApi(scheduleController *ScheduleController, config *config.Config) *ScheduleApi {
	return &ScheduleApi{
		scheduleController: scheduleController,
		config:             config,
	}
}

// Setup registers the schedule and artifact archive routes
func (h *ScheduleApi) Setup(app *fiber.App) {
	schedules := app.Group("/api/schedules",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole("admin"),
	)

	schedules.Post("/", h.scheduleController.CreateSchedule)
	schedules.Get("/", h.scheduleController.ListSchedules)
	schedules.Post("/tick", h.scheduleController.TickNow)
	schedules.Get("/artifacts", h.scheduleController.ListArtifacts)
	schedules.Get("/artifacts/:artifactId/download", h.scheduleController.DownloadArtifact)
	schedules.Get("/:id", h.scheduleController.GetSchedule)
	schedules.Put("/:id", h.scheduleController.UpdateSchedule)
	schedules.Delete("/:id", h.scheduleController.DeleteSchedule)
	schedules.Post("/:id/run", h.scheduleController.RunSchedule)
}
