package schedule

import (
	"errors"

	"go-archive/internal/common/apperr"
	"go-archive/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ScheduleController struct {
	Service ScheduleService
}

func NewScheduleController(service ScheduleService) *ScheduleController {
	return &ScheduleController{Service: service}
}

func actorID(c *fiber.Ctx) string {
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

func scheduleError(c *fiber.Ctx, err error) error {
	var validation *apperr.ValidationError
	var unsupported *apperr.UnsupportedFormatError
	switch {
	case errors.As(err, &validation), errors.As(err, &unsupported):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Schedule is already running"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// CreateSchedule godoc
func (ctrl *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	var s Schedule
	if err := c.BodyParser(&s); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Create(c.Context(), &s, actorID(c)); err != nil {
		return scheduleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListSchedules godoc
func (ctrl *ScheduleController) ListSchedules(c *fiber.Ctx) error {
	var reportID primitive.ObjectID
	if hex := c.Query("report_id"); hex != "" {
		var err error
		if reportID, err = primitive.ObjectIDFromHex(hex); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid report_id",
			})
		}
	}

	schedules, err := ctrl.Service.List(c.Context(), reportID)
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(schedules)
}

// GetSchedule godoc
func (ctrl *ScheduleController) GetSchedule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule id",
		})
	}

	s, err := ctrl.Service.Get(c.Context(), id)
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(s)
}

// UpdateSchedule godoc
func (ctrl *ScheduleController) UpdateSchedule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule id",
		})
	}

	var s Schedule
	if err := c.BodyParser(&s); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	s.ID = id

	if err := ctrl.Service.Update(c.Context(), &s, actorID(c)); err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(s)
}

// DeleteSchedule godoc
func (ctrl *ScheduleController) DeleteSchedule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule id",
		})
	}

	if err := ctrl.Service.Delete(c.Context(), id, actorID(c)); err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Schedule deleted"})
}

// RunSchedule godoc
func (ctrl *ScheduleController) RunSchedule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule id",
		})
	}

	artifact, err := ctrl.Service.RunNow(c.Context(), id, actorID(c))
	if err != nil {
		return scheduleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(artifact)
}

// TickNow godoc
func (ctrl *ScheduleController) TickNow(c *fiber.Ctx) error {
	ran := ctrl.Service.Tick(c.Context())
	return c.JSON(fiber.Map{"ran": ran})
}

// ListArtifacts godoc
func (ctrl *ScheduleController) ListArtifacts(c *fiber.Ctx) error {
	var reportID primitive.ObjectID
	if hex := c.Query("report_id"); hex != "" {
		var err error
		if reportID, err = primitive.ObjectIDFromHex(hex); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid report_id",
			})
		}
	}

	artifacts, err := ctrl.Service.ListArtifacts(c.Context(), reportID, int64(c.QueryInt("limit", 100)))
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(artifacts)
}

// DownloadArtifact godoc
func (ctrl *ScheduleController) DownloadArtifact(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("artifactId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid artifact id",
		})
	}

	a, err := ctrl.Service.GetArtifact(c.Context(), id)
	if err != nil {
		return scheduleError(c, err)
	}
	return c.Download(a.Artifact.Path, a.Artifact.Filename)
}
