package report

import (
	"errors"

	"go-archive/internal/common/apperr"
	"go-archive/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

func actorID(c *fiber.Ctx) string {
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var validation *apperr.ValidationError
	var unknownSource *apperr.UnknownDataSourceError
	switch {
	case errors.As(err, &validation), errors.As(err, &unknownSource):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// CreateReport godoc
func (ctrl *ReportController) CreateReport(c *fiber.Ctx) error {
	var def ReportDefinition
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Create(c.Context(), &def, actorID(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(def)
}

// ListReports godoc
func (ctrl *ReportController) ListReports(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 50))
	page := int64(c.QueryInt("page", 1))
	if page < 1 {
		page = 1
	}

	defs, total, err := ctrl.Service.List(c.Context(), actorID(c), limit, (page-1)*limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"results": defs,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetReport godoc
func (ctrl *ReportController) GetReport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	def, err := ctrl.Service.Get(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(def)
}

// UpdateReport godoc
func (ctrl *ReportController) UpdateReport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	var body struct {
		ReportDefinition
		ExpectedVersion int `json:"expected_version"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	def := body.ReportDefinition
	def.ID = id
	if err := ctrl.Service.Update(c.Context(), &def, body.ExpectedVersion, actorID(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(def)
}

// DeleteReport godoc
func (ctrl *ReportController) DeleteReport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	if err := ctrl.Service.Delete(c.Context(), id, actorID(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report deleted"})
}

// CloneReport godoc
func (ctrl *ReportController) CloneReport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	var body struct {
		Name string `json:"name"`
	}
	_ = c.BodyParser(&body)

	clone, err := ctrl.Service.Clone(c.Context(), id, body.Name, actorID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(clone)
}

// ListVersions godoc
func (ctrl *ReportController) ListVersions(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	versions, err := ctrl.Service.ListVersions(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(versions)
}

// GetVersion godoc
func (ctrl *ReportController) GetVersion(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}
	version, _ := c.ParamsInt("version")
	if version < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid version number",
		})
	}

	v, err := ctrl.Service.GetVersion(c.Context(), id, version)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(v)
}

// RestoreVersion godoc
func (ctrl *ReportController) RestoreVersion(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}
	version, _ := c.ParamsInt("version")
	if version < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid version number",
		})
	}

	def, err := ctrl.Service.Restore(c.Context(), id, version, actorID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(def)
}

// ExecuteReport godoc
func (ctrl *ReportController) ExecuteReport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	limit := int64(c.QueryInt("limit", 0))
	if c.Query("limit") != "" && limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be a positive integer",
		})
	}

	result, err := ctrl.Service.Execute(
		c.Context(),
		id,
		int64(c.QueryInt("page", 1)),
		limit,
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// PreviewReport godoc
func (ctrl *ReportController) PreviewReport(c *fiber.Ctx) error {
	var def ReportDefinition
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	limit := int64(c.QueryInt("limit", 0))
	if c.Query("limit") != "" && limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be a positive integer",
		})
	}

	result, err := ctrl.Service.Preview(
		c.Context(),
		&def,
		int64(c.QueryInt("page", 1)),
		limit,
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}
