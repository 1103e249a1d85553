package template

import (
	"errors"

	"go-archive/internal/common/apperr"
	"go-archive/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TemplateController struct {
	Service TemplateService
}

func NewTemplateController(service TemplateService) *TemplateController {
	return &TemplateController{Service: service}
}

func actorID(c *fiber.Ctx) string {
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

func templateError(c *fiber.Ctx, err error) error {
	var validation *apperr.ValidationError
	var unknownSource *apperr.UnknownDataSourceError
	switch {
	case errors.As(err, &validation), errors.As(err, &unknownSource):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// CreateTemplate godoc
func (ctrl *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	var t ReportTemplate
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Create(c.Context(), &t, actorID(c)); err != nil {
		return templateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// ListTemplates godoc
func (ctrl *TemplateController) ListTemplates(c *fiber.Ctx) error {
	templates, err := ctrl.Service.List(
		c.Context(),
		actorID(c),
		Scope(c.Query("scope")),
		c.Query("category"),
	)
	if err != nil {
		return templateError(c, err)
	}
	return c.JSON(templates)
}

// GetTemplate godoc
func (ctrl *TemplateController) GetTemplate(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template id",
		})
	}

	t, err := ctrl.Service.Get(c.Context(), id)
	if err != nil {
		return templateError(c, err)
	}
	return c.JSON(t)
}

// UpdateTemplate godoc
func (ctrl *TemplateController) UpdateTemplate(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template id",
		})
	}

	var t ReportTemplate
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	t.ID = id

	if err := ctrl.Service.Update(c.Context(), &t, actorID(c)); err != nil {
		return templateError(c, err)
	}
	return c.JSON(t)
}

// DeleteTemplate godoc
func (ctrl *TemplateController) DeleteTemplate(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template id",
		})
	}

	if err := ctrl.Service.Delete(c.Context(), id, actorID(c)); err != nil {
		return templateError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Template deleted"})
}

// InstantiateTemplate godoc
func (ctrl *TemplateController) InstantiateTemplate(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template id",
		})
	}

	var body struct {
		Name string `json:"name"`
	}
	_ = c.BodyParser(&body)

	def, err := ctrl.Service.Instantiate(c.Context(), id, body.Name, actorID(c))
	if err != nil {
		return templateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(def)
}
