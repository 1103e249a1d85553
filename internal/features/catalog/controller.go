package catalog

import (
	"errors"

	"go-archive/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	Service CatalogService
}

func NewCatalogController(service CatalogService) *CatalogController {
	return &CatalogController{Service: service}
}

// ListSources godoc
func (ctrl *CatalogController) ListSources(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.ListSources())
}

// GetSource godoc
func (ctrl *CatalogController) GetSource(c *fiber.Ctx) error {
	ds, err := ctrl.Service.GetSource(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(ds)
}

// ListColumns godoc
func (ctrl *CatalogController) ListColumns(c *fiber.Ctx) error {
	grouped, err := ctrl.Service.ListColumns(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(grouped)
}

// ListOperators godoc
func (ctrl *CatalogController) ListOperators(c *fiber.Ctx) error {
	ops, err := ctrl.Service.ListOperators(c.Params("key"), c.Params("column"))
	if err != nil {
		var unknownSource *apperr.UnknownDataSourceError
		var unknownColumn *UnknownColumnError
		if errors.As(err, &unknownSource) || errors.As(err, &unknownColumn) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list operators",
		})
	}
	return c.JSON(fiber.Map{"operators": ops})
}
