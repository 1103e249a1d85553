package export

import (
	"bufio"
	"errors"
	"fmt"

	"go-archive/internal/common/apperr"
	"go-archive/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExportController struct {
	Service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{Service: service}
}

// ListFormats godoc
func (ctrl *ExportController) ListFormats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"formats": ctrl.Service.Formats()})
}

// DownloadExport godoc
func (ctrl *ExportController) DownloadExport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}
	format := Format(c.Query("format", string(FormatCSV)))

	// pre-flight resolves the report and format so errors still get a
	// proper status; after this the body streams from the cursor
	renderer, write, err := ctrl.Service.Exporter(c.Context(), id, format)
	if err != nil {
		return exportErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, renderer.ContentType())
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "report."+renderer.Extension()))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// headers are already sent; an error here truncates the download
		_ = write(w)
	})
	return nil
}

// GenerateArtifact godoc
func (ctrl *ExportController) GenerateArtifact(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}
	format := Format(c.Query("format", string(FormatCSV)))

	var actor string
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		actor = claims.UserID
	}

	artifact, err := ctrl.Service.ExportToFile(c.Context(), id, format, actor)
	if err != nil {
		return exportErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(artifact)
}

func exportErrorResponse(c *fiber.Ctx, err error) error {
	var unsupported *apperr.UnsupportedFormatError
	var validation *apperr.ValidationError
	var unknownSource *apperr.UnknownDataSourceError
	switch {
	case errors.As(err, &unsupported), errors.As(err, &validation), errors.As(err, &unknownSource):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Export failed"})
	}
}
