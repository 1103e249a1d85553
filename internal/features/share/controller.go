package share

import (
	"errors"
	"time"

	"go-archive/internal/common/apperr"
	"go-archive/internal/features/export"
	"go-archive/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShareController struct {
	Service ShareService
}

func NewShareController(service ShareService) *ShareController {
	return &ShareController{Service: service}
}

func actorID(c *fiber.Ctx) string {
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

// shareExpiry resolves the optional expiry inputs. An absolute
// expires_at wins over the ttl_hours sugar; past timestamps are
// allowed, the link is simply born expired.
func shareExpiry(expiresAt *time.Time, ttlHours int, now time.Time) (time.Time, error) {
	if ttlHours < 0 {
		return time.Time{}, apperr.NewValidation("ttl_hours", "ttl_hours must not be negative")
	}
	if expiresAt != nil {
		return expiresAt.UTC(), nil
	}
	if ttlHours > 0 {
		return now.Add(time.Duration(ttlHours) * time.Hour), nil
	}
	return time.Time{}, nil
}

// CreateShare godoc
func (ctrl *ShareController) CreateShare(c *fiber.Ctx) error {
	reportID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	var body struct {
		ExpiresAt *time.Time `json:"expires_at"`
		TTLHours  int        `json:"ttl_hours"`
	}
	_ = c.BodyParser(&body)

	expiresAt, err := shareExpiry(body.ExpiresAt, body.TTLHours, time.Now().UTC())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	link, err := ctrl.Service.Create(c.Context(), reportID, expiresAt, actorID(c))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create share link"})
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// ListShares godoc
func (ctrl *ShareController) ListShares(c *fiber.Ctx) error {
	reportID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report id",
		})
	}

	links, err := ctrl.Service.List(c.Context(), reportID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list share links"})
	}
	return c.JSON(links)
}

// RevokeShare godoc
func (ctrl *ShareController) RevokeShare(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("shareId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid share id",
		})
	}

	if err := ctrl.Service.Revoke(c.Context(), id, actorID(c)); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke share link"})
	}
	return c.JSON(fiber.Map{"message": "Share link revoked"})
}

// ViewShared godoc
func (ctrl *ShareController) ViewShared(c *fiber.Ctx) error {
	doc, err := ctrl.Service.Resolve(c.Context(), c.Params("token"))
	if err != nil {
		var unavailable *apperr.UnavailableError
		if errors.As(err, &unavailable) {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"error":  "This report is no longer available",
				"reason": string(unavailable.Reason),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load report"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(export.HTMLPage(doc))
}
