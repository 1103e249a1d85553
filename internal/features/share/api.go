package share

import (
	"go-archive/internal/config"
	"go-archive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ShareApi struct {
	shareController *ShareController
	config          *config.Config
}

func NewShareApi(shareController *ShareController, config *config.Config) *ShareApi {
	return &ShareApi{
		shareController: shareController,
		config:          config,
	}
}

// Setup registers share link management plus the public token view
func (h *ShareApi) Setup(app *fiber.App) {
	shares := app.Group("/api/reports/:id/shares", middleware.AuthMiddleware(h.config.SkipAuth))
	shares.Post("/", h.shareController.CreateShare)
	shares.Get("/", h.shareController.ListShares)
	shares.Delete("/:shareId", h.shareController.RevokeShare)

	// no auth: the token is the credential
	app.Get("/share/:token", h.shareController.ViewShared)
}
