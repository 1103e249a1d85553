package events

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type EventsApi struct {
	hub *Hub
}

func NewEventsApi(hub *Hub) *EventsApi {
	return &EventsApi{hub: hub}
}

// Setup registers the websocket endpoint clients subscribe to for
// artifact and ingest notifications.
func (h *EventsApi) Setup(app *fiber.App) {
	app.Use("/api/events/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/api/events/ws", websocket.New(func(c *websocket.Conn) {
		h.hub.Register(c)
		defer func() {
			h.hub.Unregister(c)
			c.Close()
		}()

		// Reads only keep the connection alive; clients do not send.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
