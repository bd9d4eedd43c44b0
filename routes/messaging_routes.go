package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/handlers"
	"github.com/localhive/local_hive/middleware"
)

func MessagingRoutes(app *fiber.App, h *handlers.ChatHandler) {
	api := app.Group("/api/v1")

	threads := api.Group("/threads", middleware.Protected())
	threads.Get("", h.GetUserThreads)
	threads.Post("", h.CreateOrGetThread)
	threads.Get("/:threadId/messages", h.GetThreadMessages)
	threads.Post("/:threadId/messages", h.SendMessage)
	threads.Patch("/:threadId/read", h.MarkThreadRead)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(h.ServeWs))
}
