package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	myws "smart-collab/internal/websocket"
)

// RequireUpgrade rejects plain HTTP requests to websocket routes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// SessionEvents pushes the caller's session events over a websocket until
// the client disconnects.
func SessionEvents(hub *myws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		client := myws.NewClient(userID, conn)
		defer conn.Close()
		if !hub.Join(client) {
			return
		}
		go client.WritePump()
		// conn is released when this returns, so the pump has to be gone first.
		defer func() {
			hub.Leave(client)
			client.Close()
			client.Wait()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
