package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes the hover-sync websocket. A connected client both
// receives broadcasts for its route and may push hover positions of its own,
// which are relayed to the other subscribers.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:routeID", websocket.New(func(c *websocket.Conn) {
		routeID := c.Params("routeID")
		client := hub.Register(routeID)
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			hub.Broadcast(routeID, msg)
		}
		<-done
	}))
}
