package handlers

import (
	"net/http"

	"visionguard/internal/logger"
	ws "visionguard/internal/services/websocket"
)

// AlertEventsHandler upgrades the connection and subscribes the client to
// alert broadcasts. The read loop only exists to detect disconnects.
func AlertEventsHandler(hub *ws.HubService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Alert events websocket upgrade failed: %v", err)
			return
		}

		hub.Register(conn)
		defer hub.Unregister(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
