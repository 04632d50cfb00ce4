package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"visionguard/internal/logger"
	"visionguard/internal/models"

	"github.com/gorilla/websocket"
)

// AlertEvent is pushed to every connected viewer when an analysis raises a
// weapon alert.
type AlertEvent struct {
	Alert     string    `json:"alert"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// HubService fans alert events out to connected WebSocket viewers.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(log *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     log,
	}
}

// Run owns the client set. Intended to run in its own goroutine for the
// lifetime of the process.
func (h *HubService) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Info("Alert viewer connected. Total: %d", h.ClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("Alert viewer disconnected. Total: %d", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending alert event: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a viewer connection to the hub.
func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

// Unregister removes a viewer connection from the hub.
func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// PublishAlert broadcasts a weapon alert to all connected viewers.
// No-alert states are not published.
func (h *HubService) PublishAlert(state models.AlertState, source string) {
	if state == models.AlertNone {
		return
	}

	event := AlertEvent{
		Alert:     state.String(),
		Message:   state.Message(),
		Source:    source,
		Timestamp: time.Now(),
	}

	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode alert event: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warning("Alert event dropped: broadcast queue full")
	}
}

// ClientCount returns the number of connected viewers.
func (h *HubService) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
