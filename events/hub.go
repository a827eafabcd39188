// Package events pushes order and settings updates to connected operator
// dashboards over websocket, so the UI gets changes between its polls.
package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ryadom-food/restaurant-backend/utils"
)

const (
	EventOrderCreated = "order_created"
	EventOrderUpdate  = "order_update"
	EventOrderDeleted = "order_deleted"
	EventSettings     = "settings_update"
	EventHeroSlides   = "hero_slides_update"
	EventProducts     = "products_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connected operator clients. It is created in main and
// injected where needed; there is no package-level instance.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> role
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to every connected client. Write failures
// drop the client; the next poll cycle still carries the data.
func (h *Hub) Broadcast(event string, data interface{}) {
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("events: marshal %s failed: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
