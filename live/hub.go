package live

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/Rish3666/uni-laundry-sync-sub000/models"
)

// Event types pushed to connected admin dashboards.
const (
	EventOrderUpdate = "order_update"
	EventBatchUpdate = "batch_update"
	EventAdminNotif  = "admin_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard client and serializes broadcasts.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate pushes an order's new state to every client.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastBatchUpdate pushes a batch sweep result to every client.
func BroadcastBatchUpdate(data interface{}) {
	broadcast(Message{
		Event: EventBatchUpdate,
		Data:  data,
	})
}

// BroadcastAdminNotification pushes a plain text notice to admins.
func BroadcastAdminNotification(message string) {
	broadcast(Message{
		Event: EventAdminNotif,
		Data:  message,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn := range hub.clients {
		if err := conn.WriteJSON(msg); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
