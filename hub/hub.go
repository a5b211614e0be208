package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/zest-order/cart"
)

// Event types
const (
	EventCartState   = "cart_state"
	EventCartUpdate  = "cart_update"
	EventOrderPlaced = "order_placed"
	EventOrderStatus = "order_status"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi websocket per user dan mengirim perubahan cart
// ke semua perangkat milik user tersebut.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> user id
	mutex   sync.Mutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]string),
		log:     log,
	}
}

// Register -> menambahkan connection milik userID
func (h *Hub) Register(conn *websocket.Conn, userID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = userID
}

// RegisterWithState writes the message built by state to conn and registers
// it, both under the hub lock. A broadcast racing with the registration is
// either already reflected in the state or delivered after it.
func (h *Hub) RegisterWithState(conn *websocket.Conn, userID string, state func() Message) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, err := json.Marshal(state())
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	h.clients[conn] = userID
	return nil
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Clients returns how many connections userID has open.
func (h *Hub) Clients(userID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, owner := range h.clients {
		if owner == userID {
			n++
		}
	}
	return n
}

// BroadcastCartUpdate has the cart.Observer signature so it can be passed to
// Registry.Observe directly.
func (h *Hub) BroadcastCartUpdate(userID string, ev cart.Event) {
	h.SendToUser(userID, Message{Event: EventCartUpdate, Data: ev})
}

func (h *Hub) BroadcastOrderPlaced(userID string, order interface{}) {
	h.SendToUser(userID, Message{Event: EventOrderPlaced, Data: order})
}

func (h *Hub) BroadcastOrderStatus(userID string, update interface{}) {
	h.SendToUser(userID, Message{Event: EventOrderStatus, Data: update})
}

// SendToUser writes msg to every connection of userID. Connections that fail
// to receive are dropped.
func (h *Hub) SendToUser(userID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Error marshaling message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, owner := range h.clients {
		if owner != userID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).WithField("user_id", userID).Warn("Error sending message to client")
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// CloseAll disconnects every client, used on shutdown.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.clients, conn)
	}
}
