package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one websocket subscriber. Room is the owning user's id: a user
// may watch their own trip status from several devices at once.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
	Room string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans trip-status events out to each user's open connections.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for room, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
					c.Conn.Close()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	close(h.quit)
}

// StatusEvent is what subscribers receive when a trip changes state.
type StatusEvent struct {
	PlanID string `json:"planId"`
	Status string `json:"status"`
}

// BroadcastTripStatus pushes a status event to every connection of uid.
// Safe to call with a nil hub (tests exercising handlers without websockets).
func (h *Hub) BroadcastTripStatus(uid, planID, status string) {
	if h == nil {
		return
	}
	data, err := json.Marshal(StatusEvent{PlanID: planID, Status: status})
	if err != nil {
		log.Printf("live: marshal status event: %v", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Room: uid, Data: data}:
	case <-h.quit:
	}
}
