package ws

import (
	"encoding/json"
	"sync"
)

// Event is a message broadcast to staff watching a venue's submission feed.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// venueEvent routes an event to one venue's room.
type venueEvent struct {
	VenueKey string
	Event    Event
}

// Hub maintains the set of connected staff clients per venue and broadcasts
// submission events to them.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *venueEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *venueEvent, 256),
	}
}

// Run starts the hub's main loop. Call as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.venueKey] == nil {
				h.rooms[client.venueKey] = make(map[*Client]bool)
			}
			h.rooms[client.venueKey][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.venueKey]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.venueKey)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.VenueKey]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.VenueKey], client)
					if len(h.rooms[event.VenueKey]) == 0 {
						delete(h.rooms, event.VenueKey)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToVenue sends an event to all staff watching the given venue.
func (h *Hub) BroadcastToVenue(venueKey string, event Event) {
	h.broadcast <- &venueEvent{
		VenueKey: venueKey,
		Event:    event,
	}
}
