package socket

import (
	"encoding/json"

	"scrawl/pkg/logger"
)

// Event types pushed to connected clients whenever a note changes.
const (
	NoteCreated = "NOTE_CREATED" // payload: the full note
	NoteUpdated = "NOTE_UPDATED" // payload: the full note
	NoteDeleted = "NOTE_DELETED" // payload: {"id": N}
)

// Event is one frame on the live feed.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans note change events out to every connected client. A client whose
// send buffer is full is dropped rather than allowed to stall the feed.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run owns the client set; nothing else touches it. Start it before
// publishing anything.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			logger.Sugar.Infof("Event feed client %s connected (%d active)", client.id, len(h.clients))

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case evt := <-h.Broadcast:
			frame, err := json.Marshal(evt)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling %s event: %v", evt.Type, err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Evict inline; routing through Unregister from here
					// would block the loop on itself.
					logger.Sugar.Warnf("Client %s's send buffer is full. Dropping it.", client.id)
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}
