package ws

import (
	"encoding/json"
	"log"
)

// Hub manages all active WebSocket clients and fans row changes out to
// matching subscriptions.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *changeMsg
}

type changeMsg struct {
	table  string
	action string
	data   []byte            // marshaled change event
	fields map[string]string // record fields for filter matching
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *changeMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("ws hub: client connected (%d total)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				close(client.done)
				log.Printf("ws hub: client disconnected (%d total)", len(h.clients))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.Matches(msg.table, msg.action, msg.fields) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastChange queues a row change for fan-out to matching subscribers.
func (h *Hub) BroadcastChange(table, action string, record json.RawMessage, fields map[string]string) {
	evt, err := NewEvent(EventTypeChange, ChangePayload{
		Table:  table,
		Action: action,
		Record: record,
	})
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &changeMsg{table: table, action: action, data: data, fields: fields}
}
