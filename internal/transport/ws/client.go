package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection. userID is nil for
// anonymous viewers, who may still subscribe to public change topics.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID *uuid.UUID

	topics map[string]topic
	mu     sync.RWMutex

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID *uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		topics: make(map[string]topic),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// Matches reports whether any of this client's topics covers the change.
func (c *Client) Matches(table, action string, fields map[string]string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.topics {
		if t.matches(table, action, fields) {
			return true
		}
	}
	return false
}

func (c *Client) subscribe(t topic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[t.key()] = t
}

func (c *Client) unsubscribe(t topic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.topics, t.key())
}

// ReadPump reads messages from the WebSocket and routes them to the Hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client disconnected")
			} else {
				log.Printf("ws: read error: %v", err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error: %v", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error: %v", err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeSubscribe:
		t, ok := c.parseTopic(event)
		if !ok {
			return
		}
		c.subscribe(t)
		log.Printf("ws: subscribed to %s", t.key())

	case EventTypeUnsubscribe:
		t, ok := c.parseTopic(event)
		if !ok {
			return
		}
		c.unsubscribe(t)
		log.Printf("ws: unsubscribed from %s", t.key())

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) parseTopic(event *Event) (topic, bool) {
	var p SubscribePayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		c.sendError("INVALID_PAYLOAD", "invalid subscription payload")
		return topic{}, false
	}
	t, err := newTopic(p)
	if err != nil {
		c.sendError("INVALID_PAYLOAD", err.Error())
		return topic{}, false
	}
	return t, true
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
