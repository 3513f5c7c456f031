package client

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// SubscriptionOptions names a row-change topic on the server.
type SubscriptionOptions struct {
	Table  string
	Events []string // INSERT/UPDATE/DELETE, empty = all
	Filter string   // "col=eq.value"
}

// Change is the raw payload a subscription callback receives. Most callers
// only use its arrival as a refetch trigger.
type Change struct {
	Table  string          `json:"table"`
	Action string          `json:"action"`
	Record json.RawMessage `json:"record"`
}

// Subscription is a live change feed. Close tears it down.
type Subscription struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Close() {
	s.cancel()
	s.conn.Close(websocket.StatusNormalClosure, "")
	<-s.done
}

type wsEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Subscribe opens one WebSocket connection per subscription, mirroring the
// one-channel-per-view lifecycle, and invokes cb for every matching change.
// Reconnection is not attempted; callers re-subscribe if they need to.
func (c *Client) Subscribe(ctx context.Context, opts SubscriptionOptions, cb func(Change)) (*Subscription, error) {
	wsURL := httpToWS(c.baseURL) + "/ws"
	if token := c.Token(); token != "" {
		wsURL += "?token=" + url.QueryEscape(token)
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"table":  opts.Table,
		"events": opts.Events,
		"filter": opts.Filter,
	})
	if err != nil {
		conn.Close(websocket.StatusInternalError, "")
		return nil, err
	}
	if err := wsjson.Write(ctx, conn, wsEvent{Type: "subscribe", Payload: payload}); err != nil {
		conn.Close(websocket.StatusInternalError, "")
		return nil, err
	}

	readCtx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{conn: conn, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		for {
			var event wsEvent
			if err := wsjson.Read(readCtx, conn, &event); err != nil {
				if readCtx.Err() == nil && websocket.CloseStatus(err) == -1 {
					log.Printf("client: subscription read: %v", err)
				}
				return
			}
			if event.Type != "change" {
				continue
			}
			var change Change
			if err := json.Unmarshal(event.Payload, &change); err != nil {
				log.Printf("client: bad change payload: %v", err)
				continue
			}
			cb(change)
		}
	}()

	return sub, nil
}

func httpToWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}
