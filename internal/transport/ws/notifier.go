package ws

import (
	"encoding/json"
	"fmt"
	"log"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyChange(table, action string, record any) {
	raw, err := json.Marshal(record)
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastChange(table, action, raw, recordFields(raw))
}

// recordFields flattens the record's top-level values to strings so topic
// filters can match them.
func recordFields(raw json.RawMessage) map[string]string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	fields := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64, bool:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields
}
