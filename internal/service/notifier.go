package service

// Row-change actions published to realtime subscribers.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Notifier fans out row-change events after successful writes. Implemented
// by the WebSocket hub; a no-op implementation is fine for tests.
type Notifier interface {
	NotifyChange(table, action string, record any)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) NotifyChange(table, action string, record any) {}
